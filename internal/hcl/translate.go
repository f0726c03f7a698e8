package hcl

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
)

func source(r hcl.Range) config.Source {
	return config.Source{File: r.Filename, Range: r}
}

func errorDiag(summary string, r hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{Severity: hcl.DiagError, Summary: summary, Subject: r.Ptr()}
}

// translateFile converts the top-level blocks of one file.
func translateFile(ctx context.Context, body hcl.Body) (*config.Model, hcl.Diagnostics) {
	content, diags := body.Content(rootSchema)
	m := &config.Model{}
	for _, block := range content.Blocks {
		switch block.Type {
		case "blackboard":
			b, d := translateBlackboard(ctx, block)
			diags = append(diags, d...)
			m.Blackboards = append(m.Blackboards, b)
		case "tree":
			t, d := translateTree(block)
			diags = append(diags, d...)
			m.Trees = append(m.Trees, t)
		case "fsm":
			f, d := translateMachine(block)
			diags = append(diags, d...)
			m.Machines = append(m.Machines, f)
		}
	}
	return m, diags
}

func translateBlackboard(ctx context.Context, block *hcl.Block) (*config.BlackboardDef, hcl.Diagnostics) {
	def := &config.BlackboardDef{Name: block.Labels[0], Source: source(block.DefRange)}

	var b blackboardBody
	diags := gohcl.DecodeBody(block.Body, nil, &b)
	if diags.HasErrors() {
		return def, diags
	}
	def.Shared = b.Shared

	content, d := b.Variables.Content(variableSchema)
	diags = append(diags, d...)
	for _, vb := range content.Blocks {
		v, d := translateVariable(ctx, vb)
		diags = append(diags, d...)
		def.Variables = append(def.Variables, v)
	}
	return def, diags
}

// translateVariable processes a single variable block, handling its type
// and default value.
func translateVariable(ctx context.Context, block *hcl.Block) (*config.VariableDef, hcl.Diagnostics) {
	def := &config.VariableDef{Name: block.Labels[0], Type: cty.DynamicPseudoType}

	var v variableBody
	diags := gohcl.DecodeBody(block.Body, nil, &v)
	if diags.HasErrors() {
		return def, diags
	}

	if isExprDefined(ctx, v.Type, "type") {
		typ, err := typeExprToCtyType(ctx, v.Type)
		if err != nil {
			return def, append(diags, errorDiag(fmt.Sprintf("variable %q: %s", def.Name, err), v.Type.Range()))
		}
		def.Type = typ
	}

	if isExprDefined(ctx, v.Default, "default") {
		val, d := v.Default.Value(nil)
		if d.HasErrors() {
			return def, append(diags, d...)
		}
		if !val.IsNull() {
			converted, err := convert.Convert(val, def.Type)
			if err != nil {
				return def, append(diags, errorDiag(fmt.Sprintf("variable %q: default does not match type %s: %s", def.Name, def.Type.FriendlyName(), err), v.Default.Range()))
			}
			def.Default = &converted
		}
	}
	return def, diags
}

func translateTree(block *hcl.Block) (*config.TreeDef, hcl.Diagnostics) {
	def := &config.TreeDef{Name: block.Labels[0], Source: source(block.DefRange)}

	var t treeBody
	diags := gohcl.DecodeBody(block.Body, nil, &t)
	if diags.HasErrors() {
		return def, diags
	}
	def.Blackboard = t.Blackboard
	def.Repeat = t.Repeat
	if t.Interval != "" {
		interval, err := time.ParseDuration(t.Interval)
		if err != nil {
			diags = append(diags, errorDiag(fmt.Sprintf("tree %q: invalid interval: %s", def.Name, err), block.DefRange))
		}
		def.Interval = interval
	}

	content, d := t.Remain.Content(treeSchema)
	diags = append(diags, d...)
	if len(content.Blocks) != 1 {
		return def, append(diags, errorDiag(fmt.Sprintf("tree %q must have exactly one root node, found %d", def.Name, len(content.Blocks)), block.DefRange))
	}
	root, d := translateNode(content.Blocks[0])
	def.Root = root
	return def, append(diags, d...)
}

func translateNode(block *hcl.Block) (*config.NodeDef, hcl.Diagnostics) {
	def := &config.NodeDef{Kind: block.Labels[0], Name: block.Labels[1], Source: source(block.DefRange)}

	content, _, diags := block.Body.PartialContent(nodeSchema)
	attrs, d := argumentAttributes(block.Body, nodeSchema)
	diags = append(diags, d...)
	def.Args = translateArgs(attrs)

	for _, b := range content.Blocks {
		switch b.Type {
		case "node":
			child, d := translateNode(b)
			diags = append(diags, d...)
			def.Children = append(def.Children, child)
		case "action":
			if def.Action != nil {
				diags = append(diags, errorDiag(fmt.Sprintf("node %q has more than one action", def.Name), b.DefRange))
				continue
			}
			t, d := translateTask(b)
			diags = append(diags, d...)
			def.Action = t
		case "condition":
			if def.Condition != nil {
				diags = append(diags, errorDiag(fmt.Sprintf("node %q has more than one condition; combine them with \"all\" or \"any\"", def.Name), b.DefRange))
				continue
			}
			t, d := translateTask(b)
			diags = append(diags, d...)
			def.Condition = t
		case "edge":
			edgeAttrs, d := b.Body.JustAttributes()
			diags = append(diags, d...)
			def.Edge = translateArgs(edgeAttrs)
		}
	}
	return def, diags
}

func translateTask(block *hcl.Block) (*config.TaskDef, hcl.Diagnostics) {
	def := &config.TaskDef{Kind: block.Labels[0], Source: source(block.DefRange)}

	content, _, diags := block.Body.PartialContent(taskSchema)
	attrs, d := argumentAttributes(block.Body, taskSchema)
	diags = append(diags, d...)
	def.Args = translateArgs(attrs)

	for _, b := range content.Blocks {
		child, d := translateTask(b)
		diags = append(diags, d...)
		def.Children = append(def.Children, child)
	}
	return def, diags
}

func translateMachine(block *hcl.Block) (*config.MachineDef, hcl.Diagnostics) {
	def := &config.MachineDef{Name: block.Labels[0], Source: source(block.DefRange)}

	var f fsmBody
	diags := gohcl.DecodeBody(block.Body, nil, &f)
	if diags.HasErrors() {
		return def, diags
	}
	def.Blackboard = f.Blackboard
	def.Initial = f.Initial

	content, d := f.Remain.Content(fsmSchema)
	diags = append(diags, d...)
	for _, b := range content.Blocks {
		switch b.Type {
		case "state":
			s, d := translateState(b)
			diags = append(diags, d...)
			def.States = append(def.States, s)
		case "any_state":
			var a anyStateBody
			if d := gohcl.DecodeBody(b.Body, nil, &a); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			def.AnyRetrigger = def.AnyRetrigger || a.Retrigger
			tc, d := a.Remain.Content(transitionsSchema)
			diags = append(diags, d...)
			for _, tb := range tc.Blocks {
				tr, d := translateTransition(tb)
				diags = append(diags, d...)
				def.Any = append(def.Any, tr)
			}
		}
	}
	return def, diags
}

func translateState(block *hcl.Block) (*config.StateDef, hcl.Diagnostics) {
	def := &config.StateDef{Name: block.Labels[0], Source: source(block.DefRange)}

	content, _, diags := block.Body.PartialContent(stateSchema)
	attrs, d := argumentAttributes(block.Body, stateSchema)
	diags = append(diags, d...)
	def.Args = translateArgs(attrs)

	for _, b := range content.Blocks {
		switch b.Type {
		case "action":
			if def.Action != nil {
				diags = append(diags, errorDiag(fmt.Sprintf("state %q has more than one action", def.Name), b.DefRange))
				continue
			}
			t, d := translateTask(b)
			diags = append(diags, d...)
			def.Action = t
		case "transition":
			tr, d := translateTransition(b)
			diags = append(diags, d...)
			def.Transitions = append(def.Transitions, tr)
		}
	}
	return def, diags
}

func translateTransition(block *hcl.Block) (*config.TransitionDef, hcl.Diagnostics) {
	def := &config.TransitionDef{To: block.Labels[0], Source: source(block.DefRange)}

	content, diags := block.Body.Content(taskSchema)
	switch len(content.Blocks) {
	case 0:
	case 1:
		c, d := translateTask(content.Blocks[0])
		diags = append(diags, d...)
		def.Condition = c
	default:
		diags = append(diags, errorDiag(fmt.Sprintf("transition to %q has more than one condition; combine them with \"all\" or \"any\"", def.To), block.DefRange))
	}
	return def, diags
}

// argumentAttributes returns the free-form attributes of a body whose blocks
// are described by schema. Blocks outside schema are reported.
func argumentAttributes(body hcl.Body, schema *hcl.BodySchema) (hcl.Attributes, hcl.Diagnostics) {
	sb, ok := body.(*hclsyntax.Body)
	if !ok {
		_, remain, diags := body.PartialContent(schema)
		attrs, d := remain.JustAttributes()
		return attrs, append(diags, d...)
	}

	var diags hcl.Diagnostics
	for _, b := range sb.Blocks {
		if !slices.ContainsFunc(schema.Blocks, func(h hcl.BlockHeaderSchema) bool { return h.Type == b.Type }) {
			diags = append(diags, errorDiag(fmt.Sprintf("Unexpected %q block; blocks of this type are not allowed here", b.Type), b.TypeRange))
		}
	}
	attrs := make(hcl.Attributes, len(sb.Attributes))
	for name, a := range sb.Attributes {
		if slices.ContainsFunc(schema.Attributes, func(s hcl.AttributeSchema) bool { return s.Name == name }) {
			continue
		}
		attrs[name] = a.AsHCLAttribute()
	}
	return attrs, diags
}

func translateArgs(attrs hcl.Attributes) config.Args {
	if len(attrs) == 0 {
		return nil
	}
	args := make(config.Args, len(attrs))
	for name, attr := range attrs {
		args[name] = translateArg(attr.Expr)
	}
	return args
}

// translateArg classifies one argument expression. A bare `var.x` or
// `shared.store.x` traversal is a variable reference; anything else is
// evaluated as a constant. Expressions that cannot be evaluated without a
// scope keep only Expr.
func translateArg(expr hcl.Expression) config.Arg {
	if ref, ok := refOf(expr); ok {
		return config.Arg{Ref: ref, Expr: expr}
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Arg{Expr: expr}
	}
	return config.Arg{Value: val, Expr: expr}
}

func refOf(expr hcl.Expression) (string, bool) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return "", false
	}
	var names []string
	for _, step := range traversal {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			names = append(names, s.Name)
		case hcl.TraverseAttr:
			names = append(names, s.Name)
		default:
			return "", false
		}
	}
	switch {
	case len(names) == 2 && names[0] == "var":
		return names[1], true
	case len(names) == 3 && names[0] == "shared":
		return names[1] + blackboard.Separator + names[2], true
	}
	return "", false
}

// isExprDefined checks if an HCL expression was actually present in the
// source. gohcl populates omitted optional expression fields with
// zero-width placeholders, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.", "attribute", attrName, "hcl_range", r.String(), "is_defined", isDefined)
	return isDefined
}
