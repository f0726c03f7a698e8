package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/config"
	"github.com/specialistvlad/tickgraph/internal/ctxlog"
)

// Validate checks that every kind the model uses is registered, before any
// graph is built.
func (r *Registry) Validate(ctx context.Context, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error

	var checkTask func(where string, def *config.TaskDef, action bool)
	checkTask = func(where string, def *config.TaskDef, action bool) {
		if def == nil {
			return
		}
		if action {
			if _, ok := r.actions[def.Kind]; !ok {
				errs = append(errs, fmt.Errorf("%s: unknown action kind %q", where, def.Kind))
			}
		} else if _, ok := r.conditions[def.Kind]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown condition kind %q", where, def.Kind))
		}
		for _, c := range def.Children {
			checkTask(where, c, false)
		}
	}

	var checkNode func(tree string, n *config.NodeDef)
	checkNode = func(tree string, n *config.NodeDef) {
		where := fmt.Sprintf("tree %q node %q", tree, n.Name)
		if _, ok := r.nodes[n.Kind]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown node kind %q", where, n.Kind))
		}
		checkTask(where, n.Action, true)
		checkTask(where, n.Condition, false)
		for _, c := range n.Children {
			checkNode(tree, c)
		}
	}

	for _, t := range m.Trees {
		if t.Root == nil {
			errs = append(errs, fmt.Errorf("tree %q: no root node", t.Name))
			continue
		}
		checkNode(t.Name, t.Root)
	}

	for _, fsm := range m.Machines {
		names := make(map[string]bool, len(fsm.States))
		for _, s := range fsm.States {
			names[s.Name] = true
		}
		if len(fsm.States) == 0 {
			errs = append(errs, fmt.Errorf("fsm %q: no states", fsm.Name))
		}
		if fsm.Initial != "" && !names[fsm.Initial] {
			errs = append(errs, fmt.Errorf("fsm %q: initial state %q is not declared", fsm.Name, fsm.Initial))
		}
		checkTransitions := func(from string, ts []*config.TransitionDef) {
			for _, tr := range ts {
				where := fmt.Sprintf("fsm %q transition %s -> %s", fsm.Name, from, tr.To)
				if !names[tr.To] {
					errs = append(errs, fmt.Errorf("%s: unknown target state", where))
				}
				checkTask(where, tr.Condition, false)
			}
		}
		for _, s := range fsm.States {
			checkTask(fmt.Sprintf("fsm %q state %q", fsm.Name, s.Name), s.Action, true)
			checkTransitions(s.Name, s.Transitions)
		}
		checkTransitions("any", fsm.Any)
	}

	for _, g := range graphsWithBlackboards(m) {
		if _, ok := m.Blackboard(g.blackboard); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown blackboard %q", g.where, g.blackboard))
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("Definition validation failed.", "problems", len(errs))
		return fmt.Errorf("definition validation failed: %w", err)
	}
	logger.Debug("Definitions validated.", "trees", len(m.Trees), "fsms", len(m.Machines), "blackboards", len(m.Blackboards))
	return nil
}

type bbUse struct {
	where      string
	blackboard string
}

func graphsWithBlackboards(m *config.Model) []bbUse {
	var out []bbUse
	for _, t := range m.Trees {
		if t.Blackboard != "" {
			out = append(out, bbUse{fmt.Sprintf("tree %q", t.Name), t.Blackboard})
		}
	}
	for _, f := range m.Machines {
		if f.Blackboard != "" {
			out = append(out, bbUse{fmt.Sprintf("fsm %q", f.Name), f.Blackboard})
		}
	}
	return out
}
