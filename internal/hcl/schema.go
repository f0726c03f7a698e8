package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// rootSchema lists every top-level block a file may contain.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "blackboard", LabelNames: []string{"name"}},
		{Type: "tree", LabelNames: []string{"name"}},
		{Type: "fsm", LabelNames: []string{"name"}},
	},
}

// The structs below are decoded with gohcl from block bodies; the labels and
// ranges come from the enclosing hcl.Block.

type blackboardBody struct {
	Shared    bool     `hcl:"shared,optional"`
	Variables hcl.Body `hcl:",remain"`
}

type variableBody struct {
	Type    hcl.Expression `hcl:"type,optional"`
	Default hcl.Expression `hcl:"default,optional"`
}

type treeBody struct {
	Blackboard string   `hcl:"blackboard,optional"`
	Repeat     bool     `hcl:"repeat,optional"`
	Interval   string   `hcl:"interval,optional"`
	Remain     hcl.Body `hcl:",remain"`
}

type fsmBody struct {
	Blackboard string   `hcl:"blackboard,optional"`
	Initial    string   `hcl:"initial,optional"`
	Remain     hcl.Body `hcl:",remain"`
}

type anyStateBody struct {
	Retrigger bool     `hcl:"retrigger,optional"`
	Remain    hcl.Body `hcl:",remain"`
}

var (
	variableSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "variable", LabelNames: []string{"name"}},
		},
	}
	treeSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "node", LabelNames: []string{"kind", "name"}},
		},
	}
	fsmSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "state", LabelNames: []string{"name"}},
			{Type: "any_state"},
		},
	}
	transitionsSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "transition", LabelNames: []string{"to"}},
		},
	}
	// Bodies below mix free-form argument attributes with these blocks.
	nodeSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "node", LabelNames: []string{"kind", "name"}},
			{Type: "action", LabelNames: []string{"kind"}},
			{Type: "condition", LabelNames: []string{"kind"}},
			{Type: "edge"},
		},
	}
	stateSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "action", LabelNames: []string{"kind"}},
			{Type: "transition", LabelNames: []string{"to"}},
		},
	}
	taskSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "condition", LabelNames: []string{"kind"}},
		},
	}
)
