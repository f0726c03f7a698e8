package vars

import (
	"math/rand/v2"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/task"
)

// Probability holds with the given chance, drawn anew on every check.
type Probability struct {
	Chance blackboard.Param[float64] `arg:"chance,required"`
	Rand   *rand.Rand
}

func (p *Probability) Bindings() []task.Binding {
	return []task.Binding{{Field: "chance", Param: &p.Chance}}
}

func (p *Probability) Check(any, *blackboard.Blackboard) bool {
	draw := rand.Float64
	if p.Rand != nil {
		draw = p.Rand.Float64
	}
	return draw() < p.Chance.Get()
}
