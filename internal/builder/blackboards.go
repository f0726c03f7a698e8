package builder

import (
	"fmt"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/config"
)

// SharedBlackboards creates and registers every shared store of the model.
// Stores already registered in the session are left alone.
func (b *Builder) SharedBlackboards() error {
	for _, def := range b.model.Blackboards {
		if !def.Shared {
			continue
		}
		if _, ok := b.sess.Blackboards.Lookup(def.Name); ok {
			continue
		}
		bb, err := b.sess.SharedBlackboard(def.Name)
		if err != nil {
			return err
		}
		if err := populate(bb, def); err != nil {
			return fmt.Errorf("%s: blackboard %q: %w", def.Source.Range, def.Name, err)
		}
	}
	return nil
}

// Blackboard returns the store a graph named owner runs against. A shared
// definition resolves to the session's instance; a private one yields a new
// store each call. An empty name yields an empty private store.
func (b *Builder) Blackboard(name, owner string) (*blackboard.Blackboard, error) {
	if name == "" {
		return b.sess.NewBlackboard(owner), nil
	}
	def, ok := b.model.Blackboard(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBlackboard, name)
	}
	if def.Shared {
		if err := b.SharedBlackboards(); err != nil {
			return nil, err
		}
		bb, _ := b.sess.Blackboards.Lookup(name)
		return bb, nil
	}

	bb := b.sess.NewBlackboard(owner)
	if err := populate(bb, def); err != nil {
		return nil, fmt.Errorf("%s: blackboard %q: %w", def.Source.Range, def.Name, err)
	}
	return bb, nil
}

func populate(bb *blackboard.Blackboard, def *config.BlackboardDef) error {
	for _, v := range def.Variables {
		slot, err := bb.AddVariable(v.Name, v.Type)
		if err != nil {
			return err
		}
		if v.Default == nil {
			continue
		}
		if err := slot.Set(*v.Default); err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
	}
	return nil
}
