package blackboard

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Entry is the persisted form of one slot: its name, its declared type and
// its payload, both JSON encoded.
type Entry struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Payload string `yaml:"payload" json:"payload"`
}

// Save exports every slot, in creation order.
func (b *Blackboard) Save() ([]Entry, error) {
	entries := make([]Entry, 0, len(b.order))
	for _, v := range b.Variables() {
		typ, err := ctyjson.MarshalType(v.typ)
		if err != nil {
			return nil, fmt.Errorf("blackboard %q: encoding type of %q: %w", b.name, v.name, err)
		}
		payload, err := ctyjson.Marshal(v.value, v.typ)
		if err != nil {
			return nil, fmt.Errorf("blackboard %q: encoding value of %q: %w", b.name, v.name, err)
		}
		entries = append(entries, Entry{Name: v.name, Type: string(typ), Payload: string(payload)})
	}
	return entries, nil
}

// Load rebuilds slots from entries. Existing slots with the same name are
// replaced; other slots are left alone. Nothing changes if any entry is
// malformed.
func (b *Blackboard) Load(entries []Entry) error {
	type decoded struct {
		name string
		typ  cty.Type
		val  cty.Value
	}
	all := make([]decoded, 0, len(entries))
	for _, e := range entries {
		typ, err := ctyjson.UnmarshalType([]byte(e.Type))
		if err != nil {
			return fmt.Errorf("blackboard %q: decoding type of %q: %w", b.name, e.Name, err)
		}
		val, err := ctyjson.Unmarshal([]byte(e.Payload), typ)
		if err != nil {
			return fmt.Errorf("blackboard %q: decoding value of %q: %w", b.name, e.Name, err)
		}
		all = append(all, decoded{name: e.Name, typ: typ, val: val})
	}

	for _, d := range all {
		if existing, ok := b.vars[d.name]; ok && !existing.typ.Equals(d.typ) {
			b.RemoveVariable(d.name)
		}
		v, ok := b.vars[d.name]
		if !ok {
			var err error
			if v, err = b.AddVariable(d.name, d.typ); err != nil {
				return err
			}
		}
		if err := v.Set(d.val); err != nil {
			return fmt.Errorf("blackboard %q: %w", b.name, err)
		}
	}
	return nil
}
