package snapshotstore

import (
	"encoding/hex"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
)

// Snapshot is the saved content of one blackboard.
type Snapshot struct {
	Blackboard string             `yaml:"blackboard"`
	SavedAt    time.Time          `yaml:"saved_at"`
	Digest     string             `yaml:"digest"`
	Entries    []blackboard.Entry `yaml:"entries"`
}

// Take exports bb into a sealed snapshot.
func Take(bb *blackboard.Blackboard) (*Snapshot, error) {
	entries, err := bb.Save()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Blackboard: bb.Name(),
		SavedAt:    time.Now().UTC(),
		Digest:     Digest(entries),
		Entries:    entries,
	}, nil
}

// Digest is the hex blake3 hash of entries, in order.
func Digest(entries []blackboard.Entry) string {
	h := blake3.New(32, nil)
	for _, e := range entries {
		for _, field := range []string{e.Name, e.Type, e.Payload} {
			fmt.Fprintf(h, "%d:%s", len(field), field)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks the entries against the recorded digest.
func (s *Snapshot) Verify() error {
	if got := Digest(s.Entries); got != s.Digest {
		return fmt.Errorf("%w: blackboard %q: recorded %s, computed %s", ErrDigestMismatch, s.Blackboard, s.Digest, got)
	}
	return nil
}

// Restore verifies the snapshot and loads its entries into bb.
func (s *Snapshot) Restore(bb *blackboard.Blackboard) error {
	if err := s.Verify(); err != nil {
		return err
	}
	return bb.Load(s.Entries)
}

// Marshal encodes a snapshot for byte-oriented backends.
func Marshal(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes what Marshal produced.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}
