package io

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/gosphere/comm"
	"github.com/phil-mansfield/gosphere/store"
)

// Manifest describes one shard's checkpoint file. It is written next to the
// binary file so that a restart can be checked before it is read.
type Manifest struct {
	Shard     int      `yaml:"shard"`
	Particles int      `yaml:"particles"`
	Slots     int      `yaml:"slots"`
	Dimension int      `yaml:"dimension"`
	Types     int      `yaml:"types"`
	Modules   []string `yaml:"modules,omitempty"`
}

// NewManifest describes the checkpoint c would write for s.
func NewManifest(shard int, s *store.Store, c *comm.Codec) *Manifest {
	return &Manifest{
		Shard:     shard,
		Particles: s.N,
		Slots:     c.SizeRestart(s),
		Dimension: s.Dimension,
		Types:     s.Types,
		Modules:   s.Ext.Names(),
	}
}

func WriteManifest(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return enc.Close()
}

func ReadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	m := &Manifest{}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

// Check returns an error if a checkpoint described by m cannot be restored
// into s. Modules which were registered when the checkpoint was written but
// are not registered in s are only logged: their payload is kept as
// unclaimed restart data.
func (m *Manifest) Check(s *store.Store) error {
	if m.Dimension != s.Dimension {
		return fmt.Errorf(
			"Checkpoint of shard %d is %d-dimensional, but the store is %d-dimensional.",
			m.Shard, m.Dimension, s.Dimension,
		)
	} else if m.Types > s.Types {
		return fmt.Errorf(
			"Checkpoint of shard %d has %d particle types, but the store has %d.",
			m.Shard, m.Types, s.Types,
		)
	}

	names := s.Ext.Names()
	for k, name := range m.Modules {
		if k >= len(names) || names[k] != name {
			log.Warn().Int("shard", m.Shard).Strs("written", m.Modules).
				Strs("registered", names).
				Msg("checkpoint modules differ from registered modules")
			break
		}
	}
	return nil
}
