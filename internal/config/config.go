// Package config loads the TOML configuration document each fesca role
// reads at startup (spec.md §6), using go-toml/v2 the way the rest of the
// ambient stack uses zap/cobra: a small typed struct decoded straight from
// the file, no bespoke parsing.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/fesca-project/fesca/internal/fescaerr"
)

// ComputingNode is one entry of the computing_nodes list: where a party
// listens for the gRPC services in internal/transport.
type ComputingNode struct {
	PartyID int    `toml:"party_id"`
	Address string `toml:"address"`
}

// DataOwner is the data-owner identity block, present only in a
// data-owner's configuration document.
type DataOwner struct {
	OwnerID   string `toml:"owner_id"`
	OwnerName string `toml:"owner_name"`
}

// Config is the full document: the ring topology every role needs, plus
// the data-owner block a data-owner process additionally requires.
type Config struct {
	ComputingNodes []ComputingNode `toml:"computing_nodes"`
	DataOwner      DataOwner       `toml:"data_owner"`
	DataPath       string          `toml:"data_path"`
}

// Load reads and decodes the TOML document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fescaerr.Wrap(fescaerr.StorageError, path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fescaerr.Wrap(fescaerr.ParseError, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants every role depends on: exactly three
// computing nodes, each with a distinct party id in {1,2,3}.
func (c *Config) Validate() error {
	if len(c.ComputingNodes) != 3 {
		return fescaerr.New(fescaerr.SchemaError, "computing_nodes must list exactly three parties")
	}
	seen := map[int]bool{}
	for _, n := range c.ComputingNodes {
		if n.PartyID < 1 || n.PartyID > 3 {
			return fescaerr.New(fescaerr.SchemaError, "party_id must be 1, 2, or 3")
		}
		if seen[n.PartyID] {
			return fescaerr.New(fescaerr.SchemaError, "duplicate party_id in computing_nodes")
		}
		seen[n.PartyID] = true
		if n.Address == "" {
			return fescaerr.New(fescaerr.SchemaError, "computing node is missing an address")
		}
	}
	return nil
}
