package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// Run is one command invocation that read or wrote the cache.
type Run struct {
	ID          string
	Command     string
	NetworkHash string
	Seq         int64
}

// Derivation is a cached steady-state flux.
type Derivation struct {
	Key           string
	NetworkHash   string
	Network       string
	Method        string
	Reaction      string
	Num           expr.Poly
	Den           expr.Poly
	RunID         string
	EngineVersion string
	IRVersion     string
	Seq           int64
}

// NewRunID returns a UUIDv7 run identifier. UUIDv7 ids sort by creation.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteRun records a run under a fresh id and returns it with its assigned
// seq.
func (s *Store) WriteRun(ctx context.Context, command, networkHash string) (Run, error) {
	run := Run{ID: NewRunID(), Command: command, NetworkHash: networkHash}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO runs (id, command, network_hash, seq)
		SELECT ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM runs
		RETURNING seq
	`, run.ID, run.Command, run.NetworkHash).Scan(&run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	return run, nil
}

// WriteDerivation inserts a derivation. Uses ON CONFLICT(key) DO NOTHING:
// a key already present keeps its first value. EngineVersion and IRVersion
// default to the running versions.
func (s *Store) WriteDerivation(ctx context.Context, d Derivation) error {
	num, err := marshalPoly(d.Num)
	if err != nil {
		return fmt.Errorf("write derivation: %w", err)
	}
	den, err := marshalPoly(d.Den)
	if err != nil {
		return fmt.Errorf("write derivation: %w", err)
	}
	if d.EngineVersion == "" {
		d.EngineVersion = ir.EngineVersion
	}
	if d.IRVersion == "" {
		d.IRVersion = ir.IRVersion
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO derivations
		(key, network_hash, network_name, method, reaction, num, den, run_id, engine_version, ir_version, seq)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM derivations WHERE true
		ON CONFLICT(key) DO NOTHING
	`,
		d.Key,
		d.NetworkHash,
		d.Network,
		d.Method,
		d.Reaction,
		num,
		den,
		d.RunID,
		d.EngineVersion,
		d.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write derivation: %w", err)
	}
	return nil
}
