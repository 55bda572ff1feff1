package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const derivationColumns = `key, network_hash, network_name, method, reaction, num, den, run_id, engine_version, ir_version, seq`

type scanner interface {
	Scan(dest ...any) error
}

func scanDerivation(row scanner) (Derivation, error) {
	var d Derivation
	var num, den string
	if err := row.Scan(&d.Key, &d.NetworkHash, &d.Network, &d.Method, &d.Reaction,
		&num, &den, &d.RunID, &d.EngineVersion, &d.IRVersion, &d.Seq); err != nil {
		return Derivation{}, err
	}
	var err error
	if d.Num, err = unmarshalPoly(num); err != nil {
		return Derivation{}, fmt.Errorf("derivation %s: %w", d.Key, err)
	}
	if d.Den, err = unmarshalPoly(den); err != nil {
		return Derivation{}, fmt.Errorf("derivation %s: %w", d.Key, err)
	}
	return d, nil
}

// ReadDerivation returns the derivation stored under key. The boolean is
// false when no row exists.
func (s *Store) ReadDerivation(ctx context.Context, key string) (Derivation, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+derivationColumns+` FROM derivations WHERE key = ?`, key)
	d, err := scanDerivation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Derivation{}, false, nil
	}
	if err != nil {
		return Derivation{}, false, fmt.Errorf("read derivation: %w", err)
	}
	return d, true, nil
}

// ListDerivations returns every derivation of a network ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListDerivations(ctx context.Context, networkHash string) ([]Derivation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+derivationColumns+`
		FROM derivations
		WHERE network_hash = ?
		ORDER BY seq ASC
	`, networkHash)
	if err != nil {
		return nil, fmt.Errorf("query derivations: %w", err)
	}
	defer rows.Close()

	derivations := []Derivation{}
	for rows.Next() {
		d, err := scanDerivation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan derivation: %w", err)
		}
		derivations = append(derivations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derivations: %w", err)
	}
	return derivations, nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, bool, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, command, network_hash, seq FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Command, &r.NetworkHash, &r.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("read run: %w", err)
	}
	return r, true, nil
}

// CountDerivations returns the number of cached derivations.
func (s *Store) CountDerivations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM derivations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count derivations: %w", err)
	}
	return n, nil
}
