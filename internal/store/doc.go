// Package store is the SQLite derivation cache.
//
// A derivation is keyed by ir.DerivationKey: the content hash of the
// network, the solver method, the reaction, the solver ceilings and the
// engine version. Cached
// numerators and denominators are stored as exact term lists (expr.Poly
// JSON), so a hit reproduces the solver output exactly.
//
// Every command that touches the cache records a run with a UUIDv7 id;
// derivations reference the run that computed them.
//
// # Ordering
//
// All ordering uses the seq column (a logical clock), never timestamps.
// Queries that return several rows sort by seq ASC.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
