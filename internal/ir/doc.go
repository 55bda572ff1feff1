// Package ir provides the canonical intermediate representation of a
// bond-graph network.
//
// All other internal packages import ir; ir imports nothing internal. This
// keeps the network IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Stoichiometric coefficients are exact rationals (*big.Rat), never floats
//   - A Network is immutable after load; transformations return copies
//   - All JSON tags use snake_case
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for content hashes
package ir
