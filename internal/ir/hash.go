package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the hashing scheme to migrate.
const (
	DomainNetwork    = "bondgraph/network/v1"
	DomainDerivation = "bondgraph/derivation/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NetworkHash computes the content address of a network. Two networks that
// differ only in row or column order hash identically.
func NetworkHash(n *Network) (string, error) {
	canonical, err := MarshalCanonical(n.Canonical())
	if err != nil {
		return "", fmt.Errorf("NetworkHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNetwork, canonical), nil
}

// Ceilings are the solver bounds a derivation ran under. A result derived
// under one set of bounds may not exist under tighter ones.
type Ceilings struct {
	LinearSpecies int
	DiagramEdges  int
	Terms         int
}

// DerivationKey identifies one steady-state derivation: the network, the
// solver method, the reaction whose flux is reported and the ceilings.
// Order-dependent choices made by the solvers are covered by the engine
// version.
func DerivationKey(networkHash, method, reaction string, c Ceilings) (string, error) {
	obj := Object{
		"network":        String(networkHash),
		"method":         String(method),
		"reaction":       String(reaction),
		"engine_version": String(EngineVersion),
		"ceilings": Object{
			"linear_species": Int(c.LinearSpecies),
			"diagram_edges":  Int(c.DiagramEdges),
			"terms":          Int(c.Terms),
		},
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DerivationKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDerivation, canonical), nil
}

// MustNetworkHash is like NetworkHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNetworkHash(n *Network) string {
	h, err := NetworkHash(n)
	if err != nil {
		panic(err)
	}
	return h
}
