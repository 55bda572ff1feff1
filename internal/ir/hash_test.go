package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkHashDeterminism(t *testing.T) {
	h1, err := NetworkHash(sampleNetwork())
	require.NoError(t, err)
	h2, err := NetworkHash(sampleNetwork())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "NetworkHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestNetworkHashChangesWithContent(t *testing.T) {
	base := MustNetworkHash(sampleNetwork())

	coeff := sampleNetwork()
	coeff.Forward[2][0].SetInt64(2)

	kind := sampleNetwork()
	kind.Species[2].Kind = KindCe

	renamed := sampleNetwork()
	renamed.Reactions[0].Name = "R9"

	assert.NotEqual(t, base, MustNetworkHash(coeff), "coefficient change must change the hash")
	assert.NotEqual(t, base, MustNetworkHash(kind), "kind change must change the hash")
	assert.NotEqual(t, base, MustNetworkHash(renamed), "rename must change the hash")
}

func TestNetworkHashIgnoresDisplayName(t *testing.T) {
	a := sampleNetwork()
	b := sampleNetwork()
	b.Name = "other"

	assert.Equal(t, MustNetworkHash(a), MustNetworkHash(b))
}

func TestDerivationKeySeparatesInputs(t *testing.T) {
	h := MustNetworkHash(sampleNetwork())

	c := Ceilings{LinearSpecies: 8, DiagramEdges: 64, Terms: 20000}
	k1, err := DerivationKey(h, "linear", "R1", c)
	require.NoError(t, err)
	k2, err := DerivationKey(h, "diagram", "R1", c)
	require.NoError(t, err)
	k3, err := DerivationKey(h, "linear", "R2", c)
	require.NoError(t, err)
	tight := c
	tight.Terms = 10
	k4, err := DerivationKey(h, "linear", "R1", tight)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4, "ceilings must be part of the key")
	assert.NotEqual(t, h, k1, "domains must separate network hashes from derivation keys")
}

func TestHashWithDomainSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc".
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}
