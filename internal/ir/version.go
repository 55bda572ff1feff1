package ir

// Version constants for the IR schema and the derivation engine.
const (
	// IRVersion is the network IR schema version.
	IRVersion = "1"

	// EngineVersion is the bondgraph derivation engine version. It is part of
	// every cache key so stale derivations are never served after an upgrade.
	EngineVersion = "0.3.0"
)
