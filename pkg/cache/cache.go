// Package cache stores build results between runs.
//
// A [Cache] is a byte store with expiry. Three backends exist:
//
//   - [FileCache] keeps entries as JSON files under a directory, for the CLI.
//   - [RedisCache] shares entries between server instances.
//   - [NullCache] disables caching.
//
// Keys come from a [Keyer], so every caller derives the same key from the
// same scenario content and options:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.MatrixKey(cache.Hash(scenario), cache.MatrixKeyOpts{MaxPUPaths: 5000})
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store with per entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the entry and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes.
const (
	// TTLMatrix is how long a built matrix summary stays valid. Reference
	// data is part of the scenario hash, so entries never go stale; the
	// TTL only bounds disk and memory use.
	TTLMatrix = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay valid.
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// MatrixKeyOpts are the engine settings that change a build result.
type MatrixKeyOpts struct {
	OnlyOWFares           bool `json:"only_ow,omitempty"`
	ReducedConstructions  bool `json:"reduced,omitempty"`
	SpecialOpenJaw        bool `json:"special_oj,omitempty"`
	DiffCountryNMLOpenJaw bool `json:"diff_country_nml_oj,omitempty"`
	CarrierPreferences    bool `json:"cxr_pref,omitempty"`
	MaxPUPaths            int  `json:"max_pu_paths,omitempty"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	MaxPaths int    `json:"max_paths,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// MatrixKey keys a build of the scenario with the given content hash.
	MatrixKey(scenarioHash string, opts MatrixKeyOpts) string

	// ArtifactKey keys one rendered format of a build.
	ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MatrixKey implements Keyer.
func (DefaultKeyer) MatrixKey(scenarioHash string, opts MatrixKeyOpts) string {
	return hashKey("matrix", scenarioHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(matrixHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", matrixHash, opts)
}
