// Package store persists build records.
//
// Every pipeline run is recorded with its scenario hash, timing and
// result counts so that runs can be listed and looked up later. Three
// backends exist:
//   - [MemoryStore] for tests and single process servers
//   - [FileStore] for the CLI, one JSON file per record
//   - [MongoStore] for shared server deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("build record not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 20

// BuildRecord summarizes one pipeline run.
type BuildRecord struct {
	ID           string        `json:"id" bson:"_id"`
	ScenarioName string        `json:"scenario_name,omitempty" bson:"scenario_name,omitempty"`
	ScenarioHash string        `json:"scenario_hash" bson:"scenario_hash"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	CacheHit     bool          `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`

	InputPaths int  `json:"input_paths" bson:"input_paths"`
	BuiltPaths int  `json:"built_paths" bson:"built_paths"`
	Truncated  bool `json:"truncated,omitempty" bson:"truncated,omitempty"`
	PUPaths    int  `json:"pu_paths" bson:"pu_paths"`
	UniquePUs  int  `json:"unique_pus" bson:"unique_pus"`

	Formats []string `json:"formats,omitempty" bson:"formats,omitempty"`
}

// NewRecord returns a record with a fresh ID and creation time.
func NewRecord(scenarioHash string) *BuildRecord {
	return &BuildRecord{
		ID:           uuid.NewString(),
		ScenarioHash: scenarioHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Store persists build records.
type Store interface {
	// Save inserts or replaces the record with the same ID.
	Save(ctx context.Context, rec *BuildRecord) error

	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*BuildRecord, error)

	// List returns the newest records first, at most limit of them.
	List(ctx context.Context, limit int) ([]*BuildRecord, error)

	Close() error
}

// ValidID reports whether id has the form of a record ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}
