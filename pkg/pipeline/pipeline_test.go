package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/farepath/pkg/cache"
	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/store"
)

const roundTrip = `
name = "lon par"

[[location]]
code = "LON"
nation = "GB"
area = "2"
subarea = "21"

[[location]]
code = "PAR"
nation = "FR"
area = "2"
subarea = "21"

[[itin.segment]]
from = "LON"
to = "PAR"
carrier = "BA"

[[itin.segment]]
from = "PAR"
to = "LON"
carrier = "BA"

[[market]]
id = "out"
segments = [1]
global_direction = "AT"

[[market]]
id = "in"
segments = [2]
global_direction = "AT"

[[path]]
markets = ["out", "in"]
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, ferrors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"text", []string{"text"}},
		{"svg, JSON ,svg", []string{"svg", "json"}},
		{" , ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Scenario: []byte(roundTrip)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if !reflect.DeepEqual(opts.Formats, []string{DefaultFormat}) {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}

	bad := []Options{
		{},
		{Scenario: []byte(roundTrip), Workers: -1},
		{Scenario: []byte(roundTrip), Formats: []string{"pdf"}},
	}
	for i, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestOptionsSource(t *testing.T) {
	if got := (&Options{ScenarioPath: "a.toml"}).Source(); got != "a.toml" {
		t.Errorf("Source() = %q, want a.toml", got)
	}
	if got := (&Options{Scenario: []byte("x"), ScenarioPath: "a.toml"}).Source(); got != "inline" {
		t.Errorf("Source() = %q, want inline", got)
	}
}

func newRunner(t *testing.T) (*Runner, *store.MemoryStore) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	s := store.NewMemoryStore()
	r := NewRunner(c, nil, s, nil)
	t.Cleanup(func() { r.Close() })
	return r, s
}

func TestExecute(t *testing.T) {
	r, s := newRunner(t)
	ctx := context.Background()

	opts := Options{Scenario: []byte(roundTrip), Formats: []string{"text", "json", "dot"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.CacheInfo.Hit {
		t.Error("first run should miss the cache")
	}
	if res.Matrix == nil {
		t.Fatal("Matrix is nil")
	}
	if res.Summary.Name != "lon par" || res.Summary.PUPaths != 2 || res.Summary.UniquePUs != 3 {
		t.Errorf("Summary = %+v, want lon par with 2 paths and 3 units", res.Summary)
	}
	if res.Summary.Factories != 3 {
		t.Errorf("Factories = %d, want 3", res.Summary.Factories)
	}
	if !strings.Contains(string(res.Artifacts["text"]), "PU PATHS 2") {
		t.Errorf("text artifact missing summary:\n%s", res.Artifacts["text"])
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %q, want a digraph", res.Artifacts["dot"])
	}
	var doc map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Errorf("json artifact: %v", err)
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !again.CacheInfo.Hit || again.Matrix != nil {
		t.Errorf("second run hit = %v matrix = %v, want a cache hit", again.CacheInfo.Hit, again.Matrix)
	}
	if again.ScenarioHash != res.ScenarioHash {
		t.Errorf("hash changed: %s != %s", again.ScenarioHash, res.ScenarioHash)
	}
	if string(again.Artifacts["text"]) != string(res.Artifacts["text"]) {
		t.Error("cached text artifact differs")
	}
	if again.Summary.PUPaths != 2 {
		t.Errorf("cached Summary.PUPaths = %d, want 2", again.Summary.PUPaths)
	}

	refresh := opts
	refresh.Refresh = true
	fresh, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if fresh.CacheInfo.Hit {
		t.Error("refresh should bypass the cache")
	}

	recs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d, want 3", len(recs))
	}
	hits := 0
	for _, rec := range recs {
		if rec.CacheHit {
			hits++
		}
		if rec.ScenarioHash != res.ScenarioHash || rec.PUPaths != 2 {
			t.Errorf("record = %+v, want hash %s and 2 paths", rec, res.ScenarioHash)
		}
	}
	if hits != 1 {
		t.Errorf("cache hit records = %d, want 1", hits)
	}
}

func TestExecuteConfigOverridesKey(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Scenario: []byte(roundTrip)}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	res, err := r.Execute(ctx, Options{Scenario: []byte(roundTrip), OnlyOWFares: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.CacheInfo.Hit {
		t.Error("different engine settings must not share a cache entry")
	}
	if res.Summary.PUPaths != 1 {
		t.Errorf("only OW PUPaths = %d, want 1", res.Summary.PUPaths)
	}
}

func TestExecuteFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rt.toml")
	if err := os.WriteFile(path, []byte(roundTrip), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{ScenarioPath: path})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.RunID != "" {
		t.Errorf("RunID = %q, want empty without a store", res.RunID)
	}
	if len(res.Artifacts["text"]) == 0 {
		t.Error("missing text artifact")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code ferrors.Code
	}{
		{"missing file", Options{ScenarioPath: "does/not/exist.toml"}, ferrors.ErrCodeNotFound},
		{"bad scenario", Options{Scenario: []byte("[[path]]\nmarkets = [\"nope\"]\n")}, ferrors.ErrCodeInvalidScenario},
		{"bad format", Options{Scenario: []byte(roundTrip), Formats: []string{"gif"}}, ferrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !ferrors.Is(err, tt.code) {
				t.Errorf("Execute error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExampleScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "scenarios", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil, nil)
	n := 0
	for _, f := range files {
		if filepath.Base(f) == "world.toml" {
			continue
		}
		n++
		t.Run(filepath.Base(f), func(t *testing.T) {
			res, err := r.Execute(context.Background(), Options{ScenarioPath: f, Formats: []string{"text", "json", "dot"}})
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			if res.Summary.PUPaths == 0 {
				t.Errorf("no pu paths built for %s", f)
			}
		})
	}
	if n == 0 {
		t.Fatal("no example scenarios found")
	}
}
