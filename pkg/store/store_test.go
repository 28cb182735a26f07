package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// exercise runs the behaviour every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var recs []*BuildRecord
	for i := range 3 {
		rec := NewRecord("hash")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		rec.PUPaths = i
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		recs = append(recs, rec)
	}

	got, err := s.Get(ctx, recs[1].ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.PUPaths != 1 || !got.CreatedAt.Equal(recs[1].CreatedAt) {
		t.Errorf("Get = %+v, want record 1", got)
	}

	recs[1].PUPaths = 7
	if err := s.Save(ctx, recs[1]); err != nil {
		t.Fatalf("Save (replace) error: %v", err)
	}
	if got, _ := s.Get(ctx, recs[1].ID); got == nil || got.PUPaths != 7 {
		t.Errorf("Save should replace the record, got %+v", got)
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 || list[0].ID != recs[2].ID || list[1].ID != recs[1].ID {
		t.Errorf("List(2) should return the two newest records first")
	}

	if _, err := s.Get(ctx, NewRecord("x").ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	exercise(t, s)

	if _, err := s.Get(context.Background(), "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get with a malformed id should not touch the filesystem, got %v", err)
	}
	if err := s.Save(context.Background(), &BuildRecord{ID: "nope"}); err == nil {
		t.Error("Save should reject malformed ids")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FAREPATH_MONGO_URI")
	if uri == "" {
		t.Skip("FAREPATH_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "farepath_test_"+NewRecord("").ID[:8])
	if err != nil {
		t.Fatalf("NewMongoStore error: %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	}()
	exercise(t, s)
}

func TestListLimitDefault(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for range DefaultListLimit + 5 {
		if err := s.Save(ctx, NewRecord("h")); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := s.List(ctx, 0)
	if len(list) != DefaultListLimit {
		t.Errorf("List(0) returned %d records, want %d", len(list), DefaultListLimit)
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(NewRecord("h").ID) {
		t.Error("generated ids should be valid")
	}
	for _, id := range []string{"", "abc", "../x"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true, want false", id)
		}
	}
}
