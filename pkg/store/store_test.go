package store

import (
	"context"
	"testing"

	"github.com/graphscape/graphscape/pkg/errors"
	"github.com/graphscape/graphscape/pkg/geometry"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	rec := &LayoutRecord{
		RunID:      "run-1",
		GraphHash:  "ghash",
		ConfigHash: "chash",
		Positions: map[string]geometry.Vector3{
			"a": {X: 1, Y: 2, Z: 3},
		},
		Stats: RunStats{Iterations: 120, Converged: true},
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load(ctx, "ghash", "chash")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.RunID != "run-1" || got.Positions["a"] != (geometry.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("loaded record mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped on save")
	}
	if got.Stats.Iterations != 120 || !got.Stats.Converged {
		t.Errorf("stats mismatch: %+v", got.Stats)
	}
}

func TestMemoryStore_LoadMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Load(context.Background(), "ghash", "chash")
	if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Load missing: error = %v, want %s", err, errors.ErrCodeLayoutNotFound)
	}
}

func TestMemoryStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &LayoutRecord{RunID: "run-1", GraphHash: "g", ConfigHash: "c"}
	second := &LayoutRecord{RunID: "run-2", GraphHash: "g", ConfigHash: "c"}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load(ctx, "g", "c")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.RunID != "run-2" {
		t.Errorf("RunID = %s, want run-2 (same keys replace)", got.RunID)
	}
}

func TestMemoryStore_DifferentConfigsDistinct(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Save(ctx, &LayoutRecord{RunID: "exact", GraphHash: "g", ConfigHash: "c1"})
	_ = s.Save(ctx, &LayoutRecord{RunID: "bh", GraphHash: "g", ConfigHash: "c2"})

	got, err := s.Load(ctx, "g", "c1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.RunID != "exact" {
		t.Errorf("RunID = %s, want exact", got.RunID)
	}
}
