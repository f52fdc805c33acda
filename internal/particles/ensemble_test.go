package particles

import (
	"context"
	"testing"
)

func TestEnsembleIndependentSeeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Counts = Counts{A: 50, B: 50}
	e := NewEnsemble(cfg, 4, 100)

	results, err := e.Run(context.Background(), 300, false)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Steps != 300 {
			t.Errorf("run %d: expected 300 steps, got %d", i, res.Steps)
		}
		if res.Final.Atoms() != cfg.Counts.Atoms() {
			t.Errorf("run %d: atoms %d, want %d", i, res.Final.Atoms(), cfg.Counts.Atoms())
		}
	}

	member := cfg
	member.Seed = e.Seed(2)
	single := New(member)
	want, err := single.Run(context.Background(), 300, false)
	if err != nil {
		t.Fatal(err)
	}
	if results[2].Final != want.Final {
		t.Errorf("member 2 not reproducible: %+v vs %+v", results[2].Final, want.Final)
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnsemble(DefaultConfig(), 3, 1).Run(ctx, 100, false)
	if err == nil {
		t.Error("expected cancellation error")
	}
}
