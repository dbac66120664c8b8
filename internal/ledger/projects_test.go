package ledger

import (
	"context"
	"testing"
)

func TestProjects_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		payload := map[string]interface{}{"name": name}
		if err := store.SaveProject(ctx, payload); err != nil {
			t.Fatalf("failed to save project %s: %v", name, err)
		}
	}

	projects, err := store.GetProjects(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0]["name"] != "third" || projects[1]["name"] != "second" {
		t.Errorf("unexpected order: %v, %v", projects[0]["name"], projects[1]["name"])
	}
}

func TestProjects_OpaquePayload(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := map[string]interface{}{
		"title": "builder dashboard",
		"tags":  []interface{}{"go", "telegram"},
		"meta":  map[string]interface{}{"stars": float64(3)},
	}
	if err := store.SaveProject(ctx, payload); err != nil {
		t.Fatalf("failed to save project: %v", err)
	}

	projects, err := store.GetProjects(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	got := projects[0]
	if got["title"] != "builder dashboard" {
		t.Errorf("payload title mismatch: %v", got["title"])
	}
	meta, ok := got["meta"].(map[string]interface{})
	if !ok || meta["stars"] != float64(3) {
		t.Errorf("nested payload not preserved: %v", got["meta"])
	}
}
