package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemStoreCRUD(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	id, err := st.Add(ctx, PatientsPath(), map[string]any{"name": "Jane Roe"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if id == "" {
		t.Fatal("add returned empty id")
	}

	doc, err := st.Get(ctx, PatientPath(id))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc.Fields["name"] != "Jane Roe" {
		t.Errorf("unexpected fields: %v", doc.Fields)
	}

	if err := st.Set(ctx, PatientPath(id), map[string]any{"name": "Jane Doe"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	doc, _ = st.Get(ctx, PatientPath(id))
	if doc.Fields["name"] != "Jane Doe" {
		t.Errorf("set did not replace fields: %v", doc.Fields)
	}

	if err := st.Delete(ctx, PatientPath(id)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.Get(ctx, PatientPath(id)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemStoreGetMissing(t *testing.T) {
	st := NewMemStore()
	if _, err := st.Get(context.Background(), PatientPath("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreSubCollectionsAreIndependent(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	p1, _ := st.Add(ctx, PatientsPath(), map[string]any{"name": "A"})
	p2, _ := st.Add(ctx, PatientsPath(), map[string]any{"name": "B"})

	if _, err := st.Add(ctx, PrescriptionsPath(p1), map[string]any{"content": "for A"}); err != nil {
		t.Fatal(err)
	}

	docs, err := st.List(ctx, PrescriptionsPath(p2))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("p2 must not see p1's prescriptions, got %d docs", len(docs))
	}

	docs, _ = st.List(ctx, PrescriptionsPath(p1))
	if len(docs) != 1 || docs[0].Fields["content"] != "for A" {
		t.Errorf("unexpected p1 prescriptions: %+v", docs)
	}
}

func TestMemStoreSetCreatesFixedIDDocument(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	path := SettingsPath() + "/passcode"
	if err := st.Set(ctx, path, map[string]any{"value": "5678"}); err != nil {
		t.Fatal(err)
	}

	doc, err := st.Get(ctx, path)
	if err != nil {
		t.Fatalf("fixed-id document not readable: %v", err)
	}
	if doc.ID != "passcode" || doc.Fields["value"] != "5678" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestMemStoreListCopiesFields(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	id, _ := st.Add(ctx, RecipesPath(), map[string]any{"name": "Chamomile Tea"})

	docs, _ := st.List(ctx, RecipesPath())
	docs[0].Fields["name"] = "mutated"

	doc, _ := st.Get(ctx, RecipePath(id))
	if doc.Fields["name"] != "Chamomile Tea" {
		t.Error("mutating a listed document must not affect the store")
	}
}

func TestMemStoreCancelledContext(t *testing.T) {
	st := NewMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.List(ctx, PatientsPath()); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
