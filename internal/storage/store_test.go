package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, path, id string, spec *mockStoreSpec) {
	t.Helper()
	data, err := json.Marshal(Asset[*mockStoreSpec]{Version: 1, Identifier: id, Spec: spec})
	if err != nil {
		t.Fatalf("marshalling asset: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing asset: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expCount int
		expErr   bool
	}{
		"empty directory": {
			setup: func(t *testing.T, dir string) {},
		},
		"nested assets": {
			setup: func(t *testing.T, dir string) {
				sub := filepath.Join(dir, "builder")
				if err := os.Mkdir(sub, 0755); err != nil {
					t.Fatal(err)
				}
				writeAsset(t, filepath.Join(dir, "look.json"), "look", &mockStoreSpec{Name: "look"})
				writeAsset(t, filepath.Join(sub, "terrain.json"), "terrain", &mockStoreSpec{Name: "terrain"})
				if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			expCount: 2,
		},
		"duplicate id": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, filepath.Join(dir, "a.json"), "look", &mockStoreSpec{})
				writeAsset(t, filepath.Join(dir, "b.json"), "look", &mockStoreSpec{})
			},
			expErr: true,
		},
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			store, err := NewFileStore[*mockStoreSpec](dir)
			if tt.expErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestFileStore_SaveGet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("sky", &mockStoreSpec{Name: "sky", Value: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "cached", store.Get("sky").Value, 3)
	if store.Get("missing") != nil {
		t.Error("expected nil for missing asset")
	}

	reloaded, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reloaded", reloaded.Get("sky").Name, "sky")

	all := store.GetAll()
	delete(all, "sky")
	testutil.AssertEqual(t, "copy", len(store.GetAll()), 1)
}
