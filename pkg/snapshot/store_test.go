package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func testSnapshot(key string) *Snapshot {
	return &Snapshot{
		Key:       key,
		Markup:    `<div data-reactroot="">Red</div>`,
		CacheData: `{"color":{"1":{"status":2,"value":"Red","error":null}}}`,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "snapshots"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"s3":     NewS3Store(newFakeS3(), "bucket", "snapshots/"),
	}
}

func TestStores(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.Get(ctx, "home"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
			}

			for _, key := range []string{"home", "about", "colors-1"} {
				if err := store.Put(ctx, testSnapshot(key)); err != nil {
					t.Fatalf("Put(%s): %v", key, err)
				}
			}

			got, err := store.Get(ctx, "home")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if want := testSnapshot("home"); !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v, want %+v", got, want)
			}

			updated := testSnapshot("home")
			updated.Markup = "<p>new</p>"
			if err := store.Put(ctx, updated); err != nil {
				t.Fatalf("Put update: %v", err)
			}
			if got, _ := store.Get(ctx, "home"); got == nil || got.Markup != "<p>new</p>" {
				t.Errorf("update not stored: %+v", got)
			}

			keys, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if want := []string{"about", "colors-1", "home"}; !reflect.DeepEqual(keys, want) {
				t.Errorf("List = %v, want %v", keys, want)
			}

			if err := store.Delete(ctx, "about"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Delete(ctx, "about"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete: err = %v, want ErrNotFound", err)
			}
			if _, err := store.Get(ctx, "about"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
			}

			if err := store.Put(ctx, testSnapshot("../escape")); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("Put with bad key: err = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"home", "colors-1", "a.b_c", "ABC123"}
	invalid := []string{"", ".", "..", ".hidden", "a/b", `a\b`, "a b", "café"}
	for _, key := range valid {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", key, err)
		}
	}
	for _, key := range invalid {
		if err := ValidateKey(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestMemoryStoreCopiesSnapshots(t *testing.T) {
	store := NewMemoryStore()
	snap := testSnapshot("home")
	if err := store.Put(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
	snap.Markup = "mutated"
	got, err := store.Get(context.Background(), "home")
	if err != nil {
		t.Fatal(err)
	}
	if got.Markup == "mutated" {
		t.Error("store shares memory with the caller")
	}
}

func TestFileStoreIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), testSnapshot("home")); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, ".home-123"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)

	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"home"}) {
		t.Errorf("List = %v, want [home]", keys)
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644)
	if _, err := store.Get(context.Background(), "bad"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want a decode error", err)
	}
}
