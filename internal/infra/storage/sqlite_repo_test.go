package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStores(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "pet.db"))
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]KeyValueStore{
		"sqlite": NewSQLiteKVStore(db),
		"memory": NewMemoryKVStore(nil),
	}
}

func TestKeyValueStores(t *testing.T) {
	ctx := context.Background()

	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get(ctx, "petHat"); err != nil || ok {
				t.Fatalf("Expected missing key, got ok=%v err=%v", ok, err)
			}

			if err := store.Set(ctx, "petHat", "images/outfit-hat-1.png"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := store.Set(ctx, "petHat", "images/outfit-hat-2.png"); err != nil {
				t.Fatalf("Overwrite failed: %v", err)
			}
			if err := store.Set(ctx, "selectedPet", "puppy"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			v, ok, err := store.Get(ctx, "petHat")
			if err != nil || !ok || v != "images/outfit-hat-2.png" {
				t.Errorf("Get = %q,%v,%v", v, ok, err)
			}

			keys, err := Keys(ctx, store)
			if err != nil || !reflect.DeepEqual(keys, []string{"petHat", "selectedPet"}) {
				t.Errorf("Keys = %v, %v", keys, err)
			}

			if err := store.Delete(ctx, "petHat", "petCape"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "petHat"); ok {
				t.Errorf("Expected petHat deleted")
			}
			if v, ok, _ := store.Get(ctx, "selectedPet"); !ok || v != "puppy" {
				t.Errorf("Unrelated key must survive delete")
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "pet.db")

	db, err := InitSQLite(path)
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	if err := NewSQLiteKVStore(db).Set(ctx, "petCape", "images/outfit-cape-1.png"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	db.Close()

	db, err = InitSQLite(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer db.Close()

	v, ok, err := NewSQLiteKVStore(db).Get(ctx, "petCape")
	if err != nil || !ok || v != "images/outfit-cape-1.png" {
		t.Errorf("Expected persisted cape, got %q,%v,%v", v, ok, err)
	}
}
