package store

import (
	"testing"
)

func TestBadgerStoreRoundTrip(t *testing.T) {
	bs, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("should open badger store: %v", err)
	}
	defer bs.Close()

	msg, err := bs.Get("Ninou")
	if err != nil {
		t.Fatalf("get on empty store should not fail: %v", err)
	}
	if msg != "" {
		t.Fatalf("expected empty message for absent key, got %q", msg)
	}

	if err := bs.Set("Ninou", "Joyeux Noël!"); err != nil {
		t.Fatalf("set should succeed: %v", err)
	}
	msg, err = bs.Get("Ninou")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Joyeux Noël!" {
		t.Fatalf("round-trip mismatch, got %q", msg)
	}

	if err := bs.Set("Ninou", "updated"); err != nil {
		t.Fatal(err)
	}
	if err := bs.Set("Habiba", "hi"); err != nil {
		t.Fatal(err)
	}

	all, err := bs.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all["Ninou"] != "updated" {
		t.Fatalf("later write should win, got %q", all["Ninou"])
	}
}
