package versions

import (
	"reflect"
	"testing"
)

func TestIndex_AddAndVersions(t *testing.T) {
	idx := NewIndex()

	if _, ok := idx.Versions("rails"); ok {
		t.Error("empty index should not know any gem")
	}

	idx.Add("rails", "7.1.0")
	idx.Add("rails", "7.1.1")
	idx.Add("rack", "3.0.0")

	got, ok := idx.Versions("rails")
	if !ok {
		t.Fatal("rails should be known")
	}
	if !reflect.DeepEqual(got, []string{"7.1.0", "7.1.1"}) {
		t.Errorf("unexpected versions: %v", got)
	}
	if idx.Len() != 2 {
		t.Errorf("expected 2 gems, got %d", idx.Len())
	}
}

func TestIndex_AppendOrderAndDuplicates(t *testing.T) {
	idx := NewIndex()

	// Duplicates are preserved, order is append order
	idx.Add("rack", "3.0.0")
	idx.Add("rack", "2.2.0")
	idx.Add("rack", "3.0.0")

	got, _ := idx.Versions("rack")
	if !reflect.DeepEqual(got, []string{"3.0.0", "2.2.0", "3.0.0"}) {
		t.Errorf("unexpected versions: %v", got)
	}
}

func TestIndex_RemoveAllOccurrences(t *testing.T) {
	idx := NewIndex()
	idx.Add("rack", "3.0.0")
	idx.Add("rack", "2.2.0")
	idx.Add("rack", "3.0.0")

	idx.Remove("rack", "3.0.0")

	got, ok := idx.Versions("rack")
	if !ok {
		t.Fatal("rack should still be known after removal")
	}
	if !reflect.DeepEqual(got, []string{"2.2.0"}) {
		t.Errorf("expected all occurrences removed, got %v", got)
	}
}

func TestIndex_RemoveMissingIsNoop(t *testing.T) {
	idx := NewIndex()
	idx.Add("rails", "7.1.0")

	idx.Remove("rails", "9.9.9")
	idx.Remove("unknown", "1.0.0")

	got, _ := idx.Versions("rails")
	if !reflect.DeepEqual(got, []string{"7.1.0"}) {
		t.Errorf("removal of missing version mutated the index: %v", got)
	}
	if _, ok := idx.Versions("unknown"); ok {
		t.Error("removal must not create entries")
	}
}

func TestIndex_VersionsReturnsCopy(t *testing.T) {
	idx := NewIndex()
	idx.Add("rails", "7.1.0")

	got, _ := idx.Versions("rails")
	got[0] = "mutated"

	fresh, _ := idx.Versions("rails")
	if fresh[0] != "7.1.0" {
		t.Error("Versions must return a copy, not the internal slice")
	}
}

func TestIndex_AwkwardKeys(t *testing.T) {
	idx := NewIndex()

	// Keys that collide with object members in less careful cache
	// implementations must behave as ordinary gem names.
	for _, gem := range []string{"constructor", "__proto__", "toString", "hasOwnProperty"} {
		idx.Add(gem, "1.0.0")
	}
	for _, gem := range []string{"constructor", "__proto__", "toString", "hasOwnProperty"} {
		got, ok := idx.Versions(gem)
		if !ok || len(got) != 1 || got[0] != "1.0.0" {
			t.Errorf("gem %q not stored correctly: %v", gem, got)
		}
	}

	// Case-sensitive keys
	idx.Add("Rails", "1.0.0")
	if _, ok := idx.Versions("rails"); ok {
		t.Error("keys must be case-sensitive")
	}
}

func TestIndex_Reset(t *testing.T) {
	idx := NewIndex()
	idx.Add("rails", "7.1.0")
	idx.Add("rack", "3.0.0")

	idx.Reset()

	if idx.Len() != 0 {
		t.Errorf("expected empty index after reset, got %d gems", idx.Len())
	}
	if _, ok := idx.Versions("rails"); ok {
		t.Error("reset should forget all gems")
	}
}
