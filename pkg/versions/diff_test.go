package versions

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestApplyLine_Additions(t *testing.T) {
	idx := NewIndex()

	applyLine(idx, "rails 7.1.0,7.1.1,7.1.2", testLogger())

	got, _ := idx.Versions("rails")
	if !reflect.DeepEqual(got, []string{"7.1.0", "7.1.1", "7.1.2"}) {
		t.Errorf("unexpected versions: %v", got)
	}
}

func TestApplyLine_RemovalMarker(t *testing.T) {
	idx := NewIndex()

	applyLine(idx, "rails 7.1.0,7.1.1", testLogger())
	applyLine(idx, "rails -7.1.0", testLogger())

	got, _ := idx.Versions("rails")
	if !reflect.DeepEqual(got, []string{"7.1.1"}) {
		t.Errorf("expected yanked version removed, got %v", got)
	}
}

func TestApplyLine_MixedTokensInOrder(t *testing.T) {
	idx := NewIndex()

	// Removal and re-addition within one line apply in token order
	applyLine(idx, "rack 3.0.0,-3.0.0,3.0.1", testLogger())

	got, _ := idx.Versions("rack")
	if !reflect.DeepEqual(got, []string{"3.0.1"}) {
		t.Errorf("unexpected versions: %v", got)
	}
}

func TestApplyLine_SkipsControlLines(t *testing.T) {
	idx := NewIndex()

	applyLine(idx, "", testLogger())
	applyLine(idx, "   ", testLogger())
	applyLine(idx, "---", testLogger())
	applyLine(idx, "created_at: 2024-05-01T00:00:00Z", testLogger())

	if idx.Len() != 0 {
		t.Errorf("control lines must not create entries, got %d gems", idx.Len())
	}
}

func TestApplyLine_MalformedLineSkipped(t *testing.T) {
	idx := NewIndex()
	idx.Add("rails", "7.1.0")

	// No space separator: logged and skipped, existing entries untouched
	applyLine(idx, "garbage-without-separator", testLogger())

	got, _ := idx.Versions("rails")
	if !reflect.DeepEqual(got, []string{"7.1.0"}) {
		t.Errorf("malformed line mutated the index: %v", got)
	}
	if idx.Len() != 1 {
		t.Errorf("malformed line created an entry: %d gems", idx.Len())
	}
}

func TestApplyLine_TokenWhitespace(t *testing.T) {
	idx := NewIndex()

	applyLine(idx, "rack 3.0.0, 3.0.1 ,,-3.0.0", testLogger())

	got, _ := idx.Versions("rack")
	if !reflect.DeepEqual(got, []string{"3.0.1"}) {
		t.Errorf("unexpected versions: %v", got)
	}
}

func TestApplyLine_LinesAreIndependent(t *testing.T) {
	idx := NewIndex()

	applyLine(idx, "rails 7.1.0", testLogger())
	applyLine(idx, "not parseable", testLogger())
	applyLine(idx, "rails 7.1.1", testLogger())

	got, _ := idx.Versions("rails")
	if !reflect.DeepEqual(got, []string{"7.1.0", "7.1.1"}) {
		t.Errorf("later lines must continue mutating the same entry: %v", got)
	}
}
