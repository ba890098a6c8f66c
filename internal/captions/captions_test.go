package captions

import (
	"math"
	"testing"
)

func TestNormalizeFiltersInvalidEntries(t *testing.T) {
	raw := []Raw{
		{StartMS: 0, EndMS: 1000, Text: "keep"},
		{StartMS: math.NaN(), EndMS: 1000, Text: "nan start"},
		{StartMS: 0, EndMS: math.Inf(1), Text: "inf end"},
		{StartMS: 2000, EndMS: 1000, Text: "inverted"},
		{StartMS: 1000, EndMS: 1000, Text: "zero length"},
		{StartMS: 1000, EndMS: 2000, Text: "   "},
	}

	got := Normalize(raw, 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 surviving caption, got %d: %#v", len(got), got)
	}
	if got[0].Text != "keep" {
		t.Fatalf("unexpected surviving caption %q", got[0].Text)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(nil, 5000); got != nil {
		t.Fatalf("expected nil for empty input, got %#v", got)
	}
	if got := Normalize([]Raw{{StartMS: 5, EndMS: 1, Text: "bad"}}, 5000); got != nil {
		t.Fatalf("expected nil when every entry is filtered, got %#v", got)
	}
}

func TestNormalizeUnknownTargetLaysOutBackToBack(t *testing.T) {
	raw := []Raw{
		{StartMS: 500, EndMS: 1700.4, Text: "first"},
		{StartMS: 9000, EndMS: 9000.2, Text: "second"},
		{StartMS: 100, EndMS: 850, Text: "third"},
	}

	got := Normalize(raw, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(got))
	}
	wantDurs := []int64{1200, 1, 750}
	var cursor int64
	for i, c := range got {
		if c.StartMS != cursor {
			t.Errorf("caption %d: start = %d, want %d", i, c.StartMS, cursor)
		}
		if c.EndMS-c.StartMS != wantDurs[i] {
			t.Errorf("caption %d: duration = %d, want %d", i, c.EndMS-c.StartMS, wantDurs[i])
		}
		cursor = c.EndMS
	}
}

func TestNormalizeSingleCaptionStretches(t *testing.T) {
	got := Normalize([]Raw{{StartMS: 0, EndMS: 2000, Text: "Hello"}}, 4000)
	if len(got) != 1 {
		t.Fatalf("expected 1 caption, got %d", len(got))
	}
	want := Scaled{StartMS: 0, EndMS: 4000, Text: "Hello"}
	if got[0] != want {
		t.Fatalf("got %#v, want %#v", got[0], want)
	}
}

func TestNormalizeUniformScaling(t *testing.T) {
	raw := make([]Raw, 7)
	for i := range raw {
		raw[i] = Raw{StartMS: float64(i * 1000), EndMS: float64((i + 1) * 1000), Text: "beat"}
	}

	got := Normalize(raw, 14000)
	assertTimelineInvariants(t, got, 14000)
	for i, c := range got {
		if c.EndMS-c.StartMS != 2000 {
			t.Errorf("caption %d: duration = %d, want 2000", i, c.EndMS-c.StartMS)
		}
	}
}

func TestNormalizeFloorBoundary(t *testing.T) {
	raw := []Raw{
		{StartMS: 0, EndMS: 100, Text: "a"},
		{StartMS: 100, EndMS: 200, Text: "b"},
	}

	got := Normalize(raw, 1000)
	assertTimelineInvariants(t, got, 1000)
	for i, c := range got {
		if c.EndMS-c.StartMS != 500 {
			t.Errorf("caption %d: duration = %d, want 500", i, c.EndMS-c.StartMS)
		}
	}
}

func TestNormalizeOverflowReducesLongestFirst(t *testing.T) {
	// The floor inflates the short captions, pushing the sum past the
	// target; the long caption must give the time back.
	raw := []Raw{
		{StartMS: 0, EndMS: 10, Text: "a"},
		{StartMS: 10, EndMS: 20, Text: "b"},
		{StartMS: 20, EndMS: 5000, Text: "c"},
	}

	got := Normalize(raw, 2000)
	assertTimelineInvariants(t, got, 2000)
	for i, c := range got[:2] {
		if c.EndMS-c.StartMS < 600 {
			t.Errorf("caption %d: duration %d below floor", i, c.EndMS-c.StartMS)
		}
	}
}

func TestNormalizeOverflowResidualNeverNegative(t *testing.T) {
	// Many tiny captions against a tiny target: the floor cannot hold, the
	// backward pass reduces toward 1ms, and any residual must leave the
	// total at or below the target.
	raw := make([]Raw, 50)
	for i := range raw {
		raw[i] = Raw{StartMS: float64(i), EndMS: float64(i) + 1, Text: "x"}
	}

	got := Normalize(raw, 100)
	if len(got) != 50 {
		t.Fatalf("expected 50 captions, got %d", len(got))
	}
	if got[0].StartMS != 0 {
		t.Fatalf("start = %d, want 0", got[0].StartMS)
	}
	var cursor int64
	for i, c := range got {
		if c.StartMS != cursor {
			t.Fatalf("caption %d: start = %d, want %d", i, c.StartMS, cursor)
		}
		if i < len(got)-1 && c.EndMS <= c.StartMS {
			t.Fatalf("caption %d: non-positive duration", i)
		}
		cursor = c.EndMS
	}
	if got[len(got)-1].EndMS != 100 {
		t.Fatalf("final end = %d, want forced 100", got[len(got)-1].EndMS)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []Raw{
		{StartMS: 0, EndMS: 1234, Text: "one"},
		{StartMS: 1300, EndMS: 4000, Text: "two"},
		{StartMS: 4100, EndMS: 6000, Text: "three"},
	}

	first := Normalize(raw, 9000)
	assertTimelineInvariants(t, first, 9000)

	again := make([]Raw, len(first))
	for i, c := range first {
		again[i] = Raw{StartMS: float64(c.StartMS), EndMS: float64(c.EndMS), Text: c.Text}
	}
	second := Normalize(again, 9000)
	if len(second) != len(first) {
		t.Fatalf("length changed: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("caption %d changed: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := []Raw{{StartMS: 0, EndMS: 1000, Text: "only"}}
	orig := raw[0]
	Normalize(raw, 5000)
	if raw[0] != orig {
		t.Fatalf("input mutated: %#v", raw[0])
	}
}

// assertTimelineInvariants checks the contract for a known target duration:
// contiguous from zero, positive durations, exact total.
func assertTimelineInvariants(t *testing.T, caps []Scaled, targetMS int64) {
	t.Helper()
	if len(caps) == 0 {
		t.Fatal("expected non-empty caption list")
	}
	if caps[0].StartMS != 0 {
		t.Errorf("first start = %d, want 0", caps[0].StartMS)
	}
	var cursor, sum int64
	for i, c := range caps {
		if c.StartMS != cursor {
			t.Errorf("caption %d: start = %d, want %d", i, c.StartMS, cursor)
		}
		if c.EndMS <= c.StartMS {
			t.Errorf("caption %d: non-positive duration", i)
		}
		sum += c.EndMS - c.StartMS
		cursor = c.EndMS
	}
	if sum != targetMS {
		t.Errorf("total duration = %d, want %d", sum, targetMS)
	}
	if caps[len(caps)-1].EndMS != targetMS {
		t.Errorf("final end = %d, want %d", caps[len(caps)-1].EndMS, targetMS)
	}
}
