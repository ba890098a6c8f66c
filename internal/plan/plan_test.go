package plan

import (
	"testing"

	"storyreel/internal/captions"
)

func fourSegments(durs [4]int64) [SegmentCount]Segment {
	var segs [SegmentCount]Segment
	for i, d := range durs {
		segs[i] = Segment{Index: i, DurationMS: d}
	}
	return segs
}

func TestPlanSegmentsNarrativeBeats(t *testing.T) {
	caps := make([]captions.Scaled, 7)
	var cursor int64
	for i := range caps {
		caps[i] = captions.Scaled{StartMS: cursor, EndMS: cursor + 2000, Text: "beat"}
		cursor += 2000
	}

	segs := PlanSegments(caps, 99999)
	want := [4]int64{2000, 4000, 4000, 4000}
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d: index = %d", i, s.Index)
		}
		if s.DurationMS != want[i] {
			t.Errorf("segment %d: duration = %d, want %d", i, s.DurationMS, want[i])
		}
	}
}

func TestPlanSegmentsBoundariesMatchCaptionEnds(t *testing.T) {
	ends := []int64{700, 1500, 3100, 4000, 6500, 7200, 9001, 9500}
	caps := make([]captions.Scaled, len(ends))
	var cursor int64
	for i, e := range ends {
		caps[i] = captions.Scaled{StartMS: cursor, EndMS: e, Text: "x"}
		cursor = e
	}

	segs := PlanSegments(caps, 0)
	var cum int64
	boundaries := []int64{ends[0], ends[2], ends[4], ends[6]}
	for i, s := range segs {
		cum += s.DurationMS
		if cum != boundaries[i] {
			t.Errorf("boundary %d = %d, want %d", i, cum, boundaries[i])
		}
	}
}

func TestPlanSegmentsFallbackSplit(t *testing.T) {
	segs := PlanSegments(nil, 10003)
	want := [4]int64{2500, 2500, 2500, 2503}
	for i, s := range segs {
		if s.DurationMS != want[i] {
			t.Errorf("segment %d: duration = %d, want %d", i, s.DurationMS, want[i])
		}
	}
}

func TestPlanSegmentsAlwaysPositive(t *testing.T) {
	for _, fallback := range []int64{0, 1, 3, -50} {
		segs := PlanSegments(nil, fallback)
		for i, s := range segs {
			if s.DurationMS < 1 {
				t.Errorf("fallback %d: segment %d duration = %d", fallback, i, s.DurationMS)
			}
		}
	}
}

func TestBuildGuardsCrossfadeSegments(t *testing.T) {
	p := Build(Params{Segments: fourSegments([4]int64{100, 100, 100, 100})})

	for i := 0; i < 3; i++ {
		if p.Segments[i].DurationMS != CrossfadeMS+1 {
			t.Errorf("segment %d: duration = %d, want %d", i, p.Segments[i].DurationMS, CrossfadeMS+1)
		}
	}
	// The last segment never fades forward, so it keeps its duration.
	if p.Segments[3].DurationMS != 100 {
		t.Errorf("segment 3: duration = %d, want 100", p.Segments[3].DurationMS)
	}
	for i, off := range p.CrossfadeOffsetsSec {
		if off < 0.001 {
			t.Errorf("offset %d = %f, below minimum", i, off)
		}
	}
}

func TestBuildCrossfadeOffsets(t *testing.T) {
	p := Build(Params{Segments: fourSegments([4]int64{2000, 4000, 4000, 4000})})

	want := [3]float64{1.7, 5.4, 9.1}
	for i, off := range p.CrossfadeOffsetsSec {
		if diff := off - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("offset %d = %f, want %f", i, off, want[i])
		}
	}
}

func TestBuildDurationsAndAudio(t *testing.T) {
	p := Build(Params{
		Segments:     fourSegments([4]int64{2000, 4000, 4000, 4000}),
		EndCardMS:    3000,
		EndCardAudio: true,
	})

	if p.SlideshowMS != 14000 {
		t.Errorf("slideshow = %d, want 14000", p.SlideshowMS)
	}
	if p.TotalMS != 17000 {
		t.Errorf("total = %d, want 17000", p.TotalMS)
	}

	a := p.Audio
	if a.Primary.TrimMS != 14000 || a.Primary.PadMS != 5000 || a.Primary.FinalTrimMS != 17000 {
		t.Errorf("primary audio = %+v", a.Primary)
	}
	if a.EndCard == nil {
		t.Fatal("expected end-card audio in mix")
	}
	if a.EndCard.DelayMS != 14200 {
		t.Errorf("end-card delay = %d, want 14200", a.EndCard.DelayMS)
	}
	if a.EndCard.FadeInMS != 120 {
		t.Errorf("end-card fade = %d, want 120", a.EndCard.FadeInMS)
	}
	if a.EndCard.Gain != 1.35 {
		t.Errorf("end-card gain = %f, want 1.35", a.EndCard.Gain)
	}
}

func TestBuildWithoutEndCardAudio(t *testing.T) {
	p := Build(Params{
		Segments:  fourSegments([4]int64{5000, 5000, 5000, 5000}),
		EndCardMS: -10,
	})

	if p.Audio.EndCard != nil {
		t.Errorf("expected primary-only mix, got %+v", p.Audio.EndCard)
	}
	if p.EndCardMS != 0 {
		t.Errorf("end card = %d, want clamped 0", p.EndCardMS)
	}
	if p.TotalMS != p.SlideshowMS {
		t.Errorf("total = %d, want %d", p.TotalMS, p.SlideshowMS)
	}
}
