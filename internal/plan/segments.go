package plan

import "storyreel/internal/captions"

// SegmentCount is the fixed number of slideshow images.
const SegmentCount = 4

// Segment is the on-screen duration allotted to one slideshow image.
type Segment struct {
	Index      int
	DurationMS int64
}

// narrativeBeats is the caption count treated as a full narrative arc: one
// hero image for the opening beat, then three images covering two beats each.
const narrativeBeats = 7

// PlanSegments derives the four image display durations from the normalized
// captions. With at least seven captions the segment boundaries land on the
// end times of captions 1, 3, 5 and 7; otherwise the fallback total is split
// into four equal parts with the last absorbing the remainder. Every segment
// duration is at least 1ms.
func PlanSegments(caps []captions.Scaled, fallbackTotalMS int64) [SegmentCount]Segment {
	var segs [SegmentCount]Segment

	if len(caps) >= narrativeBeats {
		b1 := caps[0].EndMS
		b3 := caps[2].EndMS
		b5 := caps[4].EndMS
		b7 := caps[6].EndMS
		durs := [SegmentCount]int64{b1, b3 - b1, b5 - b3, b7 - b5}
		for i, d := range durs {
			segs[i] = Segment{Index: i, DurationMS: atLeast(d, 1)}
		}
		return segs
	}

	part := fallbackTotalMS / SegmentCount
	for i := 0; i < SegmentCount-1; i++ {
		segs[i] = Segment{Index: i, DurationMS: atLeast(part, 1)}
	}
	segs[SegmentCount-1] = Segment{
		Index:      SegmentCount - 1,
		DurationMS: atLeast(fallbackTotalMS-(SegmentCount-1)*part, 1),
	}
	return segs
}

func atLeast(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
