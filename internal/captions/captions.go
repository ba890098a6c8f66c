// Package captions normalizes untrusted caption tracks onto the slideshow
// timeline. Raw entries arrive from the request layer unsorted and possibly
// malformed; Normalize filters them and rescales the survivors so they fill
// the narration audio exactly.
package captions

import (
	"math"
	"sort"
	"strings"
)

// Raw is a caption entry as received from the request, before any validation.
type Raw struct {
	StartMS float64
	EndMS   float64
	Text    string
}

// Scaled is a caption entry on the final timeline. When a target duration was
// known the list is contiguous, starts at zero, and sums to the target
// exactly.
type Scaled struct {
	StartMS int64
	EndMS   int64
	Text    string
}

const (
	// defaultFloorMS is the preferred minimum display time for one caption.
	defaultFloorMS = 600
	// hardFloorMS is the absolute minimum when the timeline is too crowded
	// to honor the default.
	hardFloorMS = 80
)

// Normalize filters raw captions and lays them out on the timeline. Entries
// with non-finite times, end <= start, or empty trimmed text are dropped
// silently. When targetMS > 0 the remaining durations are rescaled so the
// track fills [0, targetMS] exactly; otherwise entries keep their rounded
// original durations laid back to back from zero. Degenerate input yields an
// empty list, never an error.
func Normalize(raw []Raw, targetMS int64) []Scaled {
	type entry struct {
		text  string
		durMS int64
	}

	entries := make([]entry, 0, len(raw))
	for _, rc := range raw {
		if !isFinite(rc.StartMS) || !isFinite(rc.EndMS) {
			continue
		}
		if rc.EndMS <= rc.StartMS {
			continue
		}
		text := strings.TrimSpace(rc.Text)
		if text == "" {
			continue
		}
		dur := int64(math.Round(rc.EndMS - rc.StartMS))
		if dur < 1 {
			dur = 1
		}
		entries = append(entries, entry{text: text, durMS: dur})
	}
	if len(entries) == 0 {
		return nil
	}

	durs := make([]int64, len(entries))
	if targetMS > 0 {
		var total int64
		for _, e := range entries {
			total += e.durMS
		}
		if total <= 0 {
			return nil
		}

		factor := float64(targetMS) / float64(total)
		floor := minDurationMS(targetMS, len(entries))

		var sum int64
		for i, e := range entries {
			d := int64(math.Round(float64(e.durMS) * factor))
			if d < floor {
				d = floor
			}
			durs[i] = d
			sum += d
		}

		switch {
		case sum > targetMS:
			reduceOverflow(durs, sum-targetMS, floor)
		case sum < targetMS:
			durs[len(durs)-1] += targetMS - sum
		}
	} else {
		for i, e := range entries {
			durs[i] = e.durMS
		}
	}

	out := make([]Scaled, len(entries))
	var cursor int64
	for i, e := range entries {
		out[i] = Scaled{StartMS: cursor, EndMS: cursor + durs[i], Text: e.text}
		cursor = out[i].EndMS
	}
	if targetMS > 0 {
		// Absorb any residual rounding drift into the final entry.
		out[len(out)-1].EndMS = targetMS
	}
	return out
}

// minDurationMS picks the per-caption floor for a timeline of n captions
// filling targetMS. Crowded timelines get a smaller floor so rescaling can
// still converge.
func minDurationMS(targetMS int64, n int) int64 {
	per := targetMS / int64(n)
	if per <= 0 {
		return hardFloorMS
	}
	if per < defaultFloorMS {
		if per < hardFloorMS {
			return hardFloorMS
		}
		return per
	}
	return defaultFloorMS
}

// reduceOverflow shrinks durations until the overflow is absorbed. Longest
// entries give up time first, down to the floor; ties keep original order. If
// the floor leaves overflow unabsorbed a second pass walks from the tail
// reducing toward 1ms. A pathological all-tiny timeline may retain a small
// positive residual, which callers accept as drift.
func reduceOverflow(durs []int64, overflow, floor int64) {
	order := make([]int, len(durs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if durs[order[a]] != durs[order[b]] {
			return durs[order[a]] > durs[order[b]]
		}
		return order[a] < order[b]
	})

	for _, idx := range order {
		if overflow <= 0 {
			return
		}
		slack := durs[idx] - floor
		if slack <= 0 {
			continue
		}
		if slack > overflow {
			slack = overflow
		}
		durs[idx] -= slack
		overflow -= slack
	}

	for i := len(durs) - 1; i >= 0 && overflow > 0; i-- {
		slack := durs[i] - 1
		if slack <= 0 {
			continue
		}
		if slack > overflow {
			slack = overflow
		}
		durs[i] -= slack
		overflow -= slack
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
