// Package plan turns normalized captions into the render plan the compositor
// layer consumes: four image segments, crossfade offsets, subtitle cues, and
// the audio mix specification.
package plan

import "storyreel/internal/subtitle"

// CrossfadeMS is the fixed dissolve length between consecutive segments.
const CrossfadeMS = 300

// endCardAudioLeadMS delays the end-card clip slightly past the slideshow so
// the mix never clips its attack.
const endCardAudioLeadMS = 200

// silencePadMarginMS is extra silence appended past the end card before the
// final trim, as a safety margin against encoder drift.
const silencePadMarginMS = 2000

// Frame describes the output raster.
type Frame struct {
	Width  int
	Height int
	FPS    int
}

// PrimaryAudio is the trim/pad pipeline applied to the narration track.
type PrimaryAudio struct {
	TrimMS      int64 // trim to the slideshow length
	PadMS       int64 // silence appended after the trim
	FinalTrimMS int64 // trim of the padded result to the total length
}

// EndCardAudio is the treatment of the optional end-card clip before mixing.
type EndCardAudio struct {
	DelayMS  int64
	FadeInMS int64
	Gain     float64
}

// AudioMix specifies the full audio graph. EndCard is nil when the secondary
// clip was missing or unusable, in which case the padded primary is the final
// output.
type AudioMix struct {
	Primary PrimaryAudio
	EndCard *EndCardAudio
}

// Plan is the complete timing/layout/mix contract handed to the compositor.
// It carries no behavior of its own.
type Plan struct {
	Segments            [SegmentCount]Segment
	CrossfadeOffsetsSec [SegmentCount - 1]float64
	SlideshowMS         int64
	EndCardMS           int64
	TotalMS             int64
	Frame               Frame
	Cues                []subtitle.Cue
	Audio               AudioMix
}

// Params are the inputs to Build.
type Params struct {
	Segments     [SegmentCount]Segment
	EndCardMS    int64
	EndCardAudio bool
	Frame        Frame
	Cues         []subtitle.Cue
}

// Build assembles the final render plan. The first three segments are guarded
// to at least CrossfadeMS+1 so no transition offset can go negative; the last
// segment never fades forward and is left untouched.
func Build(p Params) Plan {
	segs := p.Segments
	for i := 0; i < SegmentCount-1; i++ {
		if segs[i].DurationMS < CrossfadeMS+1 {
			segs[i].DurationMS = CrossfadeMS + 1
		}
	}

	var offsets [SegmentCount - 1]float64
	var cumMS int64
	for k := 1; k < SegmentCount; k++ {
		cumMS += segs[k-1].DurationMS
		off := float64(cumMS)/1000 - float64(k)*float64(CrossfadeMS)/1000
		if off < 0.001 {
			off = 0.001
		}
		offsets[k-1] = off
	}

	var slideshowMS int64
	for _, s := range segs {
		slideshowMS += s.DurationMS
	}

	endCardMS := p.EndCardMS
	if endCardMS < 0 {
		endCardMS = 0
	}
	totalMS := slideshowMS + endCardMS

	audio := AudioMix{
		Primary: PrimaryAudio{
			TrimMS:      slideshowMS,
			PadMS:       endCardMS + silencePadMarginMS,
			FinalTrimMS: totalMS,
		},
	}
	if p.EndCardAudio {
		audio.EndCard = &EndCardAudio{
			DelayMS:  slideshowMS + endCardAudioLeadMS,
			FadeInMS: 120,
			Gain:     1.35,
		}
	}

	return Plan{
		Segments:            segs,
		CrossfadeOffsetsSec: offsets,
		SlideshowMS:         slideshowMS,
		EndCardMS:           endCardMS,
		TotalMS:             totalMS,
		Frame:               p.Frame,
		Cues:                p.Cues,
		Audio:               audio,
	}
}
