package plan

import (
	"storyreel/internal/captions"
	"storyreel/internal/subtitle"
	"storyreel/pkg/request"
)

// defaultSlideshowMS sizes the slideshow when neither the audio duration nor
// the captions give a usable total.
const defaultSlideshowMS = 12000

// Compose runs the full deterministic pipeline for one request: caption
// normalization, segment planning, cue layout, and plan assembly.
// audioDurationMS may be DurationUnknown (any value <= 0); endCardAudio
// reports whether the secondary clip passed validation. Compose never fails:
// degenerate caption input produces a plan with zero cues and an equal-split
// slideshow.
func Compose(req request.Render, audioDurationMS int64, endCardAudio bool) Plan {
	raws := make([]captions.Raw, len(req.Captions))
	for i, c := range req.Captions {
		raws[i] = captions.Raw{StartMS: c.Start, EndMS: c.End, Text: c.Text}
	}
	caps := captions.Normalize(raws, audioDurationMS)

	fallback := audioDurationMS
	if fallback <= 0 {
		if len(caps) > 0 {
			fallback = caps[len(caps)-1].EndMS
		} else {
			fallback = defaultSlideshowMS
		}
	}

	return Build(Params{
		Segments:     PlanSegments(caps, fallback),
		EndCardMS:    req.EndCardMS,
		EndCardAudio: endCardAudio,
		Frame:        Frame{Width: req.Frame.Width, Height: req.Frame.Height, FPS: req.Frame.FPS},
		Cues:         subtitle.BuildCues(caps, req.Frame.Width, req.Frame.Height),
	})
}
