// Package render translates a completed plan plus local asset paths into a
// single ffmpeg invocation and runs it.
package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/plan"
)

// Assets holds the local file paths a render consumes. EndCardAudio is empty
// unless the plan's mix includes the secondary clip.
type Assets struct {
	Images       [plan.SegmentCount]string
	Audio        string
	EndCardAudio string
	SubtitleFile string
}

// BuildFFmpegArgs assembles the complete ffmpeg CLI argument list for one
// render: looped image inputs, the crossfaded slideshow graph with burned-in
// subtitles, and the audio mix graph from the plan.
func BuildFFmpegArgs(p plan.Plan, a Assets, cfg config.Config, outputPath string) ([]string, error) {
	if p.Frame.Width <= 0 || p.Frame.Height <= 0 {
		return nil, errors.New("invalid frame dimensions")
	}
	if p.Frame.FPS <= 0 {
		return nil, errors.New("invalid frame rate")
	}
	for i, img := range a.Images {
		if strings.TrimSpace(img) == "" {
			return nil, fmt.Errorf("image %d path is empty", i)
		}
	}
	if strings.TrimSpace(a.Audio) == "" {
		return nil, errors.New("audio path is empty")
	}
	if p.Audio.EndCard != nil && strings.TrimSpace(a.EndCardAudio) == "" {
		return nil, errors.New("plan mixes end-card audio but no clip path given")
	}
	if strings.TrimSpace(outputPath) == "" {
		return nil, errors.New("output path is empty")
	}

	args := []string{
		"-hide_banner",
		"-y",
	}

	for i, seg := range p.Segments {
		args = append(args,
			"-loop", "1",
			"-t", formatFloat(float64(seg.DurationMS)/1000),
			"-i", a.Images[i],
		)
	}
	args = append(args, "-i", a.Audio)
	if p.Audio.EndCard != nil {
		args = append(args, "-i", a.EndCardAudio)
	}

	graph := strings.Join(append(videoGraph(p, a.SubtitleFile), audioGraph(p.Audio)...), ";")
	args = append(args, "-filter_complex", graph)

	args = append(args,
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", fallback(cfg.Video.Codec, "libx264"),
	)
	if preset := strings.TrimSpace(cfg.Video.Preset); preset != "" {
		args = append(args, "-preset", preset)
	}
	if cfg.Video.CRF >= 0 {
		args = append(args, "-crf", strconv.Itoa(cfg.Video.CRF))
	}
	args = append(args, "-pix_fmt", "yuv420p")

	args = append(args, "-c:a", fallback(cfg.Video.ACodec, "aac"))
	if cfg.Video.Bitrate > 0 {
		args = append(args, "-b:a", fmt.Sprintf("%dk", cfg.Video.Bitrate))
	}
	args = append(args, "-ar", "48000")

	args = append(args,
		"-t", formatFloat(float64(p.TotalMS)/1000),
		"-movflags", "+faststart",
		outputPath,
	)

	return args, nil
}

// videoGraph builds the filter chains for the slideshow: per-image
// scale/pad/fps conditioning, three chained xfades at the plan's offsets, an
// optional end-card hold on the final frame, and the subtitle burn-in.
func videoGraph(p plan.Plan, subtitleFile string) []string {
	width := p.Frame.Width
	height := p.Frame.Height

	var chains []string
	for i := range p.Segments {
		chains = append(chains, fmt.Sprintf(
			"[%d:v]scale=w=%d:h=%d:force_original_aspect_ratio=1:flags=lanczos,pad=w=%d:h=%d:x=(ow-iw)/2:y=(oh-ih)/2:color=black,setsar=1,fps=%d[v%d]",
			i, width, height, width, height, p.Frame.FPS, i,
		))
	}

	prev := "v0"
	for k := 1; k < plan.SegmentCount; k++ {
		out := fmt.Sprintf("x%d", k)
		chains = append(chains, fmt.Sprintf(
			"[%s][v%d]xfade=transition=fade:duration=%s:offset=%s[%s]",
			prev, k,
			formatFloat(float64(plan.CrossfadeMS)/1000),
			formatFloat(p.CrossfadeOffsetsSec[k-1]),
			out,
		))
		prev = out
	}

	if p.EndCardMS > 0 {
		chains = append(chains, fmt.Sprintf(
			"[%s]tpad=stop_mode=clone:stop_duration=%s[vpad]",
			prev, formatFloat(float64(p.EndCardMS)/1000),
		))
		prev = "vpad"
	}

	if subtitleFile != "" {
		chains = append(chains, fmt.Sprintf(
			"[%s]subtitles=filename='%s'[vout]", prev, escapeFilterPath(subtitleFile),
		))
	} else {
		chains = append(chains, fmt.Sprintf("[%s]null[vout]", prev))
	}

	return chains
}

// audioGraph renders the plan's mix spec. The narration always sits at input
// index SegmentCount; the end-card clip, when present, follows it.
func audioGraph(mix plan.AudioMix) []string {
	primaryIdx := plan.SegmentCount
	primary := fmt.Sprintf(
		"[%d:a]atrim=0:%s,apad=pad_dur=%s,atrim=0:%s",
		primaryIdx,
		formatFloat(float64(mix.Primary.TrimMS)/1000),
		formatFloat(float64(mix.Primary.PadMS)/1000),
		formatFloat(float64(mix.Primary.FinalTrimMS)/1000),
	)

	if mix.EndCard == nil {
		return []string{primary + "[aout]"}
	}

	end := fmt.Sprintf(
		"[%d:a]adelay=%d|%d,afade=t=in:st=0:d=%s,volume=%s[aend]",
		primaryIdx+1,
		mix.EndCard.DelayMS, mix.EndCard.DelayMS,
		formatFloat(float64(mix.EndCard.FadeInMS)/1000),
		formatFloat(mix.EndCard.Gain),
	)
	amix := fmt.Sprintf(
		"[amain][aend]amix=inputs=2:duration=longest:normalize=0,atrim=0:%s[aout]",
		formatFloat(float64(mix.Primary.FinalTrimMS)/1000),
	)
	return []string{primary + "[amain]", end, amix}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func escapeFilterPath(value string) string {
	value = filepath.Clean(value)
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}
