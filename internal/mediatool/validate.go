package mediatool

import (
	"context"
	"fmt"
	"os"
)

// maxEndCardAudioMS rejects end-card clips long enough to suggest a wrong
// upload; the end card itself is only a few seconds.
const maxEndCardAudioMS = 30_000

// ValidateEndCardAudio decides whether the optional end-card clip is usable
// and, when it is, re-encodes it to normalized AAC at outPath so the mixer
// sees a predictable input. A false return means the plan proceeds without
// secondary audio; only infrastructure failures surface as errors.
func ValidateEndCardAudio(ctx context.Context, runner Runner, ffmpeg, ffprobe, srcPath, outPath string) (bool, error) {
	if srcPath == "" {
		return false, nil
	}
	if _, err := os.Stat(srcPath); err != nil {
		return false, nil
	}

	durMS, err := Probe(ctx, runner, ffprobe, srcPath)
	if err != nil || durMS == DurationUnknown || durMS <= 0 || durMS > maxEndCardAudioMS {
		return false, nil
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-i", srcPath,
		"-vn",
		"-c:a", "aac",
		"-ar", "48000",
		"-ac", "2",
		outPath,
	}
	if _, err := runner.Run(ctx, ffmpeg, args, RunOptions{}); err != nil {
		return false, fmt.Errorf("re-encode end-card audio: %w", err)
	}
	return true, nil
}
