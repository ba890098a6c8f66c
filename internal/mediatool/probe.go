package mediatool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// DurationUnknown is returned when ffprobe cannot report a usable duration.
const DurationUnknown int64 = -1

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// Probe shells out to ffprobe and returns the media duration in
// milliseconds, or DurationUnknown when the container reports none.
func Probe(ctx context.Context, runner Runner, ffprobe, target string) (int64, error) {
	args := []string{
		"-v", "error",
		"-show_format",
		"-print_format", "json",
		target,
	}

	result, err := runner.Run(ctx, ffprobe, args, RunOptions{})
	if err != nil {
		return DurationUnknown, fmt.Errorf("ffprobe: %w", err)
	}
	if len(result.Stdout) == 0 {
		return DurationUnknown, fmt.Errorf("ffprobe produced no output for %s", target)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(result.Stdout, &parsed); err != nil {
		return DurationUnknown, fmt.Errorf("decode ffprobe output: %w", err)
	}

	if parsed.Format.Duration == "" {
		return DurationUnknown, nil
	}
	seconds, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return DurationUnknown, nil
	}
	return int64(math.Round(seconds * 1000)), nil
}
