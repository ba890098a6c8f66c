package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"storyreel/internal/config"
	"storyreel/internal/mediatool"
	"storyreel/internal/paths"
	"storyreel/internal/plan"
	"storyreel/internal/subtitle"
)

// Service runs ffmpeg renders for completed plans.
type Service struct {
	Config config.Config
	Runner mediatool.Runner
	Log    *logrus.Logger
}

// NewService prepares a renderer. A nil runner falls back to the real
// command runner.
func NewService(cfg config.Config, runner mediatool.Runner, log *logrus.Logger) *Service {
	if runner == nil {
		runner = mediatool.CmdRunner{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Service{Config: cfg, Runner: runner, Log: log}
}

// Render writes the subtitle document, builds the ffmpeg invocation for the
// plan, and executes it. It returns the output file path on success.
func (s *Service) Render(ctx context.Context, p plan.Plan, a Assets, jp paths.JobPaths) (string, error) {
	doc := subtitle.Document(p.Cues, p.Frame.Width, p.Frame.Height)
	if err := os.WriteFile(jp.SubtitleFile, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write subtitle file: %w", err)
	}
	a.SubtitleFile = jp.SubtitleFile

	args, err := BuildFFmpegArgs(p, a, s.Config, jp.OutputFile)
	if err != nil {
		return "", err
	}

	logPath := filepath.Join(jp.LogsDir, "ffmpeg.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open render log: %w", err)
	}
	defer logFile.Close()

	s.Log.WithFields(logrus.Fields{
		"output":   jp.OutputFile,
		"total_ms": p.TotalMS,
		"cues":     len(p.Cues),
	}).Info("starting ffmpeg render")

	ffmpeg := s.Config.Tools.FFmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	// Run inside the job workspace so any scratch files ffmpeg drops stay
	// in the directory the cleanup removes.
	opts := mediatool.RunOptions{Dir: jp.Root, Stdout: logFile, Stderr: logFile}
	if _, err := s.Runner.Run(ctx, ffmpeg, args, opts); err != nil {
		return "", fmt.Errorf("ffmpeg: %w (see %s)", err, logPath)
	}
	return jp.OutputFile, nil
}
