package server

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"storyreel/internal/config"
	"storyreel/internal/fetch"
	"storyreel/internal/mediatool"
	"storyreel/internal/paths"
	"storyreel/internal/plan"
	"storyreel/internal/render"
	"storyreel/pkg/request"
)

// Pipeline drives one render request end to end: download assets, probe the
// narration, validate the optional end-card clip, compose the plan, and run
// ffmpeg. Everything stateful lives in the per-job workspace so concurrent
// requests stay independent.
type Pipeline struct {
	Config   config.Config
	Fetcher  *fetch.Client
	Runner   mediatool.Runner
	Renderer *render.Service
	Log      *logrus.Logger
}

// NewPipeline wires a pipeline from config, substituting production
// collaborators for nil ones.
func NewPipeline(cfg config.Config, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.New()
	}
	runner := mediatool.CmdRunner{}
	return &Pipeline{
		Config:   cfg,
		Fetcher:  fetch.NewClient(timeoutSeconds(cfg), cfg.Fetch.MaxBytes),
		Runner:   runner,
		Renderer: render.NewService(cfg, runner, log),
		Log:      log,
	}
}

// Run executes the request under jobID and returns the rendered video path.
// The caller owns workspace cleanup via the returned JobPaths.
func (p *Pipeline) Run(ctx context.Context, req request.Render, jobID string) (string, paths.JobPaths, error) {
	jp := paths.ForJob(p.Config.WorkDir, jobID)
	if err := jp.Ensure(); err != nil {
		return "", jp, err
	}

	log := p.Log.WithField("job_id", jobID)

	assets := render.Assets{Audio: jp.AudioFile()}
	for i, rawURL := range req.ImageURLs {
		dest := jp.ImageFile(i)
		if err := p.Fetcher.ToFile(ctx, rawURL, dest); err != nil {
			return "", jp, fmt.Errorf("fetch image %d: %w", i, err)
		}
		assets.Images[i] = dest
	}
	if err := p.Fetcher.ToFile(ctx, req.AudioURL, assets.Audio); err != nil {
		return "", jp, fmt.Errorf("fetch audio: %w", err)
	}

	audioMS, err := mediatool.Probe(ctx, p.Runner, p.Config.Tools.FFprobe, assets.Audio)
	if err != nil {
		// An unprobeable narration still renders; captions fall back to
		// their original durations.
		log.WithError(err).Warn("audio probe failed, using unknown duration")
		audioMS = mediatool.DurationUnknown
	}

	endCardAudio := false
	if req.EndCardAudioURL != "" {
		srcPath := jp.EndCardAudioFile() + "_raw"
		if fetchErr := p.Fetcher.ToFile(ctx, req.EndCardAudioURL, srcPath); fetchErr != nil {
			log.WithError(fetchErr).Warn("end-card audio fetch failed, rendering without it")
		} else {
			endCardAudio, err = mediatool.ValidateEndCardAudio(
				ctx, p.Runner, p.Config.Tools.FFmpeg, p.Config.Tools.FFprobe, srcPath, jp.EndCardAudioFile())
			if err != nil {
				return "", jp, err
			}
			if endCardAudio {
				assets.EndCardAudio = jp.EndCardAudioFile()
			}
		}
	}

	built := plan.Compose(req, audioMS, endCardAudio)
	log.WithFields(logrus.Fields{
		"audio_ms":       audioMS,
		"total_ms":       built.TotalMS,
		"cues":           len(built.Cues),
		"end_card_audio": endCardAudio,
	}).Info("render plan composed")

	out, err := p.Renderer.Render(ctx, built, assets, jp)
	if err != nil {
		return "", jp, err
	}
	return out, jp, nil
}

func timeoutSeconds(cfg config.Config) time.Duration {
	return time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
}
