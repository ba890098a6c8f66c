// Package request defines the render request model shared by the HTTP
// surface and the CLI.
package request

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Caption is one raw caption entry. Times are milliseconds; entries may be
// unsorted, overlapping, or invalid — the core filters them.
type Caption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Frame is the requested output raster.
type Frame struct {
	Width  int `json:"width" validate:"required,gt=0"`
	Height int `json:"height" validate:"required,gt=0"`
	FPS    int `json:"fps" validate:"required,gt=0"`
}

// Render is the body of a render request.
type Render struct {
	Captions        []Caption `json:"captions"`
	ImageURLs       []string  `json:"image_urls" validate:"required,len=4,dive,required,url"`
	AudioURL        string    `json:"audio_url" validate:"required,url"`
	EndCardAudioURL string    `json:"end_card_audio_url" validate:"omitempty,url"`
	EndCardMS       int64     `json:"end_card_duration_ms" validate:"gte=0"`
	Frame           Frame     `json:"frame"`
}

var validate = validator.New()

// Validate checks the structural contract: exactly four image URLs, a
// narration URL, a sane frame. Caption contents are deliberately not
// validated here; the normalizer handles malformed entries.
func (r Render) Validate() error {
	return validate.Struct(r)
}

// Load reads and validates a render request from a JSON file.
func Load(path string) (Render, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Render{}, fmt.Errorf("read request: %w", err)
	}
	var r Render
	if err := json.Unmarshal(contents, &r); err != nil {
		return Render{}, fmt.Errorf("unmarshal request: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Render{}, fmt.Errorf("validate request: %w", err)
	}
	return r, nil
}
