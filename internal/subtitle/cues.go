// Package subtitle converts normalized captions into styled ASS cues and
// renders the subtitle document the compositor burns into the video.
package subtitle

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"storyreel/internal/captions"
)

// Style selects one of the two named styles declared in the ASS header.
type Style int

const (
	StyleTitle Style = iota
	StyleCaption
)

func (s Style) String() string {
	if s == StyleTitle {
		return "Title"
	}
	return "Caption"
}

// wrap budgets per style: the title is larger on screen, so it gets fewer
// characters per line but more lines.
const (
	titleMaxChars   = 12
	titleMaxLines   = 6
	captionMaxChars = 18
	captionMaxLines = 5
)

// slideInMS is the length of the vertical slide-in applied to every cue.
const slideInMS = 220

// fadeMS is the cue fade-in and fade-out length.
const fadeMS = 120

// safeBottomRatio keeps cues clear of short-form platform UI chrome at the
// bottom of the frame.
const safeBottomRatio = 0.32

// Cue is one timed, styled, positioned block of subtitle text. Text is
// already escaped and wrapped with \N breaks; Anim is the inline override
// block prefixed to the text in the dialogue line.
type Cue struct {
	Style   Style
	StartMS int64
	EndMS   int64
	Text    string
	Anim    string
}

// BuildCues produces one cue per caption. The first caption becomes the
// Title cue; all others use the Caption style. Every cue slides up into its
// anchor position and fades in and out.
func BuildCues(caps []captions.Scaled, width, height int) []Cue {
	if len(caps) == 0 {
		return nil
	}

	anchorX := width / 2
	anchorY := height - int(math.Round(float64(height)*safeBottomRatio))
	slideDy := int(math.Round(float64(height) * 0.035))
	if slideDy < 20 {
		slideDy = 20
	}
	anim := fmt.Sprintf(`{\move(%d,%d,%d,%d,0,%d)\fad(%d,%d)}`,
		anchorX, anchorY+slideDy, anchorX, anchorY, slideInMS, fadeMS, fadeMS)

	cues := make([]Cue, 0, len(caps))
	for i, c := range caps {
		style := StyleCaption
		maxChars, maxLines := captionMaxChars, captionMaxLines
		if i == 0 {
			style = StyleTitle
			maxChars, maxLines = titleMaxChars, titleMaxLines
		}

		lines := wrapText(escapeText(c.Text), maxChars, maxLines)
		if len(lines) == 0 {
			continue
		}

		cues = append(cues, Cue{
			Style:   style,
			StartMS: c.StartMS,
			EndMS:   c.EndMS,
			Text:    strings.Join(lines, `\N`),
			Anim:    anim,
		})
	}
	return cues
}

// escapeText collapses whitespace runs to single spaces and escapes the
// characters ASS reserves for override blocks.
func escapeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `{`, `\{`)
	s = strings.ReplaceAll(s, `}`, `\}`)
	return s
}

// wrapText greedily packs words into lines of at most maxChars characters,
// producing at most maxLines lines. Budgets count runes, not bytes, so
// multibyte captions wrap the same as ASCII ones. Once the line budget is
// spent the final line absorbs every remaining word, so text is never
// dropped even when the last line runs over the character budget.
func wrapText(text string, maxChars, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	currentLen := 0
	for i, word := range words {
		if len(lines) == maxLines-1 {
			rest := strings.Join(words[i:], " ")
			if current == "" {
				current = rest
			} else {
				current += " " + rest
			}
			break
		}
		wordLen := utf8.RuneCountInString(word)
		switch {
		case current == "":
			current = word
			currentLen = wordLen
		case currentLen+1+wordLen <= maxChars:
			current += " " + word
			currentLen += 1 + wordLen
		default:
			lines = append(lines, current)
			current = word
			currentLen = wordLen
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
