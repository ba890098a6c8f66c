package subtitle

import (
	"fmt"
	"math"
	"strings"
)

// assStyleFontSize and assStyleOutline match the two named styles the
// compositor expects; alignment 5 anchors text at bottom-center.
const (
	assStyleFontSize  = 100
	assStyleOutline   = 3
	assStyleAlignment = 5
)

// Document renders the complete ASS subtitle file for the given cues at the
// given frame resolution: script header, the Title and Caption styles, and
// one dialogue line per cue with its override block prefixed to the text.
func Document(cues []Cue, width, height int) string {
	margin := int(math.Round(float64(width) * 0.10))

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("Title: storyreel\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", width)
	fmt.Fprintf(&b, "PlayResY: %d\n", height)
	b.WriteString("ScaledBorderAndShadow: yes\n")
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	for _, name := range []string{"Title", "Caption"} {
		fmt.Fprintf(&b, "Style: %s, Arial, %d, &H00FFFFFF, &H00FFFFFF, &H00000000, &H64000000, 1,0,0,0,100,100,0,0,1,%d,0,%d, %d,%d,0,1\n",
			name, assStyleFontSize, assStyleOutline, assStyleAlignment, margin, margin)
	}
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, cue := range cues {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s%s\n",
			Timestamp(cue.StartMS), Timestamp(cue.EndMS), cue.Style, cue.Anim, cue.Text)
	}
	return b.String()
}

// Timestamp formats milliseconds as the ASS H:MM:SS.CC representation,
// truncating to centiseconds.
func Timestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	cs := ms / 10
	s := cs / 100
	cs %= 100
	m := s / 60
	s %= 60
	h := m / 60
	m %= 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
