package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/plan"
	"storyreel/internal/subtitle"
	"storyreel/pkg/request"
)

var (
	planAudioMS      int64
	planEndCardAudio bool
	planSubtitleOut  string
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <request.json>",
		Short: "Compute the render plan for a request file without rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
	cmd.Flags().Int64Var(&planAudioMS, "audio-ms", -1, "Narration duration in ms (-1 = unknown)")
	cmd.Flags().BoolVar(&planEndCardAudio, "end-card-audio", false, "Treat the end-card audio as usable")
	cmd.Flags().StringVar(&planSubtitleOut, "subtitles", "", "Also write the ASS subtitle file to this path")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	req, err := request.Load(args[0])
	if err != nil {
		return err
	}

	p := plan.Compose(req, planAudioMS, planEndCardAudio)

	if planSubtitleOut != "" {
		doc := subtitle.Document(p.Cues, p.Frame.Width, p.Frame.Height)
		if err := os.WriteFile(planSubtitleOut, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write subtitles: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf(
		"render plan  %dx%d@%d  total %s",
		p.Frame.Width, p.Frame.Height, p.Frame.FPS, subtitle.Timestamp(p.TotalMS))))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tDURATION\tXFADE OFFSET")
	for i, s := range p.Segments {
		offset := "-"
		if i < len(p.CrossfadeOffsetsSec) {
			offset = fmt.Sprintf("%.3fs", p.CrossfadeOffsetsSec[i])
		}
		fmt.Fprintf(tw, "%d\t%dms\t%s\n", s.Index, s.DurationMS, offset)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s cues, end card %dms", countStyle.Render(fmt.Sprintf("%d", len(p.Cues))), p.EndCardMS)
	if p.Audio.EndCard != nil {
		fmt.Fprintf(out, ", end-card audio at %dms", p.Audio.EndCard.DelayMS)
	}
	fmt.Fprintln(out)
	return nil
}
