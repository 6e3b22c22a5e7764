// Package render prints transcription results to a terminal.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/physio-dash/session-transcriber/orchestrator"
)

var palette = []color.Attribute{color.FgBlue, color.FgGreen, color.FgMagenta, color.FgYellow, color.FgCyan}

// FormatTime renders seconds as M:SS.
func FormatTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	total := int(math.Floor(sec))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatRange renders "M:SS - M:SS".
func FormatRange(start, end float64) string {
	return FormatTime(start) + " - " + FormatTime(end)
}

type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{w: w} }

// Render prints the per-speaker view when diarized is set and there are
// utterances, otherwise the plain transcript.
func (c *Console) Render(res *orchestrator.Result, diarized bool) {
	if !diarized || !res.Diarized() {
		c.plain(res)
		return
	}

	colors := map[string]*color.Color{}
	for _, u := range res.Utterances {
		col, ok := colors[u.SpeakerLabel]
		if !ok {
			col = color.New(palette[len(colors)%len(palette)], color.Bold)
			colors[u.SpeakerLabel] = col
		}
		col.Fprintf(c.w, "%s", u.SpeakerLabel)
		color.New(color.Faint).Fprintf(c.w, "  %s\n", FormatRange(u.Start, u.End))
		fmt.Fprintf(c.w, "  %s\n\n", u.Text)
	}

	if len(res.Speakers) > 1 {
		color.New(color.Bold).Fprintln(c.w, "Talk time")
		for _, s := range res.Speakers {
			fmt.Fprintf(c.w, "  %-12s %5.1f%%  %d turns\n", s.Speaker, s.Share*100, s.Turns)
		}
	}
}

func (c *Console) plain(res *orchestrator.Result) {
	text := strings.TrimSpace(res.Transcript)
	if text == "" {
		color.New(color.FgYellow).Fprintln(c.w, "(no speech recognized)")
		return
	}
	fmt.Fprintln(c.w, text)
}

// Banner prints the CLI header.
func Banner(w io.Writer, name, version string) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(w, "================================")
	cyan.Fprintf(w, "   %s %s\n", name, version)
	cyan.Fprintln(w, "================================")
}
