// Package export writes a transcription Result in file formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/physio-dash/session-transcriber/orchestrator"
	"github.com/physio-dash/session-transcriber/render"
)

type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
	SRT      Format = "srt"
)

// Formats lists the accepted values, text first.
var Formats = []Format{Text, JSON, YAML, Markdown, SRT}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == "txt" {
		return Text, nil
	}
	if f == "md" {
		return Markdown, nil
	}
	if f == "yml" {
		return YAML, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Write encodes res as f. Text and Markdown honor diarized; JSON and YAML
// always carry both views; SRT is per utterance.
func Write(w io.Writer, f Format, res *orchestrator.Result, diarized bool) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case Markdown:
		_, err := io.WriteString(w, markdown(res, diarized))
		return err
	case SRT:
		_, err := io.WriteString(w, srt(res))
		return err
	case Text:
		render.NewConsole(w).Render(res, diarized)
		return nil
	}
	return fmt.Errorf("unknown format %q", f)
}

func markdown(res *orchestrator.Result, diarized bool) string {
	var b strings.Builder
	b.WriteString("# Session Transcript\n\n")
	if res.RequestID != "" {
		fmt.Fprintf(&b, "- Request: `%s`\n", res.RequestID)
	}
	if res.Duration > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", render.FormatTime(res.Duration))
	}
	fmt.Fprintf(&b, "- Words: %d\n", res.WordCount)
	b.WriteString("\n---\n\n")

	if !diarized || !res.Diarized() {
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(res.Transcript))
		return b.String()
	}
	for _, u := range res.Utterances {
		fmt.Fprintf(&b, "**%s** [%s]\n\n%s\n\n", u.SpeakerLabel, render.FormatRange(u.Start, u.End), u.Text)
	}
	if len(res.Speakers) > 0 {
		b.WriteString("| Speaker | Turns | Talk time | Share |\n|---|---|---|---|\n")
		for _, s := range res.Speakers {
			fmt.Fprintf(&b, "| %s | %d | %s | %.0f%% |\n", s.Speaker, s.Turns, render.FormatTime(s.TalkTime), s.Share*100)
		}
	}
	return b.String()
}

// srtTime formats seconds as HH:MM:SS,mmm.
func srtTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

func srt(res *orchestrator.Result) string {
	var lines []string
	n := 0
	for _, u := range res.Utterances {
		if strings.TrimSpace(u.Text) == "" {
			continue
		}
		n++
		lines = append(lines,
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%s --> %s", srtTime(u.Start), srtTime(u.End)),
			fmt.Sprintf("%s: %s", u.SpeakerLabel, u.Text),
			"",
		)
	}
	return strings.Join(lines, "\n")
}
