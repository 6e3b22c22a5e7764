// Package diarize turns a speaker-tagged word list into per-speaker utterances.
package diarize

import "strings"

// SpeakerLabel renders the display label for a speaker tag.
func SpeakerLabel(tag string) string { return "Speaker " + tag }

// Normalize returns a copy of words with absent speaker tags set to DefaultSpeakerTag.
func Normalize(words []Word) []Word {
	out := make([]Word, len(words))
	for i, w := range words {
		if w.SpeakerTag == "" {
			w.SpeakerTag = DefaultSpeakerTag
		}
		out[i] = w
	}
	return out
}

// run accumulates the utterance currently being built.
type run struct {
	tag   string
	text  strings.Builder
	start float64
	end   float64
}

func newRun(w Word) *run {
	r := &run{tag: w.SpeakerTag, start: w.Start, end: w.End}
	r.text.WriteString(w.Text)
	return r
}

func (r *run) add(w Word) {
	r.text.WriteByte(' ')
	r.text.WriteString(w.Text)
	r.end = w.End
}

func (r *run) close() Utterance {
	return Utterance{
		SpeakerLabel: SpeakerLabel(r.tag),
		Text:         strings.TrimSpace(r.text.String()),
		Start:        r.start,
		End:          r.end,
	}
}

// Group merges consecutive words with the same speaker tag into utterances.
// Words are expected in provider order and are never re-sorted. Gaps between
// same-speaker words do not split a run, and timestamps are passed through
// as given.
func Group(words []Word) []Utterance {
	utts := []Utterance{}
	if len(words) == 0 {
		return utts
	}
	words = Normalize(words)

	acc := newRun(words[0])
	for _, w := range words[1:] {
		if w.SpeakerTag != acc.tag {
			utts = append(utts, acc.close())
			acc = newRun(w)
			continue
		}
		acc.add(w)
	}
	if acc.text.Len() > 0 {
		utts = append(utts, acc.close())
	}
	return utts
}

// Transcript joins word texts with single spaces.
func Transcript(words []Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
