package orchestrator

import "github.com/physio-dash/session-transcriber/diarize"

// Result is what one transcription hands to the UI, console or exporters.
type Result struct {
	RequestID  string              `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Duration   float64             `json:"duration,omitempty" yaml:"duration,omitempty"` // sec, provider-reported
	Transcript string              `json:"transcript" yaml:"transcript"`
	Utterances []diarize.Utterance `json:"utterances" yaml:"utterances"`
	Speakers   []SpeakerStats      `json:"speakers,omitempty" yaml:"speakers,omitempty"`
	// Aggregates
	OverlapRate float64 `json:"overlap_rate,omitempty" yaml:"overlap_rate,omitempty"`
	WordCount   int     `json:"word_count" yaml:"word_count"`
}

// Diarized reports whether there is anything to show in the per-speaker view.
func (r *Result) Diarized() bool { return len(r.Utterances) > 0 }

type SpeakerStats struct {
	Speaker  string  `json:"speaker" yaml:"speaker"`
	Turns    int     `json:"turns" yaml:"turns"`
	TalkTime float64 `json:"talk_time" yaml:"talk_time"` // sec
	Share    float64 `json:"share" yaml:"share"`         // of total talk time
}
