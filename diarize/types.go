package diarize

// DefaultSpeakerTag is used for words the provider did not attribute to a speaker.
const DefaultSpeakerTag = "A"

// Word is one recognized token as returned by the transcription provider.
type Word struct {
	Text       string  `json:"text" yaml:"text"`
	SpeakerTag string  `json:"speaker,omitempty" yaml:"speaker,omitempty"` // "" = absent
	Start      float64 `json:"start" yaml:"start"`                         // sec
	End        float64 `json:"end" yaml:"end"`                             // sec
}

// Utterance is a maximal run of consecutive words from one speaker.
type Utterance struct {
	SpeakerLabel string  `json:"speaker" yaml:"speaker"` // "Speaker A"...
	Text         string  `json:"text" yaml:"text"`
	Start        float64 `json:"start" yaml:"start"`
	End          float64 `json:"end" yaml:"end"`
}

// Duration is End-Start, never negative.
func (u Utterance) Duration() float64 {
	if u.End < u.Start {
		return 0
	}
	return u.End - u.Start
}
