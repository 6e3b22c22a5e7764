package render

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/physio-dash/session-transcriber/diarize"
	"github.com/physio-dash/session-transcriber/orchestrator"
)

func init() { color.NoColor = true }

func TestFormatTime(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00",
		0.4:    "0:00",
		9.99:   "0:09",
		65.2:   "1:05",
		600:    "10:00",
		3725.5: "62:05",
		-3:     "0:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatTime(in), "%v", in)
	}
	assert.Equal(t, "0:02 - 1:01", FormatRange(2.3, 61))
}

func result() *orchestrator.Result {
	return &orchestrator.Result{
		Transcript: "Hi there. How are you?",
		Utterances: []diarize.Utterance{
			{SpeakerLabel: "Speaker 0", Text: "Hi there.", Start: 0, End: 0.9},
			{SpeakerLabel: "Speaker 1", Text: "How are you?", Start: 1, End: 2},
		},
		Speakers: []orchestrator.SpeakerStats{
			{Speaker: "Speaker 0", Turns: 1, TalkTime: 0.9, Share: 0.47},
			{Speaker: "Speaker 1", Turns: 1, TalkTime: 1, Share: 0.53},
		},
	}
}

func TestRenderDiarized(t *testing.T) {
	var b bytes.Buffer
	NewConsole(&b).Render(result(), true)

	out := b.String()
	assert.Contains(t, out, "Speaker 0  0:00 - 0:00\n  Hi there.\n")
	assert.Contains(t, out, "Speaker 1  0:01 - 0:02\n  How are you?\n")
	assert.Contains(t, out, "Talk time")
	assert.Contains(t, out, " 47.0%  1 turns")
}

func TestRenderPlain(t *testing.T) {
	var b bytes.Buffer
	NewConsole(&b).Render(result(), false)
	assert.Equal(t, "Hi there. How are you?\n", b.String())
}

func TestRenderFallsBackWithoutUtterances(t *testing.T) {
	var b bytes.Buffer
	NewConsole(&b).Render(&orchestrator.Result{Transcript: "only text", Utterances: []diarize.Utterance{}}, true)
	assert.Equal(t, "only text\n", b.String())

	b.Reset()
	NewConsole(&b).Render(&orchestrator.Result{}, true)
	assert.Contains(t, b.String(), "no speech recognized")
}
