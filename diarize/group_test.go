package diarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func w(text, spk string, start, end float64) Word {
	return Word{Text: text, SpeakerTag: spk, Start: start, End: end}
}

func TestGroupScenarios(t *testing.T) {
	tests := []struct {
		name  string
		words []Word
		want  []Utterance
	}{
		{
			name:  "same speaker merges",
			words: []Word{w("Hello", "A", 0.0, 0.5), w("world", "A", 0.5, 1.0)},
			want:  []Utterance{{SpeakerLabel: "Speaker A", Text: "Hello world", Start: 0.0, End: 1.0}},
		},
		{
			name:  "speaker change splits",
			words: []Word{w("Hi", "A", 0, 0.4), w("there", "B", 0.4, 0.9)},
			want: []Utterance{
				{SpeakerLabel: "Speaker A", Text: "Hi", Start: 0, End: 0.4},
				{SpeakerLabel: "Speaker B", Text: "there", Start: 0.4, End: 0.9},
			},
		},
		{
			name:  "empty",
			words: []Word{},
			want:  []Utterance{},
		},
		{
			name:  "single word",
			words: []Word{w("Yes", "A", 2.0, 2.3)},
			want:  []Utterance{{SpeakerLabel: "Speaker A", Text: "Yes", Start: 2.0, End: 2.3}},
		},
		{
			name: "alternating speakers",
			words: []Word{
				w("one", "A", 0, 1), w("two", "B", 1, 2), w("three", "A", 2, 3), w("four", "B", 3, 4),
			},
			want: []Utterance{
				{SpeakerLabel: "Speaker A", Text: "one", Start: 0, End: 1},
				{SpeakerLabel: "Speaker B", Text: "two", Start: 1, End: 2},
				{SpeakerLabel: "Speaker A", Text: "three", Start: 2, End: 3},
				{SpeakerLabel: "Speaker B", Text: "four", Start: 3, End: 4},
			},
		},
		{
			name:  "gap does not split",
			words: []Word{w("before", "A", 0, 0.5), w("after", "A", 30, 30.5)},
			want:  []Utterance{{SpeakerLabel: "Speaker A", Text: "before after", Start: 0, End: 30.5}},
		},
		{
			name:  "tags compare exactly",
			words: []Word{w("x", "a", 0, 1), w("y", "A", 1, 2)},
			want: []Utterance{
				{SpeakerLabel: "Speaker a", Text: "x", Start: 0, End: 1},
				{SpeakerLabel: "Speaker A", Text: "y", Start: 1, End: 2},
			},
		},
		{
			name:  "malformed timestamps pass through",
			words: []Word{w("odd", "1", 5, 4)},
			want:  []Utterance{{SpeakerLabel: "Speaker 1", Text: "odd", Start: 5, End: 4}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Group(tc.words))
		})
	}
}

func TestGroupNilInput(t *testing.T) {
	got := Group(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupDefaultSpeaker(t *testing.T) {
	words := []Word{w("no", "", 0, 1), w("tag", "", 1, 2), w("explicit", "A", 2, 3), w("other", "B", 3, 4)}
	got := Group(words)
	require.Len(t, got, 2)
	assert.Equal(t, "Speaker A", got[0].SpeakerLabel)
	assert.Equal(t, "no tag explicit", got[0].Text)
	assert.Equal(t, 3.0, got[0].End)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []Word{w("a", "", 0, 1)}
	out := Normalize(in)
	assert.Equal(t, "", in[0].SpeakerTag)
	assert.Equal(t, DefaultSpeakerTag, out[0].SpeakerTag)
}

func TestGroupTrimsText(t *testing.T) {
	got := Group([]Word{w(" padded", "A", 0, 1), w("words ", "A", 1, 2)})
	require.Len(t, got, 1)
	assert.Equal(t, "padded words", got[0].Text)
}

func propertyInput() []Word {
	tags := []string{"A", "A", "B", "", "", "A", "C", "C", "C", "B", "A", ""}
	words := make([]Word, len(tags))
	for i, tag := range tags {
		words[i] = w(string(rune('a'+i)), tag, float64(i), float64(i)+0.75)
	}
	return words
}

func TestGroupPartition(t *testing.T) {
	words := propertyInput()
	var got []string
	for _, u := range Group(words) {
		got = append(got, strings.Fields(u.Text)...)
	}
	var want []string
	for _, wd := range words {
		want = append(want, wd.Text)
	}
	assert.Equal(t, want, got)
}

func TestGroupBoundaries(t *testing.T) {
	words := Normalize(propertyInput())
	boundaries := 0
	for i := 1; i < len(words); i++ {
		if words[i].SpeakerTag != words[i-1].SpeakerTag {
			boundaries++
		}
	}
	utts := Group(words)
	assert.Len(t, utts, boundaries+1)
	for i := 1; i < len(utts); i++ {
		assert.NotEqual(t, utts[i-1].SpeakerLabel, utts[i].SpeakerLabel)
	}
}

func TestGroupSpans(t *testing.T) {
	words := Normalize(propertyInput())
	i := 0
	for _, u := range Group(words) {
		n := len(strings.Fields(u.Text))
		assert.Equal(t, words[i].Start, u.Start)
		assert.Equal(t, words[i+n-1].End, u.End)
		i += n
	}
	assert.Equal(t, len(words), i)
}

func TestSpeakerLabelStable(t *testing.T) {
	assert.Equal(t, "Speaker 0", SpeakerLabel("0"))
	assert.Equal(t, SpeakerLabel("B"), SpeakerLabel("B"))
}

func TestTranscript(t *testing.T) {
	assert.Equal(t, "Hi there", Transcript([]Word{w("Hi", "A", 0, 1), w("there", "B", 1, 2)}))
	assert.Equal(t, "", Transcript(nil))
}

func TestUtteranceDuration(t *testing.T) {
	assert.Equal(t, 1.5, Utterance{Start: 1, End: 2.5}.Duration())
	assert.Equal(t, 0.0, Utterance{Start: 3, End: 2}.Duration())
}
