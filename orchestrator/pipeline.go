package orchestrator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/physio-dash/session-transcriber/clients"
	cfg "github.com/physio-dash/session-transcriber/config"
	"github.com/physio-dash/session-transcriber/diarize"
	"github.com/physio-dash/session-transcriber/logging"
)

// ErrEmptyAudio is returned for zero-length input, before calling the provider.
var ErrEmptyAudio = errors.New("audio is empty")

// Transcriber is the speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, mimetype string) (*clients.ListenResp, error)
}

type Pipeline struct {
	cfg *cfg.Root
	stt Transcriber
}

func NewPipeline(c *cfg.Root) *Pipeline {
	dg := clients.NewDeepgram(
		clients.NewHTTP(cfg.DurSeconds(c.Deepgram.Timeout)),
		c.Deepgram.URL,
		c.Deepgram.APIKey,
		clients.ListenOptions{
			Model:       c.Deepgram.Model,
			Language:    c.Deepgram.Language,
			SmartFormat: c.Deepgram.SmartFormat,
			Punctuate:   c.Deepgram.Punctuate,
			Diarize:     c.Deepgram.Diarize,
			Utterances:  c.Deepgram.Utterances,
		},
	)
	return NewPipelineWith(c, dg)
}

// NewPipelineWith uses stt instead of the configured Deepgram client.
func NewPipelineWith(c *cfg.Root, stt Transcriber) *Pipeline {
	return &Pipeline{cfg: c, stt: stt}
}

// FileTranscriber is a Transcriber that can read audio from disk itself.
type FileTranscriber interface {
	TranscribeFile(ctx context.Context, path string) (*clients.ListenResp, error)
}

// Configured reports whether the provider can be called at all. Providers
// that don't say are assumed ready.
func (p *Pipeline) Configured() bool {
	if c, ok := p.stt.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

// Run transcribes the audio file at path.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, ErrEmptyAudio
	}

	ft, ok := p.stt.(FileTranscriber)
	if !ok {
		fd, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		return p.Process(ctx, fd, clients.MimeType(path))
	}

	resp, err := ft.TranscribeFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return p.finish(resp), nil
}

// Process transcribes audio and groups the words into utterances.
func (p *Pipeline) Process(ctx context.Context, audio io.Reader, mimetype string) (*Result, error) {
	br := bufio.NewReader(audio)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyAudio
		}
		return nil, fmt.Errorf("audio read: %w", err)
	}

	resp, err := p.stt.Transcribe(ctx, br, mimetype)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return p.finish(resp), nil
}

func (p *Pipeline) finish(resp *clients.ListenResp) *Result {
	res := Build(resp)
	logging.WithFields(logrus.Fields{
		"request_id": res.RequestID,
		"model":      p.cfg.Deepgram.Model,
		"words":      res.WordCount,
		"utterances": len(res.Utterances),
		"speakers":   len(res.Speakers),
	}).Info("transcription complete")
	return res
}

// Build turns a provider response into a Result. An empty word list gives
// no utterances and leaves the plain transcript as the only view.
func Build(resp *clients.ListenResp) *Result {
	res := FromWords(resp.Words())
	if t := resp.Transcript(); t != "" {
		res.Transcript = t
	}
	if resp != nil {
		res.RequestID = resp.Metadata.RequestID
		res.Duration = resp.Metadata.Duration
	}
	return res
}

// FromWords builds a Result from a word list alone; the transcript is the
// joined word texts.
func FromWords(words []diarize.Word) *Result {
	utts := diarize.Group(words)
	return &Result{
		Transcript:  diarize.Transcript(words),
		Utterances:  utts,
		Speakers:    speakerStats(utts),
		OverlapRate: overlapRate(utts),
		WordCount:   len(words),
	}
}
