package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/physio-dash/session-transcriber/diarize"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("Deepgram API key is not configured")

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deepgram %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// ListenOptions are the /v1/listen query parameters sent with every request.
type ListenOptions struct {
	Model       string
	Language    string
	SmartFormat bool
	Punctuate   bool
	Diarize     bool
	Utterances  bool
}

func (o ListenOptions) query() url.Values {
	q := url.Values{}
	if o.Model != "" {
		q.Set("model", o.Model)
	}
	if o.Language != "" {
		q.Set("language", o.Language)
	}
	q.Set("smart_format", strconv.FormatBool(o.SmartFormat))
	q.Set("punctuate", strconv.FormatBool(o.Punctuate))
	q.Set("diarize", strconv.FormatBool(o.Diarize))
	q.Set("utterances", strconv.FormatBool(o.Utterances))
	return q
}

// DGWord is one recognized word. Speaker is nil unless diarization ran.
type DGWord struct {
	Word           string  `json:"word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
	Speaker        *int    `json:"speaker,omitempty"`
	PunctuatedWord string  `json:"punctuated_word,omitempty"`
}

// DGAlternative is one recognition hypothesis for a channel.
type DGAlternative struct {
	Transcript string   `json:"transcript"`
	Confidence float64  `json:"confidence"`
	Words      []DGWord `json:"words"`
}

// DGChannel holds the alternatives for one audio channel.
type DGChannel struct {
	Alternatives []DGAlternative `json:"alternatives"`
}

// ListenResp is the subset of the prerecorded response that is used.
type ListenResp struct {
	Metadata struct {
		RequestID string  `json:"request_id"`
		Duration  float64 `json:"duration"`
		Channels  int     `json:"channels"`
	} `json:"metadata"`
	Results struct {
		Channels []DGChannel `json:"channels"`
	} `json:"results"`
}

func (r *ListenResp) first() *DGAlternative {
	if r == nil || len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return nil
	}
	return &r.Results.Channels[0].Alternatives[0]
}

// Transcript is the first alternative of the first channel, or "".
func (r *ListenResp) Transcript() string {
	if a := r.first(); a != nil {
		return a.Transcript
	}
	return ""
}

// Words maps the first alternative's words for grouping. A missing speaker
// becomes an absent tag.
func (r *ListenResp) Words() []diarize.Word {
	a := r.first()
	if a == nil {
		return nil
	}
	out := make([]diarize.Word, 0, len(a.Words))
	for _, w := range a.Words {
		tag := ""
		if w.Speaker != nil {
			tag = strconv.Itoa(*w.Speaker)
		}
		out = append(out, diarize.Word{Text: w.Word, SpeakerTag: tag, Start: w.Start, End: w.End})
	}
	return out
}

type dgErr struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// Listen posts audio to baseURL's /v1/listen and decodes the response.
// A non-2xx status comes back as *APIError.
func (h *HTTP) Listen(ctx context.Context, baseURL, apiKey string, opts ListenOptions, audio io.Reader, mimetype string) (*ListenResp, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/v1/listen?" + opts.query().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, audio)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}
	req.Header.Set("Content-Type", mimetype)

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		var de dgErr
		if json.Unmarshal(body, &de) == nil && de.ErrMsg != "" {
			msg = de.ErrMsg
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	var out ListenResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("deepgram decode: %w", err)
	}
	return &out, nil
}

// Deepgram binds an HTTP client to one account and option set.
type Deepgram struct {
	h      *HTTP
	url    string
	apiKey string
	opts   ListenOptions
}

// NewDeepgram returns a client. An empty apiKey is only reported when a
// request is made.
func NewDeepgram(h *HTTP, baseURL, apiKey string, opts ListenOptions) *Deepgram {
	return &Deepgram{h: h, url: baseURL, apiKey: apiKey, opts: opts}
}

// Configured reports whether an API key is set.
func (d *Deepgram) Configured() bool { return d.apiKey != "" }

func (d *Deepgram) Transcribe(ctx context.Context, audio io.Reader, mimetype string) (*ListenResp, error) {
	return d.h.Listen(ctx, d.url, d.apiKey, d.opts, audio, mimetype)
}

// TranscribeFile sends the file at path with a content type guessed from its extension.
func (d *Deepgram) TranscribeFile(ctx context.Context, path string) (*ListenResp, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return d.Transcribe(ctx, fd, MimeType(path))
}

// MimeType guesses the audio content type from the file extension.
func MimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// DecodeListen reads a saved provider response.
func DecodeListen(r io.Reader) (*ListenResp, error) {
	var out ListenResp
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("deepgram decode: %w", err)
	}
	return &out, nil
}
