package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SaveBundle struct {
	ID          string    `json:"id"`
	AudioPath   string    `json:"audio_path,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Result      *Result   `json:"result"`
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Save writes res as <dir>/<audio base>_<id>.json and returns the path.
// Nothing is ever read back.
func Save(dir, audioPath string, res *Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	id := uuid.NewString()
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if audioPath == "-" {
		audioPath = ""
	}
	if audioPath == "" || base == "" || base == "." {
		base = "transcript"
	}
	path := filepath.Join(dir, base+"_"+id[:8]+".json")

	bundle := SaveBundle{
		ID:          id,
		AudioPath:   audioPath,
		GeneratedAt: time.Now().UTC(),
		Result:      res,
	}
	if err := writeJSON(path, bundle); err != nil {
		return "", err
	}
	return path, nil
}
