package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/physio-dash/session-transcriber/clients"
	"github.com/physio-dash/session-transcriber/diarize"
	"github.com/physio-dash/session-transcriber/orchestrator"
)

func newGroupCmd(rf *rootFlags) *cobra.Command {
	var of outputFlags
	c := &cobra.Command{
		Use:   "group <file.json>",
		Short: "Group a saved Deepgram response or a JSON word list into speaker utterances",
		Long: `Reads either a saved Deepgram /v1/listen response or a bare JSON array of
words ({"text","speaker","start","end"}) and prints the speaker utterances.
Use "-" to read from stdin. No network calls are made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			conf, err := load(rf)
			if err != nil {
				return err
			}
			var in io.Reader = c.InOrStdin()
			if args[0] != "-" {
				fd, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer fd.Close()
				in = fd
			}
			res, err := readResult(in)
			if err != nil {
				return err
			}
			return of.emit(c, args[0], conf.Paths.Outputs, res)
		},
	}
	of.register(c)
	return c
}

// readResult accepts a provider response object or a bare word array.
func readResult(r io.Reader) (*orchestrator.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("group: empty input")
	}

	if b[0] == '[' {
		var words []diarize.Word
		if err := json.Unmarshal(b, &words); err != nil {
			return nil, fmt.Errorf("group decode words: %w", err)
		}
		return orchestrator.FromWords(words), nil
	}

	resp, err := clients.DecodeListen(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return orchestrator.Build(resp), nil
}
