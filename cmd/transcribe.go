package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/physio-dash/session-transcriber/export"
	"github.com/physio-dash/session-transcriber/logging"
	"github.com/physio-dash/session-transcriber/orchestrator"
	"github.com/physio-dash/session-transcriber/render"
)

type outputFlags struct {
	plain  bool
	format string
	save   bool
	out    string
}

func (o *outputFlags) register(c *cobra.Command) {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	c.Flags().BoolVar(&o.plain, "plain", false, "print the plain transcript instead of speaker utterances")
	c.Flags().StringVarP(&o.format, "format", "f", "text", "output format: "+strings.Join(names, ", "))
	c.Flags().BoolVar(&o.save, "save", false, "also save the result document into paths.outputs")
	c.Flags().StringVarP(&o.out, "out", "o", "", "save the result document into this directory (implies --save)")
}

// emit writes res to stdout in the chosen format and, with --save or --out,
// saves the result document.
func (o *outputFlags) emit(c *cobra.Command, source, outputs string, res *orchestrator.Result) error {
	f, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if err := export.Write(c.OutOrStdout(), f, res, !o.plain); err != nil {
		return err
	}
	dir := o.out
	if dir == "" {
		if !o.save {
			return nil
		}
		dir = outputs
	}
	path, err := orchestrator.Save(dir, source, res)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	logging.Log.WithField("path", path).Info("result saved")
	return nil
}

func newTranscribeCmd(rf *rootFlags) *cobra.Command {
	var of outputFlags
	c := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Send an audio file to Deepgram and print the diarized transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			conf, err := load(rf)
			if err != nil {
				return err
			}
			in := args[0]
			if _, err := os.Stat(in); err != nil {
				return err
			}
			if of.format == "text" && !of.plain {
				render.Banner(c.ErrOrStderr(), conf.Pipeline.Name, conf.Pipeline.Version)
			}
			logging.Log.WithField("file", filepath.Base(in)).Info("transcribing")

			res, err := orchestrator.NewPipeline(conf).Run(c.Context(), in)
			if err != nil {
				return err
			}
			return of.emit(c, in, conf.Paths.Outputs, res)
		},
	}
	of.register(c)
	return c
}
