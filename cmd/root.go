package cmd

import (
	"github.com/spf13/cobra"

	cfg "github.com/physio-dash/session-transcriber/config"
	"github.com/physio-dash/session-transcriber/logging"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:           "session-transcriber",
		Short:         "Transcribe therapy session recordings with per-speaker utterances",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&rf.configPath, "config", "c", "", "config file (default: config/$CONFIG_ENV/config.yaml)")
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().StringVar(&rf.logFile, "log-file", "", "also write logs to this file")

	root.AddCommand(
		newTranscribeCmd(&rf),
		newGroupCmd(&rf),
		newServeCmd(&rf),
		newConfigCmd(&rf),
	)
	return root
}

// load reads config and initializes logging from config and flags.
func load(rf *rootFlags) (*cfg.Root, error) {
	conf, err := cfg.Load(rf.configPath)
	if err != nil {
		return nil, err
	}
	applyLogging(rf, conf)
	return conf, logging.Init(conf.Pipeline.LogLvl, conf.Pipeline.LogFile)
}

func applyLogging(rf *rootFlags, conf *cfg.Root) {
	if rf.logLevel != "" {
		conf.Pipeline.LogLvl = rf.logLevel
	}
	if rf.logFile != "" {
		conf.Pipeline.LogFile = rf.logFile
	}
}

func Execute() error { return NewRoot().Execute() }
