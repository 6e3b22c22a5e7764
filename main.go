package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/physio-dash/session-transcriber/cmd"
	"github.com/physio-dash/session-transcriber/logging"
)

func main() {
	envFiles := []string{".env", ".env.local"}
	if home, err := os.UserHomeDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(home, ".config", "session-transcriber.env"))
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// existing environment wins over files
		if err := godotenv.Load(f); err != nil {
			logging.Log.WithField("file", f).Warnf("env file not loaded: %v", err)
		}
	}

	if err := cmd.Execute(); err != nil {
		logging.Log.Error(err)
		os.Exit(1)
	}
}
