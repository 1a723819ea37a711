// Package logging owns the process-wide zap logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// Logger discards everything until Setup runs.
var Logger = zap.NewNop()

// Setup replaces Logger and zap's globals. In debug mode the development
// config is used (console encoder, debug level); otherwise JSON at info.
func Setup(debug bool, appName, appVersion string) error {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = logger
	zap.ReplaceGlobals(logger)
	return nil
}

// Sync flushes Logger when stderr can be synced. Pipes and character
// devices other than terminals reject fsync with EINVAL, which is ignored.
func Sync() error {
	if !syncable(os.Stderr) {
		return nil
	}
	err := Logger.Sync()
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "invalid argument") {
		return nil
	}
	return err
}

func syncable(f *os.File) bool {
	if term.IsTerminal(int(f.Fd())) {
		return true
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode().IsRegular()
}
