package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"combinepy/cmd"
	"combinepy/pkg/logging"
	"combinepy/pkg/version"

	"go.uber.org/zap"
)

func main() {
	if err := logging.Setup(false, "combinepy", version.Version); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	// --debug swaps the logger during Execute, so read it only now.
	if err != nil {
		logging.Logger.Fatal("combinepy execution failed", zap.Error(err))
	}
	if err := logging.Sync(); err != nil {
		log.Printf("Logger sync failed: %v", err)
	}
}
