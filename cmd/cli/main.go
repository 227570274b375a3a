package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/indicator-atlas/pkg/runtime/terminal"
	"github.com/de-tools/indicator-atlas/pkg/services/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logger.WithContext(ctx)

	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
	})

	err := cli.Execute(ctx)
	stop()
	if err == nil {
		return
	}

	if pipeline.IsFatal(err) {
		logger.Error().
			Str("stage", string(pipeline.StageOf(err))).
			Msg(err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
	os.Exit(2)
}
