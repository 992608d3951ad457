package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/arbor-dev/arbor/pkg/app"
	"github.com/arbor-dev/arbor/pkg/replay"
	"github.com/arbor-dev/arbor/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		addr         string
		logLevel     string
		replayDir    string
		replayBucket string
		replayRegion string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve the built-in demo application.

Each connected browser gets its own application instance; state
lives server-side and DOM patches stream over /ws. Prometheus
metrics are exposed on /metrics.

Examples:
  arbor serve
  arbor serve --addr=:9000
  arbor serve --replay-dir=./replays`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, logLevel, replayDir, replayBucket, replayRegion)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&replayDir, "replay-dir", "", "Archive session replays to this directory")
	cmd.Flags().StringVar(&replayBucket, "replay-bucket", "", "Archive session replays to this S3 bucket")
	cmd.Flags().StringVar(&replayRegion, "replay-region", "us-east-1", "S3 region for --replay-bucket")

	return cmd
}

func runServe(addr, logLevel, replayDir, replayBucket, replayRegion string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("bad log level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := server.DefaultConfig()
	cfg.Addr = addr
	cfg.Logger = logger
	cfg.PageTitle = "arbor demo"

	switch {
	case replayDir != "" && replayBucket != "":
		return fmt.Errorf("--replay-dir and --replay-bucket are mutually exclusive")
	case replayDir != "":
		sink, err := replay.NewDirSink(replayDir)
		if err != nil {
			return err
		}
		cfg.Replay = replay.NewArchiver(sink, logger, 0)
	case replayBucket != "":
		client := s3.New(s3.Options{Region: replayRegion})
		cfg.Replay = replay.NewArchiver(replay.NewS3Sink(client, replayBucket, "replays/"), logger, 0)
	}

	srv, err := server.New(func() app.Program { return newDemo() }, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
