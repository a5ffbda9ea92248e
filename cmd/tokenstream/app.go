package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/tokenstream/internal/config"
	"github.com/rxtech-lab/tokenstream/internal/logger"
	"github.com/rxtech-lab/tokenstream/internal/observability"
	"github.com/rxtech-lab/tokenstream/internal/version"
	"github.com/rxtech-lab/tokenstream/internal/watchlist"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"github.com/rxtech-lab/tokenstream/pkg/stream"
	"github.com/rxtech-lab/tokenstream/pkg/stream/writer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// newApp builds the command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "tokenstream",
		Usage:   "Stream real-time token prices",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:      "stream",
				Usage:     "Stream live price updates for one token or a watchlist",
				ArgsUsage: "[network] [token_address]",
				Description: "Examples:\n" +
					"  tokenstream stream ethereum 0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2\n" +
					"  tokenstream stream --tokens watchlist.json --limit 100",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "tokens",
						Aliases: []string{"t"},
						Usage:   "Path to a JSON `FILE` listing {chain, address} entries (max 2000)",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Stop after `N` events",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   fmt.Sprintf("Output format (%s, %s)", writer.FormatTable, writer.FormatJSON),
						Value:   string(writer.FormatTable),
					},
					&cli.StringFlag{
						Name:  "record",
						Usage: "Also append events to `DIR`/" + writer.RecordingFileName,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML configuration `FILE`",
					},
					&cli.StringFlag{
						Name:    "stream-url",
						Usage:   "Streaming endpoint",
						Sources: cli.EnvVars("TOKENSTREAM_STREAM_URL"),
					},
					&cli.StringFlag{
						Name:    "log-level",
						Usage:   "Log level (debug, info, warn, error)",
						Sources: cli.EnvVars("TOKENSTREAM_LOG_LEVEL"),
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Serve Prometheus metrics on `ADDR` (e.g. :9090)",
					},
				},
				Action: streamAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the watchlist file",
				Action: schemaAction,
			},
		},
	}
}

// loadConfig layers the config file, environment and flags.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if url := cmd.String("stream-url"); url != "" {
		cfg.StreamURL = url
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// buildRequest turns positional arguments and flags into a stream request.
func buildRequest(cmd *cli.Command) (stream.Request, error) {
	args := cmd.Args()
	if args.Len() > 2 {
		return stream.Request{}, errors.Newf(errors.ErrCodeInvalidConfiguration, //nolint:exhaustruct
			"expected at most 2 arguments (network, token address), got %d", args.Len())
	}

	request := stream.Request{
		Network:       args.Get(0),
		Address:       args.Get(1),
		WatchlistPath: cmd.String("tokens"),
		Limit:         optional.None[int](),
	}

	if cmd.IsSet("limit") {
		request.Limit = optional.Some(int(cmd.Int("limit")))
	}

	return request, nil
}

func streamAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}
	defer log.Sync() //nolint:errcheck

	request, err := buildRequest(cmd)
	if err != nil {
		return err
	}

	format, ok := writer.ParseFormat(cmd.String("output"))
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported output format %q", cmd.String("output"))
	}

	// request errors and limit 0 must not touch the recording directory or open the metrics port
	mode, err := stream.Resolve(request)
	if err != nil {
		return err
	}

	if mode == nil {
		log.Info("Limit is 0, nothing to stream")

		return nil
	}

	out := cmd.Root().Writer
	errOut := cmd.Root().ErrWriter

	var eventWriter writer.EventWriter

	switch format {
	case writer.FormatJSON:
		eventWriter = writer.NewJSONWriter(out)
	case writer.FormatTable:
		eventWriter = writer.NewTableWriter(out)
	}

	if dir := cmd.String("record"); dir != "" {
		recorder := writer.NewRecorder(dir, 0, log)
		if err := recorder.Initialize(); err != nil {
			return err
		}

		defer func() {
			path, finalizeErr := recorder.Finalize()
			if finalizeErr != nil {
				log.Error("Failed to finalize recording", zap.Error(finalizeErr))
			} else {
				log.Info("Recording saved", zap.String("path", path))
			}

			_ = recorder.Close()
		}()

		eventWriter = writer.NewMultiWriter(eventWriter, recorder)
	}

	metrics := observability.NewMetrics("")

	if addr := cmd.String("metrics-addr"); addr != "" {
		server := startMetricsServer(addr, metrics, log)

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = server.Shutdown(shutdownCtx)
		}()
	}

	controller, err := stream.NewController(cfg,
		stream.WithLogger(log),
		stream.WithMetrics(metrics),
		stream.WithWriter(eventWriter),
		stream.WithDiagnostic(func(_ string, err error) {
			fmt.Fprintln(errOut, HelpStyle.Render("Parse error: "+err.Error()))
		}),
	)
	if err != nil {
		return err
	}

	outcome, err := controller.Stream(ctx, request)

	log.Info("Stream finished",
		zap.String("mode", string(outcome.Mode)),
		zap.String("state", string(outcome.State)),
		zap.Int("emitted", outcome.Emitted),
		zap.Int("discarded", outcome.Discarded),
	)

	return err
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := watchlist.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(schema), "", "  "); err != nil {
		return fmt.Errorf("failed to format schema: %w", err)
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, pretty.String())

	return err
}

// startMetricsServer serves /metrics until the returned server is shut down.
func startMetricsServer(addr string, metrics *observability.Metrics, log *logger.Logger) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Serving metrics", zap.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	return server
}
