package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/bulk"
	"github.com/bft-labs/bulk/internal/adapters/source"
	"github.com/bft-labs/bulk/internal/cliconfig"
	bulklog "github.com/bft-labs/bulk/pkg/log"
)

const helpDescription = `
Group commands read line by line into bulks and print each completed bulk.

A bulk closes after <block-size> commands. A line holding only "{" starts a
dynamic bulk that closes at the matching "}" line regardless of its size;
nested braces are ignored. Input ending inside an open dynamic bulk drops it.

Outputs:
  console  print "bulk: cmd1, cmd2, ..." to stdout
  file     write each bulk to bulk<timestamp>.log in --log-dir
  journal  append one JSON record per bulk to --journal
  redis    RPUSH one JSON record per bulk onto --redis-key
  http     POST one JSON record per bulk to --http-url
`

var exampleUsage = strings.TrimSpace(`
  bulk 3 < commands.txt
  bulk --output console,journal --journal /var/log/bulk.jsonl 5
  bulk --input commands.txt --follow --output redis --redis-addr localhost:6379 10
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:          "bulk [flags] <block-size>",
		Short:        "Group commands into bulks and deliver them to console, files, a journal, redis or a webhook",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine config path
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// The positional argument counts as the block-size flag.
			if len(args) == 1 {
				n, err := cliconfig.ParseBlockSize(args[0])
				if err != nil {
					return err
				}
				cfg.BlockSize = n
				changed["block-size"] = true
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides file config but not flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			level, err := bulklog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			cliconfig.SetLogLevel(level)
			logger := cliconfig.Logger()

			logCfg := cfg
			if logCfg.RedisPassword != "" {
				logCfg.RedisPassword = "*****"
			}
			if logCfg.HTTPToken != "" {
				logCfg.HTTPToken = "*****"
			}
			logger.Debug().Interface("config", logCfg).Msg("configuration")

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			// Restore default signal handling after the first signal so a
			// second one terminates the process.
			go func() {
				<-ctx.Done()
				cancel()
			}()

			return run(ctx, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bulk/config.toml)")
	root.Flags().IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "commands per static bulk (same as the positional argument)")
	root.Flags().StringSliceVarP(&cfg.Outputs, "output", "o", cfg.Outputs, "outputs: console, file, journal, redis, http")
	root.Flags().StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "directory for bulk<timestamp>.log files")
	root.Flags().StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "JSON-lines journal path")

	root.Flags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address")
	root.Flags().StringVar(&cfg.RedisUsername, "redis-username", cfg.RedisUsername, "redis username")
	root.Flags().StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	root.Flags().IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	root.Flags().StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "redis list key")
	root.Flags().DurationVar(&cfg.RedisTimeout, "redis-timeout", cfg.RedisTimeout, "timeout per redis delivery")

	root.Flags().StringVar(&cfg.HTTPURL, "http-url", cfg.HTTPURL, "webhook URL for the http output")
	root.Flags().StringVar(&cfg.HTTPToken, "http-token", cfg.HTTPToken, "bearer token for the http output")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "timeout per http delivery")

	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "read commands from this file instead of stdin")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading --input as it grows until interrupted")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("bulk")
		os.Exit(1)
	}
}

// run wires the configured sinks into a pipeline and processes the input.
func run(ctx context.Context, cfg cliconfig.Config, zl zerolog.Logger, stdin io.Reader, stdout io.Writer) (err error) {
	logger := bulklog.NewZerologAdapterWithLogger(zl)

	var closers []func() error
	defer func() {
		for _, c := range closers {
			err = errors.Join(err, c())
		}
	}()

	opts := []bulk.Option{bulk.WithLogger(logger)}
	for _, name := range cfg.Outputs {
		switch name {
		case cliconfig.OutputConsole:
			opts = append(opts, bulk.WithSink(bulk.NewConsoleSink(stdout)))
		case cliconfig.OutputFile:
			if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
			opts = append(opts, bulk.WithSink(bulk.NewFileSink(cfg.LogDir)))
		case cliconfig.OutputJournal:
			j, err := bulk.NewJournalSink(cfg.JournalPath)
			if err != nil {
				return err
			}
			closers = append(closers, j.Close)
			opts = append(opts, bulk.WithSink(j))
		case cliconfig.OutputRedis:
			r, closeFn, err := bulk.DialRedis(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey, cfg.RedisTimeout)
			if err != nil {
				return err
			}
			closers = append(closers, closeFn)
			opts = append(opts, bulk.WithSink(r))
		case cliconfig.OutputHTTP:
			opts = append(opts, bulk.WithSink(bulk.NewHTTPSink(nil, cfg.HTTPURL, cfg.HTTPToken, cfg.HTTPTimeout)))
		}
	}

	p, err := bulk.New(cfg.BlockSize, opts...)
	if err != nil {
		return err
	}
	logger.Debug("pipeline ready", bulklog.Int("block_size", cfg.BlockSize), bulklog.Strings("outputs", cfg.Outputs))

	var src bulk.CommandSource
	switch {
	case cfg.Input == "":
		src = source.NewReaderSource(stdin)
	case cfg.Follow:
		f, err := source.NewFollowSource(cfg.Input, logger)
		if err != nil {
			return err
		}
		closers = append(closers, f.Close)
		src = f
	default:
		f, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		closers = append(closers, f.Close)
		src = source.NewReaderSource(f)
	}

	if err := p.Run(ctx, src); err != nil {
		return err
	}
	logger.Info("input processed",
		bulklog.Uint64("bulks", p.Emitted()),
		bulklog.Uint64("failed_deliveries", p.Failures()),
	)
	return nil
}
