// econet-bridge republishes telemetry from a Plum ecoNET heat-pump
// controller to an MQTT broker, as flat per-metric topics plus Home
// Assistant MQTT discovery registrations and a retained availability
// channel backed by a broker last-will.
//
// Configuration is loaded from a YAML file discovered automatically
// (see [config.DefaultSearchPaths]) or, when no file exists, from
// environment variables (MQTT_HOST, ECONET_ENDPOINT, ...).
//
// Usage:
//
//	econet-bridge [serve]    Run the bridge (default command)
//	econet-bridge version    Print version and build information
//	econet-bridge -config p  Use an explicit config file
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nugget/econet-bridge/internal/buildinfo"
	"github.com/nugget/econet-bridge/internal/config"
	"github.com/nugget/econet-bridge/internal/econet"
	"github.com/nugget/econet-bridge/internal/metrics"
	"github.com/nugget/econet-bridge/internal/mqtt"
	"github.com/nugget/econet-bridge/internal/poller"
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run], keeping
// os.Exit and os.Args out of the application logic so the full
// startup-to-shutdown lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run parses arguments and dispatches. Arguments are parsed by hand:
// the flag package relies on package-level globals, which interfere
// with parallel tests, and the surface here is two flags and two
// subcommands.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var command string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	switch command {
	case "", "serve":
		return runServe(ctx, stdout, configPath)
	case "version":
		fmt.Fprintln(stdout, buildinfo.String())
		return nil
	default:
		return fmt.Errorf("unknown command: %q (try -h)", command)
	}
}

func printUsage(w io.Writer) error {
	fmt.Fprintf(w, `econet-bridge — ecoNET heat pump to MQTT bridge

Usage:
  econet-bridge [flags] [command]

Commands:
  serve      Run the bridge (default)
  version    Print version and build information

Flags:
  -config <path>   Explicit config file (otherwise searched, then env vars)
  -h               Show this help
`)
	return nil
}

// runServe wires the bridge together and blocks until a shutdown
// signal arrives: connect to the broker (fatal if unreachable),
// register discovery entities, then run the poll loop. On exit it
// publishes retained "offline" and disconnects.
func runServe(ctx context.Context, stdout io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(stdout, level, cfg.LogFormat)

	logger.Info("starting econet-bridge", "build", buildinfo.String())
	logger.Info("configuration loaded",
		"broker", cfg.MQTT.Broker,
		"topic_prefix", cfg.MQTT.TopicPrefix,
		"econet_endpoint", cfg.Econet.Endpoint,
		"poll_interval_sec", cfg.Econet.PollIntervalSec,
		"discovery", cfg.Discovery.Enabled,
		"device_name", cfg.Discovery.DeviceName,
	)

	// SIGINT/SIGTERM cancel the same context every component blocks on.
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := mqtt.NewClient(cfg.MQTT, cfg.AvailabilityTopic(), logger)
	avail := mqtt.NewAvailability(client, cfg.AvailabilityTopic(), logger)
	client.OnConnect(avail.HandleConnect)

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("broker connection failed: %w", err)
	}

	table := metrics.Default()

	if cfg.Discovery.Enabled {
		expire := cfg.Econet.ExpireAfterFactor * cfg.Econet.PollIntervalSec
		discovery := mqtt.NewDiscovery(client, table,
			mqtt.NewDeviceInfo(cfg.Discovery.DeviceName),
			cfg.MQTT.TopicPrefix, cfg.AvailabilityTopic(), expire, logger)
		discovery.PublishAll(ctx)
	}

	source := econet.NewClient(cfg.Econet.Endpoint,
		time.Duration(cfg.Econet.FetchTimeoutSec)*time.Second, logger)
	sink := mqtt.NewPublisher(client, table, cfg.MQTT.TopicPrefix, logger)

	poller.New(source, sink,
		time.Duration(cfg.Econet.PollIntervalSec)*time.Second, logger).Run(ctx)

	// Graceful teardown: retained "offline" must reach the broker
	// before the connection closes, so observers see correct presence
	// without waiting for the will.
	logger.Info("shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	avail.HandleShutdown(stopCtx)
	if err := client.Disconnect(stopCtx); err != nil {
		logger.Error("mqtt disconnect failed", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// loadConfig resolves configuration: an explicit path must exist; with
// no path, the search locations are tried and, when none has a file,
// the environment-variable surface is used instead.
func loadConfig(explicit string) (*config.Config, error) {
	path, err := config.FindConfig(explicit)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return config.FromEnv()
		}
		return nil, err
	}
	return config.Load(path)
}

// newLogger creates a structured logger writing to w at the given
// level and format ("json" or text). All log output goes through slog.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
