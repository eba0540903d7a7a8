// Command rosautodoc runs an intercepting proxy in front of a ROS master and
// generates reference documentation for the node interfaces it observes.
//
// Point nodes at the proxy (ROS_MASTER_URI=http://localhost:33133), run the
// system as usual, then stop rosautodoc with SIGINT; the accumulated
// documentation is rendered on shutdown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/rosautodoc/rosautodoc/internal/config"
	"github.com/rosautodoc/rosautodoc/internal/docformat"
	"github.com/rosautodoc/rosautodoc/internal/docwriter"
	"github.com/rosautodoc/rosautodoc/internal/linkverify"
	"github.com/rosautodoc/rosautodoc/internal/metrics"
	"github.com/rosautodoc/rosautodoc/internal/relay"
	"github.com/rosautodoc/rosautodoc/internal/xmlrpc"
)

// Startup failure exit codes, matched by wrapper tooling.
const (
	exitBadFormat         = 2
	exitMissingOutputDir  = 3
	exitMasterUnreachable = 4
)

var CLI struct {
	Nodes []string `arg:"" optional:"" help:"Names of the nodes to document. If empty, all nodes are documented."`

	OutputDir string `help:"Directory where documentation is written (must exist)." default:"."`
	ProxyPort int    `help:"Listen port for the master proxy server." default:"33133"`
	DocFormat string `help:"Documentation format (markdown, html)." default:"markdown"`
	MasterURI string `help:"Upstream ROS master URI (overrides ROS_MASTER_URI and config)."`
	Config    string `short:"c" help:"Optional YAML configuration file."`
	Verbose   bool   `short:"v" help:"Enable verbose logging."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("rosautodoc"),
		kong.Description("Automatically document the API of running ROS nodes."))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger.With("run_id", uuid.NewString()))

	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	format, err := docformat.Parse(cfg.Output.Format)
	if err != nil {
		slog.Error("Unknown doc-format argument", "format", cfg.Output.Format, "error", err)
		return exitBadFormat
	}

	if info, err := os.Stat(cfg.Output.Directory); err != nil || !info.IsDir() {
		slog.Error("Output directory does not exist", "dir", cfg.Output.Directory)
		return exitMissingOutputDir
	}

	writer := docwriter.New(relay.NormalizeNames(CLI.Nodes))

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	client := xmlrpc.NewClient(cfg.MasterURI)
	rl := relay.New(client, writer, cfg.Filters, recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rl.CheckMaster(ctx); err != nil {
		slog.Error("Failed to communicate with the ROS master", "master_uri", cfg.MasterURI, "error", err)
		return exitMasterUnreachable
	}

	addr := fmt.Sprintf("%s:%d", cfg.Proxy.Host, cfg.Proxy.Port)
	srv := relay.NewServer(addr, rl, metrics.HTTPHandler(registry))

	slog.Info("Starting master proxy",
		"addr", addr,
		"master_uri", cfg.MasterURI,
		"tracked_nodes", len(CLI.Nodes),
		"format", format)

	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("Proxy server failed", "error", err)
		return 1
	}

	slog.Info("Documenting observed nodes", "output_dir", cfg.Output.Directory)
	if err := writer.RenderAll(cfg.Output.Directory, format); err != nil {
		slog.Error("Failed to write documentation", "error", err)
		return 1
	}

	verifyLinks(cfg.Output.Directory, format, len(writer.Names()))
	return 0
}

// loadConfig merges the optional config file, environment and CLI flags.
// Flags win over the file, the file wins over built-in defaults.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if CLI.Config != "" {
		cfg, err = config.Load(CLI.Config)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.FromEnv()
	}

	if CLI.MasterURI != "" {
		cfg.MasterURI = CLI.MasterURI
	}
	if CLI.ProxyPort != config.DefaultProxyPort {
		cfg.Proxy.Port = CLI.ProxyPort
	}
	if CLI.OutputDir != "." {
		cfg.Output.Directory = CLI.OutputDir
	}
	if CLI.DocFormat != "markdown" {
		cfg.Output.Format = CLI.DocFormat
	}
	return cfg, nil
}

// verifyLinks warns about manifest links that do not resolve. Best effort:
// verification problems never fail the run.
func verifyLinks(outputDir string, format docformat.Format, nodeCount int) {
	if nodeCount == 0 {
		return
	}
	broken, err := linkverify.VerifyManifest(outputDir, format)
	if err != nil {
		slog.Warn("Could not verify manifest links", "error", err)
		return
	}
	for _, link := range broken {
		slog.Warn("Manifest links to a missing file", "link", link)
	}
}
