// Command rohan builds documents from Lua scripts and shows how the
// rendering is kept up to date.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/satzlich/swift-rohan-sub002/internal/config"
	"github.com/satzlich/swift-rohan-sub002/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Configuration file (.toml, .yaml, .yml)" type:"path"`
	LogLevel string `name:"log-level" help:"Override logging.level (debug, info, warn, error)"`
}

// setup loads the configuration and builds the logger.
func (g *Globals) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LoggingSettings())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// CLI defines the command-line interface for rohan.
type CLI struct {
	Globals

	Run     RunCmd     `cmd:"" help:"Run a document script and print the tree and rendering"`
	Trace   TraceCmd   `cmd:"" help:"Run a document script and also print layout instructions"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ScriptArgs are the arguments of the script commands.
type ScriptArgs struct {
	Script string `arg:"" help:"Lua script to execute" type:"existingfile"`
	Watch  bool   `short:"w" help:"Rerun when the script or configuration changes"`
	Strict bool   `help:"Check tree invariants after every edit"`
}

// RunCmd executes a script.
type RunCmd struct {
	ScriptArgs `embed:""`
}

func (c *RunCmd) Run(g *Globals) error {
	return c.execute(g, false)
}

// TraceCmd executes a script and prints the instructions of every layout pass.
type TraceCmd struct {
	ScriptArgs `embed:""`
}

func (c *TraceCmd) Run(g *Globals) error {
	return c.execute(g, true)
}

func (a *ScriptArgs) execute(g *Globals, trace bool) error {
	cfg, log, err := g.setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		cfg:    cfg,
		log:    log,
		out:    os.Stdout,
		trace:  trace,
		strict: a.Strict,
	}
	if !a.Watch {
		return r.once(ctx, a.Script)
	}
	return r.watch(ctx, a.Script, g)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("rohan version %s (%s)\n", version, commit)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rohan"),
		kong.Description("Structured document engine driven by Lua scripts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
