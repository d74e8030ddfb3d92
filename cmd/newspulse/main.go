package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/newspulse/newspulse/pkg/config"
)

// Opts with global CLI options and the commands
type Opts struct {
	Config string `short:"c" long:"config" env:"NEWSPULSE_CONFIG" description:"config file (yml)"`
	Env    string `long:"env-file" env:"NEWSPULSE_ENV_FILE" default:".env" description:"file with environment variables"`

	Fetch     FetchCmd     `command:"fetch" description:"fetch finance articles into the raw table"`
	Clean     CleanCmd     `command:"clean" description:"add clean_content to the raw table"`
	Classify  ClassifyCmd  `command:"classify" description:"add category, sentiment and entities to the cleaned table"`
	Archive   ArchiveCmd   `command:"archive" description:"copy the classified table into the sqlite archive"`
	Dashboard DashboardCmd `command:"dashboard" description:"serve the interactive dashboard"`
	Serve     ServeCmd     `command:"serve" description:"serve the live news web app"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// commandBase carries what every command needs after global options are processed
type commandBase struct {
	ctx   context.Context
	cfg   *config.Config
	debug bool
}

func (c *commandBase) setup(ctx context.Context, cfg *config.Config, debug bool) {
	c.ctx, c.cfg, c.debug = ctx, cfg, debug
}

type configurable interface {
	setup(ctx context.Context, cfg *config.Config, debug bool)
}

func main() {
	var opts Opts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		return execute(ctx, &opts, cmd, args)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		switch {
		case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
			fmt.Println(err)
			os.Exit(0)
		case errors.As(err, &flagsErr):
			fmt.Fprintln(os.Stderr, err)
		default:
			log.Printf("[ERROR] %v", err)
		}
		os.Exit(1)
	}
}

// execute prepares logging and configuration, then runs the selected command
func execute(ctx context.Context, opts *Opts, cmd flags.Commander, args []string) error {
	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		return nil
	}
	if cmd == nil {
		return errors.New("no command given, see --help")
	}

	setupLog(opts.Debug, opts.NoColor)
	if err := godotenv.Load(opts.Env); err != nil {
		log.Printf("[DEBUG] env file %s not loaded: %v", opts.Env, err)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, opts.NoColor, cfg.Secrets()...)
	log.Printf("[DEBUG] newspulse version %s", revision)

	if c, ok := cmd.(configurable); ok {
		c.setup(ctx, cfg, opts.Debug)
	}
	return cmd.Execute(args)
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
