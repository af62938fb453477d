// Command scrubexif strips private metadata from JPEG files while keeping a
// small allow-list of camera and exposure tags.
//
// Usage:
//
//	scrubexif --from-input                 sweep the input directory once
//	scrubexif --from-input --watch         keep sweeping on changes
//	scrubexif [files...]                   scrub named files in place
//	scrubexif --preview photo.jpg          show the effect without modifying
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"scrubexif/internal/auto"
	"scrubexif/internal/exiftool"
	"scrubexif/internal/model"
	"scrubexif/internal/scrub"
	"scrubexif/internal/state"
	"scrubexif/internal/ui"
	"scrubexif/internal/watch"
)

const version = "0.6.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scrubexif", flag.ContinueOnError)
	var (
		fromInput      = fs.Bool("from-input", false, "Auto mode: sweep the input directory")
		watchMode      = fs.Bool("watch", false, "Keep sweeping on filesystem changes (implies --from-input)")
		recursive      = fs.BoolP("recursive", "r", false, "Recurse into directories (manual mode)")
		showTags       = fs.String("show-tags", "", "Show metadata tags: before, after, or both")
		paranoia       = fs.Bool("paranoia", false, "Maximum scrubbing: also strip the ICC profile")
		preview        = fs.Bool("preview", false, "Preview scrub effect on one file without modifying it")
		verify         = fs.Bool("verify", false, "Re-read scrubbed output and fail if GPS tags survived")
		maxFiles       = fs.Int("max-files", 0, "Limit number of files to scrub")
		dryRun         = fs.Bool("dry-run", false, "List actions without performing them")
		onDuplicate    = fs.String("on-duplicate", "", "Duplicate policy in auto mode: delete or move")
		deleteOriginal = fs.Bool("delete-original", false, "Delete originals after scrub instead of moving to processed/")
		stableSeconds  = fs.Int("stable-seconds", -1, "Seconds a file must sit unchanged before processing")
		stateFile      = fs.String("state-file", "", "Stability state file path, or 'disabled'")
		artist         = fs.String("artist", "", "Stamp artist metadata onto scrubbed files")
		copyrightVal   = fs.String("copyright", "", "Stamp copyright metadata onto scrubbed files")
		comment        = fs.String("comment", "", "Stamp comment metadata onto scrubbed files")
		metricsListen  = fs.String("metrics-listen", "", "Serve Prometheus metrics on this address (watch mode)")
		configPath     = fs.String("config", "", "Path to YAML config file")
		logLevel       = fs.String("log-level", "", "Log verbosity: debug, info, warn, error")
		debugMode      = fs.Bool("debug", false, "Force debug verbosity, overriding --log-level")
		quiet          = fs.BoolP("quiet", "q", false, "Suppress non-error output; errors still go to stderr")
		noColor        = fs.Bool("no-color", false, "Disable colored output")
		showVersion    = fs.BoolP("version", "v", false, "Show version")
	)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Printf("scrubexif %s\n", version)
		return 0
	}

	if os.Geteuid() == 0 && os.Getenv("ALLOW_ROOT") != "1" {
		fmt.Fprintln(os.Stderr, "❌ Running as root is not allowed unless ALLOW_ROOT=1 is set.")
		return 1
	}

	ui.InitColors(*noColor)

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		ui.Errorf("%v", err)
		return 1
	}
	cfg.ApplyEnv()

	// Flags win over env and config file.
	if fs.Changed("on-duplicate") {
		cfg.Scrub.OnDuplicate = *onDuplicate
	}
	if *stableSeconds >= 0 {
		cfg.Scrub.StableSeconds = *stableSeconds
	}
	if fs.Changed("paranoia") {
		cfg.Scrub.Paranoia = *paranoia
	}
	if fs.Changed("delete-original") {
		cfg.Scrub.DeleteOriginal = *deleteOriginal
	}
	if fs.Changed("artist") {
		cfg.Scrub.Artist = *artist
	}
	if fs.Changed("copyright") {
		cfg.Scrub.Copyright = *copyrightVal
	}
	if fs.Changed("comment") {
		cfg.Scrub.Comment = *comment
	}
	if fs.Changed("metrics-listen") {
		cfg.Watch.MetricsListen = *metricsListen
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}
	if fs.Changed("state-file") {
		cfg.State.File = *stateFile
	}
	cfg.ResolveDirs()
	if err := cfg.Validate(); err != nil {
		ui.Errorf("%v", err)
		return 1
	}
	switch *showTags {
	case "", scrub.ShowTagsBefore, scrub.ShowTagsAfter, scrub.ShowTagsBoth:
	default:
		ui.Errorf("invalid --show-tags value %q (want before, after or both)", *showTags)
		return 1
	}

	out := io.Writer(os.Stdout)
	if *quiet {
		out = io.Discard
	}
	logger := log.New(out, "🔎 ", 0)
	level := model.ParseLogLevel(cfg.Logging.Level)
	if *debugMode {
		level = model.LogLevelDebug
		logger.Printf("[DEBUG] Debug logging enabled")
	}

	statePath := state.Resolve(cfg.State.File)
	ledger := state.New(statePath, logger, level)
	fmt.Fprintf(out, "State path: %s\n", ledger.Path())
	if statePath == "" && cfg.State.File != state.DisabledSentinel && !*quiet {
		ui.Warningf("No writable state location found; stability checks are mtime-only.")
	}

	stamp := buildStamp(cfg.Scrub, logger)

	scrubber := scrub.New(exiftool.NewRunner(), scrub.Options{
		DryRun:      *dryRun || *preview,
		Paranoia:    cfg.Scrub.Paranoia,
		Verify:      *verify,
		ShowTags:    *showTags,
		OnDuplicate: cfg.Scrub.OnDuplicate,
		Stamp:       stamp,
		ErrorsDir:   cfg.Photos.Errors,
		PhotosRoot:  cfg.Photos.Root,
	}, out, logger, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scrub.OnDuplicate == model.DuplicateMove {
		if err := os.MkdirAll(cfg.Photos.Errors, 0o755); err != nil {
			ui.Errorf("Failed to create errors directory: %s: %v", cfg.Photos.Errors, err)
			return 1
		}
	}

	switch {
	case *preview:
		files := fs.Args()
		if len(files) != 1 {
			ui.Errorf("--preview expects exactly one file")
			return 1
		}
		target, err := scrub.ResolveWithinRoot(cfg.Photos.Root, files[0])
		if err != nil {
			ui.Errorf("%v", err)
			return 1
		}
		// Preview scrubs a copy for real even though everything else is
		// dry-run from the caller's point of view.
		scrubber.Opts.DryRun = false
		if err := scrubber.Preview(ctx, target); err != nil {
			ui.Errorf("%v", err)
			return 1
		}
		return 0

	case *watchMode:
		sweeper := newSweeper(cfg, scrubber, ledger, *maxFiles, *dryRun, out, logger, level)
		w := watch.New(cfg, sweeper.Run, out, logger, level)
		if err := w.Run(ctx); err != nil {
			ui.Errorf("%v", err)
			return 1
		}
		if !*quiet {
			ui.Successf("Watch stopped.")
		}
		return 0

	case *fromInput:
		sweeper := newSweeper(cfg, scrubber, ledger, *maxFiles, *dryRun, out, logger, level)
		summary, err := sweeper.Run(ctx)
		if err != nil {
			ui.Errorf("%v", err)
			return 1
		}
		summary.Render(out)
		fmt.Fprintln(out, summary.Line())
		return 0

	default:
		summary, err := scrubber.Manual(ctx, cfg.Photos.Root, fs.Args(), *recursive, *maxFiles)
		if err != nil {
			ui.Errorf("%v", err)
			return 1
		}
		summary.Render(out)
		fmt.Fprintln(out, summary.Line())
		return 0
	}
}

func newSweeper(cfg model.Config, scrubber *scrub.Scrubber, ledger *state.Ledger,
	maxFiles int, dryRun bool, out io.Writer, logger *log.Logger, level model.LogLevel) *auto.Sweeper {
	return &auto.Sweeper{
		Cfg:            cfg,
		Scrubber:       scrubber,
		Ledger:         ledger,
		MaxFiles:       maxFiles,
		DryRun:         dryRun,
		DeleteOriginal: cfg.Scrub.DeleteOriginal,
		Out:            out,
		Logger:         logger,
		LogLevel:       level,
	}
}

// buildStamp truncates oversized stamp values, warning once per field.
func buildStamp(sc model.ScrubConfig, logger *log.Logger) exiftool.Stamp {
	warnTruncated := func(field, value string, max int) string {
		truncated := exiftool.TruncateUTF8(value, max)
		if truncated != value {
			logger.Printf("[WARN] truncating --%s to %d bytes", field, max)
		}
		return truncated
	}
	return exiftool.Stamp{
		Artist:    warnTruncated("artist", sc.Artist, exiftool.MaxArtistBytes),
		Copyright: warnTruncated("copyright", sc.Copyright, exiftool.MaxCopyrightBytes),
		Comment:   warnTruncated("comment", sc.Comment, exiftool.MaxCommentBytes),
	}
}
