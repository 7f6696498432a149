package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/tartampluch/go-contacts/internal/config"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. Settings
	// -------------------------------------------------------------------------
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	// -------------------------------------------------------------------------
	// 2. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// -------------------------------------------------------------------------
	// 3. Application Logic
	// -------------------------------------------------------------------------
	s := newSession(settings, os.Stdout, os.Stderr)
	if err := newApp(s).RunContext(ctx, os.Args); err != nil {
		s.report(err)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyVersion, config.Version,
		config.LogKeyGoVer, runtime.Version(),
		config.LogKeyOS, runtime.GOOS,
		config.LogKeyArch, runtime.GOARCH,
	)
}

// setupLogging installs a console slog handler on output.
// Only warnings reach the console unless debugMode is set.
func setupLogging(output io.Writer, debugMode bool) {
	level := slog.LevelWarn
	if debugMode {
		level = slog.LevelDebug
	}

	colorize := false
	if f, ok := output.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd())
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(output, &tint.Options{
			AddSource:  debugMode,
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !colorize,
		}),
	))
}
