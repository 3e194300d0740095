// Command testlogger loads a logger, writes one event per level and unloads it.
// Use it to check a LogSettings.json and the mail setup of a deployment
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jufman/basiclogger"
)

// overrideFlags collects repeated -set key=value flags
type overrideFlags []string

func (o *overrideFlags) String() string { return strings.Join(*o, ",") }

func (o *overrideFlags) Set(v string) error {
	*o = append(*o, v)
	return nil
}

var (
	settingsFile = flag.String("settings", "", "Path to the settings file (default: LogSettings.json next to the binary)")
	baseDir      = flag.String("dir", "", "Base folder for LogSettings.json and Logs (default: binary folder)")
	message      = flag.String("message", "Test Log", "Message logged at every level")
	repeat       = flag.Int("repeat", 1, "Number of rounds to log")
	wait         = flag.Duration("wait", 0, "Time to keep running before unload, to let the loops tick")
	initFile     = flag.String("init", "", "Write default settings to this path and exit")
	echo         = flag.Bool("echo", true, "Mirror events to stdout")
	overrides    overrideFlags
)

func main() {
	flag.Var(&overrides, "set", "Settings override as key=value (repeatable)")
	flag.Parse()

	if *initFile != "" {
		if err := basiclogger.SaveSettings(*initFile, basiclogger.DefaultSettings()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write settings: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default settings written to %s\n", *initFile)
		return
	}

	builder := basiclogger.NewBuilder().
		InternalErrorsToStderr(true).
		SettingsFile(*settingsFile).
		Override(overrides...)
	if *baseDir != "" {
		builder = builder.BaseDir(*baseDir)
	}
	if *echo {
		builder = builder.Observer(basiclogger.NewConsoleObserver(os.Stdout, basiclogger.LevelSystem))
	}

	logger, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load logger: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *repeat; i++ {
		logger.LogEvent(*message, basiclogger.LevelInfo)
		logger.LogEvent(*message, basiclogger.LevelError)
		logger.LogEvent(*message, basiclogger.LevelCritical)
		logger.LogEvent(*message, basiclogger.LevelSystem)
	}

	if *wait > 0 {
		time.Sleep(*wait)
	}

	if err := logger.Unload(); err != nil {
		fmt.Fprintf(os.Stderr, "Unload reported errors: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("Events: %d, lines written: %d, emails sent: %d, failed: %d\n",
		stats.TotalEvents, stats.LinesWritten, stats.EmailsSent, stats.EmailsFailed)
	fmt.Printf("Log file: %s\n", logger.LogFilePath(time.Now()))
}
