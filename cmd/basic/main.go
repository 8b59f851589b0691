package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"basic/pkg/driver"
	"basic/pkg/scripts"
)

const banner = "BASIC (Ctrl+D or :quit to exit, :help for commands)"

const helpText = `REPL commands:
  :vars    List variables and their values
  :help    Show this help
  :quit    Exit the REPL
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "basic: ", 0)

	flags := flag.NewFlagSet("basic", flag.ContinueOnError)
	flags.SetOutput(stderr)
	exprFlag := flags.String("e", "", "Run the given expression and exit")
	configFlag := flags.String("config", "", "YAML config file (default: "+driver.DefaultConfigFile+" when present)")
	checkFlag := flags.String("check", "", "Check every "+scripts.Extension+" script under the directory against its # expect: directive")
	tokensFlag := flags.Bool("tokens", false, "Show tokens before parsing")
	astDumpFlag := flags.Bool("ast", false, "Show AST dump before evaluation")
	writeConfigFlag := flags.String("write-config", "", "Write the effective config to the given file and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: basic [flags] [script]\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 64 // Exit code 64: command line usage error
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		logger.Print(err)
		return 64
	}

	if *writeConfigFlag != "" {
		if err := driver.WriteConfig(cfg, *writeConfigFlag); err != nil {
			logger.Print(err)
			return 70
		}
		return 0
	}

	if *checkFlag != "" {
		return checkScripts(*checkFlag, cfg, stdout, logger)
	}

	session := driver.NewSessionWithConfig(cfg)
	session.SetOutput(stdout)
	session.SetOptions(driver.RunOptions{ShowTokens: *tokensFlag, ShowAST: *astDumpFlag})

	if *exprFlag != "" {
		value, runErr := session.Run("<eval>", *exprFlag)
		if !session.DisplayResult(stdout, value, runErr) {
			return 70 // Exit code 70: internal software error
		}
		return 0
	}

	switch flags.NArg() {
	case 0:
		return runRepl(session, stdout, logger)
	case 1:
		src, err := driver.ReadSource(flags.Arg(0))
		if err != nil {
			logger.Print(err)
			return 66 // Exit code 66: cannot open input
		}
		value, runErr := session.RunLines(src)
		if !session.DisplayResult(stdout, value, runErr) {
			return 70
		}
		return 0
	default:
		flags.Usage()
		return 64
	}
}

// loadConfig reads path, or the default config file when path is empty and
// that file exists.
func loadConfig(path string) (*driver.Config, error) {
	if path == "" {
		if _, err := os.Stat(driver.DefaultConfigFile); err != nil {
			return driver.DefaultConfig(), nil
		}
		path = driver.DefaultConfigFile
	}
	return driver.LoadConfig(path)
}

func checkScripts(dir string, cfg *driver.Config, stdout io.Writer, logger *log.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scripts.RunDir(ctx, dir, cfg)
	if err != nil {
		logger.Print(err)
		return 70
	}

	for _, r := range report.Results {
		switch {
		case r.Skipped:
			fmt.Fprintf(stdout, "SKIP %s: %v\n", r.Path, r.Err)
		case r.Passed:
			fmt.Fprintf(stdout, "PASS %s (%s)\n", r.Path, r.Duration.Round(time.Microsecond))
		default:
			fmt.Fprintf(stdout, "FAIL %s (worker %d)\n", r.Path, r.WorkerID)
			for _, line := range strings.Split(r.Err.Error(), "\n") {
				fmt.Fprintf(stdout, "    %s\n", line)
			}
		}
	}

	stats := report.Stats
	fmt.Fprintf(stdout, "%d scripts on %d workers, %s total, %s average\n",
		stats.TotalJobs, stats.WorkerCount, stats.TotalTime.Round(time.Microsecond), stats.AverageTime.Round(time.Microsecond))
	passed, failed, skipped := scripts.Summary(report.Results)
	fmt.Fprintf(stdout, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
	if failed > 0 {
		return 1
	}
	return 0
}

// runRepl starts the Read-Eval-Print Loop.
func runRepl(session *driver.Session, stdout io.Writer, logger *log.Logger) int {
	cfg := session.Config()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath := historyPath(cfg.HistoryFile); histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				logger.Printf("could not save history: %v", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintln(stdout, banner)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if stderrors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !stderrors.Is(err, io.EOF) {
				logger.Print(err)
			}
			fmt.Fprintln(stdout)
			return 0
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(trimmed, ":") {
			if quit := handleCommand(session, trimmed, stdout); quit {
				return 0
			}
			continue
		}

		value, runErr := session.Run(cfg.SourceName, line)
		session.DisplayResult(stdout, value, runErr)
	}
}

// handleCommand runs a REPL command and reports whether the REPL should exit.
func handleCommand(session *driver.Session, cmd string, stdout io.Writer) bool {
	switch strings.ToLower(cmd) {
	case ":quit":
		return true
	case ":vars":
		table := session.Globals()
		for _, name := range table.Names() {
			v, _ := table.Get(name)
			fmt.Fprintf(stdout, "%s = %s\n", name, v)
		}
	case ":help":
		fmt.Fprint(stdout, helpText)
	default:
		fmt.Fprintf(stdout, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return false
}

// historyPath resolves a relative history file against the home directory.
func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}
