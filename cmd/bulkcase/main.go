// Interactive shell for staging row updates and writing them back with
// CASE-based bulk UPDATE statements.
//
// Configuration is read from the environment and an optional .env file;
// see config.go.
//
// Usage:
//
//	go run ./cmd/bulkcase
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ergochat/readline"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bulkcase: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "[Config] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	sess := NewSession(askEngine(rl, cfg.Engine), rl)
	sess.log = log
	sess.ctx = ctx
	sess.batchSize = cfg.BatchSize
	defer sess.close()

	_ = rl.SetConfig(&readline.Config{
		Prompt:          "bulkcase> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	switch {
	case cfg.DSN != "":
		fmt.Println("[Config] Connecting via DATABASE_URL...")
		if err := sess.Execute("connect " + cfg.DSN); err != nil {
			log.Warn("DATABASE_URL connect failed", zap.Error(err))
		}
	case strings.HasPrefix(strings.ToLower(prompt(rl, "Connect to a database? (y/N)", "n")), "y"):
		if err := sess.connectViaWizard(); err != nil {
			log.Warn("connect failed", zap.Error(err))
			fmt.Println("[Config] Use 'connect <dsn>' to retry")
		}
	default:
		fmt.Println("[Config] Skipped; use 'connect <dsn>' later to connect")
	}

	fmt.Print("\nbulkcase: type 'help' for commands, 'exit' to quit\n\n")
	rl.SetPrompt("bulkcase> ")
	for ctx.Err() == nil {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bulkcase_history")
}
