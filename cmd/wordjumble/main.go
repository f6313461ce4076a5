// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the word jumble solver server and CLI [DBG] application.

WordJumble unscrambles newspaper jumbles. Single jumbles are answered with a
signature lookup; the final jumble is partitioned into words of the required
lengths. It can run as a MessagePack IPC server, an HTTP API, an interactive
CLI, or a one-shot solver over a TOML puzzle file.

# Usage

Start the IPC server with the system word list:

	wordjumble

Use a custom word list and enable debug mode:

	wordjumble -dict /path/to/words.txt -d

Run in CLI mode for interactive testing:

	wordjumble -c

Serve HTTP on a given address:

	wordjumble -http :8080

Solve every puzzle in a file and print the results:

	wordjumble -puzzles puzzles.toml

Write a snapshot of the built index, which loads faster than a word list:

	wordjumble -dict words.txt -snapshot words.wjdx

# Configuration

Runtime configuration lives in a TOML file, created with defaults if missing:

	[dict]
	path = "/usr/share/dict/words"

	[solver]
	cache_size = 256
	max_letters = 24
	timeout_ms = 2000

	[http]
	addr = ":8080"

# Command Line Flags

	-dict string
	    Word list or snapshot file (default from config)
	-config string
	    Config file path
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-http string
	    Serve the HTTP API on this address
	-puzzles string
	    Solve the puzzles in a TOML file and exit
	-snapshot string
	    Write an index snapshot to this file and exit
	-rebuild-config
	    Overwrite the default config file with defaults and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordjumble/internal/cli"
	"github.com/bastiangx/wordjumble/internal/logger"
	"github.com/bastiangx/wordjumble/internal/utils"
	"github.com/bastiangx/wordjumble/pkg/config"
	"github.com/bastiangx/wordjumble/pkg/dictionary"
	"github.com/bastiangx/wordjumble/pkg/httpapi"
	"github.com/bastiangx/wordjumble/pkg/puzzle"
	"github.com/bastiangx/wordjumble/pkg/server"
	"github.com/bastiangx/wordjumble/pkg/solver"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "wordjumble"
	gh      = "https://github.com/bastiangx/wordjumble"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together and picks the mode.
// It does not implement logic for them and only manages the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "", "Word list or snapshot file (default from config)")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	httpAddr := flag.String("http", "", "Serve the HTTP API on this address")
	puzzleFile := flag.String("puzzles", "", "Solve the puzzles in a TOML file and exit")
	snapshotOut := flag.String("snapshot", "", "Write an index snapshot to this file and exit")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		path, _ := config.GetDefaultConfigPath()
		log.Printf("Wrote default config to %s", path)
		os.Exit(0)
	}

	appConfig, usedConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfigPath))

	configDir, err := config.GetConfigDir()
	if err != nil {
		log.Warnf("No config directory: %v", err)
	}
	pathResolver, err := utils.NewPathResolver(configDir)
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	for k, v := range pathResolver.GetRuntimeInfo() {
		log.Debugf("runtime %s: %s", k, v)
	}
	resolvedDict, err := pathResolver.GetDictPath(chooseDict(*dictPath, appConfig.Dict))
	if err != nil {
		log.Fatalf("Failed to resolve word list: %v", err)
	}

	reloader, err := dictionary.NewReloader(resolvedDict)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}
	jumbleSolver := solver.NewCached(reloader, appConfig.Solver.CacheSize)

	switch {
	case *snapshotOut != "":
		if err := dictionary.SaveSnapshot(*snapshotOut, reloader.Index()); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		log.Printf("Wrote %d words to %s", reloader.Index().Len(), *snapshotOut)

	case *puzzleFile != "":
		if err := solvePuzzles(*puzzleFile, jumbleSolver); err != nil {
			log.Fatalf("%v", err)
		}

	case *cliMode:
		sigHandler()
		inputHandler := cli.NewInputHandler(jumbleSolver, appConfig.CLI, appConfig.Solver.Timeout())
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *httpAddr != "":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpConfig := appConfig.HTTP
		httpConfig.Addr = *httpAddr
		showStartupInfo(resolvedDict, "http "+httpConfig.Addr)
		if err := httpapi.Run(ctx, httpapi.NewHandler(jumbleSolver, appConfig), httpConfig); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}

	default:
		sigHandler()
		srv := server.NewServer(jumbleSolver, reloader, appConfig)
		showStartupInfo(resolvedDict, "ipc")
		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to run server: %v", err)
		}
	}
}

// chooseDict picks the dictionary file: the -dict flag, then a configured
// snapshot that exists, then the configured word list.
func chooseDict(flagPath string, dict config.DictConfig) string {
	if flagPath != "" {
		return flagPath
	}
	if dict.Snapshot != "" && utils.FileExists(dict.Snapshot) {
		return dict.Snapshot
	}
	return dict.Path
}

// solvePuzzles solves every puzzle in file and prints the results.
func solvePuzzles(file string, s solver.ISolver) error {
	puzzles, err := puzzle.LoadFile(file)
	if err != nil {
		return err
	}
	for i, p := range puzzles {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("==================== %s ====================\n", p.Name)
		if p.Prompt != "" {
			fmt.Println(p.Prompt)
		}
		result, err := puzzle.Solve(context.Background(), s, p)
		if err != nil {
			log.Errorf("%v", err)
			continue
		}
		if err := puzzle.WriteReport(os.Stdout, result); err != nil {
			return err
		}
	}
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordJumble ] Unscrambles newspaper jumbles")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath, mode string) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" WordJumble ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dictionary: ( %s )", dictPath)
	log.Infof("mode: %s", mode)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
