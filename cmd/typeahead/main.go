// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead suggestion server and CLI [DBG] application.

Typeahead serves fast prefix suggestions backed by a frequency-ranked
Patricia trie, with an edit-distance candidate generator as fallback for
prefixes the dictionary has never seen. It can operate as a MessagePack
IPC server for integration with text editors, or as a CLI application
for testing and debugging.

The index is built once at startup from a ranked dictionary source and
can be rebuilt at runtime on request. Rebuilds swap in a fully built
replacement, so lookups never observe a half-built index.

# Usage

Start the server with default settings:

	typeahead

Use a custom dictionary and enable debug mode:

	typeahead -data /path/to/words.db -d

Run in CLI mode for interactive testing:

	typeahead -c -limit 10 -prmin 2

The data path may be a SQLite database with a word_frequencies table or
a directory of chunked binary files named dict_0001.bin, dict_0002.bin,
and so on. The format is detected automatically.

# Configuration

Runtime configuration is managed through a TOML file covering server
limits, engine behavior, and index tuning:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[engine]
	trie_limit = 5
	fallback_limit = 5
	max_candidates = 100
	enable_filter = true

	[index]
	rebuild_cooldown = "1h"
	prefix_cache_size = 1000

The config file is automatically created with defaults if it doesn't
exist. A file that fails to parse is recovered section by section, with
defaults filling the gaps.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Completion
requests are processed synchronously with microsecond timing information
included in responses.

Send a completion request:

	{"id": "req1", "p": "hello", "l": 20}

Receive suggestions ranked by position:

	{"id": "req1", "s": [{"w": "hello", "r": 1}, {"w": "help", "r": 2}], "c": 2, "t": 145}

Command requests manage the index at runtime:

	{"id": "cmd1", "a": "rebuild"}
	{"id": "cmd2", "a": "stats"}

# Server Mode

The default mode starts a MessagePack IPC server that processes
completion requests from stdin and writes responses to stdout. This
design enables integration with text editors and other applications
through process communication.

	srv := server.New(provider, manager, cfg, opts)
	err := srv.Start(ctx)

All logging goes to stderr so that stdout stays a clean protocol
stream.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
suggestion behavior. It reads prefixes from stdin and displays
suggestions with their dictionary frequencies.

	handler := cli.NewInputHandler(provider, manager, gen, minLen, maxLen, limit, noFilter, rawIndex)
	err := handler.Start(ctx)

The -raw flag queries the trie index directly, skipping the candidate
generator fallback, which is useful for inspecting pure frequency
ranking.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Dictionary path: SQLite file or chunk directory (default "data/")
	-config string
	    Custom config file path (default is the user config dir)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-raw
	    CLI mode queries the index directly, without the generator fallback
	-limit int
	    Number of suggestions to display in CLI mode
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering (shows entries for numbers, symbols, etc)
	-init-config
	    Write a default config file and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/veldt/typeahead/internal/cli"
	"github.com/veldt/typeahead/internal/logger"
	"github.com/veldt/typeahead/pkg/config"
	"github.com/veldt/typeahead/pkg/dictionary"
	"github.com/veldt/typeahead/pkg/fuzzy"
	"github.com/veldt/typeahead/pkg/index"
	"github.com/veldt/typeahead/pkg/server"
	"github.com/veldt/typeahead/pkg/suggest"
)

const (
	Version = "0.1.0"
	AppName = "typeahead"
	gh      = "https://github.com/veldt/typeahead"
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

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "data/", "Dictionary path: SQLite file or directory of binary chunks")
	configPath := flag.String("config", "", "Custom config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	rawIndex := flag.Bool("raw", false, "CLI lookups hit the trie index directly (no generator fallback)")
	limit := flag.Int("limit", 10, "Number of suggestions to return in CLI mode")
	minPrefix := flag.Int("prmin", defaultConfig.Server.MinPrefix, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.Server.MaxPrefix, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only) - shows all raw dictionary entries (numbers, symbols, etc)")
	initConfig := flag.Bool("init-config", false, "Write a default config file and exit")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *initConfig {
		path, err := config.WriteDefault()
		if err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		log.Printf("Wrote default config to %s", path)
		os.Exit(0)
	}

	logger.SetDebug(*debugMode)

	cfg, cfgPath := config.LoadWithPriority(*configPath)
	if *noFilter {
		cfg.Engine.EnableFilter = false
	}

	ctx := context.Background()

	var source dictionary.RankedSource
	if *dataPath == "" {
		log.Warn("No dictionary path specified, running with an empty index...")
		source = dictionary.NewMemorySource()
	} else {
		var err error
		source, err = dictionary.Open(*dataPath)
		if err != nil {
			log.Fatalf("Failed to open dictionary at %s: %v", *dataPath, err)
		}
	}
	defer source.Close()

	log.Debugf("Using dictionary at: %s", *dataPath)

	manager := index.NewManager(time.Duration(cfg.Index.RebuildCooldown), cfg.Index.PrefixCacheSize)
	if err := manager.Initialize(ctx, source); err != nil {
		log.Fatalf("Failed to build index: %v", err)
	}

	gen := fuzzy.NewGenerator()
	provider := suggest.NewProvider(manager, gen, source, suggest.Options{
		TrieLimit:     cfg.Engine.TrieLimit,
		FallbackLimit: cfg.Engine.FallbackLimit,
		MaxCandidates: cfg.Engine.MaxCandidates,
	})

	// CLI is mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter,
			"rawIndex", *rawIndex)

		handler := cli.NewInputHandler(provider, manager, gen, *minPrefix, *maxPrefix, *limit, *noFilter, *rawIndex)
		if err := handler.Start(ctx); err != nil && !errors.Is(err, io.EOF) {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.New(provider, manager, cfg, &server.Options{
		Source:    source,
		Generator: gen,
	})

	showStartupInfo(*dataPath, cfgPath)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// showVersionInfo prints the version banner with styled values.
func showVersionInfo() {
	bannerLog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	bannerLog.SetStyles(styles)

	bannerLog.Print("")
	bannerLog.Print("[ typeahead ] Fast prefix suggestions with a fuzzy fallback")
	bannerLog.Print("", "version", Version)
	bannerLog.Print("")
	bannerLog.Print("use -h or --help to see available options")
	bannerLog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir, configPath string) {
	info := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	println("===========")
	println(" typeahead ")
	println("===========")
	info.Infof("Version: %s", Version)
	info.Infof("Process ID: [ %d ]", os.Getpid())
	info.Info("init: OK")
	info.Infof("data dir: ( %s )", dataDir)
	if configPath != "" {
		info.Infof("config: ( %s )", configPath)
	}
	info.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
