/*
Package main implements the correction server and CLI [DBG] application.

Correctserve ranks and selects text corrections for short user-entered
strings by fusing three signal sources: a dictionary/edit-distance spell
checker, a statistical n-gram language model, and an external neural
grammar corrector. It runs as a line-delimited JSON IPC server for
integration with editors and browser extensions, or as a CLI application
for testing and debugging.

# Usage

Start the server with default settings:

	cserve

Use a custom config and enable debug mode:

	cserve -config /path/to/config.toml -d

Run in CLI mode for interactive testing:

	cserve -c

Train the n-gram model from a corpus directory and write the snapshot:

	cserve -train corpus/ -model ngram.bin

# Configuration

Runtime configuration is managed through a TOML file with sections for the
orchestrator, dictionary, language model, cache and neural collaborator:

	[server]
	min_confidence = 0.95
	default_suggestions = 3

	[ngram]
	order = 4
	min_count = 2

	[cache]
	backend = "memory"
	ttl_seconds = 86400

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via JSON lines over stdin/stdout. Send a correction
request:

	{"command": "correct", "text": "I recieve the package", "mode": "auto"}

Receive the fused result:

	{"original": "I recieve the package", "corrected": "I receive the package", ...}

Other commands: "health", "stats", "clear_cache".

# Pipeline

Requests flow cache -> strategy -> fusion -> gating. The spell engine and
n-gram tables are immutable after startup, so the request path takes no
locks; only the external neural call and a redis-backed cache may block.

# Command Line Flags

	-config string
	    Path to a TOML config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-dict string
	    Word list file, one word per line (builtin list if empty)
	-model string
	    N-gram snapshot path (overrides config)
	-train string
	    Train the n-gram model from a corpus file or directory, save the
	    snapshot and exit
	-mincount int
	    Minimum n-gram count kept when training
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/correctserve/correctserve/internal/logger"
	"github.com/correctserve/correctserve/pkg/cache"
	"github.com/correctserve/correctserve/pkg/config"
	"github.com/correctserve/correctserve/pkg/correct"
	"github.com/correctserve/correctserve/pkg/dictionary"
	"github.com/correctserve/correctserve/pkg/neural"
	"github.com/correctserve/correctserve/pkg/ngram"
	"github.com/correctserve/correctserve/pkg/server"
	"github.com/correctserve/correctserve/pkg/spell"
)

const (
	Version = "0.3.0-beta"
	AppName = "correctserve"
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

// main wires the collaborators and hands off to train, CLI or server mode.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	dictPath := flag.String("dict", "", "Word list file, one word per line")
	modelPath := flag.String("model", "", "N-gram snapshot path (overrides config)")
	trainPath := flag.String("train", "", "Train the n-gram model from a corpus file or directory and exit")
	minCount := flag.Int("mincount", defaults.Ngram.MinCount, "Minimum n-gram count kept when training")

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", AppName, Version)
		os.Exit(0)
	}

	if *debugMode {
		log.SetDefault(logger.NewWithConfig(AppName, log.DebugLevel, true, true, log.TextFormatter))
	} else {
		log.SetDefault(logger.New(AppName))
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, _ := config.LoadConfigWithPriority(*configPath)
	if activePath != "" {
		log.Debugf("Using config file: (%s)", activePath)
	}
	if *dictPath != "" {
		cfg.Dict.WordsPath = *dictPath
	}
	if *modelPath != "" {
		cfg.Ngram.ModelPath = *modelPath
	}

	if *trainPath != "" {
		if err := trainModel(cfg, *trainPath, *minCount); err != nil {
			log.Fatalf("Training failed: %v", err)
		}
		return
	}

	service := buildService(cfg)
	ctx := context.Background()

	if *cliMode {
		log.SetReportTimestamp(false)
		if err := runCLI(ctx, service); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	showStartupInfo(cfg)
	srv := server.NewServer(service, cfg.Server.MaxRequestSize)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildService constructs the spell engine, language model, neural client
// and cache from config. Every collaborator degrades independently: a bad
// snapshot or dead redis never stops the service from serving.
func buildService(cfg *config.Config) *correct.Service {
	store, err := dictionary.Load(cfg.Dict.WordsPath)
	if err != nil {
		log.Warnf("Dictionary load: %v", err)
	}
	log.Debugf("Dictionary ready: %d words", store.Len())
	checker := spell.NewChecker(store, cfg.Dict.MaxEditDistance)

	model := ngram.New(cfg.Ngram.Order)
	if cfg.Ngram.ModelPath != "" {
		if err := model.Load(cfg.Ngram.ModelPath); err != nil {
			log.Warnf("N-gram snapshot unavailable, serving untrained: %v", err)
		}
	}

	var corrector neural.Corrector
	if cfg.Neural.Enabled {
		timeout := time.Duration(cfg.Neural.TimeoutSeconds) * time.Second
		switch cfg.Neural.Client {
		case "openai":
			c, err := neural.NewOpenAICorrector(os.Getenv(cfg.Neural.APIKeyEnv), cfg.Neural.Model, timeout)
			if err != nil {
				log.Warnf("Neural corrector disabled: %v", err)
			} else {
				corrector = c
			}
		default:
			corrector = neural.NewHTTPCorrector(cfg.Neural.Endpoint, timeout)
		}
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		backend := buildCacheBackend(cfg)
		resultCache = cache.New(backend, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}

	return correct.NewService(checker, model, corrector, resultCache, correct.Options{
		MinConfidence:      cfg.Server.MinConfidence,
		DefaultSuggestions: cfg.Server.DefaultSuggestions,
		MaxSuggestions:     cfg.Server.MaxSuggestions,
	})
}

func buildCacheBackend(cfg *config.Config) cache.Backend {
	if cfg.Cache.Backend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		backend, err := cache.NewRedisBackend(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
		if err == nil {
			return backend
		}
		log.Warnf("Redis unavailable, falling back to memory cache: %v", err)
	}
	return cache.NewMemoryBackend(cfg.Cache.MaxEntries)
}

// trainModel reads a corpus file or directory of text files, trains the
// n-gram model and writes the snapshot to the configured model path.
func trainModel(cfg *config.Config, corpusPath string, minCount int) error {
	if cfg.Ngram.ModelPath == "" {
		return fmt.Errorf("no model path: pass -model or set ngram.model_path")
	}

	var texts []string
	info, err := os.Stat(corpusPath)
	if err != nil {
		return fmt.Errorf("corpus: %w", err)
	}
	if info.IsDir() {
		entries, err := os.ReadDir(corpusPath)
		if err != nil {
			return fmt.Errorf("corpus dir: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(corpusPath, entry.Name()))
			if err != nil {
				log.Warnf("Skipping %s: %v", entry.Name(), err)
				continue
			}
			texts = append(texts, string(data))
		}
	} else {
		data, err := os.ReadFile(corpusPath)
		if err != nil {
			return fmt.Errorf("corpus file: %w", err)
		}
		texts = append(texts, string(data))
	}
	if len(texts) == 0 {
		return fmt.Errorf("no corpus texts found under %s", corpusPath)
	}

	model := ngram.New(cfg.Ngram.Order)
	log.Infof("Training %d-gram model on %d documents...", cfg.Ngram.Order, len(texts))
	model.Train(texts, minCount)
	log.Infof("Training done: %d tokens, vocabulary %d", model.TotalWords(), model.VocabSize())

	if err := model.Save(cfg.Ngram.ModelPath); err != nil {
		return err
	}
	log.Infof("Snapshot written to %s", cfg.Ngram.ModelPath)
	return nil
}

// runCLI reads lines from stdin and prints the corrected text with
// confidence. Intended for development and debugging, same pipeline as
// server mode but with human-readable output.
func runCLI(ctx context.Context, service *correct.Service) error {
	fmt.Println("correctserve CLI -- type text, Ctrl+D to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result := service.Correct(ctx, correct.Request{
			Text:     line,
			Mode:     correct.ModeAuto,
			UseCache: true,
		})
		fmt.Printf("  %s  (confidence %.2f, %0.1fms)\n", result.Corrected, result.Confidence, result.ProcessingMs)
		for _, sug := range result.Suggestions {
			fmt.Printf("    - %-30s %.2f  [%s]\n", sug.Text, sug.Confidence, sug.Source)
		}
	}
	return scanner.Err()
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("cache: %s (enabled=%t)", cfg.Cache.Backend, cfg.Cache.Enabled)
	log.Infof("neural: enabled=%t client=%s", cfg.Neural.Enabled, cfg.Neural.Client)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
