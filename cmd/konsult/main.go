// Package main is the konsult-ai RAG router CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/konsult-ai/rag-router/internal/config"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"github.com/konsult-ai/rag-router/internal/runtime"
	"github.com/konsult-ai/rag-router/internal/serverapi"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/konsult/config.yaml"

// loadConfig loads config from path. If path is the default and the file
// does not exist, it tries config.yaml in the current directory (for
// development).
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if path == defaultConfigPath {
			if unwrap := errors.Unwrap(err); unwrap != nil && os.IsNotExist(unwrap) {
				if cwd, cwdErr := os.Getwd(); cwdErr == nil {
					fallback := filepath.Join(cwd, "config.yaml")
					if _, statErr := os.Stat(fallback); statErr == nil {
						return config.Load(fallback)
					}
				}
			}
		}
		return nil, err
	}
	return cfg, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "reindex-centroids":
		runReindexCentroids()
	case "version", "--version", "-v":
		fmt.Printf("konsult version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := zap.NewProduction()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	rt := runtime.New(cfg, logger)
	if err := rt.Startup(); err != nil {
		logger.Fatal("failed to start runtime", zap.Error(err))
	}
	defer rt.Shutdown()

	srv := serverapi.NewServer(rt.Router, rt.RateLimiter, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	if err := rt.Shutdown(); err != nil {
		logger.Warn("runtime shutdown error", zap.Error(err))
	}
}

// askArgsReorder moves any flags (and their values) that appear after the
// question to the front of the slice so that flag.Parse() sees them, the
// same way sagasu's search command handles a trailing flag.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline in-process)")
	clientID := fs.String("client", "cli", "client id for rate limiting and caching")
	askArgs := askArgsReorder(os.Args[2:])
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		fmt.Println(`Usage: konsult ask [flags] "<question>"`)
		os.Exit(1)
	}
	question := fs.Arg(0)

	if *serverURL != "" {
		resp, err := askViaHTTP(*serverURL, question, *clientID)
		if err != nil {
			fmt.Printf("ask failed: %v\n", err)
			os.Exit(1)
		}
		printAskResponse(resp)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rt := runtime.New(cfg, logger)
	if err := rt.Startup(); err != nil {
		logger.Fatal("failed to start runtime", zap.Error(err))
	}
	defer rt.Shutdown()

	state, err := rt.Router.Process(context.Background(), question, nil, nil, *clientID)
	if err != nil {
		fmt.Printf("ask failed: %v\n", err)
		os.Exit(1)
	}
	printRouterState(state)
}

type askRequestBody struct {
	Message string `json:"message"`
}

type askResponseBody struct {
	Content string            `json:"content"`
	Domain  ragmodel.Domain   `json:"domain"`
	Domains []ragmodel.Domain `json:"domains"`
}

func askViaHTTP(serverURL, question, clientID string) (*askResponseBody, error) {
	body, err := json.Marshal(askRequestBody{Message: question})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out askResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func printAskResponse(resp *askResponseBody) {
	fmt.Printf("[%s]\n%s\n", resp.Domain, resp.Content)
}

func printRouterState(state *ragmodel.RouterState) {
	if state.Generation == nil {
		fmt.Println("(no answer produced)")
		return
	}
	domain := ragmodel.DomainRejection
	if domains := state.Domains(); len(domains) > 0 {
		domain = domains[0]
	}
	fmt.Printf("[%s]\n%s\n", domain, state.Generation.Content)
}

// runReindexCentroids forces every domain's representative-query centroid
// to be computed now instead of lazily on the next classification call,
// the way an operator would warm caches right after editing domains.yaml.
func runReindexCentroids() {
	fs := flag.NewFlagSet("reindex-centroids", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rt := runtime.New(cfg, logger)
	if err := rt.Startup(); err != nil {
		logger.Fatal("failed to start runtime", zap.Error(err))
	}
	defer rt.Shutdown()

	for _, d := range ragmodel.Domains {
		if _, err := rt.Classifier.Classify(context.Background(), string(d)); err != nil {
			fmt.Printf("centroid warm-up failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("centroids reindexed")
}

func printUsage() {
	fmt.Println(`konsult - Agentic RAG router for Korean small-business consulting

Usage:
  konsult server [flags]              Start the HTTP server
  konsult ask [flags] "<question>"    Ask a question
  konsult reindex-centroids [flags]   Force domain centroid recomputation
  konsult version                     Show version
  konsult help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/konsult/config.yaml)

Ask Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8080). Empty runs the pipeline in-process.
  --client string    Client id for rate limiting and caching (default: cli)

Examples:
  konsult server
  konsult ask "부가가치세 신고 기한이 언제인가요?"
  konsult ask --server "" "퇴직금은 어떻게 계산하나요?"
  konsult reindex-centroids`)
}
