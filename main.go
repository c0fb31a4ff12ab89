// Copyright 2025 David Stotijn
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/dstotijn/go-mcp"
	"go.uber.org/zap"
)

// Command-line flags.
var (
	httpAddr   string
	useStdio   bool
	useSSE     bool
	configPath string
)

func main() {
	flag.StringVar(&httpAddr, "http", ":8080", "HTTP listen address for JSON-RPC over HTTP")
	flag.BoolVar(&useStdio, "stdio", true, "Enable stdio transport")
	flag.BoolVar(&useSSE, "sse", false, "Enable SSE transport")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.Parse()

	// Logs go to stderr; stdout is reserved for the stdio transport.
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transports := []string{}
	opts := []mcp.ServerOption{}

	if useStdio {
		transports = append(transports, "stdio")
		opts = append(opts, mcp.WithStdioTransport())
	}

	var sseURL url.URL

	if useSSE {
		transports = append(transports, "sse")

		host := "localhost"

		hostPart, port, err := net.SplitHostPort(httpAddr)
		if err != nil {
			logger.Fatal("Failed to split host and port", zap.Error(err))
		}

		if hostPart != "" {
			host = hostPart
		}

		sseURL = url.URL{
			Scheme: "http",
			Host:   host + ":" + port,
		}

		opts = append(opts, mcp.WithSSETransport(sseURL))
	}

	mcpServer := mcp.NewServer(mcp.ServerConfig{}, opts...)

	mcpServer.Start(ctx)

	client := NewClient(cfg, logger)

	// Register Opendatasoft Explore API tools.
	mcpServer.RegisterTools(
		// Catalog tools: dataset discovery and exploration.
		createSearchDatasetsTool(client),
		createGetDatasetInfoTool(client),
		createListDatasetsByPublisherTool(client),
		createListDatasetFieldsTool(client),
		// Query tools: data retrieval and querying.
		createGetDatasetRecordsTool(client),
		createGetDatasetAggregatesTool(client),
		createFacetAnalysisTool(client),
		createSearchDatasetRecordsTool(client),
		createGetExportURLTool(client),
		// Analysis tools: data analysis and statistics.
		createSummarizeDatasetTool(client),
		createAnalyzeNumericFieldTool(client),
		createAnalyzeTextFieldTool(client),
		createAnalyzeDateFieldTool(client),
		createGenerateDatasetStatisticsTool(client),
	)

	httpServer := &http.Server{
		Addr:        httpAddr,
		Handler:     mcpServer,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}

	if useSSE {
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("HTTP server error", zap.Error(err))
			}
		}()
	}

	logger.Info("Opendatasoft MCP server started",
		zap.Strings("transports", transports),
		zap.String("base_url", cfg.BaseURL),
	)
	if useSSE {
		logger.Info("SSE transport endpoint", zap.String("url", sseURL.String()))
	}

	// Wait for interrupt signal.
	<-ctx.Done()
	// Restore signal, allowing "force quit".
	stop()

	timeout := 5 * time.Second
	cancelContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Shutting down server. Press Ctrl+C to force quit.", zap.Duration("timeout", timeout))

	var wg sync.WaitGroup

	if useSSE {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpServer.Shutdown(cancelContext); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				logger.Error("HTTP server shutdown error", zap.Error(err))
			}
		}()
	}

	wg.Wait()
}
