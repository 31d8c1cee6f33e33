// Command shopify-mcp-http serves the Shopify tools over plain HTTP for local use.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jason64364/unfitware-automation/internal/config"
	"github.com/jason64364/unfitware-automation/internal/logging"
	"github.com/jason64364/unfitware-automation/internal/server"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	d, err := server.NewFromConfig(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("building dispatcher", "error", err)
		os.Exit(1)
	}
	srv := server.New(d)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		logger.Info("starting MCP HTTPS server", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, srv.Router())
	} else {
		logger.Warn("TLS_CERT_FILE and TLS_KEY_FILE not set; serving plain HTTP. Run behind a TLS-terminating proxy.")
		logger.Info("starting MCP HTTP server", "addr", addr)
		err = http.ListenAndServe(addr, srv.Router())
	}
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
