// Command shopify-mcp-lambda serves the Shopify tools as an AWS Lambda
// function behind an API Gateway HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

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

	d, err := server.NewFromConfig(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("building dispatcher", "error", err)
		os.Exit(1)
	}
	logger.Info("lambda handler ready", "store", cfg.StoreDomain, "api_version", cfg.APIVersion)
	lambda.Start(d.HandleAPIGateway)
}
