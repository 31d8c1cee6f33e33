package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jason64364/unfitware-automation/internal/config"
	"github.com/jason64364/unfitware-automation/internal/secrets"
	"github.com/jason64364/unfitware-automation/internal/shopify"
	"github.com/jason64364/unfitware-automation/internal/tools"
)

// NewFromConfig wires the credential provider, Shopify client and tool
// executor described by cfg into a Dispatcher.
func NewFromConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var src secrets.TokenSource
	if cfg.AdminToken != "" {
		logger.Info("using static admin token")
		src = secrets.Static(cfg.AdminToken)
	} else {
		sm, err := secrets.NewSecretsManager(ctx, cfg.SecretID)
		if err != nil {
			return nil, err
		}
		src = sm
	}
	return assemble(cfg, src, &http.Client{Timeout: cfg.HTTPTimeout}, logger), nil
}

func assemble(cfg config.Config, src secrets.TokenSource, httpClient *http.Client, logger *slog.Logger) *Dispatcher {
	tokens := secrets.NewCached(src, cfg.CredentialTTL)
	client := shopify.New(cfg.Endpoint(), tokens, httpClient)
	return NewDispatcher(cfg.Bearer, tools.NewExecutor(client, logger), logger)
}
