// Package providers contains dependency injection providers for the recipe server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/recipemanager/recipe-server/internal/config"
	"github.com/recipemanager/recipe-server/internal/logger"
)

// Args holds the command-line arguments (without the program name)
// that configuration is loaded from.
type Args []string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args, err := do.Invoke[Args](i)
	if err != nil {
		args = nil
	}
	return config.Load(args)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.FromSettings(cfg.App.Environment, cfg.Logger.Level))

	log.Info("Starting Recipe Manager Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_url", cfg.Database.URL,
		"page_size", cfg.Recipes.PageSize,
	)

	return log, nil
}
