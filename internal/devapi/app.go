package devapi

import (
	"context"

	"github.com/dmitrijs2005/journify/internal/devapi/config"
	"github.com/dmitrijs2005/journify/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	return &App{config: c, logger: logger}
}

func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting dev API...")
	s := NewServer(app.config.ListenAddr, []byte(app.config.SecretKey), app.config.TokenTTL, app.logger)
	return s.Run(ctx)
}
