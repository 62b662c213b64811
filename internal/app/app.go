package app

import (
	"github.com/yairfalse/driftguard/internal/config"
	"github.com/yairfalse/driftguard/internal/logger"
	"github.com/yairfalse/driftguard/internal/output"
	"github.com/yairfalse/driftguard/internal/storage"
)

// App bundles the long-lived pieces every command needs: configuration,
// the logger, the baseline store, and the report renderer. AWS clients are
// built per command, they need a context.
type App struct {
	cfg      *config.Config
	log      logger.Logger
	store    storage.Store
	renderer *output.Renderer
}

// New wires an App from loaded configuration.
func New(cfg *config.Config) (*App, error) {
	store, err := storage.NewLocalStore(storage.Config{BaseDir: cfg.Storage.BaseDir})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:   cfg,
		log:   logger.New(cfg.Logging.Level),
		store: store,
		renderer: output.NewRenderer(output.Config{
			NoColor: cfg.Output.NoColor,
		}),
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.log
}

// Store returns the baseline store.
func (a *App) Store() storage.Store {
	return a.store
}

// Renderer returns the report renderer.
func (a *App) Renderer() *output.Renderer {
	return a.renderer
}

// Format returns the configured output format.
func (a *App) Format() output.OutputFormat {
	return output.OutputFormat(a.cfg.Output.Format)
}
