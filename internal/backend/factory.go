package backend

import (
	"fmt"

	"pennywise/internal/config"
	"pennywise/internal/log"
	"pennywise/internal/settings"
	"pennywise/internal/storage"
	"pennywise/internal/store/local"
	"pennywise/internal/store/remote"
)

// New builds the backend named by the configuration. The returned cleanup
// must be called on shutdown; for stateless variants it is a no-op.
func New(cfg *config.Config, logger *log.Logger) (Result, error) {
	logger = logger.WithComponent("backend")

	switch Type(cfg.DataBackend) {
	case TypeLocal:
		st, err := local.Open(cfg.DataDir)
		if err != nil {
			return Result{}, fmt.Errorf("open local store: %w", err)
		}
		logger.Info("Using local JSON store", "dir", cfg.DataDir)
		return Result{
			Backend: Backend{
				Settings:        st,
				Transactions:    st,
				EmptyListPolicy: policy(cfg, settings.SubstituteDefaults),
			},
			Cleanup: func() error { return nil },
		}, nil

	case TypeRemote:
		client := remote.New(cfg.RemoteBaseURL, cfg.RemoteTimeout)
		logger.Info("Using remote record-store API", "base_url", cfg.RemoteBaseURL)
		return Result{
			Backend: Backend{
				Settings:        client,
				Transactions:    client,
				EmptyListPolicy: policy(cfg, settings.PreserveEmpty),
			},
			Cleanup: func() error { return nil },
		}, nil

	case TypeSQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return Result{}, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Using SQLite record store", "path", cfg.SQLiteDBPath)
		return Result{
			Backend: Backend{
				Settings:        repo,
				Transactions:    repo,
				EmptyListPolicy: policy(cfg, settings.PreserveEmpty),
			},
			Cleanup: repo.Close,
		}, nil

	default:
		return Result{}, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// policy applies the configured override over the variant's native behavior.
func policy(cfg *config.Config, native settings.EmptyListPolicy) settings.EmptyListPolicy {
	if p := settings.EmptyListPolicy(cfg.EmptyListPolicy); p.IsValid() {
		return p
	}
	return native
}
