// Package store selecciona el driver de persistencia según configuración.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/bookshelf/internal/books"
	"github.com/dropDatabas3/bookshelf/internal/config"
	"github.com/dropDatabas3/bookshelf/internal/observability/logger"
	"github.com/dropDatabas3/bookshelf/internal/store/memory"
	"github.com/dropDatabas3/bookshelf/internal/store/pg"
)

// New crea el repositorio según storage.driver y retorna también un
// cleanup para cerrar conexiones en el shutdown.
func New(ctx context.Context, cfg *config.Config) (books.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.Migrate {
			if err := st.Migrate(ctx); err != nil {
				st.Close()
				return nil, nil, err
			}
		}
		return st, st.Close, nil

	case "memory", "":
		logger.L().Warn("using in-memory storage, data will not survive restarts",
			logger.Op("store.new"),
		)
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("store: unknown driver %q", cfg.Storage.Driver)
	}
}
