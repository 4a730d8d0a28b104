package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
	fsinfra "github.com/oksasatya/teambuilder/internal/infrastructure/firestore"
	"github.com/oksasatya/teambuilder/internal/infrastructure/localstore"
	"github.com/oksasatya/teambuilder/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/teambuilder/internal/infrastructure/postgres"
	"github.com/oksasatya/teambuilder/internal/infrastructure/redisstore"
	"github.com/oksasatya/teambuilder/pkg/helpers"
)

const (
	Local     = "local"
	Memory    = "memory"
	Postgres  = "postgres"
	Redis     = "redis"
	Firestore = "firestore"
)

// Names lists the accepted STORAGE_BACKEND values.
var Names = []string{Local, Memory, Postgres, Redis, Firestore}

// Handle is an opened backend plus whatever must be released with it.
type Handle struct {
	Name  string
	Store repository.RecordStore

	closers []func()
}

// Close releases the record store and its underlying connections.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	if h.Store != nil {
		_ = h.Store.Close()
	}
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
}

// Open connects the backend named by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Handle, error) {
	return OpenNamed(ctx, cfg.StorageBackend, cfg, logger)
}

// OpenNamed connects the named backend using the connection settings in cfg.
func OpenNamed(ctx context.Context, name string, cfg *config.Config, logger *logrus.Logger) (*Handle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	h := &Handle{Name: name}
	switch name {
	case "", Local:
		h.Name = Local
		s, err := localstore.NewRecordStore(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		h.Store = s
	case Memory:
		h.Store = memory.NewRecordStore()
	case Postgres:
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		h.closers = append(h.closers, pool.Close)
		h.Store = pginfra.NewRecordStore(pool)
	case Redis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend needs REDIS_ADDR")
		}
		rdb, err := helpers.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		h.closers = append(h.closers, func() { _ = rdb.Close() })
		h.Store = redisstore.NewRecordStore(rdb)
	case Firestore:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("firestore backend needs FIREBASE_PROJECT_ID")
		}
		client, err := fsinfra.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("connect firestore: %w", err)
		}
		// the record store owns the client and closes it
		h.Store = fsinfra.NewRecordStore(client)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %s)", name, strings.Join(Names, ", "))
	}
	if logger != nil {
		logger.WithField("backend", h.Name).Info("storage backend ready")
	}
	return h, nil
}
