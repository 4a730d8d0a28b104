package router

import (
	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/container"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
	handlers "github.com/oksasatya/teambuilder/internal/interface/http"
	"github.com/oksasatya/teambuilder/internal/router/modules"
)

// BuildService assembles the store, notifiers and search index from the
// container singletons and stores the service back into the container.
// The store is not loaded yet.
func BuildService() *application.Service {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var records repository.RecordStore
	if h := container.GetBackend(); h != nil {
		records = h.Store
	}
	store := application.NewStore(records,
		application.WithLogger(logger),
		application.WithMetrics(container.GetMetrics()),
	)

	search := &application.SearchIndexer{
		ES:     container.GetES(),
		Index:  cfg.ESProjectsIndex,
		Logger: logger,
	}

	var notifiers []application.Notifier
	if pub := container.GetRabbitPub(); pub != nil && cfg.NotifySendEnabled {
		notifiers = append(notifiers, application.EventNotifier{Pub: pub})
	}

	toasts := application.NewToastBoard(cfg.ToastTTL)
	sessions := application.NewSessionRegistry(cfg.AccessTTL)
	svc := application.NewService(store, toasts, sessions, search, logger, notifiers...)
	container.SetService(svc)
	return svc
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := container.GetService()
	if svc == nil {
		svc = BuildService()
	}
	logger := container.GetLogger()
	deps := modules.Deps{
		Sessions:      svc,
		JWT:           container.GetJWT(),
		Redis:         container.GetRedis(),
		RatePerMinute: cfg.RateLimitPerMinute,
	}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, deps.JWT, logger, cfg.CookieDomain, cfg.CookieSecure), deps))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(svc, logger), deps))
	r.Add(modules.NewNotificationModule(handlers.NewNotificationHandler(svc), deps))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetrics(), deps))
	}
}
