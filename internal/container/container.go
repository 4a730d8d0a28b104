package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/config"
	"github.com/oksasatya/teambuilder/internal/application"
	"github.com/oksasatya/teambuilder/internal/infrastructure/backend"
	"github.com/oksasatya/teambuilder/pkg/helpers"
	"github.com/oksasatya/teambuilder/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       *backend.Handle
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	registry  *metrics.Metrics
	service   *application.Service
)

func SetConfig(c *config.Config)        { cfg = c }
func GetConfig() *config.Config         { return cfg }
func SetLogger(l *logrus.Logger)        { logger = l }
func GetLogger() *logrus.Logger         { return logger }
func SetBackend(h *backend.Handle)      { store = h }
func GetBackend() *backend.Handle       { return store }
func SetRedis(r *redis.Client)          { redisClient = r }
func GetRedis() *redis.Client           { return redisClient }
func SetGCS(s *storage.Client)          { gcsClient = s }
func GetGCS() *storage.Client           { return gcsClient }
func SetJWT(m *helpers.JWTManager)      { jwtManager = m }
func SetMetrics(m *metrics.Metrics)     { registry = m }
func GetMetrics() *metrics.Metrics      { return registry }
func SetService(s *application.Service) { service = s }
func GetService() *application.Service  { return service }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
