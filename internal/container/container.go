package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/driveup/account-service/config"
	repo "github.com/driveup/account-service/internal/domain/repository"
	"github.com/driveup/account-service/internal/mail"
	"github.com/driveup/account-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router can auto-wire modules from these singletons; everything here is
// set once at startup and read-only afterwards.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	blobStore   repo.BlobStore
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	mailPub     *mail.Publisher
)

func SetConfig(c *config.Config)     { cfg = c }
func GetConfig() *config.Config      { return cfg }
func SetLogger(l *logrus.Logger)     { logger = l }
func GetLogger() *logrus.Logger      { return logger }
func SetStore(s repo.BlobStore)      { blobStore = s }
func GetStore() repo.BlobStore       { return blobStore }
func SetRedis(r *redis.Client)       { redisClient = r }
func GetRedis() *redis.Client        { return redisClient }
func SetJWT(m *helpers.JWTManager)   { jwtManager = m }
func GetJWT() *helpers.JWTManager    { return jwtManager }
func SetMailPub(p *mail.Publisher)   { mailPub = p }
func GetMailPub() *mail.Publisher    { return mailPub }
