package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/readstack/library-service/pkg/assets"
	"github.com/readstack/library-service/pkg/kafka"
	"github.com/readstack/library-service/pkg/logger"
	"github.com/readstack/library-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type JWT struct {
	Key string        `envconfig:"JWT_KEY"`
	TTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// Admin is the seeded administrator account ensured at startup.
type Admin struct {
	Username string `envconfig:"ADMIN_USERNAME" default:"admin"`
	Password string `envconfig:"ADMIN_PASSWORD"`
}

type Static struct {
	UploadsDir string `envconfig:"UPLOADS_DIR" default:"web/uploads"`
	ClientDir  string `envconfig:"CLIENT_DIR" default:"web/dist"`
}

type Config struct {
	Server   HTTPServer    `yaml:"server"`
	Database postgres.DB   `yaml:"db"`
	Kafka    kafka.Config  `yaml:"kafka"`
	Assets   assets.Config `yaml:"assets"`
	JWT      JWT           `yaml:"jwt"`
	Admin    Admin         `yaml:"admin"`
	Static   Static        `yaml:"static"`
	Log      logger.Log    `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
	})

	return cfg
}
