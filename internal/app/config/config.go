package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost     string
	ServicePort     int
	ShutdownTimeout time.Duration
	LogFormat       string
	// TrustedProxies lists proxy IPs/CIDRs allowed to set X-Forwarded-For
	TrustedProxies  []string
	JWT             JWTConfig
	Redis           RedisConfig
	MinIO           MinIOConfig
	Mail            MailConfig
	PDF             PDFConfig
	Notify          NotifyConfig
	CORS            CORSConfig
	Contract        ContractConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	Issuer        string
	SigningMethod jwt.SigningMethod `mapstructure:"-"`
}

// Redis is optional: an empty Host disables the token blacklist
type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// MinIO archives rendered contract PDFs. Empty Endpoint disables it
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MailConfig struct {
	APIKey     string
	BaseURL    string
	FromEmail  string
	FromName   string
	AdminEmail string
	Timeout    time.Duration
}

type PDFConfig struct {
	GotenbergURL string
	Timeout      time.Duration
}

type NotifyConfig struct {
	QueueSize  int
	JobTimeout time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

type ContractConfig struct {
	NumberPrefix  string
	InvoicePrefix string
	Currency      string
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envJWTSecret     = "JWT_SECRET"
	envMinIOEndpoint = "MINIO_ENDPOINT"
	envMinIOAccess   = "MINIO_ACCESS_KEY"
	envMinIOSecret   = "MINIO_SECRET_KEY"
	envSendGridKey   = "SENDGRID_API_KEY"
	envGotenbergURL  = "GOTENBERG_URL"
	envLogFormat     = "LOG_FORMAT"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.WatchConfig()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// secrets and endpoints come from env
	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	log.Info("config parsed")

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.JWT.Token = envOr(envJWTSecret, c.JWT.Token)

	c.Redis.Host = envOr(envRedisHost, c.Redis.Host)
	if port := os.Getenv(envRedisPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("redis port must be int value: %w", err)
		}
		c.Redis.Port = p
	}
	c.Redis.Password = envOr(envRedisPass, c.Redis.Password)
	c.Redis.User = envOr(envRedisUser, c.Redis.User)

	c.MinIO.Endpoint = envOr(envMinIOEndpoint, c.MinIO.Endpoint)
	c.MinIO.AccessKey = envOr(envMinIOAccess, c.MinIO.AccessKey)
	c.MinIO.SecretKey = envOr(envMinIOSecret, c.MinIO.SecretKey)

	c.Mail.APIKey = envOr(envSendGridKey, c.Mail.APIKey)
	c.PDF.GotenbergURL = envOr(envGotenbergURL, c.PDF.GotenbergURL)
	c.LogFormat = envOr(envLogFormat, c.LogFormat)

	if c.JWT.Token == "" {
		return fmt.Errorf("jwt secret is empty, set %s", envJWTSecret)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ServicePort == 0 {
		c.ServicePort = 8080
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}

	c.JWT.SigningMethod = jwt.SigningMethodHS256
	if c.JWT.ExpiresIn <= 0 {
		c.JWT.ExpiresIn = 12 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "academy"
	}

	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.DialTimeout <= 0 {
		c.Redis.DialTimeout = 10 * time.Second
	}
	if c.Redis.ReadTimeout <= 0 {
		c.Redis.ReadTimeout = 10 * time.Second
	}

	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "contracts"
	}
	if c.Mail.Timeout <= 0 {
		c.Mail.Timeout = 30 * time.Second
	}
	if c.PDF.Timeout <= 0 {
		c.PDF.Timeout = 60 * time.Second
	}
	if c.Notify.QueueSize <= 0 {
		c.Notify.QueueSize = 100
	}
	if c.Notify.JobTimeout <= 0 {
		c.Notify.JobTimeout = 2 * time.Minute
	}

	if c.Contract.NumberPrefix == "" {
		c.Contract.NumberPrefix = "UG"
	}
	if c.Contract.InvoicePrefix == "" {
		c.Contract.InvoicePrefix = "RN"
	}
	if c.Contract.Currency == "" {
		c.Contract.Currency = "EUR"
	}
}

// JSONLogs reports whether logrus should emit JSON
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
