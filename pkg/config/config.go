package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Zoho          ZohoConfig
	Outbox        OutboxConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CHARTEDART_APP_ENV" required:"true"`
	Port         string `envconfig:"CHARTEDART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHARTEDART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHARTEDART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CHARTEDART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN       string `envconfig:"CHARTEDART_DB_DSN"`
	Driver    string `envconfig:"CHARTEDART_DB_DRIVER" default:"postgres"`
	UseSQLite bool   `envconfig:"CHARTEDART_USE_SQLITE" default:"false"`

	LegacyHost     string `envconfig:"CHARTEDART_DB_HOST"`
	LegacyPort     int    `envconfig:"CHARTEDART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHARTEDART_DB_USER"`
	LegacyPassword string `envconfig:"CHARTEDART_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHARTEDART_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHARTEDART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHARTEDART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHARTEDART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHARTEDART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHARTEDART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHARTEDART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CHARTEDART_REDIS_ADDR"`
	Password     string        `envconfig:"CHARTEDART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHARTEDART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHARTEDART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHARTEDART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHARTEDART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHARTEDART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHARTEDART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CHARTEDART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHARTEDART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CHARTEDART_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CHARTEDART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CHARTEDART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CHARTEDART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CHARTEDART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CHARTEDART_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CHARTEDART_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"CHARTEDART_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CHARTEDART_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"CHARTEDART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CHARTEDART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CHARTEDART_GCS_BUCKET_NAME" required:"true"`
	// Uploaded artwork is served straight from the bucket.
	PublicBaseURL string `envconfig:"CHARTEDART_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CHARTEDART_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	DomainTopic           string `envconfig:"CHARTEDART_PUBSUB_DOMAIN_TOPIC" required:"true"`
	InventorySubscription string `envconfig:"CHARTEDART_PUBSUB_INVENTORY_SUBSCRIPTION" required:"true"`
	OrdersSubscription    string `envconfig:"CHARTEDART_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	CartSubscription      string `envconfig:"CHARTEDART_PUBSUB_CART_SUBSCRIPTION" required:"true"`
}

type ZohoConfig struct {
	BaseURL        string        `envconfig:"CHARTEDART_ZOHO_BASE_URL" default:"https://www.zohoapis.com/inventory/v1"`
	AccountsURL    string        `envconfig:"CHARTEDART_ZOHO_ACCOUNTS_URL" default:"https://accounts.zoho.com"`
	ClientID       string        `envconfig:"CHARTEDART_ZOHO_CLIENT_ID"`
	ClientSecret   string        `envconfig:"CHARTEDART_ZOHO_CLIENT_SECRET"`
	RefreshToken   string        `envconfig:"CHARTEDART_ZOHO_REFRESH_TOKEN"`
	OrganizationID string        `envconfig:"CHARTEDART_ZOHO_ORGANIZATION_ID"`
	SalesAccountID string        `envconfig:"CHARTEDART_ZOHO_SALES_ACCOUNT_ID"`
	TaxID          string        `envconfig:"CHARTEDART_ZOHO_TAX_ID"`
	RequestTimeout time.Duration `envconfig:"CHARTEDART_ZOHO_REQUEST_TIMEOUT" default:"15s"`
}

// Complete reports whether every credential needed for inventory calls is set.
func (z ZohoConfig) Complete() bool {
	for _, v := range []string{z.ClientID, z.ClientSecret, z.RefreshToken, z.OrganizationID} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CHARTEDART_AUTH_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"CHARTEDART_AUTH_RL_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit    int           `envconfig:"CHARTEDART_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"CHARTEDART_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"CHARTEDART_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"CHARTEDART_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"3"`
}

type OutboxConfig struct {
	BatchSize        int           `envconfig:"CHARTEDART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS   int           `envconfig:"CHARTEDART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts      int           `envconfig:"CHARTEDART_OUTBOX_MAX_ATTEMPTS" default:"10"`
	ConsumerDedupTTL time.Duration `envconfig:"CHARTEDART_OUTBOX_CONSUMER_DEDUP_TTL" default:"72h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.UseSQLite {
		if db.DSN == "" {
			db.DSN = "chartedart.db"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
