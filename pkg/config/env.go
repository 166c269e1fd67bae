package config

const (
	EnvPrefix = "chartedart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "CHARTEDART_APP_ENV"
	EnvPort       = "CHARTEDART_APP_PORT"
	EnvDBDSN      = "CHARTEDART_DB_DSN"
	EnvDBHost     = "CHARTEDART_DB_HOST"
	EnvDBUser     = "CHARTEDART_DB_USER"
	EnvDBName     = "CHARTEDART_DB_NAME"
	EnvRedisURL   = "CHARTEDART_REDIS_URL"
	EnvJWTSecret  = "CHARTEDART_JWT_SECRET"
	EnvJWTIssuer  = "CHARTEDART_JWT_ISSUER"
	EnvJWTExpMins = "CHARTEDART_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "CHARTEDART_GCP_PROJECT_ID"
	EnvGCSBucket    = "CHARTEDART_GCS_BUCKET_NAME"

	EnvPubSubDomainTopic  = "CHARTEDART_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubInventorySub = "CHARTEDART_PUBSUB_INVENTORY_SUBSCRIPTION"
	EnvPubSubOrdersSub    = "CHARTEDART_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubCartSub      = "CHARTEDART_PUBSUB_CART_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
