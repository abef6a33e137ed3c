package config

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "parceltrack"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "PARCELTRACK_APP_ENV"
	EnvPort       = "PARCELTRACK_APP_PORT"
	EnvDBDSN      = "PARCELTRACK_DB_DSN"
	EnvDBHost     = "PARCELTRACK_DB_HOST"
	EnvDBUser     = "PARCELTRACK_DB_USER"
	EnvDBName     = "PARCELTRACK_DB_NAME"
	EnvRedisURL   = "PARCELTRACK_REDIS_URL"
	EnvJWTSecret  = "PARCELTRACK_JWT_SECRET"
	EnvJWTIssuer  = "PARCELTRACK_JWT_ISSUER"
	EnvJWTExpMins = "PARCELTRACK_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID    = "PARCELTRACK_GCP_PROJECT_ID"
	EnvPubSubTopic     = "PARCELTRACK_PUBSUB_PARCELS_TOPIC"
	EnvPubSubNotifySub = "PARCELTRACK_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
