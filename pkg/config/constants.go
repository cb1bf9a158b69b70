package config

const (
	EnvPrefix = "BAKERY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SequencerDB    = "db"
	SequencerRedis = "redis"

	EnvAppEnv      = "BAKERY_APP_ENV"
	EnvPort        = "BAKERY_APP_PORT"
	EnvDBDSN       = "BAKERY_DB_DSN"
	EnvDBDriver    = "BAKERY_DB_DRIVER"
	EnvDBHost      = "BAKERY_DB_HOST"
	EnvDBUser      = "BAKERY_DB_USER"
	EnvDBName      = "BAKERY_DB_NAME"
	EnvDBPassword  = "BAKERY_DB_PASSWORD"
	EnvRedisURL    = "BAKERY_REDIS_URL"
	EnvJWTSecret   = "BAKERY_JWT_SECRET"
	EnvSequencer   = "BAKERY_ID_SEQUENCER"
	EnvOrdersTopic = "BAKERY_PUBSUB_ORDERS_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
