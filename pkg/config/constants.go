package config

// EnvPrefix scopes envconfig lookups; individual fields carry explicit names.
const EnvPrefix = "FITDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FITDESK_DB_DSN"
	EnvDBHost = "FITDESK_DB_HOST"
	EnvDBUser = "FITDESK_DB_USER"
	EnvDBName = "FITDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
