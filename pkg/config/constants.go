package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "GLAMBOOK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GLAMBOOK_DB_DSN"
	EnvDBHost = "GLAMBOOK_DB_HOST"
	EnvDBUser = "GLAMBOOK_DB_USER"
	EnvDBName = "GLAMBOOK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
