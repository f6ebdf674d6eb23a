package config

// EnvPrefix is the envconfig prefix; variable names carry it explicitly.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "STORERATE_DB_DSN"
	EnvDBHost = "STORERATE_DB_HOST"
	EnvDBUser = "STORERATE_DB_USER"
	EnvDBName = "STORERATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
