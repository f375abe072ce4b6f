package config

// EnvPrefix is the envconfig prefix shared by every variable below.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, spelled out so tests and docs stay in sync
// with the struct tags.
const (
	EnvAppEnv   = "STOREFRONT_APP_ENV"
	EnvPort     = "STOREFRONT_APP_PORT"
	EnvLogLevel = "STOREFRONT_LOG_LEVEL"

	EnvCatalogBaseURL  = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogTimeout  = "STOREFRONT_CATALOG_TIMEOUT"
	EnvCatalogCacheTTL = "STOREFRONT_CATALOG_CACHE_TTL"

	EnvSnapshotPath = "STOREFRONT_SNAPSHOT_PATH"
	EnvAutoMigrate  = "STOREFRONT_AUTO_MIGRATE"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvCheckoutSubmitLatency = "STOREFRONT_CHECKOUT_SUBMIT_LATENCY"

	EnvAuthAPIBaseURL = "STOREFRONT_AUTH_API_BASE_URL"
)
