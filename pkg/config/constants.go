package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CatalogSourceFile = "file"
	CatalogSourceDB   = "db"

	EnvAppEnv                 = "STOREFRONT_APP_ENV"
	EnvPort                   = "STOREFRONT_APP_PORT"
	EnvCatalogSource          = "STOREFRONT_CATALOG_SOURCE"
	EnvCatalogProductsFile    = "STOREFRONT_CATALOG_PRODUCTS_FILE"
	EnvCatalogPageSize        = "STOREFRONT_CATALOG_PAGE_SIZE"
	EnvCatalogDisplayDiscount = "STOREFRONT_CATALOG_DISPLAY_DISCOUNT_PERCENT"
	EnvCartDiscountCodes      = "STOREFRONT_CART_DISCOUNT_CODES"
	EnvRedisURL               = "STOREFRONT_REDIS_URL"
	EnvUseSQLite              = "STOREFRONT_USE_SQLITE"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
