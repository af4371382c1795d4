package procore

// Config holds configuration for the Procore API client.
type Config struct {
	// BaseURL is the root of the Procore REST API.
	BaseURL string `mapstructure:"base_url" default:"https://api.procore.com"`
	// ClientID is the OAuth application client ID.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth application client secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// RedirectURI is the OAuth redirect URI registered with Procore.
	RedirectURI string `mapstructure:"redirect_uri" default:""`
	// CompanyID is the Procore company the projects belong to.
	CompanyID string `mapstructure:"company_id" default:""`
	// TimeoutSeconds is the request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// RedisConfig holds configuration for the Redis session store.
type RedisConfig struct {
	// Addr is the Redis server address.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// Key is the key under which the session is stored.
	Key string `mapstructure:"key" default:"lv-inventory:procore:session"`
}
