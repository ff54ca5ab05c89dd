package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Pool sizing targets ~10 steady connections bursting to ~30 under load.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"                validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"     validate:"required,gt=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"     validate:"required,gt=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"  validate:"required,gt=0"` // seconds
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time" validate:"required,gt=0"` // seconds
}

// LLMConfig contains all settings for the external text-analysis service.
// GeminiAPIKey may be empty: the service then runs with enrichment disabled
// and tasks are created without AI fields.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"     validate:"required,gt=0"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"required,gt=0"`
}
