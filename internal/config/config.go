package config

// Config is the root client configuration.
type Config struct {
	API APIConfig `yaml:"api"`
	UI  UIConfig  `yaml:"ui"`
	Log LogConfig `yaml:"log"`

	// Dir is the directory holding config.yaml, the preference database and logs.
	// It is set by Load, not read from the file.
	Dir string `yaml:"-"`
}

// APIConfig describes how to reach the diary service.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"        env:"DAYBOOK_API_URL"         env-default:"http://localhost:8080/api"`
	IdentityHeader string `yaml:"identity_header" env:"DAYBOOK_IDENTITY_HEADER" env-default:"X-Temp-Id"`
}

// UIConfig holds listing and display settings.
type UIConfig struct {
	PageSize int `yaml:"page_size" env:"DAYBOOK_PAGE_SIZE" env-default:"9"`
	TopWords int `yaml:"top_words" env:"DAYBOOK_TOP_WORDS" env-default:"10"`
}

// LogConfig holds logging settings. An empty Dir means <config-dir>/logs.
type LogConfig struct {
	Debug      bool   `yaml:"debug"        env:"DAYBOOK_DEBUG"           env-default:"false"`
	Dir        string `yaml:"dir"          env:"DAYBOOK_LOG_DIR"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"DAYBOOK_LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups"  env:"DAYBOOK_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"DAYBOOK_LOG_MAX_AGE"     env-default:"28"`
}

// Overrides are command-line values that win over file and environment.
// Zero values leave the loaded setting alone.
type Overrides struct {
	APIURL string
	Debug  bool
}

// Apply merges o into c and re-validates.
func (c *Config) Apply(o Overrides) error {
	if o.APIURL != "" {
		c.API.BaseURL = o.APIURL
	}
	if o.Debug {
		c.Log.Debug = true
	}
	return c.Validate()
}
