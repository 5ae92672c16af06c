package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SteamConfig struct {
	RelayURL         string        `yaml:"relayUrl"`
	CommunityURL     string        `yaml:"communityUrl" validate:"required|fullUrl"`
	APIURL           string        `yaml:"apiUrl" validate:"required|fullUrl"`
	RequestTimeout   time.Duration `yaml:"requestTimeout" validate:"required"`
	AuxiliaryTimeout time.Duration `yaml:"auxiliaryTimeout" validate:"required"`
	AccountID        string        `yaml:"accountId"`
	APIKey           string        `yaml:"apiKey"`
}

type EnrichmentConfig struct {
	BatchSize  int           `yaml:"batchSize" validate:"required|min:1"`
	BatchDelay time.Duration `yaml:"batchDelay"`
}

type RefreshConfig struct {
	Interval        time.Duration `yaml:"interval" validate:"required"`
	ManualPerMinute int           `yaml:"manualPerMinute"`
	MaxAuthFailures int           `yaml:"maxAuthFailures"`
}

type SettingsConfig struct {
	FilePath  string `yaml:"filePath" validate:"required|unixPath"`
	Namespace string `yaml:"namespace"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Steam      SteamConfig      `yaml:"steam"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Settings   SettingsConfig   `yaml:"settings"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Cors       CorsConfig       `yaml:"cors"`
}
