package domain

// Config mirrors ~/.jua/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Classifier          ClassifierSettings `yaml:"classifier"`
	Storage             StorageSettings    `yaml:"storage"`
	History             HistorySettings    `yaml:"history"`
	Weather             WeatherSettings    `yaml:"weather"`
	Tips                TipsSettings       `yaml:"tips"`
	Server              ServerSettings     `yaml:"server"`
}

// ClassifierSettings configures the remote classification backend.
type ClassifierSettings struct {
	Endpoint       string `yaml:"endpoint"`
	HealthEndpoint string `yaml:"health_endpoint"`
	TimeoutSeconds int    `yaml:"timeout"`
	// RatePerMinute throttles remote attempts; 0 disables throttling.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// StorageSettings selects the durable key-value backend.
type StorageSettings struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// HistorySettings bounds the analysis history.
type HistorySettings struct {
	MaxEntries int `yaml:"max_entries"`
}

// WeatherSettings controls the mock forecast.
type WeatherSettings struct {
	TTLMinutes   int `yaml:"ttl_minutes"`
	ForecastDays int `yaml:"forecast_days"`
}

// TipsSettings controls localized tip caching.
type TipsSettings struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// ServerSettings configures `jua serve`.
type ServerSettings struct {
	Addr string `yaml:"addr"`
}
