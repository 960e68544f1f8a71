package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Viper keys for the notifier client. Environment variables use the ESH_ prefix
// with dots replaced by underscores (e.g. ESH_SERVER_URL).
const (
	KeyServerURL      = "server.url"
	KeyRequestTimeout = "server.timeout"
	KeyStateBackend   = "state.backend"
	KeyStatePath      = "state.path"
	KeyRedisURL       = "state.redis_url"
	KeyNative         = "notify.native"
	KeyPollInterval   = "notify.interval"
	KeyWindowMinutes  = "notify.window_minutes"
	KeyBannerDuration = "notify.banner_duration"
	KeyRetention      = "notify.retention"
	KeyLogFile        = "log.file"
	KeyLogLevel       = "log.level"

	EnvPrefix = "ESH"

	defaultServerURL      = "http://localhost:3000"
	defaultRequestTimeout = 10 * time.Second
	defaultStateBackend   = "file"
	defaultStatePath      = ".esh/state.json"
	defaultNotifyInterval = 60 * time.Second
	defaultWindowMinutes  = 120
	defaultBannerDuration = 8 * time.Second
	// Notified ids are kept this long after their match started.
	defaultRetention = 7 * 24 * time.Hour
)

// NotifierConfig holds settings for the notification client.
type NotifierConfig struct {
	ServerURL      string
	RequestTimeout time.Duration
	StateBackend   string // file, sqlite or redis
	StatePath      string
	RedisURL       string
	Native         bool
	PollInterval   time.Duration
	WindowMinutes  int
	BannerDuration time.Duration
	Retention      time.Duration
	LogFile        string
	LogLevel       string
}

// NewNotifierViper returns a viper instance with notifier defaults and env binding applied.
func NewNotifierViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyServerURL, defaultServerURL)
	v.SetDefault(KeyRequestTimeout, defaultRequestTimeout)
	v.SetDefault(KeyStateBackend, defaultStateBackend)
	v.SetDefault(KeyStatePath, defaultStatePath)
	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeyNative, false)
	v.SetDefault(KeyPollInterval, defaultNotifyInterval)
	v.SetDefault(KeyWindowMinutes, defaultWindowMinutes)
	v.SetDefault(KeyBannerDuration, defaultBannerDuration)
	v.SetDefault(KeyRetention, defaultRetention)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "warn")
	return v
}

// LoadNotifier reads notifier settings from viper, falling back to defaults for invalid values.
func LoadNotifier(v *viper.Viper) NotifierConfig {
	if v == nil {
		v = NewNotifierViper()
	}
	cfg := NotifierConfig{
		ServerURL:      strings.TrimSuffix(strings.TrimSpace(v.GetString(KeyServerURL)), "/"),
		RequestTimeout: positiveDuration(v.GetDuration(KeyRequestTimeout), defaultRequestTimeout),
		StateBackend:   strings.ToLower(strings.TrimSpace(v.GetString(KeyStateBackend))),
		StatePath:      v.GetString(KeyStatePath),
		RedisURL:       v.GetString(KeyRedisURL),
		Native:         v.GetBool(KeyNative),
		PollInterval:   positiveDuration(v.GetDuration(KeyPollInterval), defaultNotifyInterval),
		WindowMinutes:  v.GetInt(KeyWindowMinutes),
		BannerDuration: positiveDuration(v.GetDuration(KeyBannerDuration), defaultBannerDuration),
		Retention:      positiveDuration(v.GetDuration(KeyRetention), defaultRetention),
		LogFile:        v.GetString(KeyLogFile),
		LogLevel:       v.GetString(KeyLogLevel),
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.StateBackend == "" {
		cfg.StateBackend = defaultStateBackend
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath
	}
	if cfg.WindowMinutes <= 0 {
		cfg.WindowMinutes = defaultWindowMinutes
	}
	return cfg
}

func positiveDuration(val, fallback time.Duration) time.Duration {
	if val <= 0 {
		return fallback
	}
	return val
}
