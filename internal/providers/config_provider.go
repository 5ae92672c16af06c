package providers

import (
	"fmt"
	"path/filepath"
	"steamdash/internal/structures"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "SteamDash"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if flags.EnvFile != "" {
		// a missing .env is fine, credentials may come from the real environment
		_ = godotenv.Load(flags.EnvFile)
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setDefaults(v)

	v.BindEnv("logger.level", "STEAMDASH_LOG_LEVEL")
	v.BindEnv("steam.accountId", "STEAMDASH_ACCOUNT_ID")
	v.BindEnv("steam.apiKey", "STEAMDASH_API_KEY")
	v.BindEnv("steam.relayUrl", "STEAMDASH_RELAY_URL")
	v.BindEnv("refresh.interval", "STEAMDASH_REFRESH_INTERVAL")
	v.BindEnv("cache.enabled", "STEAMDASH_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8089)
	v.SetDefault("steam.communityUrl", "https://steamcommunity.com")
	v.SetDefault("steam.apiUrl", "https://api.steampowered.com")
	v.SetDefault("steam.requestTimeout", 20*time.Second)
	v.SetDefault("steam.auxiliaryTimeout", 10*time.Second)
	v.SetDefault("enrichment.batchSize", 10)
	v.SetDefault("enrichment.batchDelay", 100*time.Millisecond)
	v.SetDefault("refresh.interval", 5*time.Minute)
	v.SetDefault("refresh.manualPerMinute", 6)
	v.SetDefault("refresh.maxAuthFailures", 2)
	v.SetDefault("settings.namespace", "steamdash")
	v.SetDefault("cache.ttl", 30*time.Second)
}
