package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"vivafit/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "VIVAFIT_LOG_LEVEL")
	v.BindEnv("storage.driver", "VIVAFIT_STORAGE_DRIVER")
	v.BindEnv("storage.saveInterval", "VIVAFIT_SAVE_INTERVAL")
	v.BindEnv("exerciseApi.baseUrl", "VIVAFIT_EXERCISE_API_URL")
	v.BindEnv("remote.enabled", "VIVAFIT_REMOTE_ENABLED")
	v.BindEnv("remote.dsn", "VIVAFIT_REMOTE_DSN")
	v.BindEnv("responseCache.enabled", "VIVAFIT_CACHE_ENABLED")
	v.BindEnv("responseCache.size", "VIVAFIT_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "VIVAFIT_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	conf.ApplyDefaults()

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "VivaFit"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
