package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	RingSize   int    `yaml:"ringSize"`
}

type StorageConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,sqlite"`
	FilePath     string        `yaml:"filePath" validate:"unixPath"`
	SQLitePath   string        `yaml:"sqlitePath" validate:"unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type ExerciseCacheConfig struct {
	Dir          string        `yaml:"dir" validate:"required|unixPath"`
	TTL          time.Duration `yaml:"ttl"`
	URLKeyLength int           `yaml:"urlKeyLength"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type ExerciseAPIConfig struct {
	BaseURL  string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Language int           `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
	Retries  int           `yaml:"retries"`
}

type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type WorkoutConfig struct {
	TickInterval       time.Duration `yaml:"tickInterval"`
	FinishCooldown     time.Duration `yaml:"finishCooldown"`
	DefaultLabel       string        `yaml:"defaultLabel"`
	RestAfterFinalStep bool          `yaml:"restAfterFinalStep"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName       string
	Debug         bool
	Path          string
	WebServer     Server              `yaml:"webServer"`
	Logger        LoggerConfig        `yaml:"logger"`
	Storage       StorageConfig       `yaml:"storage"`
	ExerciseCache ExerciseCacheConfig `yaml:"exerciseCache"`
	ResponseCache CacheConfig         `yaml:"responseCache"`
	ExerciseAPI   ExerciseAPIConfig   `yaml:"exerciseApi"`
	Remote        RemoteConfig        `yaml:"remote"`
	Workout       WorkoutConfig       `yaml:"workout"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}
