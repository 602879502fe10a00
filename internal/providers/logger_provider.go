package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"vivafit/internal/structures"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeCache
	TypeWorkout
)

var typeFiles = map[TypeEnum]string{
	TypeApp:     "app.log",
	TypeGet:     "get.log",
	TypePost:    "post.log",
	TypeCache:   "cache.log",
	TypeWorkout: "workout.log",
}

func (t TypeEnum) String() string {
	switch t {
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	case TypeCache:
		return "cache"
	case TypeWorkout:
		return "workout"
	default:
		return "app"
	}
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*lumberjack.Logger
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

// NewLogProvider opens one rotated file per category. When ring is not nil
// every emitted event is also kept in it.
func NewLogProvider(conf *structures.Config, ring *LogRing) (Logger, error) {
	info, err := os.Stat(conf.Logger.Dir)
	if err != nil {
		return nil, fmt.Errorf("log dir %s: %w", conf.Logger.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log dir %s is not a directory", conf.Logger.Dir)
	}

	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(typeFiles))}
	for t, name := range typeFiles {
		path := filepath.Join(conf.Logger.Dir, name)
		// lumberjack keeps the mode of an existing file
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, os.FileMode(conf.Logger.Mode))
		if err != nil {
			lp.Close()
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		f.Close()

		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    conf.Logger.MaxSizeMB,
			MaxBackups: conf.Logger.MaxBackups,
		}
		lp.files = append(lp.files, rotator)

		var w io.Writer = rotator
		if conf.Debug {
			w = zerolog.MultiLevelWriter(rotator, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		lg := zerolog.New(w).Level(level).With().Timestamp().Str("type", t.String()).Logger()
		if ring != nil {
			lg = lg.Hook(ring.hook(t))
		}
		lp.loggers[t] = lg
	}
	return lp, nil
}

func (l *LogProvider) get(t TypeEnum) *zerolog.Logger {
	lg, ok := l.loggers[t]
	if !ok {
		lg = l.loggers[TypeApp]
	}
	return &lg
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Info().Msgf(format, args...)
}

// Fatalf logs and exits the process.
func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Close()
	}
}
