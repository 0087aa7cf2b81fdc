package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const envDevelopment = "development"

var (
	once   sync.Once
	logger zerolog.Logger
)

func configureFields() {
	zerolog.DurationFieldUnit = time.Microsecond
	zerolog.ErrorFieldName = "error"
	zerolog.ErrorStackFieldName = "stack-trace"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.TimestampFieldName = "timestamp"
}

func level(env string) zerolog.Level {
	if env == envDevelopment {
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

// writer logs json to the rotated file. Stdout gets a console view in
// development and the same json otherwise.
func writer(filepath string, env string) io.Writer {
	file := &lumberjack.Logger{
		Filename:   filepath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	if env == envDevelopment {
		return zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, file)
	}
	return zerolog.MultiLevelWriter(os.Stdout, file)
}

func Get(filepath string, env string) zerolog.Logger {
	once.Do(func() {
		configureFields()
		logger = zerolog.New(writer(filepath, env)).
			Level(level(env)).
			Hook(TraceHook()).
			With().
			Timestamp().
			Caller().
			Stack().
			Int("pid", os.Getpid()).
			Logger()

		logger.Info().
			Str(KeyTag, "log Get").
			Str(KeyProcess, "initializing logger").
			Str("env", env).
			Msg("initialized logger")
	})
	return logger
}
