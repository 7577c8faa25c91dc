package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string // development -> consola legible; cualquier otro -> JSON
	Level string // trace, debug, info, warn, error (inválido = info)
}

// Logger wrapper sobre zerolog para inyección por constructor.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger de la aplicación y lo deja también como logger global de zerolog.
// En development añade el fichero:línea de cada llamada.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	ctx := zerolog.New(w).With().Timestamp()
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		ctx = zerolog.New(w).With().Timestamp().Caller()
	}
	zl := ctx.Logger().Level(parseLevel(cfg.Level))
	log.Logger = zl
	return &Logger{zl: zl}
}

// NewWriter logger JSON sobre un writer arbitrario (tests).
func NewWriter(w io.Writer, level string) *Logger {
	return &Logger{zl: zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger con el campo "component" fijo (http, realtime, scheduler...).
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}
