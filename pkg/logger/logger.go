package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config del logger de msp-invoices.
type Config struct {
	Env     string    // "development" escribe en consola; cualquier otro valor, JSON por línea
	Level   string    // LOG_LEVEL; desconocido o vacío = info
	Service string    // campo "service" en cada entrada; vacío = sin campo
	Output  io.Writer // stdout si es nil; invoicectl usa stderr para no mezclarse con las rutas impresas
}

// Logger se inyecta en use cases, cliente de la API y middleware HTTP.
// Cada capa pide su sublogger con Named.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger raíz y lo deja también como logger global de zerolog.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// Nop descarta todo. Valor por defecto cuando no se inyecta logger.
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

// With abre un contexto para un sublogger con campos propios (request_id en el middleware).
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Named sublogger con component=<nombre>: "billing", "http", "invoiceapi".
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog expone el logger interno para el cliente de la API, que lo recibe por opción.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
