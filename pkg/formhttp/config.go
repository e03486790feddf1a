package formhttp

import "time"

// Config configures the HTTP transport.
type Config struct {
	MaxSessions   int           `env:"FORM_HTTP_MAX_SESSIONS" envDefault:"1000"`   // MaxSessions bounds live form sessions; the least recently used is closed.
	SettleTimeout time.Duration `env:"FORM_HTTP_SETTLE_TIMEOUT" envDefault:"2s"`   // SettleTimeout bounds how long a validate request waits for async rules.
	RulesDir      string        `env:"FORM_HTTP_RULES_DIR" envDefault:"./rules"`   // RulesDir holds YAML/JSON rule set files.
	StreamBuffer  int           `env:"FORM_HTTP_STREAM_BUFFER" envDefault:"16"`    // StreamBuffer is the per-stream notification buffer.
	MaxBodySize   int64         `env:"FORM_HTTP_MAX_BODY_SIZE" envDefault:"65536"` // MaxBodySize limits request bodies in bytes.
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		MaxSessions:   1000,
		SettleTimeout: 2 * time.Second,
		RulesDir:      "./rules",
		StreamBuffer:  16,
		MaxBodySize:   64 << 10,
	}
}
