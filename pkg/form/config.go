package form

import "time"

// Config is the env-driven form configuration.
type Config struct {
	AsyncTimeout time.Duration `env:"FORM_ASYNC_TIMEOUT" envDefault:"30s"`   // AsyncTimeout bounds every asynchronous validation; 0 disables it.
	FullMessages bool          `env:"FORM_FULL_MESSAGES" envDefault:"false"` // FullMessages prefixes error messages with the field label.
}

// DefaultAsyncTimeout bounds asynchronous validations when no timeout is configured.
const DefaultAsyncTimeout = 30 * time.Second
