package fake

import "log/slog"

// Option represents generator option
type Option func(*Generator)

// WithConfig sets generator config
func WithConfig(config *Config) Option {
	return func(g *Generator) {
		g.config = config
	}
}

// WithLogger sets generator logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}
