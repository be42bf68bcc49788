package groups

import (
	"fmt"
	"log/slog"
)

func dup(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func validateEnum(v interface{}, known ...interface{}) error {
	for _, kv := range known {
		if v == kv {
			return nil
		}
	}
	return fmt.Errorf("Unknown enum value: %v", v)
}

///
/// Options
///

type config struct {
	logger    *slog.Logger
	durations DurationHumanizer
}

// Option configures a ProfileKeySet, ChangeDescriptionProducer, Session or
// CachingDescriber.
type Option func(*config)

// WithLogger sets the logger used for diagnostics.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDurationHumanizer replaces the humanizer used for disappearing message
// timers. By default durations are formatted through the producer's
// Localizer.
func WithDurationHumanizer(h DurationHumanizer) Option {
	return func(c *config) {
		c.durations = h
	}
}

func applyOptions(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}
