package groups

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/message"
)

// Localizer formats a phrase key with arguments into display text.
// *message.Printer satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// MemberDescriber resolves a member to a display name. It may block on
// storage or the network and must return a placeholder rather than fail.
type MemberDescriber interface {
	Describe(id uuid.UUID) string
}

// MemberDescriberFunc adapts a function to MemberDescriber.
type MemberDescriberFunc func(id uuid.UUID) string

func (f MemberDescriberFunc) Describe(id uuid.UUID) string {
	return f(id)
}

// DurationHumanizer renders a disappearing message timer.
type DurationHumanizer interface {
	HumanizeDuration(seconds uint32) string
}

type localizedDurations struct {
	loc Localizer
}

// LocalizedDurations renders timers with the duration phrases of loc.
func LocalizedDurations(loc Localizer) DurationHumanizer {
	return localizedDurations{loc: loc}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
)

func (d localizedDurations) HumanizeDuration(seconds uint32) string {
	switch {
	case seconds == 0:
		return d.loc.Sprintf(KeyDurationOff)
	case seconds < secondsPerMinute:
		return d.loc.Sprintf(KeyDurationSeconds, int(seconds))
	case seconds < secondsPerHour:
		return d.loc.Sprintf(KeyDurationMinutes, int(seconds/secondsPerMinute))
	case seconds < secondsPerDay:
		return d.loc.Sprintf(KeyDurationHours, int(seconds/secondsPerHour))
	case seconds < secondsPerWeek:
		return d.loc.Sprintf(KeyDurationDays, int(seconds/secondsPerDay))
	default:
		return d.loc.Sprintf(KeyDurationWeeks, int(seconds/secondsPerWeek))
	}
}

///
/// CachingDescriber
///

// CachingDescriber remembers recently resolved member names and makes
// concurrent lookups of the same member share one call to the wrapped
// describer.
type CachingDescriber struct {
	next   MemberDescriber
	cache  *lru.Cache[uuid.UUID, string]
	group  singleflight.Group
	logger *slog.Logger
}

func NewCachingDescriber(next MemberDescriber, size int, opts ...Option) (*CachingDescriber, error) {
	if next == nil {
		return nil, fmt.Errorf("groups.describer: nil describer")
	}

	cache, err := lru.New[uuid.UUID, string](size)
	if err != nil {
		return nil, fmt.Errorf("groups.describer: %w", err)
	}

	cfg := applyOptions(opts...)
	return &CachingDescriber{
		next:   next,
		cache:  cache,
		logger: cfg.logger,
	}, nil
}

func (c *CachingDescriber) Describe(id uuid.UUID) string {
	if name, ok := c.cache.Get(id); ok {
		return name
	}

	v, _, shared := c.group.Do(id.String(), func() (interface{}, error) {
		name := c.next.Describe(id)
		c.cache.Add(id, name)
		return name, nil
	})
	if shared {
		c.logger.Debug("shared member lookup", "member", id)
	}
	return v.(string)
}

// Invalidate drops cached names, e.g. after the members mentioned by a
// description changed their profile.
func (c *CachingDescriber) Invalidate(ids ...uuid.UUID) {
	for _, id := range ids {
		c.cache.Remove(id)
	}
}
