package groups

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// StringFactory builds the text of a deferred description. It may block on a
// member lookup.
type StringFactory func() string

// UpdateDescription is one displayable line describing a group update. It is
// either static text or a deferred factory, plus the members it mentions.
// Values are immutable and may be shared freely.
type UpdateDescription struct {
	mentioned []uuid.UUID
	factory   StringFactory
	static    string
	isStatic  bool
}

var blockingGuard atomic.Pointer[func()]

// SetBlockingGuard installs a hook that runs before any deferred description
// is resolved. Hosts use it to assert they are not on a goroutine that must
// not block. Passing nil removes the hook.
func SetBlockingGuard(fn func()) {
	if fn == nil {
		blockingGuard.Store(nil)
		return
	}
	blockingGuard.Store(&fn)
}

func assertMayBlock() {
	if fn := blockingGuard.Load(); fn != nil {
		(*fn)()
	}
}

func StaticDescription(text string) UpdateDescription {
	return UpdateDescription{static: text, isStatic: true}
}

// MentioningDescription returns a deferred description. UnknownIdentity is
// never recorded as mentioned.
func MentioningDescription(mentioned []uuid.UUID, factory StringFactory) UpdateDescription {
	if factory == nil {
		panic("groups.update_description: nil string factory")
	}

	return UpdateDescription{
		mentioned: normalizeMentions(mentioned),
		factory:   factory,
	}
}

func normalizeMentions(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != UnknownIdentity {
			out = append(out, id)
		}
	}

	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return strings.Compare(string(a[:]), string(b[:]))
	})
	return slices.Compact(out)
}

// Resolve returns the text of the description. Deferred descriptions invoke
// their factory and may block.
func (d UpdateDescription) Resolve() string {
	if d.isStatic {
		return d.static
	}

	if d.factory == nil {
		panic("groups.update_description: neither static text nor factory set")
	}

	assertMayBlock()
	return d.factory()
}

func (d UpdateDescription) IsStatic() bool {
	return d.isStatic
}

// StaticText returns the text of a static description without resolving
// anything.
func (d UpdateDescription) StaticText() (string, bool) {
	return d.static, d.isStatic
}

// Mentioned returns the members referenced by the description.
func (d UpdateDescription) Mentioned() []uuid.UUID {
	return slices.Clone(d.mentioned)
}

func (d UpdateDescription) Mentions(id uuid.UUID) bool {
	return slices.Contains(d.mentioned, id)
}

// ConcatWithNewLines joins descriptions one per line. An empty list is a
// programming error.
func ConcatWithNewLines(descs []UpdateDescription) UpdateDescription {
	switch len(descs) {
	case 0:
		panic("groups.update_description: no descriptions to concatenate")
	case 1:
		return descs[0]
	}

	parts := slices.Clone(descs)
	allStatic := true
	var mentioned []uuid.UUID
	for _, d := range parts {
		allStatic = allStatic && d.isStatic
		mentioned = append(mentioned, d.mentioned...)
	}

	if allStatic {
		return StaticDescription(joinLines(parts))
	}

	return MentioningDescription(mentioned, func() string {
		return joinLines(parts)
	})
}

func joinLines(descs []UpdateDescription) string {
	lines := make([]string, len(descs))
	for i, d := range descs {
		lines[i] = d.Resolve()
	}
	return strings.Join(lines, "\n")
}
