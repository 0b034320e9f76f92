// Package engineerr defines the error taxonomy shared by every engine verb:
// a small set of sentinel kinds that callers can match with errors.Is,
// always wrapped with verb-specific context via fmt.Errorf's %w.
package engineerr

import "errors"

// Sentinel kinds. Verbs never return these bare — they wrap them with
// fmt.Errorf("...: %w", Kind) so the message carries which pane or
// constraint was involved while errors.Is still matches the kind.
var (
	// MinSizeViolated: the operation would shrink some pane below the
	// configured minimum.
	MinSizeViolated = errors.New("minimum size violated")
	// NotFound: a referenced pane id does not exist.
	NotFound = errors.New("pane not found")
	// StackInvariant: a combine/break would leave an invalid stack.
	StackInvariant = errors.New("stack invariant violated")
	// LastPane: close would remove the only remaining pane.
	LastPane = errors.New("last pane cannot be closed")
	// FullscreenBlocked: the verb is ignored while a fullscreen snapshot
	// exists. Surfaced as a NoOp result, not a hard error, but callers
	// that want to distinguish "blocked" from "nothing to do" can match
	// this with errors.Is against a returned error.
	FullscreenBlocked = errors.New("blocked while fullscreen")
	// LayoutInvalid: a declarative layout tree specifies impossible
	// sizes.
	LayoutInvalid = errors.New("layout tree invalid")
)

// Result distinguishes three verb outcomes per the external-interface
// contract: a verb either changes state, does nothing because the
// operation is meaningfully unavailable (NoOp), or fails.
type Result int

const (
	// Applied: the verb completed and may have changed state.
	Applied Result = iota
	// NoOp: the verb ran but made no change — e.g. resize with no room,
	// or a verb that is blocked during fullscreen.
	NoOp
)

func (r Result) String() string {
	if r == NoOp {
		return "no-op"
	}
	return "applied"
}
