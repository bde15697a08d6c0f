package chunking

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by NewChunkConfig when a §3 invariant is
// violated in a way that cannot simply be defaulted away.
var ErrInvalidConfig = errors.New("invalid chunk config")

// NotFoundError is returned when strategy_override names an unknown
// strategy.
type NotFoundError struct {
	Strategy string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chunking: unknown strategy override %q", e.Strategy)
}

// InvariantKind distinguishes the validator's hard-failure subkinds.
type InvariantKind string

const (
	// HardInvariantViolation covers ordering, empty-chunk, header-path, and
	// metadata-consistency breaches — all indicate a bug in this package.
	HardInvariantViolation InvariantKind = "hard_invariant_violation"
	// ContentLoss covers a >=10-line coverage gap between input and output.
	ContentLoss InvariantKind = "content_loss"
)

// ChunkingError reports a hard invariant breach detected by the validator.
// Unlike NotFoundError and the config errors, this always indicates a bug
// in the parser, a strategy, or the post-processor rather than bad input.
type ChunkingError struct {
	Kind    InvariantKind
	Message string
}

func (e *ChunkingError) Error() string {
	return fmt.Sprintf("chunking: %s: %s", e.Kind, e.Message)
}

func newHardInvariantError(format string, args ...any) *ChunkingError {
	return &ChunkingError{Kind: HardInvariantViolation, Message: fmt.Sprintf(format, args...)}
}

func newContentLossError(format string, args ...any) *ChunkingError {
	return &ChunkingError{Kind: ContentLoss, Message: fmt.Sprintf(format, args...)}
}
