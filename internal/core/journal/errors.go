package journal

import (
	"errors"
	"fmt"

	"github.com/spinzar/bigcapital/internal/apperrors"
)

var (
	// ErrPosterFlushed is returned when a poster is used again after a flush
	// call, or when the same flush call is issued twice.
	ErrPosterFlushed = errors.New("journal poster already flushed")

	// ErrUnbalancedEntries is returned by SaveEntries when the pending entries
	// do not have equal debit and credit totals.
	ErrUnbalancedEntries = fmt.Errorf("%w: journal entries are not balanced", apperrors.ErrValidation)

	// ErrNegativeAmount is returned when an entry carries a negative credit or debit.
	ErrNegativeAmount = fmt.Errorf("%w: journal entry amounts must not be negative", apperrors.ErrValidation)

	// ErrUnknownAccount is returned when a leg references an account whose
	// normal side cannot be resolved.
	ErrUnknownAccount = fmt.Errorf("%w: journal entry account", apperrors.ErrNotFound)
)
