package round

import "errors"

// ErrUnauthorized indicates a guarded operation was attempted by a caller
// other than the authority.
var ErrUnauthorized = errors.New("caller is not the authority")

// ErrAlreadyCommitted indicates commit was attempted after a commitment
// already exists for this round.
var ErrAlreadyCommitted = errors.New("round already committed")

// ErrNotCommitted indicates reveal was attempted before any commitment.
var ErrNotCommitted = errors.New("round not committed")

// ErrAlreadyRevealed indicates reveal was attempted twice.
var ErrAlreadyRevealed = errors.New("round already revealed")

// ErrSeedMismatch indicates the disclosed secret does not hash to the
// committed digest. This is the integrity-critical failure: accepting such a
// secret would let the authority pick the permutation after the fact.
var ErrSeedMismatch = errors.New("secret does not match committed digest")

// ErrNotRevealed indicates draw was attempted before a valid reveal.
var ErrNotRevealed = errors.New("round not revealed")

// ErrDeckExhausted indicates draw was attempted with no cards left.
var ErrDeckExhausted = errors.New("deck exhausted")

// ErrRoundInProgress indicates reset was attempted while a committed round
// still has undrawn cards.
var ErrRoundInProgress = errors.New("round in progress")

// ErrBadDigestSize indicates a commitment digest of the wrong width.
var ErrBadDigestSize = errors.New("digest must be 32 bytes")
