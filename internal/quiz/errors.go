package quiz

import "errors"

var (
	// ErrInsufficientWords is returned when the unlocked pool cannot fill
	// a session. Recoverable: the caller shows an empty or locked state.
	ErrInsufficientWords = errors.New("not enough unlocked words to start a session")

	// ErrNoSelection is returned when advancing before an option was
	// selected for the current question. This is a caller protocol
	// violation, not a learner-facing condition.
	ErrNoSelection = errors.New("no option selected for the current question")

	// ErrSessionNotActive is returned when answering or advancing a
	// session that is not in the active state.
	ErrSessionNotActive = errors.New("session is not active")
)
