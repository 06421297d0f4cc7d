package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrReentrantMutation indicates that a session mutator was invoked from
// within an observer notification.
var ErrReentrantMutation = errors.New("session mutation during notification")

// ErrStaleLoad indicates that a project load completed after a newer project
// selection superseded it; its result was discarded.
var ErrStaleLoad = errors.New("stale project load discarded")
