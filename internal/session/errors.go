package session

import "errors"

// ErrNoActiveCourse is returned when a turn arrives for a user who never
// started a course. No state is mutated.
var ErrNoActiveCourse = errors.New("no active course")
