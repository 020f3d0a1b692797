package tutor

// StepAwaitingStart is the sentinel step value for a learner who has
// started a course but not yet confirmed they are ready: the turn loop
// waits for an affirmative answer before section 0, step 0 begins.
const StepAwaitingStart = -1

// Position is the learner's cursor into a course. Once Completed is set
// the position is absorbing: no further turn mutates it.
type Position struct {
	Section   int
	Step      int
	Completed bool
}

// NotStarted returns the position a fresh course enrollment begins at.
func NotStarted() Position {
	return Position{Section: 0, Step: StepAwaitingStart}
}

// AwaitingStart reports whether the learner still has to confirm readiness.
func (p Position) AwaitingStart() bool {
	return !p.Completed && p.Step == StepAwaitingStart
}

// Before reports whether p precedes q in lexicographic (section, step)
// order. Completed counts as after every in-course position.
func (p Position) Before(q Position) bool {
	if p.Completed {
		return false
	}
	if q.Completed {
		return true
	}
	if p.Section != q.Section {
		return p.Section < q.Section
	}
	return p.Step < q.Step
}
