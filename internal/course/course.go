package course

import "fmt"

// NextAction directs what happens after a step is passed.
type NextAction string

const (
	// ActionContinue advances to the next step within the section.
	ActionContinue NextAction = "CONTINUE"
	// ActionNext advances to the first step of the next section.
	ActionNext NextAction = "NEXT"
	// ActionReview repeats the current step.
	ActionReview NextAction = "REVIEW"
	// ActionFinish marks the course complete.
	ActionFinish NextAction = "FINISH"
)

// Course is an immutable tree of ordered sections.
type Course struct {
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

// Section groups ordered steps under a title. Content is the intro text
// shown when the learner enters the section.
type Section struct {
	Title     string   `yaml:"title" json:"title"`
	Content   string   `yaml:"content" json:"content"`
	Order     int      `yaml:"order" json:"order"`
	Steps     []Step   `yaml:"steps" json:"steps"`
	Resources []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Step is the smallest unit of course content. A step with no expected
// responses is ungraded open chat.
type Step struct {
	Index             int        `yaml:"step" json:"step"`
	Content           string     `yaml:"content" json:"content"`
	ExpectedResponses []string   `yaml:"expected_responses,omitempty" json:"expected_responses,omitempty"`
	NextAction        NextAction `yaml:"next_action" json:"next_action"`
}

// Graded reports whether the step has expected responses to check against.
func (s Step) Graded() bool {
	return len(s.ExpectedResponses) > 0
}

// Summary is the catalog listing entry for a course.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// validate checks the structural invariants the loader guarantees:
// non-empty sections and steps, section order matching position, and
// step indexes forming 0..M-1. A misplaced FINISH step is deliberately
// not rejected here; the progression engine treats FINISH as course
// completion wherever it fires.
func (c *Course) validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("course %q has no sections", c.Title)
	}
	for i, sec := range c.Sections {
		if sec.Order != i+1 {
			return fmt.Errorf("section %d has order %d, want %d", i, sec.Order, i+1)
		}
		if len(sec.Steps) == 0 {
			return fmt.Errorf("section %q has no steps", sec.Title)
		}
		for j, st := range sec.Steps {
			if st.Index != j {
				return fmt.Errorf("section %q step %d has index %d", sec.Title, j, st.Index)
			}
		}
	}
	return nil
}
