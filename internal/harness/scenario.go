package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted quiz session.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description"`

	// Lecture is the lecture the session works on, seeded into a fresh
	// replica before the flow starts.
	Lecture LectureDef `yaml:"lecture"`

	// Flow is the scripted sequence of ask/answer steps.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final queue state.
	Assertions []Assertion `yaml:"assertions"`
}

// LectureDef describes the seeded lecture.
type LectureDef struct {
	URI      string         `yaml:"uri"`
	Title    string         `yaml:"title,omitempty"`
	Settings map[string]any `yaml:"settings,omitempty"`

	Questions []QuestionDef `yaml:"questions"`
}

// QuestionDef describes one seeded question: its usage tallies plus the
// values accepted as a correct "answer" field.
type QuestionDef struct {
	URI     string   `yaml:"uri"`
	Chosen  int      `yaml:"chosen"`
	Correct int      `yaml:"correct"`
	Answer  []string `yaml:"answer"`
}

// FlowStep asks one named question and answers it.
type FlowStep struct {
	// Question is the URI to ask. Naming it keeps the step free of RNG
	// draws, so the trace is reproducible.
	Question string `yaml:"question"`

	// Practice asks the question in practice mode.
	Practice bool `yaml:"practice,omitempty"`

	// Answer is submitted as the "answer" form field.
	Answer string `yaml:"answer"`

	// Expect validates the closed record; nil skips validation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	Correct *bool    `yaml:"correct,omitempty"`
	Grade   *float64 `yaml:"grade,omitempty"`
}

// Assertion validates the final state of the answer queue.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected grade (used by "grade").
	Value float64 `yaml:"value,omitempty"`

	// Count is the expected total (used by the counter assertions).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertGrade    = "grade"    // final grade equals Value
	AssertAnswered = "answered" // total answered equals Count
	AssertCorrect  = "correct"  // total correct equals Count
	AssertPractice = "practice" // practice answered equals Count
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected, so a typo in a scenario fails loudly instead of being
// silently ignored.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Lecture.URI == "" {
		return fmt.Errorf("lecture.uri is required")
	}
	if len(s.Lecture.Questions) == 0 {
		return fmt.Errorf("lecture.questions is required and must be non-empty")
	}

	known := make(map[string]bool, len(s.Lecture.Questions))
	for i, q := range s.Lecture.Questions {
		if q.URI == "" {
			return fmt.Errorf("lecture.questions[%d]: uri is required", i)
		}
		known[q.URI] = true
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	for i, step := range s.Flow {
		if step.Question == "" {
			return fmt.Errorf("flow[%d]: question is required", i)
		}
		if !known[step.Question] {
			return fmt.Errorf("flow[%d]: question %q not in lecture.questions", i, step.Question)
		}
		if step.Answer == "" {
			return fmt.Errorf("flow[%d]: answer is required", i)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertGrade, AssertAnswered, AssertCorrect, AssertPractice:
		case "":
			return fmt.Errorf("assertions[%d]: type is required", i)
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
