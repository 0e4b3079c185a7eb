package harness

import (
	"encoding/json"

	"github.com/roach88/blogql/internal/model"
)

// StepResult records the response to one step.
type StepResult struct {
	Name string `json:"name"`

	// Data is the response data as returned by the schema; null if absent.
	Data json.RawMessage `json:"data"`

	// Errors holds the response error messages, in order.
	Errors []string `json:"errors,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Steps holds one entry per executed step.
	Steps []StepResult `json:"steps"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the store contents after the last step.
	State model.Dataset `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
