package harness

import (
	"context"
	"encoding/json"
	"fmt"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/graph"
	"github.com/roach88/blogql/internal/model"
	"github.com/roach88/blogql/internal/seed"
	"github.com/roach88/blogql/internal/store"
	"github.com/roach88/blogql/internal/testutil"
)

// idPrefix names generated ids "id-1", "id-2", ...
const idPrefix = "id"

// Harness executes scenario steps against one store.
type Harness struct {
	store  *store.Store
	schema *graphql.Schema
	logger *zap.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger passed to the store and schema.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory store loaded with the scenario
// seed, or the demo dataset if none is given. An error is returned only if
// the scenario could not be executed; failed expectations are reported in
// the result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}

	dataset, err := loadDataset(scenario.Seed)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(
		store.WithIDGenerator(testutil.NewSequentialIDGenerator(idPrefix)),
		store.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.Load(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	schema, err := graph.NewSchema(st, graph.WithLogger(h.logger))
	if err != nil {
		return nil, err
	}
	h.store = st
	h.schema = schema

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, err
		}
	}

	state, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result.State = state

	for _, msg := range EvaluateAssertions(result.State, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func loadDataset(path string) (*model.Dataset, error) {
	if path == "" {
		return seed.Default(), nil
	}
	ds, err := seed.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed %s: %w", path, err)
	}
	return ds, nil
}

// executeStep runs one step and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	label := stepLabel(index, step)

	vars, err := normalizeMap(step.Variables)
	if err != nil {
		return fmt.Errorf("%s: variables: %w", label, err)
	}

	resp := h.schema.Exec(ctx, step.Query, "", vars)

	sr := StepResult{
		Name: step.Name,
		Data: resp.Data,
	}
	if len(sr.Data) == 0 {
		sr.Data = json.RawMessage("null")
	}
	for _, qe := range resp.Errors {
		sr.Errors = append(sr.Errors, qe.Message)
	}
	result.Steps = append(result.Steps, sr)

	h.logger.Debug("step executed",
		zap.Int("step", index),
		zap.String("name", step.Name),
		zap.Int("errors", len(sr.Errors)),
	)

	var expect Expect
	if step.Expect != nil {
		expect = *step.Expect
	}

	if !equalMessages(expect.Errors, sr.Errors) {
		result.AddError(fmt.Sprintf("%s: expected errors %q, got %q", label, expect.Errors, sr.Errors))
	}

	if expect.Data != nil {
		want, err := normalize(expect.Data)
		if err != nil {
			return fmt.Errorf("%s: expected data: %w", label, err)
		}
		var got interface{}
		if err := json.Unmarshal(sr.Data, &got); err != nil {
			return fmt.Errorf("%s: decode response data: %w", label, err)
		}
		if path, ok := matchSubset(got, want, "data"); !ok {
			result.AddError(fmt.Sprintf("%s: response mismatch at %s: got %s", label, path, sr.Data))
		}
	}

	return nil
}

func (h *Harness) snapshot(ctx context.Context) (model.Dataset, error) {
	users, err := h.store.ListUsers(ctx, nil)
	if err != nil {
		return model.Dataset{}, err
	}
	posts, err := h.store.ListPosts(ctx, nil)
	if err != nil {
		return model.Dataset{}, err
	}
	comments, err := h.store.ListComments(ctx)
	if err != nil {
		return model.Dataset{}, err
	}
	return model.Dataset{Users: users, Posts: posts, Comments: comments}, nil
}

func stepLabel(index int, step Step) string {
	if step.Name == "" {
		return fmt.Sprintf("steps[%d]", index)
	}
	return fmt.Sprintf("steps[%d] (%s)", index, step.Name)
}

func equalMessages(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// normalizeMap converts YAML-decoded values into the shapes encoding/json
// produces, so they compare equal to decoded responses.
func normalizeMap(m map[string]interface{}) (map[string]interface{}, error) {
	if m == nil {
		return nil, nil
	}
	v, err := normalize(m)
	if err != nil {
		return nil, err
	}
	return v.(map[string]interface{}), nil
}

func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
