package harness

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Steps: []Step{
			{Name: "list", Query: `{ users { id } }`},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, "list", result.Steps[0].Name)
	assert.JSONEq(t, `{"users": [{"id": "1"}, {"id": "2"}]}`, string(result.Steps[0].Data))
	assert.Empty(t, result.Steps[0].Errors)

	// Demo dataset is untouched.
	assert.Len(t, result.State.Users, 2)
	assert.Len(t, result.State.Posts, 3)
	assert.Len(t, result.State.Comments, 4)
}

func TestRun_SequentialIDs(t *testing.T) {
	scenario := &Scenario{
		Name:        "ids",
		Description: "Generated ids are sequential",
		Steps: []Step{
			{Query: `mutation { createUser(data: {name: "a", email: "a@x", age: 1}) { id } }`},
			{Query: `mutation { createPost(data: {title: "t", body: "b", published: true, author: "id-1"}) { id } }`},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.JSONEq(t, `{"createUser": {"id": "id-1"}}`, string(result.Steps[0].Data))
	assert.JSONEq(t, `{"createPost": {"id": "id-2"}}`, string(result.Steps[1].Data))
}

func TestRun_Variables(t *testing.T) {
	scenario := &Scenario{
		Name:        "vars",
		Description: "YAML variables reach the schema",
		Steps: []Step{
			{
				Query: `mutation($d: CreateUserInput!) { createUser(data: $d) { name age } }`,
				Variables: map[string]interface{}{
					"d": map[string]interface{}{"name": "sam", "email": "sam@x", "age": 41},
				},
				Expect: &Expect{Data: map[string]interface{}{
					"createUser": map[string]interface{}{"name": "sam", "age": 41},
				}},
			},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "A step without expect must succeed",
		Steps: []Step{
			{Name: "bad delete", Query: `mutation { deleteUser(id: "404") { id } }`},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[0] (bad delete)")
	assert.Contains(t, result.Errors[0], `got ["User not found"]`)
	assert.Equal(t, json.RawMessage("null"), result.Steps[0].Data)
}

func TestRun_MissingExpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing_error",
		Description: "Expected errors must occur",
		Steps: []Step{
			{Query: `{ me { id } }`, Expect: &Expect{Errors: []string{"User not found"}}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], `expected errors ["User not found"], got []`)
}

func TestRun_DataMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "Data expectations are checked",
		Steps: []Step{
			{
				Query: `{ users { name } }`,
				Expect: &Expect{Data: map[string]interface{}{
					"users": []interface{}{
						map[string]interface{}{"name": "johnDoe"},
						map[string]interface{}{"name": "someoneElse"},
					},
				}},
			},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "response mismatch at data.users[1].name")
}

func TestRun_ValidationErrorHasNullData(t *testing.T) {
	scenario := &Scenario{
		Name:        "invalid",
		Description: "Invalid documents are reported as step errors",
		Steps: []Step{
			{Query: `{ zzzzzz }`, Expect: &Expect{Errors: []string{`Cannot query field "zzzzzz" on type "Query".`}}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, json.RawMessage("null"), result.Steps[0].Data)
}

func TestRun_AssertionsFail(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertions",
		Description: "Assertions are evaluated after the steps",
		Steps:       []Step{{Query: `mutation { deleteComment(id: "1") { id } }`}},
		Assertions: []Assertion{
			{Type: AssertRecordCount, Collection: CollectionComments, Count: 4},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: record_count")
	assert.Len(t, result.State.Comments, 3)
}

func TestRun_SeedFile(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(`
users:
  - { id: "x", name: Solo, email: solo@example.com }
`), 0644))

	scenario := &Scenario{
		Name:        "seeded",
		Description: "Custom seed replaces the demo dataset",
		Seed:        seedPath,
		Steps:       []Step{{Query: `{ users { id age } posts { id } }`}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.JSONEq(t, `{"users": [{"id": "x", "age": null}], "posts": []}`, string(result.Steps[0].Data))
}

func TestRun_CUESeedFile(t *testing.T) {
	scenario := &Scenario{
		Name:        "cue_seeded",
		Description: "CUE seeds load like YAML seeds",
		Seed:        filepath.Join("..", "..", "testdata", "seeds", "solo.cue"),
		Steps:       []Step{{Query: `{ users { name age } comments { id } }`}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.JSONEq(t, `{"users": [{"name": "Ada", "age": 36}], "comments": []}`, string(result.Steps[0].Data))
}

func TestRun_BadSeed(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_seed",
		Description: "Unreadable seeds abort the run",
		Seed:        filepath.Join(t.TempDir(), "missing.yaml"),
		Steps:       []Step{{Query: `{ me { id } }`}},
	}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load seed")
}

func TestRun_Logger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	scenario := &Scenario{
		Name:        "logged",
		Description: "Steps are logged",
		Steps:       []Step{{Name: "me", Query: `{ me { id } }`}},
	}

	_, err := Run(context.Background(), scenario, WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("step executed").Len())
}

func TestRun_Isolation(t *testing.T) {
	scenario := &Scenario{
		Name:        "isolation",
		Description: "Each run starts from the seed",
		Steps:       []Step{{Query: `mutation { deleteUser(id: "2") { id } }`}},
	}

	for i := 0; i < 2; i++ {
		result, err := Run(context.Background(), scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d: %v", i, result.Errors)
	}
}
