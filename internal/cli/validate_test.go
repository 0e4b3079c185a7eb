package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blogql/internal/seed"
)

const invalidSeed = `users:
  - id: u1
    name: Ada
    email: ada@example.com
  - id: u1
    name: Bob
    email: ada@example.com
posts:
  - id: p1
    title: Orphan
    body: ""
    published: true
    author: nobody
comments: []
`

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateValidSeed(t *testing.T) {
	output, err := executeValidate(t, "text", filepath.Join("..", "..", "testdata", "seeds", "solo.yaml"))
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Seed valid: 1 user(s), 0 post(s), 0 comment(s)")
}

func TestValidateValidCUESeed(t *testing.T) {
	output, err := executeValidate(t, "text", filepath.Join("..", "..", "testdata", "seeds", "solo.cue"))
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Seed valid")
}

func TestValidateValidSeedJSON(t *testing.T) {
	output, err := executeValidate(t, "json", filepath.Join("..", "..", "testdata", "seeds", "solo.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Users)
}

func TestValidateInvalidSeedReportsAllProblems(t *testing.T) {
	path := writeSeed(t, "bad.yaml", invalidSeed)

	output, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))

	assert.Contains(t, output, "✗ "+path)
	assert.Contains(t, output, `users[1]: duplicate id "u1"`)
	assert.Contains(t, output, `users[1]: email "ada@example.com" already used by user "u1"`)
	assert.Contains(t, output, `posts[0]: author "nobody" is not a user`)
	assert.Contains(t, output, "seed has 3 problem(s)")
}

func TestValidateInvalidSeedJSON(t *testing.T) {
	path := writeSeed(t, "bad.yaml", invalidSeed)

	output, err := executeValidate(t, "json", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  Failure          `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ValidationResult{Path: path}, resp.Data)
	assert.Equal(t, ErrCodeInvalidSeed, resp.Error.Code)
	assert.Equal(t, "seed has 3 problem(s)", resp.Error.Message)
	assert.Equal(t, []seed.Problem{
		{Collection: "users", Index: 1, Message: `duplicate id "u1"`},
		{Collection: "users", Index: 1, Message: `email "ada@example.com" already used by user "u1"`},
		{Collection: "posts", Index: 0, Message: `author "nobody" is not a user`},
	}, resp.Error.Problems)
}

func TestValidateUnparseableSeed(t *testing.T) {
	path := writeSeed(t, "bad.yaml", "users: [\n")

	output, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, output, "failed to parse YAML")
}

func TestValidateUnknownField(t *testing.T) {
	path := writeSeed(t, "bad.yaml", "users: []\ntags: []\n")

	output, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Contains(t, output, "tags")
}

func TestValidateUnsupportedExtension(t *testing.T) {
	path := writeSeed(t, "seed.json", "{}")

	output, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Contains(t, output, "unsupported seed file extension")
}

func TestValidateMissingFile(t *testing.T) {
	output, err := executeValidate(t, "text", "/nonexistent/seed.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
	assert.Equal(t, "Error [E_SEED_NOT_FOUND]: seed file not found: /nonexistent/seed.yaml\n", output)
}

func TestValidateMissingArgs(t *testing.T) {
	_, err := executeValidate(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
