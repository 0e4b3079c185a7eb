package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of GraphQL operations with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is an optional dataset file (.yaml, .yml or .cue).
	// LoadScenario resolves it relative to the scenario file.
	// If empty, the embedded demo dataset is used.
	Seed string `yaml:"seed,omitempty"`

	// Steps run in order against the same store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final store contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one GraphQL request.
type Step struct {
	Name      string                 `yaml:"name"`
	Query     string                 `yaml:"query"`
	Variables map[string]interface{} `yaml:"variables,omitempty"`

	// Expect specifies the expected response.
	// If nil, the step must complete without errors.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies expected response contents.
type Expect struct {
	// Errors lists the expected error messages, in order.
	Errors []string `yaml:"errors,omitempty"`

	// Data is matched as a subset of the response data.
	Data map[string]interface{} `yaml:"data,omitempty"`
}

// Assertion validates the final store contents.
type Assertion struct {
	// Type is one of AssertFinalState, AssertRecordCount, AssertAbsent.
	Type string `yaml:"type"`

	// Collection is users, posts or comments.
	Collection string `yaml:"collection"`

	// Where selects records by exact field values.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (used by final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Count is the expected number of records (used by record_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState  = "final_state"
	AssertRecordCount = "record_count"
	AssertAbsent      = "absent"
)

// Collection names.
const (
	CollectionUsers    = "users"
	CollectionPosts    = "posts"
	CollectionComments = "comments"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Seed != "" && !filepath.IsAbs(scenario.Seed) {
		scenario.Seed = filepath.Join(filepath.Dir(path), scenario.Seed)
	}
	if scenario.Seed != "" {
		if _, err := os.Stat(scenario.Seed); err != nil {
			return nil, fmt.Errorf("invalid scenario: seed file not found: %s", scenario.Seed)
		}
	}

	return scenario, nil
}

// ParseScenario parses and validates scenario YAML. Seed paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
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

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// If filter is non-empty, only files whose base name (without extension)
// matches the glob pattern are returned.
func FindScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if strings.TrimSpace(step.Query) == "" {
			return fmt.Errorf("steps[%d]: query is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Collection {
	case CollectionUsers, CollectionPosts, CollectionComments:
	case "":
		return fmt.Errorf("assertions[%d]: collection is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown collection %q", index, a.Collection)
	}

	switch a.Type {
	case AssertFinalState:
		if len(a.Where) == 0 {
			return fmt.Errorf("assertions[%d]: where is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertRecordCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for record_count", index)
		}
	case AssertAbsent:
		if len(a.Where) == 0 {
			return fmt.Errorf("assertions[%d]: where is required for absent", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
