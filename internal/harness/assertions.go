package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/blogql/internal/model"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(state model.Dataset, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		records, err := collectionRecords(state, assertion.Collection)
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
			continue
		}

		switch assertion.Type {
		case AssertFinalState:
			err = assertFinalState(records, assertion)
		case AssertRecordCount:
			err = assertRecordCount(records, assertion)
		case AssertAbsent:
			err = assertAbsent(records, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertFinalState checks that exactly one record matches Where and that it
// contains the expected values (subset semantics).
func assertFinalState(records []map[string]interface{}, assertion Assertion) error {
	matches, err := filterRecords(records, assertion.Where)
	if err != nil {
		return err
	}

	whereDesc := formatWhereClause(assertion.Where)
	switch len(matches) {
	case 0:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record in %s where %s", assertion.Collection, whereDesc),
			Actual:   "record not found",
		}
	case 1:
	default:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one record in %s where %s", assertion.Collection, whereDesc),
			Actual:   fmt.Sprintf("%d records matched (assertion is ambiguous)", len(matches)),
		}
	}

	want, err := normalize(assertion.Expect)
	if err != nil {
		return fmt.Errorf("final_state: expect: %w", err)
	}
	if path, ok := matchSubset(matches[0], want, assertion.Collection); !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s where %s to contain %v", assertion.Collection, whereDesc, assertion.Expect),
			Actual:   fmt.Sprintf("mismatch at %s in %v", path, matches[0]),
		}
	}
	return nil
}

// assertRecordCount checks the number of records matching Where.
func assertRecordCount(records []map[string]interface{}, assertion Assertion) error {
	matches, err := filterRecords(records, assertion.Where)
	if err != nil {
		return err
	}
	if len(matches) != assertion.Count {
		return &AssertionError{
			Type:     AssertRecordCount,
			Expected: fmt.Sprintf("%d records in %s where %s", assertion.Count, assertion.Collection, formatWhereClause(assertion.Where)),
			Actual:   fmt.Sprintf("%d records", len(matches)),
		}
	}
	return nil
}

// assertAbsent checks that no record matches Where.
func assertAbsent(records []map[string]interface{}, assertion Assertion) error {
	matches, err := filterRecords(records, assertion.Where)
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("no records in %s where %s", assertion.Collection, formatWhereClause(assertion.Where)),
			Actual:   fmt.Sprintf("%d records matched, first %v", len(matches), matches[0]),
		}
	}
	return nil
}

// collectionRecords converts one collection to generic maps keyed by JSON
// field name.
func collectionRecords(state model.Dataset, collection string) ([]map[string]interface{}, error) {
	var v interface{}
	switch collection {
	case CollectionUsers:
		v = state.Users
	case CollectionPosts:
		v = state.Posts
	case CollectionComments:
		v = state.Comments
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	records := []map[string]interface{}{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// filterRecords returns the records whose fields equal every Where value.
func filterRecords(records []map[string]interface{}, where map[string]interface{}) ([]map[string]interface{}, error) {
	if len(where) == 0 {
		return records, nil
	}
	w, err := normalize(where)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	conds := w.(map[string]interface{})

	var out []map[string]interface{}
	for _, rec := range records {
		if matchArgs(rec, conds) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// formatWhereClause creates a human-readable description of Where conditions.
func formatWhereClause(where map[string]interface{}) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// matchArgs checks if actual contains all expected keys with equal values.
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]interface{}) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// matchSubset reports whether actual contains expected. Maps match if every
// expected key matches; lists must have equal length and match element-wise;
// anything else must be equal. On mismatch it returns the path of the first
// differing value.
func matchSubset(actual, expected interface{}, path string) (string, bool) {
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return path, false
		}
		keys := make([]string, 0, len(exp))
		for k := range exp {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			av, exists := act[k]
			if !exists {
				return path + "." + k, false
			}
			if p, ok := matchSubset(av, exp[k], path+"."+k); !ok {
				return p, false
			}
		}
		return "", true
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok || len(act) != len(exp) {
			return path, false
		}
		for i := range exp {
			if p, ok := matchSubset(act[i], exp[i], fmt.Sprintf("%s[%d]", path, i)); !ok {
				return p, false
			}
		}
		return "", true
	default:
		if !reflect.DeepEqual(actual, expected) {
			return path, false
		}
		return "", true
	}
}
