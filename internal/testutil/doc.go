// Package testutil provides deterministic helpers shared by blogql tests and
// the scenario harness.
package testutil
