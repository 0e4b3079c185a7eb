// Package harness runs scripted GraphQL scenarios against a fresh blogql store.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: delete_user_cascade
//	description: "Deleting a user removes their posts and comments"
//	seed: ../seeds/small.yaml        # optional, relative to the scenario file
//	steps:
//	  - name: delete john
//	    query: 'mutation { deleteUser(id: "1") { id } }'
//	    variables: {}
//	    expect:
//	      errors: []                  # expected error messages, in order
//	      data: { deleteUser: { id: "1" } }
//	assertions:
//	  - type: final_state
//	    collection: users
//	    where: { id: "2" }
//	    expect: { name: janeDoe }
//	  - type: record_count
//	    collection: comments
//	    count: 1
//	  - type: absent
//	    collection: posts
//	    where: { author: "1" }
//
// An omitted expect.errors means the step must succeed. expect.data is a
// subset match: maps may carry extra keys, lists must have the same length.
//
// # Assertion Types
//
//   - final_state: exactly one record matches where, and it contains expect
//   - record_count: the collection (filtered by where, if given) holds count records
//   - absent: no record matches where
//
// # Deterministic Testing
//
// Every run opens a new in-memory store whose generated ids are "id-1",
// "id-2", ... in creation order, so the same scenario always produces the
// same responses and final state. RunWithGolden compares that output with
// testdata/golden/<name>.golden.
package harness
