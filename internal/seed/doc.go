// Package seed loads and validates the datasets a store starts from.
//
// # File Formats
//
// YAML (.yaml, .yml) files are decoded strictly: unknown fields are rejected.
//
//	users:
//	  - { id: "1", name: johnDoe, email: johndoe@example.com, age: 100 }
//	posts:
//	  - { id: "1", title: Hello, body: World, published: true, author: "1" }
//	comments:
//	  - { id: "1", text: first comment, author: "1", post: "1" }
//
// CUE (.cue) files are unified with the #Dataset definition embedded in this
// package, which closes every record and supplies defaults (an empty body, an
// unpublished post). The unified value must be concrete.
//
// # Validation
//
// Validate checks that ids are unique per collection, emails are unique, and
// every author and post reference points at a record in the same dataset.
// Comments may target unpublished posts: the published rule applies to
// CreateComment, not to seeded data.
package seed
