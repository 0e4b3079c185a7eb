// Package store provides the relational record store behind the blogql API.
//
// The store holds three ordered collections (users, posts and comments) in a
// private in-memory SQLite database. Iteration order is insertion order,
// tracked by a seq column on every table.
//
// # Referential Rules
//
// References between records are raw ids. They are checked only when a record
// is created:
//   - CreatePost requires an existing author
//   - CreateComment requires an existing author and an existing published post
//
// Deletes cascade along fixed paths rather than through foreign keys:
//   - DeleteUser removes the user's posts, the comments on those posts, and
//     every other comment the user wrote
//   - DeletePost removes the comments on the post
//   - DeleteComment removes exactly one comment
//
// A reference may dangle afterwards (for example when a post is unpublished
// after being commented on, or a record is loaded with a missing author).
// Field resolution returns nil for a dangling reference instead of failing.
//
// # Concurrency
//
// The connection pool holds a single connection and every mutation runs in one
// transaction, so operations are serialized and a failed mutation leaves no
// partial state.
package store
