// Package graph exposes the blogql store as a GraphQL schema.
//
// The schema (schema.graphql) maps each root field onto one store operation and
// resolves the relational fields User.posts, User.comments, Post.author,
// Post.comments, Comment.author and Comment.post on demand, once per parent
// record. Nothing is cached between fields.
//
// Store failures surface as GraphQL errors carrying an extensions.code:
//
//	DUPLICATE_EMAIL  createUser with an email already in use
//	NOT_FOUND        unknown id, or a create whose references are not satisfied
//	INTERNAL         anything else; the cause is logged, not returned
//
// The me and post query fields return fixed placeholder records.
package graph
