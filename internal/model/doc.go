// Package model defines the records held by the blogql store.
//
// Relationships between records are plain id copies: a Post carries the id of
// its author and a Comment carries the ids of its author and post. Nothing in
// this package keeps those ids consistent; see package store for the rules
// applied on create and delete.
package model
