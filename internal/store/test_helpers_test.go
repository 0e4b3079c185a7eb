package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/blogql/internal/model"
	"github.com/roach88/blogql/internal/seed"
	"github.com/roach88/blogql/internal/testutil"
)

// createTestStore creates an empty store with sequential ids ("new-1", "new-2", ...).
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(WithIDGenerator(testutil.NewSequentialIDGenerator("new")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store loaded with the demo dataset.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Load(context.Background(), seed.Default()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return s
}

// snapshot reads all three collections.
func snapshot(t *testing.T, s *Store) model.Dataset {
	t.Helper()
	ctx := context.Background()

	users, err := s.ListUsers(ctx, nil)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	posts, err := s.ListPosts(ctx, nil)
	if err != nil {
		t.Fatalf("ListPosts() failed: %v", err)
	}
	comments, err := s.ListComments(ctx)
	if err != nil {
		t.Fatalf("ListComments() failed: %v", err)
	}
	return model.Dataset{Users: users, Posts: posts, Comments: comments}
}

// requireUnchanged fails the test if s no longer holds want.
func requireUnchanged(t *testing.T, s *Store, want model.Dataset) {
	t.Helper()
	if diff := cmp.Diff(want, snapshot(t, s)); diff != "" {
		t.Fatalf("store changed (-want +got):\n%s", diff)
	}
}

func userIDs(users []model.User) []string {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func postIDs(posts []model.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func commentIDs(comments []model.Comment) []string {
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}

func strPtr(s string) *string {
	return &s
}

// verifyPragma checks that a pragma is set to the expected value.
func verifyPragma(s *Store, name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
