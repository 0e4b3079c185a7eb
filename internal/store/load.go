package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/model"
)

// Load replaces every record in the store with ds, keeping the ids and the
// order given in ds. The replacement is atomic: on error the previous records
// remain.
//
// Load does not check references; validate datasets with package seed first.
func (s *Store) Load(ctx context.Context, ds *model.Dataset) error {
	err := s.inTx(ctx, "load dataset", func(tx *sql.Tx) error {
		for _, table := range []string{"comments", "posts", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("load dataset: clear %s: %w", table, err)
			}
		}

		for _, u := range ds.Users {
			if err := insertUser(ctx, tx, u); err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
		}
		for _, p := range ds.Posts {
			if err := insertPost(ctx, tx, p); err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
		}
		for _, c := range ds.Comments {
			if err := insertComment(ctx, tx, c); err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("dataset loaded",
		zap.Int("users", len(ds.Users)),
		zap.Int("posts", len(ds.Posts)),
		zap.Int("comments", len(ds.Comments)),
	)
	return nil
}
