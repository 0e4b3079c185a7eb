package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/model"
)

// CreateUser appends a new user with a freshly generated id.
// Returns ErrDuplicateEmail if any user already has exactly in.Email.
func (s *Store) CreateUser(ctx context.Context, in model.CreateUserInput) (model.User, error) {
	u := model.User{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}

	err := s.inTx(ctx, "create user", func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, in.Email)
		if err != nil {
			return fmt.Errorf("create user: check email: %w", err)
		}
		if taken {
			return duplicateEmail(in.Email)
		}

		u.ID = s.ids.Generate()
		if err := insertUser(ctx, tx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Debug("user created", zap.String("id", u.ID))
	return u, nil
}

// DeleteUser removes the user with the given id and everything hanging off it:
// the posts it authored, the comments on those posts, and every remaining
// comment it wrote on other users' posts. Returns the removed user.
func (s *Store) DeleteUser(ctx context.Context, id string) (model.User, error) {
	var (
		deleted  model.User
		posts    int64
		comments int64
	)

	err := s.inTx(ctx, "delete user", func(tx *sql.Tx) error {
		u, err := userByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if u == nil {
			return notFound(EntityUser, id)
		}
		deleted = *u

		// Comments on the user's posts go first, while the posts still name their author.
		n, err := execCount(ctx, tx, `
			DELETE FROM comments
			WHERE post IN (SELECT id FROM posts WHERE author = ?)
		`, id)
		if err != nil {
			return fmt.Errorf("delete user: cascade post comments: %w", err)
		}
		comments += n

		if posts, err = execCount(ctx, tx, `DELETE FROM posts WHERE author = ?`, id); err != nil {
			return fmt.Errorf("delete user: cascade posts: %w", err)
		}

		n, err = execCount(ctx, tx, `DELETE FROM comments WHERE author = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: cascade comments: %w", err)
		}
		comments += n

		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Debug("user deleted",
		zap.String("id", id),
		zap.Int64("posts", posts),
		zap.Int64("comments", comments),
	)
	return deleted, nil
}

// CreatePost appends a new post with a freshly generated id.
// Returns ErrNotFound if in.Author matches no user. Duplicate titles are allowed.
func (s *Store) CreatePost(ctx context.Context, in model.CreatePostInput) (model.Post, error) {
	p := model.Post{
		Title:     in.Title,
		Body:      in.Body,
		Published: in.Published,
		Author:    in.Author,
	}

	err := s.inTx(ctx, "create post", func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, in.Author)
		if err != nil {
			return fmt.Errorf("create post: check author: %w", err)
		}
		if !found {
			return notFound(EntityUser, in.Author)
		}

		p.ID = s.ids.Generate()
		if err := insertPost(ctx, tx, p); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}

	s.logger.Debug("post created", zap.String("id", p.ID), zap.String("author", p.Author))
	return p, nil
}

// DeletePost removes the post with the given id and all comments on it.
// Returns the removed post.
func (s *Store) DeletePost(ctx context.Context, id string) (model.Post, error) {
	var (
		deleted  model.Post
		comments int64
	)

	err := s.inTx(ctx, "delete post", func(tx *sql.Tx) error {
		p, err := postByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if p == nil {
			return notFound(EntityPost, id)
		}
		deleted = *p

		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if comments, err = execCount(ctx, tx, `DELETE FROM comments WHERE post = ?`, id); err != nil {
			return fmt.Errorf("delete post: cascade comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}

	s.logger.Debug("post deleted", zap.String("id", id), zap.Int64("comments", comments))
	return deleted, nil
}

// CreateComment appends a new comment with a freshly generated id.
//
// Returns ErrNotFound with Entity EntityUserOrPost if the author does not
// exist, or the post does not exist or is unpublished. The two cases are
// deliberately not distinguished.
func (s *Store) CreateComment(ctx context.Context, in model.CreateCommentInput) (model.Comment, error) {
	c := model.Comment{
		Text:   in.Text,
		Author: in.Author,
		Post:   in.Post,
	}

	err := s.inTx(ctx, "create comment", func(tx *sql.Tx) error {
		userFound, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, in.Author)
		if err != nil {
			return fmt.Errorf("create comment: check author: %w", err)
		}
		postFound, err := exists(ctx, tx,
			`SELECT EXISTS(SELECT 1 FROM posts WHERE id = ? AND published = 1)`, in.Post)
		if err != nil {
			return fmt.Errorf("create comment: check post: %w", err)
		}
		if !userFound || !postFound {
			return notFound(EntityUserOrPost, "")
		}

		c.ID = s.ids.Generate()
		if err := insertComment(ctx, tx, c); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	s.logger.Debug("comment created", zap.String("id", c.ID), zap.String("post", c.Post))
	return c, nil
}

// DeleteComment removes exactly the comment with the given id and returns it.
func (s *Store) DeleteComment(ctx context.Context, id string) (model.Comment, error) {
	var deleted model.Comment

	err := s.inTx(ctx, "delete comment", func(tx *sql.Tx) error {
		c, err := commentByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if c == nil {
			return notFound(EntityComment, id)
		}
		deleted = *c

		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	s.logger.Debug("comment deleted", zap.String("id", id))
	return deleted, nil
}

func insertUser(ctx context.Context, q querier, u model.User) error {
	var age sql.NullInt64
	if u.Age != nil {
		age = sql.NullInt64{Int64: int64(*u.Age), Valid: true}
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, age) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, age,
	)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.ID, err)
	}
	return nil
}

func insertPost(ctx context.Context, q querier, p model.Post) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO posts (id, title, body, published, author) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Body, p.Published, p.Author,
	)
	if err != nil {
		return fmt.Errorf("insert post %q: %w", p.ID, err)
	}
	return nil
}

func insertComment(ctx context.Context, q querier, c model.Comment) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO comments (id, text, author, post) VALUES (?, ?, ?, ?)`,
		c.ID, c.Text, c.Author, c.Post,
	)
	if err != nil {
		return fmt.Errorf("insert comment %q: %w", c.ID, err)
	}
	return nil
}

// execCount runs a statement and returns the number of affected rows.
func execCount(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
