package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/blogql/internal/model"
)

const (
	userColumns    = "id, name, email, age"
	postColumns    = "id, title, body, published, author"
	commentColumns = "id, text, author, post"
)

// ListUsers returns all users in store order.
// If query is non-empty, only users whose name contains it (ignoring case) are returned.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListUsers(ctx context.Context, query *string) ([]model.User, error) {
	users, err := queryUsers(ctx, s.db, `SELECT `+userColumns+` FROM users ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if query == nil || *query == "" {
		return users, nil
	}

	matched := make([]model.User, 0, len(users))
	for _, u := range users {
		if containsFold(u.Name, *query) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// ListPosts returns all posts in store order.
// If query is non-empty, only posts whose title or body contains it (ignoring case) are returned.
func (s *Store) ListPosts(ctx context.Context, query *string) ([]model.Post, error) {
	posts, err := queryPosts(ctx, s.db, `SELECT `+postColumns+` FROM posts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if query == nil || *query == "" {
		return posts, nil
	}

	matched := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if containsFold(p.Title, *query) || containsFold(p.Body, *query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// ListComments returns all comments in store order.
func (s *Store) ListComments(ctx context.Context) ([]model.Comment, error) {
	comments, err := queryComments(ctx, s.db, `SELECT `+commentColumns+` FROM comments ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// PostAuthor returns the author of post, or nil if the author no longer exists.
func (s *Store) PostAuthor(ctx context.Context, post model.Post) (*model.User, error) {
	u, err := userByID(ctx, s.db, post.Author)
	if err != nil {
		return nil, fmt.Errorf("resolve post author: %w", err)
	}
	return u, nil
}

// PostComments returns the comments attached to post, in store order.
func (s *Store) PostComments(ctx context.Context, post model.Post) ([]model.Comment, error) {
	comments, err := queryComments(ctx, s.db,
		`SELECT `+commentColumns+` FROM comments WHERE post = ? ORDER BY seq ASC`, post.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve post comments: %w", err)
	}
	return comments, nil
}

// CommentAuthor returns the author of comment, or nil if the author no longer exists.
func (s *Store) CommentAuthor(ctx context.Context, comment model.Comment) (*model.User, error) {
	u, err := userByID(ctx, s.db, comment.Author)
	if err != nil {
		return nil, fmt.Errorf("resolve comment author: %w", err)
	}
	return u, nil
}

// CommentPost returns the post comment belongs to, or nil if the post no longer exists.
func (s *Store) CommentPost(ctx context.Context, comment model.Comment) (*model.Post, error) {
	p, err := postByID(ctx, s.db, comment.Post)
	if err != nil {
		return nil, fmt.Errorf("resolve comment post: %w", err)
	}
	return p, nil
}

// UserPosts returns the posts authored by user, in store order.
func (s *Store) UserPosts(ctx context.Context, user model.User) ([]model.Post, error) {
	posts, err := queryPosts(ctx, s.db,
		`SELECT `+postColumns+` FROM posts WHERE author = ? ORDER BY seq ASC`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve user posts: %w", err)
	}
	return posts, nil
}

// UserComments returns the comments written by user, in store order.
func (s *Store) UserComments(ctx context.Context, user model.User) ([]model.Comment, error) {
	comments, err := queryComments(ctx, s.db,
		`SELECT `+commentColumns+` FROM comments WHERE author = ? ORDER BY seq ASC`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve user comments: %w", err)
	}
	return comments, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var (
		u   model.User
		age sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &age); err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	if age.Valid {
		u.Age = model.IntPtr(int(age.Int64))
	}
	return u, nil
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.Author); err != nil {
		return model.Post{}, fmt.Errorf("scan post: %w", err)
	}
	return p, nil
}

func scanComment(row scanner) (model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.Text, &c.Author, &c.Post); err != nil {
		return model.Comment{}, fmt.Errorf("scan comment: %w", err)
	}
	return c, nil
}

func queryUsers(ctx context.Context, q querier, query string, args ...any) ([]model.User, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func queryPosts(ctx context.Context, q querier, query string, args ...any) ([]model.Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func queryComments(ctx context.Context, q querier, query string, args ...any) ([]model.Comment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return comments, nil
}

// userByID returns nil, nil when no user has the id.
func userByID(ctx context.Context, q querier, id string) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// postByID returns nil, nil when no post has the id.
func postByID(ctx context.Context, q querier, id string) (*model.Post, error) {
	p, err := scanPost(q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// commentByID returns nil, nil when no comment has the id.
func commentByID(ctx context.Context, q querier, id string) (*model.Comment, error) {
	c, err := scanComment(q.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// exists runs a SELECT EXISTS(...) query.
func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var found bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}
