package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/roach88/blogql/internal/model"
)

type userResolver struct {
	root *Resolver
	user model.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.user.ID) }
func (u *userResolver) Name() string   { return u.user.Name }
func (u *userResolver) Email() string  { return u.user.Email }

func (u *userResolver) Age() *int32 {
	if u.user.Age == nil {
		return nil
	}
	age := int32(*u.user.Age)
	return &age
}

func (u *userResolver) Posts(ctx context.Context) ([]*postResolver, error) {
	posts, err := u.root.store.UserPosts(ctx, u.user)
	if err != nil {
		return nil, u.root.fail(ctx, "User.posts", err)
	}
	return u.root.postList(posts), nil
}

func (u *userResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := u.root.store.UserComments(ctx, u.user)
	if err != nil {
		return nil, u.root.fail(ctx, "User.comments", err)
	}
	return u.root.commentList(comments), nil
}

type postResolver struct {
	root *Resolver
	post model.Post
}

func (p *postResolver) ID() graphql.ID  { return graphql.ID(p.post.ID) }
func (p *postResolver) Title() string   { return p.post.Title }
func (p *postResolver) Body() string    { return p.post.Body }
func (p *postResolver) Published() bool { return p.post.Published }

func (p *postResolver) Author(ctx context.Context) (*userResolver, error) {
	u, err := p.root.store.PostAuthor(ctx, p.post)
	if err != nil {
		return nil, p.root.fail(ctx, "Post.author", err)
	}
	if u == nil {
		return nil, nullField("Post.author")
	}
	return &userResolver{root: p.root, user: *u}, nil
}

func (p *postResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := p.root.store.PostComments(ctx, p.post)
	if err != nil {
		return nil, p.root.fail(ctx, "Post.comments", err)
	}
	return p.root.commentList(comments), nil
}

type commentResolver struct {
	root    *Resolver
	comment model.Comment
}

func (c *commentResolver) ID() graphql.ID { return graphql.ID(c.comment.ID) }
func (c *commentResolver) Text() string   { return c.comment.Text }

func (c *commentResolver) Author(ctx context.Context) (*userResolver, error) {
	u, err := c.root.store.CommentAuthor(ctx, c.comment)
	if err != nil {
		return nil, c.root.fail(ctx, "Comment.author", err)
	}
	if u == nil {
		return nil, nullField("Comment.author")
	}
	return &userResolver{root: c.root, user: *u}, nil
}

func (c *commentResolver) Post(ctx context.Context) (*postResolver, error) {
	p, err := c.root.store.CommentPost(ctx, c.comment)
	if err != nil {
		return nil, c.root.fail(ctx, "Comment.post", err)
	}
	if p == nil {
		return nil, nullField("Comment.post")
	}
	return &postResolver{root: c.root, post: *p}, nil
}

func (r *Resolver) userList(users []model.User) []*userResolver {
	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{root: r, user: users[i]}
	}
	return out
}

func (r *Resolver) postList(posts []model.Post) []*postResolver {
	out := make([]*postResolver, len(posts))
	for i := range posts {
		out[i] = &postResolver{root: r, post: posts[i]}
	}
	return out
}

func (r *Resolver) commentList(comments []model.Comment) []*commentResolver {
	out := make([]*commentResolver, len(comments))
	for i := range comments {
		out[i] = &commentResolver{root: r, comment: comments[i]}
	}
	return out
}
