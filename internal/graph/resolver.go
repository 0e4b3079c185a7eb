package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/model"
)

// Placeholder records returned by the me and post query fields.
var (
	placeholderUser = model.User{
		ID:    "123098",
		Name:  "Mike",
		Email: "mike@example.com",
	}
	placeholderPost = model.Post{
		ID:        "092",
		Title:     "GraphQL 101",
		Body:      "",
		Published: false,
	}
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	store    Store
	logger   *zap.Logger
	recorder Recorder
}

type listArgs struct {
	Query *string
}

type idArgs struct {
	ID graphql.ID
}

type createUserArgs struct {
	Data struct {
		Name  string
		Email string
		Age   int32
	}
}

type createPostArgs struct {
	Data struct {
		Title     string
		Body      string
		Published bool
		Author    graphql.ID
	}
}

type createCommentArgs struct {
	Data struct {
		Text   string
		Author graphql.ID
		Post   graphql.ID
	}
}

// observe reports a finished root operation. Use with defer and a named error.
func (r *Resolver) observe(op string, start time.Time, err *error) {
	r.recorder.Observe(op, *err, time.Since(start))
}

// Users resolves Query.users.
func (r *Resolver) Users(ctx context.Context, args listArgs) (_ []*userResolver, err error) {
	defer r.observe("users", time.Now(), &err)

	users, err := r.store.ListUsers(ctx, args.Query)
	if err != nil {
		return nil, r.fail(ctx, "users", err)
	}
	return r.userList(users), nil
}

// Posts resolves Query.posts.
func (r *Resolver) Posts(ctx context.Context, args listArgs) (_ []*postResolver, err error) {
	defer r.observe("posts", time.Now(), &err)

	posts, err := r.store.ListPosts(ctx, args.Query)
	if err != nil {
		return nil, r.fail(ctx, "posts", err)
	}
	return r.postList(posts), nil
}

// Comments resolves Query.comments.
func (r *Resolver) Comments(ctx context.Context) (_ []*commentResolver, err error) {
	defer r.observe("comments", time.Now(), &err)

	comments, err := r.store.ListComments(ctx)
	if err != nil {
		return nil, r.fail(ctx, "comments", err)
	}
	return r.commentList(comments), nil
}

// Me resolves Query.me.
func (r *Resolver) Me() *userResolver {
	r.recorder.Observe("me", nil, 0)
	return &userResolver{root: r, user: placeholderUser}
}

// Post resolves Query.post.
func (r *Resolver) Post() *postResolver {
	r.recorder.Observe("post", nil, 0)
	return &postResolver{root: r, post: placeholderPost}
}

// CreateUser resolves Mutation.createUser.
func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (_ *userResolver, err error) {
	defer r.observe("createUser", time.Now(), &err)

	age := int(args.Data.Age)
	u, err := r.store.CreateUser(ctx, model.CreateUserInput{
		Name:  args.Data.Name,
		Email: args.Data.Email,
		Age:   &age,
	})
	if err != nil {
		return nil, r.fail(ctx, "createUser", err)
	}
	return &userResolver{root: r, user: u}, nil
}

// DeleteUser resolves Mutation.deleteUser.
func (r *Resolver) DeleteUser(ctx context.Context, args idArgs) (_ *userResolver, err error) {
	defer r.observe("deleteUser", time.Now(), &err)

	u, err := r.store.DeleteUser(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "deleteUser", err)
	}
	return &userResolver{root: r, user: u}, nil
}

// CreatePost resolves Mutation.createPost.
func (r *Resolver) CreatePost(ctx context.Context, args createPostArgs) (_ *postResolver, err error) {
	defer r.observe("createPost", time.Now(), &err)

	p, err := r.store.CreatePost(ctx, model.CreatePostInput{
		Title:     args.Data.Title,
		Body:      args.Data.Body,
		Published: args.Data.Published,
		Author:    string(args.Data.Author),
	})
	if err != nil {
		return nil, r.fail(ctx, "createPost", err)
	}
	return &postResolver{root: r, post: p}, nil
}

// DeletePost resolves Mutation.deletePost.
func (r *Resolver) DeletePost(ctx context.Context, args idArgs) (_ *postResolver, err error) {
	defer r.observe("deletePost", time.Now(), &err)

	p, err := r.store.DeletePost(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "deletePost", err)
	}
	return &postResolver{root: r, post: p}, nil
}

// CreateComment resolves Mutation.createComment.
func (r *Resolver) CreateComment(ctx context.Context, args createCommentArgs) (_ *commentResolver, err error) {
	defer r.observe("createComment", time.Now(), &err)

	c, err := r.store.CreateComment(ctx, model.CreateCommentInput{
		Text:   args.Data.Text,
		Author: string(args.Data.Author),
		Post:   string(args.Data.Post),
	})
	if err != nil {
		return nil, r.fail(ctx, "createComment", err)
	}
	return &commentResolver{root: r, comment: c}, nil
}

// DeleteComment resolves Mutation.deleteComment.
func (r *Resolver) DeleteComment(ctx context.Context, args idArgs) (_ *commentResolver, err error) {
	defer r.observe("deleteComment", time.Now(), &err)

	c, err := r.store.DeleteComment(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "deleteComment", err)
	}
	return &commentResolver{root: r, comment: c}, nil
}
