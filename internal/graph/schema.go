package graph

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/model"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition served by NewSchema.
func SDL() string {
	return schemaSDL
}

// Store is the subset of *store.Store the resolvers call.
type Store interface {
	ListUsers(ctx context.Context, query *string) ([]model.User, error)
	ListPosts(ctx context.Context, query *string) ([]model.Post, error)
	ListComments(ctx context.Context) ([]model.Comment, error)

	PostAuthor(ctx context.Context, post model.Post) (*model.User, error)
	PostComments(ctx context.Context, post model.Post) ([]model.Comment, error)
	CommentAuthor(ctx context.Context, comment model.Comment) (*model.User, error)
	CommentPost(ctx context.Context, comment model.Comment) (*model.Post, error)
	UserPosts(ctx context.Context, user model.User) ([]model.Post, error)
	UserComments(ctx context.Context, user model.User) ([]model.Comment, error)

	CreateUser(ctx context.Context, in model.CreateUserInput) (model.User, error)
	DeleteUser(ctx context.Context, id string) (model.User, error)
	CreatePost(ctx context.Context, in model.CreatePostInput) (model.Post, error)
	DeletePost(ctx context.Context, id string) (model.Post, error)
	CreateComment(ctx context.Context, in model.CreateCommentInput) (model.Comment, error)
	DeleteComment(ctx context.Context, id string) (model.Comment, error)
}

// Recorder observes root operations. *metrics.Recorder implements it.
type Recorder interface {
	Observe(operation string, err error, took time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) Observe(string, error, time.Duration) {}

type options struct {
	logger   *zap.Logger
	recorder Recorder
	maxDepth int
}

// Option configures NewSchema.
type Option func(*options)

// WithLogger sets the logger for internal errors and resolver panics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the recorder notified after every root operation.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithMaxDepth rejects queries nested deeper than n. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// NewSchema parses the blogql schema and binds it to st.
func NewSchema(st Store, opts ...Option) (*graphql.Schema, error) {
	o := options{
		logger:   zap.NewNop(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{logger: o.logger}),
	}
	if o.maxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(o.maxDepth))
	}

	root := &Resolver{
		store:    st,
		logger:   o.logger,
		recorder: o.recorder,
	}
	schema, err := graphql.ParseSchema(schemaSDL, root, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics through zap.
type panicLogger struct {
	logger *zap.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.Error("graphql resolver panicked", zap.Any("panic", value), zap.Stack("stack"))
}
