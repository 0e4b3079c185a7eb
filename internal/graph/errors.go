package graph

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/blogql/internal/store"
)

// Error codes reported in extensions.code.
const (
	CodeDuplicateEmail = "DUPLICATE_EMAIL"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL"
)

// Error is a user-visible GraphQL error.
// graphql-go copies Extensions into the response.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions implements the graphql-go extensions hook.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var notFoundMessages = map[string]string{
	store.EntityUser:       "User not found",
	store.EntityPost:       "Post not found",
	store.EntityComment:    "Comment not found",
	store.EntityUserOrPost: "Unable to find user and post",
}

// fail converts err into the error returned to the client.
// Errors that are not store errors are logged and hidden.
func (r *Resolver) fail(ctx context.Context, op string, err error) *Error {
	var serr *store.Error
	if errors.As(err, &serr) {
		switch {
		case errors.Is(serr, store.ErrDuplicateEmail):
			return &Error{Message: "Email taken", Code: CodeDuplicateEmail}
		case errors.Is(serr, store.ErrNotFound):
			msg, ok := notFoundMessages[serr.Entity]
			if !ok {
				msg = "Not found"
			}
			return &Error{Message: msg, Code: CodeNotFound}
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Debug("operation aborted", zap.String("operation", op), zap.Error(err))
		return &Error{Message: ctxErr.Error(), Code: CodeInternal}
	}

	r.logger.Error("operation failed", zap.String("operation", op), zap.Error(err))
	return &Error{Message: "internal error", Code: CodeInternal}
}

// nullField reports a non-null relational field whose target no longer exists.
func nullField(field string) *Error {
	return &Error{
		Message: fmt.Sprintf("Cannot return null for non-nullable field %s.", field),
		Code:    CodeNotFound,
	}
}
