package seed

import (
	"fmt"
	"strings"

	"github.com/roach88/blogql/internal/model"
)

// Problem is one defect in a dataset, located by collection and index.
type Problem struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Message    string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s[%d]: %s", p.Collection, p.Index, p.Message)
}

// ValidationError lists every problem found in a dataset.
type ValidationError struct {
	Problems []Problem
}

// Messages returns the problems formatted as "collection[index]: message".
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dataset: %s", strings.Join(e.Messages(), "; "))
}

// Validate checks ids, emails and references of ds.
// Returns a *ValidationError describing all problems, or nil.
func Validate(ds *model.Dataset) error {
	var problems []Problem
	addf := func(collection string, index int, format string, args ...any) {
		problems = append(problems, Problem{
			Collection: collection,
			Index:      index,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	users := make(map[string]bool, len(ds.Users))
	emails := make(map[string]string, len(ds.Users))
	for i, u := range ds.Users {
		switch {
		case u.ID == "":
			addf("users", i, "id is required")
		case users[u.ID]:
			addf("users", i, "duplicate id %q", u.ID)
		default:
			users[u.ID] = true
		}

		if owner, taken := emails[u.Email]; taken {
			addf("users", i, "email %q already used by user %q", u.Email, owner)
		} else {
			emails[u.Email] = u.ID
		}
	}

	posts := make(map[string]bool, len(ds.Posts))
	for i, p := range ds.Posts {
		switch {
		case p.ID == "":
			addf("posts", i, "id is required")
		case posts[p.ID]:
			addf("posts", i, "duplicate id %q", p.ID)
		default:
			posts[p.ID] = true
		}

		if !users[p.Author] {
			addf("posts", i, "author %q is not a user", p.Author)
		}
	}

	comments := make(map[string]bool, len(ds.Comments))
	for i, c := range ds.Comments {
		switch {
		case c.ID == "":
			addf("comments", i, "id is required")
		case comments[c.ID]:
			addf("comments", i, "duplicate id %q", c.ID)
		default:
			comments[c.ID] = true
		}

		if !users[c.Author] {
			addf("comments", i, "author %q is not a user", c.Author)
		}
		if !posts[c.Post] {
			addf("comments", i, "post %q is not a post", c.Post)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
