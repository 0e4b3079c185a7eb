package model

// User is an account that can author posts and comments.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty"`
}

// Post is an article written by a user.
type Post struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Body      string `json:"body" yaml:"body"`
	Published bool   `json:"published" yaml:"published"`
	Author    string `json:"author" yaml:"author"` // User.ID
}

// Comment is a reply left by a user on a post.
type Comment struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"` // User.ID
	Post   string `json:"post" yaml:"post"`     // Post.ID
}

// CreateUserInput holds the caller-supplied fields of a new user.
type CreateUserInput struct {
	Name  string
	Email string
	Age   *int
}

// CreatePostInput holds the caller-supplied fields of a new post.
type CreatePostInput struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

// CreateCommentInput holds the caller-supplied fields of a new comment.
type CreateCommentInput struct {
	Text   string
	Author string
	Post   string
}

// Dataset is a complete set of records, in store order.
// It is the unit loaded into a store at startup.
type Dataset struct {
	Users    []User    `json:"users" yaml:"users"`
	Posts    []Post    `json:"posts" yaml:"posts"`
	Comments []Comment `json:"comments" yaml:"comments"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
