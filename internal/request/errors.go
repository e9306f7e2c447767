package request

// Result is the outcome of offering one token to one category.
type Result int

const (
	// Unclaimed means the category does not recognize the token.
	Unclaimed Result = iota
	// Accepted means the token was recognized and recorded.
	Accepted
	// Rejected means the token was recognized but cannot be used here.
	Rejected
)

// UserError is the single chat-facing message produced when no candidate
// platform can serve a request.
type UserError struct {
	Message string
	// Muted is set when every candidate opted out silently; nothing should be
	// sent back to the user.
	Muted bool
}

func (e *UserError) Error() string {
	if e.Muted {
		return "request muted"
	}
	return e.Message
}

// errorEntry is one accumulated per-platform error. A muted entry at the
// head of the list marks a platform that opted out without a message.
type errorEntry struct {
	message string
	muted   bool
}
