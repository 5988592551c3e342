package logic

import "fmt"

// Kind is the closed set of failures the core reports to its callers.
type Kind int

const (
	KindInvalidURL Kind = iota + 1
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Error struct {
	Err     error
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidURLError(err error) *Error {
	return &Error{Kind: KindInvalidURL, Message: "URL Parse Error", Err: err}
}

func notFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Message: "Link Not Found", Err: err}
}

func storageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf("Database Error: %v", err), Err: err}
}
