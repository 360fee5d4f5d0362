package api

import (
	"errors"
	"fmt"
)

// ErrNotModified is returned for a 304 response on a list fetch: the
// caller keeps its current view. It is not a failure.
var ErrNotModified = errors.New("not modified")

// HTMLResponseError means the API returned an HTML document where JSON
// was expected. This almost always indicates a misconfigured deployment
// serving a login or error page, so it is fatal to the operation
// regardless of status code.
type HTMLResponseError struct {
	Status int
	URL    string
}

func (e *HTMLResponseError) Error() string {
	return fmt.Sprintf("API returned HTML (%d): %s", e.Status, e.URL)
}

// StatusError is a non-2xx response with the best message the body
// offered: a joined `errors` list, then `message`, then the HTTP status
// text, then the raw body.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// MalformedResponseError means a success response claimed JSON but the
// body failed to parse.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
