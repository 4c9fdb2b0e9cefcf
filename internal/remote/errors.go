package remote

import "fmt"

// RemoteError is returned when the backend answers with a non-2xx status
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// TransportError is returned when a request could not complete at all
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a 2xx body does not match the expected shape
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
