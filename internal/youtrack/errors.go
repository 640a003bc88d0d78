package youtrack

import "fmt"

// TransportError means no usable response was received: the request could
// not be sent, the connection failed, or the server answered with a non-2xx
// status on a call that has no fault result.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the server answered but the response did not have the
// expected shape (unparseable XML, missing attribute, missing Location).
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
