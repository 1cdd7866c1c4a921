package eventbus

import (
	"errors"
	"fmt"
)

// ErrDispatchAborted is recorded on metrics and spans when a dispatch pass
// was cut short by a panicking listener or runtime.Goexit.
var ErrDispatchAborted = errors.New("dispatch aborted")

// ListenerError wraps an error returned by a listener during Emit.
// The listener that failed was the last one invoked; the listeners after it
// in the snapshot were not called.
type ListenerError struct {
	// Event is the event being dispatched.
	Event string
	// Index is the position of the failing listener in the dispatch snapshot.
	Index int
	// Err is the error returned by the listener.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("event %s: listener %d: %v", e.Event, e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
