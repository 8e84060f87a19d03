package bridge

// Outcome is the normalized result of every remote call: either a value or
// an error message, whether the failure came from the transport or from the
// host reporting success=false.
type Outcome[T any] struct {
	Success bool
	Value   T
	Error   string
}

// Succeeded wraps a value.
func Succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{Success: true, Value: value}
}

// Failed wraps a failure message. An empty message is replaced so the UI
// never shows a blank error.
func Failed[T any](message string) Outcome[T] {
	if message == "" {
		message = "remote call failed"
	}
	return Outcome[T]{Error: message}
}

// FromError collapses a Go error into a failed outcome.
func FromError[T any](err error) Outcome[T] {
	if err == nil {
		return Failed[T]("")
	}
	return Failed[T](err.Error())
}

// Err returns nil on success and a *RemoteError otherwise.
func (o Outcome[T]) Err() error {
	if o.Success {
		return nil
	}
	return &RemoteError{Message: o.Error}
}

// RemoteError is the error form of a failed outcome.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
