package probe

import (
	"errors"
	"fmt"
)

// Failure is an error that ends a probe run with a specific status.
type Failure struct {
	Status  Status
	Message string
	Err     error
}

// Failf returns a Failure with a formatted message.
func Failf(status Status, format string, args ...any) *Failure {
	return &Failure{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a Failure whose message is "<msg>: <err>".
func Wrap(status Status, err error, msg string) *Failure {
	return &Failure{Status: status, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Status, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure converts err into a Failure, defaulting to unknown.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Status: StatusUnknown, Message: err.Error(), Err: err}
}
