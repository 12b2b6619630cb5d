package task

import "fmt"

// PanicError wraps a panic raised by an engine while running a task.
type PanicError struct {
	Kind  Kind
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s task panicked: %v", e.Kind, e.Value)
}
