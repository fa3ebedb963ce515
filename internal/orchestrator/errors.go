package orchestrator

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnknownStage    = errors.New("unknown stage")
	ErrStageRecorded   = errors.New("stage output already recorded")
	ErrStageOutOfOrder = errors.New("stage output recorded out of order")
)

// Error kinds reported in a failed PipelineResult when the underlying error
// does not name its own kind.
const (
	KindExecution = "ExecutionError"
	KindTimeout   = "ProviderTimeout"
	KindCanceled  = "Canceled"
)

// ConfigurationError reports that no usable completion provider is
// available. It is raised before any pipeline is built and is fatal.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ExecutionError is a failure raised while a stage executed. The pipeline
// converts it into a failed PipelineResult; it is never returned raw from Run.
type ExecutionError struct {
	Stage Stage
	Kind  string
	Err   error
}

func newExecutionError(stage Stage, err error) *ExecutionError {
	return &ExecutionError{
		Stage: stage,
		Kind:  ErrorKind(err),
		Err:   err,
	}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("flow execution failed at %s stage: %v", e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// kinded is implemented by errors that know their own fault category.
type kinded interface {
	Kind() string
}

// ErrorKind names the fault category of err. Errors exposing Kind() name
// themselves; context deadline and cancellation map to KindTimeout and
// KindCanceled; anything else is KindExecution.
func ErrorKind(err error) string {
	var k kinded
	if errors.As(err, &k) && k.Kind() != "" {
		return k.Kind()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindExecution
	}
}
