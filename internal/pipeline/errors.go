package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors. All map to a client error at the HTTP boundary.
var (
	ErrInvalidRunID     = errors.New("invalid training run id")
	ErrInvalidModelName = errors.New("invalid model name")
	ErrInvalidRequest   = errors.New("invalid request")
)

// NotFoundError reports a missing precondition on the host, e.g. the adapter.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found at %s", e.What, e.Path) }

// CommandError is a remote command that exited non-zero.
type CommandError struct {
	Op       string // human readable prefix, e.g. "GGUF conversion failed"
	Service  string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string { return e.Op + ": " + e.Output }

// TimeoutError is returned when the converted file never became visible.
type TimeoutError struct {
	Path  string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("GGUF file not found at %s after waiting.", e.Path)
}

// Step names a pipeline stage.
type Step string

const (
	StepLocate   Step = "locate_adapter"
	StepMerge    Step = "merge"
	StepConvert  Step = "convert"
	StepWait     Step = "wait_for_file"
	StepManifest Step = "write_manifest"
	StepLoad     Step = "load"
)

// failureStates names the terminal state a failed step leaves the run in.
var failureStates = map[Step]string{
	StepLocate:   "AdapterMissing",
	StepMerge:    "MergeFailed",
	StepConvert:  "ConvertFailed",
	StepWait:     "WaitTimedOut",
	StepManifest: "ManifestFailed",
	StepLoad:     "LoadFailed",
}

// StepError attaches the failing step to an error. Its message is the
// underlying message unchanged.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string { return e.Err.Error() }
func (e *StepError) Unwrap() error { return e.Err }

// State returns the terminal failure state, e.g. "MergeFailed".
func (e *StepError) State() string { return failureStates[e.Step] }

// FailedStep returns the step that produced err, if any.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}

// IsNotFound reports whether err indicates a missing adapter.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsCommandError reports whether err is a non-zero remote exit.
func IsCommandError(err error) bool {
	var e *CommandError
	return errors.As(err, &e)
}

// IsTimeout reports whether err is a file wait timeout.
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// IsInvalidInput reports whether err is a request validation failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidRunID) || errors.Is(err, ErrInvalidModelName) ||
		errors.Is(err, ErrInvalidRequest)
}
