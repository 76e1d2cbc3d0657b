package pipeline

import (
	"fmt"
	"strings"
)

// RunIDSeparator joins model name and training run in a RunID string.
const RunIDSeparator = "::"

// RunID identifies one training run of one model.
type RunID struct {
	ModelName   string
	TrainingRun string
}

// ParseRunID splits s into its two parts. Exactly one separator and two
// non-empty parts are required.
func ParseRunID(s string) (RunID, error) {
	parts := strings.Split(s, RunIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RunID{}, fmt.Errorf("%w %q: expected <model>%s<run>", ErrInvalidRunID, s, RunIDSeparator)
	}
	if err := validComponent(parts[0]); err != nil {
		return RunID{}, fmt.Errorf("%w %q: model name %v", ErrInvalidRunID, s, err)
	}
	if err := validComponent(parts[1]); err != nil {
		return RunID{}, fmt.Errorf("%w %q: training run %v", ErrInvalidRunID, s, err)
	}
	return RunID{ModelName: parts[0], TrainingRun: parts[1]}, nil
}

func (id RunID) String() string { return id.ModelName + RunIDSeparator + id.TrainingRun }

// validComponent rejects values that would escape their directory when joined
// into a path.
func validComponent(s string) error {
	if s == "." || s == ".." {
		return fmt.Errorf("must not be %q", s)
	}
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("must not contain path separators")
	}
	return nil
}
