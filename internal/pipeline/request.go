package pipeline

import (
	"fmt"
	"strings"
)

// Request carries the caller's parameters for one run.
type Request struct {
	BaseModelPath string
	// UseLegacyFormat is accepted but not forwarded: the merge step always
	// exports with --export_legacy_format False.
	UseLegacyFormat bool
	// NewModelName names the GGUF file, the Modelfile and the registered model.
	NewModelName string
	// SystemPrompt goes into the Modelfile verbatim.
	SystemPrompt string
}

// Validate checks NewModelName is usable as a file name stem and that a
// base model was given.
func (r Request) Validate() error {
	if strings.TrimSpace(r.NewModelName) == "" {
		return fmt.Errorf("%w: new_model_name is required", ErrInvalidModelName)
	}
	if err := validComponent(r.NewModelName); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidModelName, r.NewModelName, err)
	}
	if strings.TrimSpace(r.BaseModelPath) == "" {
		return fmt.Errorf("%w: base_model_path is required", ErrInvalidRequest)
	}
	return nil
}
