package plan

import "fmt"

// ConfigError reports a missing or invalid completion-provider setting. It is
// fatal for the process, unlike GenerationError.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("plan generator misconfigured: %s is not set", e.Setting)
}

// GenerationError reports a failed or empty completion.
type GenerationError struct {
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generating plan (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("generating plan: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
