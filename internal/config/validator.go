package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "loop.max_priority")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Agent.Command == "" {
		errs = append(errs, ValidationError{
			Field:   "agent.command",
			Value:   c.Agent.Command,
			Message: "agent command must not be empty",
		})
	}
	if c.Agent.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "agent.model",
			Value:   c.Agent.Model,
			Message: "agent model must not be empty",
		})
	}
	if c.Tracker.Command == "" {
		errs = append(errs, ValidationError{
			Field:   "tracker.command",
			Value:   c.Tracker.Command,
			Message: "tracker command must not be empty",
		})
	}
	if c.Loop.MaxPriority < 0 {
		errs = append(errs, ValidationError{
			Field:   "loop.max_priority",
			Value:   c.Loop.MaxPriority,
			Message: "max priority must not be negative",
		})
	}
	if c.Loop.MaxTasks < 0 {
		errs = append(errs, ValidationError{
			Field:   "loop.max_tasks",
			Value:   c.Loop.MaxTasks,
			Message: "max tasks must not be negative",
		})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
