package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeAuthentication ErrorType = "Authentication"
	ErrorTypeConfiguration  ErrorType = "Configuration"
	ErrorTypeProvider       ErrorType = "Provider"
	ErrorTypeFileSystem     ErrorType = "FileSystem"
	ErrorTypeNetwork        ErrorType = "Network"
	ErrorTypeValidation     ErrorType = "Validation"
)

// Provider identifies where an error originated.
type Provider string

const (
	ProviderAWS     Provider = "AWS"
	ProviderCore    Provider = "Core"
	ProviderStorage Provider = "Storage"
)

// GuardError is a user-facing error with actionable guidance. It is meant
// for the CLI boundary; internal packages return plain wrapped errors.
type GuardError struct {
	Type      ErrorType
	Provider  Provider
	Message   string
	Cause     string
	Solutions []string
	Verify    string
}

// Error implements the error interface
func (e *GuardError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\nError: %s\n", e.Message))

	if e.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause: %s\n", e.Cause))
	}

	if len(e.Solutions) > 0 {
		sb.WriteString("\nSolutions:\n")
		for _, solution := range e.Solutions {
			sb.WriteString(fmt.Sprintf("  %s\n", solution))
		}
	}

	if e.Verify != "" {
		sb.WriteString(fmt.Sprintf("\nVerify: %s\n", e.Verify))
	}

	return sb.String()
}

// New creates a new GuardError
func New(errType ErrorType, provider Provider, message string) *GuardError {
	return &GuardError{
		Type:     errType,
		Provider: provider,
		Message:  message,
	}
}

// WithCause adds cause information
func (e *GuardError) WithCause(cause string) *GuardError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps
func (e *GuardError) WithSolutions(solutions ...string) *GuardError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithVerify adds a verification command
func (e *GuardError) WithVerify(verify string) *GuardError {
	e.Verify = verify
	return e
}

// NewAWSAuthError builds the standard credentials guidance error.
func NewAWSAuthError(cause string) *GuardError {
	return New(ErrorTypeAuthentication, ProviderAWS, "AWS credentials not found or invalid").
		WithCause(cause).
		WithSolutions(
			"1. Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY environment variables",
			"2. Run 'aws configure' to set up a default profile",
			"3. Set AWS_PROFILE to an existing named profile",
		).
		WithVerify("aws sts get-caller-identity")
}

// NewFatalInputError reports a run-aborting malformed top-level input.
func NewFatalInputError(cause string) *GuardError {
	return New(ErrorTypeValidation, ProviderCore, "baseline or current snapshot collection is not usable").
		WithCause(cause).
		WithSolutions(
			"1. Re-create the baseline with 'driftguard baseline create'",
			"2. Check that the baseline file is valid JSON with a top-level resources map",
		)
}
