package fullytyped

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byu-oit/fully-typed/i18n"
)

// Value-error codes (exported consts for IDE completion and type safety by
// convention). These are reported as data through Schema.Error.
const (
	CodeInvalidType       = "invalid_type"
	CodeInvalidEnum       = "invalid_enum"
	CodeTooShort          = "too_short"
	CodeTooLong           = "too_long"
	CodeTooSmall          = "too_small"
	CodeTooBig            = "too_big"
	CodePattern           = "pattern"
	CodeNotInteger        = "not_integer"
	CodeNotUnique         = "not_unique"
	CodeRequired          = "required"
	CodeCustom            = "custom"
	CodeNoVariant         = "no_variant"
	CodeInvalidProperties = "invalid_properties"
	CodeInvalidItems      = "invalid_items"
)

// Configuration-error codes. These fail schema construction and never travel
// through the Issue path.
const (
	CodeAliasInUse              = "alias_in_use"
	CodeAliasUnknown            = "alias_unknown"
	CodeInvalidDefinition       = "invalid_definition"
	CodeInvalidOption           = "invalid_option"
	CodeRequiredDefaultConflict = "required_default_conflict"
)

// Issue describes why a value failed validation. Container and one-of
// schemas aggregate their children's failures under Errors, tagging each
// sub-issue with its Property or Index location.
type Issue struct {
	Code        string // One of the value-error codes above.
	Message     string // Human-readable, including the caller-supplied prefix.
	Explanation string // Message without the prefix.
	Summary     string // Generic per-code wording.
	Property    string // Set on sub-issues of an object aggregate.
	Index       int    // Set on sub-issues of an array aggregate; -1 otherwise.
	Errors      []*Issue
}

// Error implements the error interface so Validate/Normalize can surface the
// same data as a returned failure.
func (e *Issue) Error() string { return e.Message }

// AsIssue extracts an *Issue from an error using errors.As internally.
func AsIssue(err error) (*Issue, bool) {
	if err == nil {
		return nil, false
	}
	var iss *Issue
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func issueOf(code, explanation string) *Issue {
	return &Issue{
		Code:        code,
		Message:     explanation,
		Explanation: explanation,
		Summary:     i18n.T(code, nil),
		Index:       -1,
	}
}

func issuef(code, format string, args ...any) *Issue {
	return issueOf(code, fmt.Sprintf(format, args...))
}

// withPrefix returns a copy with the prefix applied to Message. Sub-issues
// are shared; issues are immutable once returned.
func (e *Issue) withPrefix(prefix string) *Issue {
	if e == nil || prefix == "" {
		return e
	}
	c := *e
	c.Message = prefix + ": " + e.Message
	return &c
}

// aggregate builds a composite Issue whose message lists every sub-issue in
// order. label renders the location of the i-th sub-issue within its parent.
func aggregate(code string, subs []*Issue, label func(i int, sub *Issue) string) *Issue {
	b := &strings.Builder{}
	b.WriteString(i18n.T(code, nil))
	for i, sub := range subs {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if loc := label(i, sub); loc != "" {
			b.WriteString(loc)
			b.WriteString(": ")
		}
		b.WriteString(sub.Message)
	}
	msg := b.String()
	return &Issue{
		Code:        code,
		Message:     msg,
		Explanation: msg,
		Summary:     i18n.T(code, nil),
		Index:       -1,
		Errors:      subs,
	}
}

// ConfigError reports an invalid schema or controller configuration.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

func configErrorf(code, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnknownTypeError reports a type alias with no registered controller.
type UnknownTypeError struct {
	Alias any
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no controller registered for type %v", e.Alias)
}

// DependencyError refuses deletion of a controller that other controllers
// still inherit from. Dependents lists them; they must be deleted first.
type DependencyError struct {
	Alias      any
	Dependents []*Descriptor
}

func (e *DependencyError) Error() string {
	names := make([]string, 0, len(e.Dependents))
	for _, d := range e.Dependents {
		if len(d.Aliases) > 0 {
			names = append(names, fmt.Sprintf("%v", d.Aliases[0]))
		}
	}
	return fmt.Sprintf("cannot delete %v: still inherited by %s", e.Alias, strings.Join(names, ", "))
}
