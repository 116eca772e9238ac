package tableschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeDuplicateKey = "duplicate_key"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodePattern      = "pattern"
	CodeInvalidEnum  = "invalid_enum"
	CodeParseError   = "parse_error"
	// Policy rules
	CodeUniqueness   = "uniqueness"
	CodeBusinessRule = "business_rule"
	// Key descriptors
	CodeKeyMalformed               = "key_malformed"
	CodePrimaryKeyEmpty            = "primary_key_empty"
	CodePrimaryKeyUnknownField     = "primary_key_unknown_field"
	CodeForeignKeyShapeMismatch    = "foreign_key_shape_mismatch"
	CodeForeignKeyArityMismatch    = "foreign_key_arity_mismatch"
	CodeForeignKeyUnknownField     = "foreign_key_unknown_field"
	CodeForeignKeyUnknownReference = "foreign_key_unknown_reference"
)

// Rule tags recorded in Issue.Rule by the built-in checks.
const (
	RuleStructure  = "structure"
	RulePrimaryKey = "primary-key"
	RuleForeignKey = "foreign-key"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /fields/2/type).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"` // Optional: remediation hints.
	Cause   error  `json:"-"`              // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":0})
	// for i18n and observability.
	Params map[string]any `json:"params,omitempty"`
	// Rule records the check family or policy rule that produced this issue.
	Rule string `json:"rule,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /fields
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrSchemaValidation is matched by every error returned from Validate.
var ErrSchemaValidation = errors.New("table schema validation failed")

// SchemaValidationError is returned by Validate. It carries the first issue
// found; use Errors or IterErrors for the complete list.
type SchemaValidationError struct {
	Issue Issue
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%v: %s at %s: %s", ErrSchemaValidation, e.Issue.Code, e.Issue.Path, e.Issue.Message)
}

func (e *SchemaValidationError) Is(target error) bool { return target == ErrSchemaValidation }

func (e *SchemaValidationError) Unwrap() error {
	if e.Issue.Cause != nil {
		return e.Issue.Cause
	}
	return nil
}
