package reqval

import (
	"fmt"
	"sort"
	"strings"
)

// WrongUsageError reports malformed schema construction: an unknown source
// category, an unsupported target type, or a contradictory required/default
// combination. It is returned from NewParam (and panicked by MustParam)
// at definition time and never occurs while resolving a request value.
type WrongUsageError struct {
	Reason string
}

func (e WrongUsageError) Error() string {
	return "wrong usage: " + e.Reason
}

// RequiredValueError reports a required flat parameter that was absent
// from the request.
type RequiredValueError struct{}

func (RequiredValueError) Error() string {
	return "value is required"
}

// TypeConversionError reports a raw string that could not be converted to
// the declared target type. Rules are never evaluated on an unconverted
// value, so a parameter fails with either this error or a RulesError,
// never both.
type TypeConversionError struct {
	Value string
	Type  ValueType
}

func (e TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
}

// RulesError aggregates every rule violation found for one value, in
// chain order. Validation is exhaustive: the slice holds one entry per
// violated rule, not just the first.
type RulesError struct {
	Errors []error
}

func (e RulesError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// RequiredJsonKeyError reports a required key that is missing from an
// object level of a structured body.
type RequiredJsonKeyError struct {
	Key string
}

func (e RequiredJsonKeyError) Error() string {
	return fmt.Sprintf("json key %q is required", e.Key)
}

// JsonListItemTypeError reports a list element whose shape disagrees with
// the schema: OnlyDict is true when an object was expected but a scalar
// was found, false when a scalar was expected but an object was found.
type JsonListItemTypeError struct {
	OnlyDict bool
}

func (e JsonListItemTypeError) Error() string {
	if e.OnlyDict {
		return "list items must only include objects"
	}
	return "list items must only include strings or numbers"
}

// JsonListExpectedError reports a schema node declared as a list whose
// value is not a list. Children below the mismatch are not evaluated.
type JsonListExpectedError struct{}

func (JsonListExpectedError) Error() string {
	return "list expected"
}

// JsonDictExpectedError reports a schema object node whose value is not
// an object. Children below the mismatch are not evaluated.
type JsonDictExpectedError struct{}

func (JsonDictExpectedError) Error() string {
	return "object expected"
}

// MaxDepthError reports input nested deeper than the validator is willing
// to descend. It guards the call stack against adversarial payloads.
type MaxDepthError struct{}

func (MaxDepthError) Error() string {
	return "maximum nesting depth exceeded"
}

// KeyErrors carries the per-key failures of a single object inside a list
// level, keyed by the object's field names.
type KeyErrors map[string]error

func (e KeyErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e[k].Error())
	}
	return strings.Join(parts, "; ")
}

// JsonError aggregates every failure found within one structural level of
// a nested body. Depth is the absolute path of the level from the root
// (root segment "root"); Errors maps the local key, or the decimal index
// for list levels, to the failure found there. Shape is set instead of
// Errors when the container itself had the wrong shape.
type JsonError struct {
	Depth  []string
	Shape  error
	Errors map[string]error
}

func (e JsonError) Error() string {
	path := strings.Join(e.Depth, "|")
	if e.Shape != nil {
		return fmt.Sprintf("%s: %s", path, e.Shape.Error())
	}

	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Errors[k].Error())
	}
	return fmt.Sprintf("%s: %s", path, strings.Join(parts, "; "))
}

// InvalidRequestError collects per-parameter failures across request
// source categories. The engine itself never builds one; the HTTP glue
// that extracts raw values fills it in and decides how to report it.
type InvalidRequestError struct {
	Get  map[string]error
	Form map[string]error
	Path map[string]error
	Json []JsonError
}

func (e InvalidRequestError) Error() string {
	return "invalid request parameters"
}

// HasErrors reports whether any source category collected a failure.
func (e InvalidRequestError) HasErrors() bool {
	return len(e.Get) > 0 || len(e.Form) > 0 || len(e.Path) > 0 || len(e.Json) > 0
}

// InvalidHeadersError collects per-header failures. Kept separate from
// InvalidRequestError so callers can validate headers before reading the
// body.
type InvalidHeadersError struct {
	Errors map[string]error
}

func (e InvalidHeadersError) Error() string {
	return "invalid request headers"
}
