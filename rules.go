package reqval

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rule validates a single already-typed value. Validate returns the value,
// possibly normalized (NotEmpty trims strings, Number parses numeric
// strings, IsDatetimeIsoFormat yields a time.Time), together with a typed
// violation when the check fails. Rules are immutable, never mutate their
// input, and signal pass/fail only; a value of an unexpected kind fails
// the rule instead of panicking.
type Rule interface {
	Validate(value any) (any, error)
}

// ValueEnumError reports a value outside the allowed set.
type ValueEnumError struct {
	Value   any
	Allowed []any
}

func (e ValueEnumError) Error() string {
	parts := make([]string, len(e.Allowed))
	for i, v := range e.Allowed {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("incorrect value %v, allowed values: %s", e.Value, strings.Join(parts, ", "))
}

// ValuePatternError reports a value that does not match the expected pattern.
type ValuePatternError struct {
	Pattern string
}

func (e ValuePatternError) Error() string {
	return fmt.Sprintf("value does not match pattern %s", e.Pattern)
}

// ValueMinLengthError reports a value shorter than the allowed minimum.
type ValueMinLengthError struct {
	Length int
}

func (e ValueMinLengthError) Error() string {
	return fmt.Sprintf("minimum allowed length is %d", e.Length)
}

// ValueMaxLengthError reports a value longer than the allowed maximum.
type ValueMaxLengthError struct {
	Length int
}

func (e ValueMaxLengthError) Error() string {
	return fmt.Sprintf("maximum allowed length is %d", e.Length)
}

// ValueMinError reports a number below the allowed minimum.
type ValueMinError struct {
	Bound           float64
	IncludeBoundary bool
}

func (e ValueMinError) Error() string {
	op := ">"
	if e.IncludeBoundary {
		op = ">="
	}
	return fmt.Sprintf("value must be %s %v", op, e.Bound)
}

// ValueMaxError reports a number above the allowed maximum.
type ValueMaxError struct {
	Bound           float64
	IncludeBoundary bool
}

func (e ValueMaxError) Error() string {
	op := "<"
	if e.IncludeBoundary {
		op = "<="
	}
	return fmt.Sprintf("value must be %s %v", op, e.Bound)
}

// ValueEmptyError reports an empty value.
type ValueEmptyError struct{}

func (ValueEmptyError) Error() string {
	return "value cannot be empty"
}

// NumberError reports a value that is not a number and not parseable as one.
type NumberError struct{}

func (NumberError) Error() string {
	return "value is not a number"
}

// ValueEmailError reports a value that is not a valid email address.
type ValueEmailError struct{}

func (ValueEmailError) Error() string {
	return "invalid email format"
}

// ValueDtIsoFormatError reports a value that is not an ISO-8601 datetime.
type ValueDtIsoFormatError struct{}

func (ValueDtIsoFormatError) Error() string {
	return "invalid datetime iso format"
}

// ValueUUIDError reports a value that is not a canonical UUID.
type ValueUUIDError struct{}

func (ValueUUIDError) Error() string {
	return "invalid uuid format"
}

// numericValue reports the value as a float64 when it is any numeric kind.
// Booleans are deliberately not numbers.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// lengthOf reports the length of strings, slices, arrays and maps.
func lengthOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

type enumRule struct {
	allowed []any
}

// Enum allows only values equal to one of the given alternatives. Numbers
// compare by numeric value, everything else by deep equality.
func Enum(allowed ...any) Rule {
	return enumRule{allowed: allowed}
}

func (r enumRule) Validate(value any) (any, error) {
	for _, a := range r.allowed {
		if vn, ok := numericValue(value); ok {
			if an, ok := numericValue(a); ok && vn == an {
				return value, nil
			}
			continue
		}
		if reflect.DeepEqual(value, a) {
			return value, nil
		}
	}
	return value, ValueEnumError{Value: value, Allowed: r.allowed}
}

type patternRule struct {
	expr string
	re   *regexp.Regexp
}

// Pattern requires the full string form of the value to match the given
// regular expression. The expression is compiled once at definition time;
// an invalid expression panics, same as regexp.MustCompile.
func Pattern(expr string) Rule {
	return patternRule{
		expr: expr,
		re:   regexp.MustCompile(`^(?:` + expr + `)$`),
	}
}

func (r patternRule) Validate(value any) (any, error) {
	if r.re.MatchString(fmt.Sprintf("%v", value)) {
		return value, nil
	}
	return value, ValuePatternError{Pattern: r.expr}
}

type minLengthRule struct {
	length int
}

// MinLength requires the value (string, slice or map) to have at least
// the given length.
func MinLength(length int) Rule {
	return minLengthRule{length: length}
}

func (r minLengthRule) Validate(value any) (any, error) {
	if n, ok := lengthOf(value); ok && n >= r.length {
		return value, nil
	}
	return value, ValueMinLengthError{Length: r.length}
}

type maxLengthRule struct {
	length int
}

// MaxLength requires the value (string, slice or map) to have at most
// the given length.
func MaxLength(length int) Rule {
	return maxLengthRule{length: length}
}

func (r maxLengthRule) Validate(value any) (any, error) {
	if n, ok := lengthOf(value); ok && n <= r.length {
		return value, nil
	}
	return value, ValueMaxLengthError{Length: r.length}
}

type minRule struct {
	bound     float64
	inclusive bool
}

// Min requires a numeric value to be greater than the bound, or greater
// than or equal to it when inclusive is true.
func Min(bound float64, inclusive bool) Rule {
	return minRule{bound: bound, inclusive: inclusive}
}

func (r minRule) Validate(value any) (any, error) {
	if n, ok := numericValue(value); ok {
		if r.inclusive && n >= r.bound || !r.inclusive && n > r.bound {
			return value, nil
		}
	}
	return value, ValueMinError{Bound: r.bound, IncludeBoundary: r.inclusive}
}

type maxRule struct {
	bound     float64
	inclusive bool
}

// Max requires a numeric value to be less than the bound, or less than
// or equal to it when inclusive is true.
func Max(bound float64, inclusive bool) Rule {
	return maxRule{bound: bound, inclusive: inclusive}
}

func (r maxRule) Validate(value any) (any, error) {
	if n, ok := numericValue(value); ok {
		if r.inclusive && n <= r.bound || !r.inclusive && n < r.bound {
			return value, nil
		}
	}
	return value, ValueMaxError{Bound: r.bound, IncludeBoundary: r.inclusive}
}

type notEmptyRule struct{}

// NotEmpty requires a string to contain non-whitespace content and
// normalizes it to its trimmed form. Nil fails; non-string values pass
// through untouched.
func NotEmpty() Rule {
	return notEmptyRule{}
}

func (notEmptyRule) Validate(value any) (any, error) {
	if value == nil {
		return value, ValueEmptyError{}
	}
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return value, ValueEmptyError{}
	}
	return trimmed, nil
}

type numberRule struct{}

// Number requires the value to be numeric, or a string parseable as an
// integer or float. Numeric strings are normalized to int64 or float64.
func Number() Rule {
	return numberRule{}
}

func (numberRule) Validate(value any) (any, error) {
	if _, ok := numericValue(value); ok {
		return value, nil
	}
	s, ok := value.(string)
	if !ok {
		return value, NumberError{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return value, NumberError{}
}

type emailRule struct{}

// IsEmail requires the value to be a valid email address per RFC 5322,
// with the extra domain checks typical for web input (at least one dot,
// no empty domain labels).
func IsEmail() Rule {
	return emailRule{}
}

func (emailRule) Validate(value any) (any, error) {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return value, ValueEmailError{}
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return value, ValueEmailError{}
	}

	local, domain, found := strings.Cut(addr.Address, "@")
	if !found || local == "" {
		return value, ValueEmailError{}
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return value, ValueEmailError{}
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return value, ValueEmailError{}
		}
	}
	return s, nil
}

// Layouts accepted by IsDatetimeIsoFormat, tried in order.
var isoDatetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type datetimeIsoRule struct{}

// IsDatetimeIsoFormat requires the value to be an ISO-8601 datetime
// string and normalizes it to a time.Time. A trailing "Z" or a numeric
// offset selects the zone; otherwise the time is naive (UTC).
func IsDatetimeIsoFormat() Rule {
	return datetimeIsoRule{}
}

func (datetimeIsoRule) Validate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, ValueDtIsoFormatError{}
	}
	for _, layout := range isoDatetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return value, ValueDtIsoFormatError{}
}

type uuidRule struct{}

// IsUUID requires the value to be a canonical 36-character UUID.
func IsUUID() Rule {
	return uuidRule{}
}

func (uuidRule) Validate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, ValueUUIDError{}
	}

	// Fast rejection before parsing: canonical length and hyphen positions.
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return value, ValueUUIDError{}
	}
	if _, err := uuid.Parse(s); err != nil {
		return value, ValueUUIDError{}
	}
	return s, nil
}
