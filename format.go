package reqval

import (
	"fmt"
	"sort"
	"strings"
)

// Messages flattens one node-level failure into human-readable strings:
// a RulesError yields one message per violated rule in chain order, a
// KeyErrors yields "key: message" lines sorted by key, anything else
// yields its own message.
func Messages(err error) []string {
	switch e := err.(type) {
	case RulesError:
		msgs := make([]string, len(e.Errors))
		for i, rule := range e.Errors {
			msgs[i] = rule.Error()
		}
		return msgs
	case KeyErrors:
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var msgs []string
		for _, k := range keys {
			for _, m := range Messages(e[k]) {
				msgs = append(msgs, fmt.Sprintf("%s: %s", k, m))
			}
		}
		return msgs
	case nil:
		return nil
	}
	return []string{err.Error()}
}

// FormattedError is one block of a user-facing error report.
type FormattedError struct {
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

// FormattedJsonError renders one structural level of a body failure with
// its path joined as "root|meta|buildings".
type FormattedJsonError struct {
	Depth string              `json:"depth"`
	Keys  map[string][]string `json:"keys"`
}

// FormatJsonErrors renders body failures level by level.
func FormatJsonErrors(errs []JsonError) []FormattedJsonError {
	out := make([]FormattedJsonError, 0, len(errs))
	for _, jsonErr := range errs {
		formatted := FormattedJsonError{
			Depth: strings.Join(jsonErr.Depth, "|"),
			Keys:  make(map[string][]string),
		}
		if jsonErr.Shape != nil {
			formatted.Keys[""] = []string{jsonErr.Shape.Error()}
		}
		for key, err := range jsonErr.Errors {
			formatted.Keys[key] = Messages(err)
		}
		out = append(out, formatted)
	}
	return out
}

// FormatErrors renders an InvalidRequestError or InvalidHeadersError into
// report blocks suitable for a JSON response body. It is a reference
// rendering; callers with their own response format can walk the error
// values directly instead.
func FormatErrors(err error) []FormattedError {
	switch e := err.(type) {
	case InvalidHeadersError:
		names := make([]string, 0, len(e.Errors))
		for name := range e.Errors {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]FormattedError, 0, len(names))
		for _, name := range names {
			out = append(out, FormattedError{
				Message: fmt.Sprintf("invalid request header %s", name),
				Errors:  Messages(e.Errors[name]),
			})
		}
		return out

	case InvalidRequestError:
		var out []FormattedError
		for _, category := range []struct {
			source ParamType
			errors map[string]error
		}{
			{Query, e.Get},
			{Form, e.Form},
			{Path, e.Path},
		} {
			if len(category.errors) == 0 {
				continue
			}
			byParam := make(map[string][]string, len(category.errors))
			for name, paramErr := range category.errors {
				byParam[name] = Messages(paramErr)
			}
			out = append(out, FormattedError{
				Message: fmt.Sprintf("invalid %s parameters", category.source),
				Errors:  byParam,
			})
		}
		if len(e.Json) > 0 {
			out = append(out, FormattedError{
				Message: "invalid json parameters",
				Errors:  FormatJsonErrors(e.Json),
			})
		}
		return out
	}

	return []FormattedError{{Message: "invalid request", Errors: Messages(err)}}
}
