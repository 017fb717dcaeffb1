package reqval

import "fmt"

// ParamType names the request source a flat parameter is read from.
type ParamType string

const (
	Query  ParamType = "query"
	Form   ParamType = "form"
	Header ParamType = "header"
	Path   ParamType = "path"
)

func validParamType(t ParamType) bool {
	switch t {
	case Query, Form, Header, Path:
		return true
	}
	return false
}

// Param declares a single flat request parameter: its name, source,
// target type, required/default policy and validation rules. A Param is
// built once at schema-definition time and resolved once per request;
// it is immutable and safe for concurrent use.
type Param struct {
	Name     string
	Source   ParamType
	Type     ValueType
	Required bool

	defaultValue any
	hasDefault   bool
	defaultFn    func() any
	rules        CompositeRule
}

// ParamOption configures a Param during construction.
type ParamOption func(*Param)

// Required marks the parameter as mandatory. A required parameter may not
// carry a default.
func Required() ParamOption {
	return func(p *Param) { p.Required = true }
}

// WithDefault sets a literal default used when the parameter is absent.
func WithDefault(value any) ParamOption {
	return func(p *Param) {
		p.defaultValue = value
		p.hasDefault = true
	}
}

// WithDefaultFunc sets a producer invoked lazily when the parameter is
// absent. The producer runs once per resolution, never at definition
// time.
func WithDefaultFunc(fn func() any) ParamOption {
	return func(p *Param) { p.defaultFn = fn }
}

// WithRules attaches validation rules, evaluated in order after
// conversion succeeds.
func WithRules(rules ...Rule) ParamOption {
	return func(p *Param) { p.rules = NewCompositeRule(rules...) }
}

// NewParam builds a flat parameter declaration. Malformed definitions
// (an unknown source, an unsupported target type, a required parameter
// with a default, two competing defaults) fail immediately with
// WrongUsageError rather than at request time.
func NewParam(name string, source ParamType, valueType ValueType, opts ...ParamOption) (*Param, error) {
	p := &Param{
		Name:   name,
		Source: source,
		Type:   valueType,
	}
	for _, opt := range opts {
		opt(p)
	}

	if !validParamType(source) {
		return nil, WrongUsageError{Reason: fmt.Sprintf("unknown param type %q", source)}
	}
	if !validValueType(valueType) {
		return nil, WrongUsageError{Reason: fmt.Sprintf("unknown value type %q", valueType)}
	}
	if p.Required && (p.hasDefault || p.defaultFn != nil) {
		return nil, WrongUsageError{Reason: "a required param cannot have a default value"}
	}
	if p.hasDefault && p.defaultFn != nil {
		return nil, WrongUsageError{Reason: "param has both a default value and a default producer"}
	}
	return p, nil
}

// MustParam is like NewParam but panics on a malformed definition.
// Intended for package-level schema declarations.
func MustParam(name string, source ParamType, valueType ValueType, opts ...ParamOption) *Param {
	p, err := NewParam(name, source, valueType, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve converts and validates one raw request value. present is false
// when the source carried no value for the parameter at all.
//
// Absent values resolve to the default (the producer is invoked lazily)
// without rule evaluation, or fail with RequiredValueError. Present
// values are converted first, where a conversion failure short-circuits
// the parameter with TypeConversionError, then run through the rule
// chain, whose failures are wrapped in order as a RulesError.
func (p *Param) Resolve(raw string, present bool) (any, error) {
	if !present {
		if p.Required {
			return nil, RequiredValueError{}
		}
		if p.defaultFn != nil {
			return p.defaultFn(), nil
		}
		return p.defaultValue, nil
	}

	value, err := Coerce(raw, p.Type)
	if err != nil {
		return nil, err
	}

	value, failures := p.rules.Validate(value)
	if len(failures) > 0 {
		return value, RulesError{Errors: failures}
	}
	return value, nil
}
