package reqval

// CompositeRule evaluates an ordered set of rules against one value
// without short-circuiting: every rule runs and every failure is
// collected, in insertion order. The normalized value produced by a
// passing rule is threaded into the next one.
type CompositeRule struct {
	rules []Rule
}

// NewCompositeRule builds a composite from the given rules. The composite
// is immutable and safe for concurrent reuse across validations.
func NewCompositeRule(rules ...Rule) CompositeRule {
	return CompositeRule{rules: rules}
}

// Rules returns the contained rules in evaluation order.
func (c CompositeRule) Rules() []Rule {
	return c.rules
}

// Validate applies every rule to the value and returns the normalized
// value together with all failures. An empty slice means the value is
// valid.
func (c CompositeRule) Validate(value any) (any, []error) {
	var failures []error
	for _, rule := range c.rules {
		next, err := rule.Validate(value)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		value = next
	}
	return value, failures
}
