package reqval

import (
	"reflect"
	"strconv"
)

// maxNestingDepth bounds recursive descent into a structured body so that
// adversarially deep input cannot exhaust the call stack. Levels beyond
// the cap yield a MaxDepthError instead of being validated.
const maxNestingDepth = 128

type nodeKind int

const (
	leafNode nodeKind = iota
	objectNode
)

// JsonField pairs a key with its child schema inside an object node.
// Field order is declaration order, which is also reporting order.
type JsonField struct {
	Key   string
	Param *JsonParam
}

// Key declares one object field.
func Key(name string, param *JsonParam) JsonField {
	return JsonField{Key: name, Param: param}
}

// JsonParam is one node of a structured-body schema: either an object
// with named children, or a rule leaf, either of which may be declared as
// a list whose every element matches the node's item shape. Schemas are
// composed at definition time, immutable afterwards, and one instance
// safely validates many concurrent requests.
type JsonParam struct {
	kind     nodeKind
	asList   bool
	required bool
	rules    CompositeRule
	fields   []JsonField
}

// JsonObject declares an object node with the given fields, required by
// default.
func JsonObject(fields ...JsonField) *JsonParam {
	return &JsonParam{kind: objectNode, required: true, fields: fields}
}

// JsonList declares a list node whose every element is an object matching
// the given fields, required by default.
func JsonList(fields ...JsonField) *JsonParam {
	return &JsonParam{kind: objectNode, required: true, asList: true, fields: fields}
}

// JsonLeaf declares a scalar leaf validated by the given rules. A leaf
// field that is absent from the input is skipped, so leaves are optional
// unless Require is chained.
func JsonLeaf(rules ...Rule) *JsonParam {
	return &JsonParam{kind: leafNode, rules: NewCompositeRule(rules...)}
}

// JsonScalarList declares a list node whose every element is a scalar
// validated by the given rules, required by default.
func JsonScalarList(rules ...Rule) *JsonParam {
	return &JsonParam{kind: leafNode, required: true, asList: true, rules: NewCompositeRule(rules...)}
}

// Optional marks the node as skippable when its key is absent. For use
// while composing the schema, before any Validate call.
func (p *JsonParam) Optional() *JsonParam {
	p.required = false
	return p
}

// Require marks the node as mandatory.
func (p *JsonParam) Require() *JsonParam {
	p.required = true
	return p
}

// Validate walks the input against the schema and returns the cleaned
// value together with every failure found, one JsonError per structural
// level that contains at least one.
//
// Validation is exhaustive: every declared sibling and every rule in a
// chain is evaluated. The cleaned value mirrors the input shape; leaves
// that passed carry their normalized values while failing leaves keep the
// original raw value, so callers must consult the error list rather than
// infer validity from the cleaned tree. The only descent that stops early
// is below a container whose shape already mismatched.
func (p *JsonParam) Validate(data any) (any, []JsonError) {
	return p.validate(data, []string{"root"}, nil)
}

func (p *JsonParam) validate(value any, depth []string, errs []JsonError) (any, []JsonError) {
	if len(depth) > maxNestingDepth {
		return value, append(errs, JsonError{Depth: depth, Shape: MaxDepthError{}})
	}

	if p.asList {
		return p.validateList(value, depth, errs)
	}

	if p.kind == leafNode {
		// A leaf validated directly, outside any enclosing object.
		newVal, failures := p.rules.Validate(value)
		if len(failures) > 0 {
			key := depth[len(depth)-1]
			errs = append(errs, JsonError{Depth: depth, Errors: map[string]error{key: RulesError{Errors: failures}}})
			return value, errs
		}
		return newVal, errs
	}

	obj, ok := asObject(value)
	if !ok {
		return value, append(errs, JsonError{Depth: depth, Shape: JsonDictExpectedError{}})
	}

	cleaned, errs, keyErrs := p.validateObject(obj, depth, errs)
	if len(keyErrs) > 0 {
		errs = append(errs, JsonError{Depth: depth, Errors: keyErrs})
	}
	return cleaned, errs
}

// validateList checks every element of a list node against the node's
// item shape. The list's own path stays the level path: element indexes
// appear only as keys inside the level's error map, never as path
// segments of deeper errors.
func (p *JsonParam) validateList(value any, depth []string, errs []JsonError) (any, []JsonError) {
	list, ok := asList(value)
	if !ok {
		return value, append(errs, JsonError{Depth: depth, Shape: JsonListExpectedError{}})
	}

	cleaned := make([]any, len(list))
	levelErrs := make(map[string]error)

	for ix, item := range list {
		cleaned[ix] = item
		key := strconv.Itoa(ix)

		if p.kind == objectNode {
			obj, ok := asObject(item)
			if !ok {
				levelErrs[key] = JsonListItemTypeError{OnlyDict: true}
				continue
			}
			newVal, deeper, keyErrs := p.validateObject(obj, depth, errs)
			errs = deeper
			if len(keyErrs) > 0 {
				levelErrs[key] = KeyErrors(keyErrs)
			}
			cleaned[ix] = newVal
			continue
		}

		// Scalar items; nil elements are skipped.
		if item == nil {
			continue
		}
		if !isScalar(item) {
			levelErrs[key] = JsonListItemTypeError{OnlyDict: false}
			continue
		}
		newVal, failures := p.rules.Validate(item)
		if len(failures) > 0 {
			levelErrs[key] = RulesError{Errors: failures}
			continue
		}
		cleaned[ix] = newVal
	}

	if len(levelErrs) > 0 {
		errs = append(errs, JsonError{Depth: depth, Errors: levelErrs})
	}
	return cleaned, errs
}

// validateObject walks the declared fields of one object level. Leaf
// failures and missing required keys are returned as this level's key
// errors; node children recurse with the key pushed onto the path and
// their errors appended to the overall list, keeping one JsonError per
// level. Input keys not declared in the schema pass through untouched.
func (p *JsonParam) validateObject(obj map[string]any, depth []string, errs []JsonError) (map[string]any, []JsonError, map[string]error) {
	keyErrs := make(map[string]error)
	cleaned := make(map[string]any, len(obj))
	for k, v := range obj {
		cleaned[k] = v
	}

	for _, field := range p.fields {
		child := field.Param
		value, present := obj[field.Key]
		if !present {
			if child.required {
				keyErrs[field.Key] = RequiredJsonKeyError{Key: field.Key}
			}
			continue
		}

		if child.kind == leafNode && !child.asList {
			newVal, failures := child.rules.Validate(value)
			if len(failures) > 0 {
				keyErrs[field.Key] = RulesError{Errors: failures}
				continue
			}
			cleaned[field.Key] = newVal
			continue
		}

		childDepth := make([]string, len(depth)+1)
		copy(childDepth, depth)
		childDepth[len(depth)] = field.Key

		newVal, deeper := child.validate(value, childDepth, errs)
		errs = deeper
		cleaned[field.Key] = newVal
	}

	return cleaned, errs, keyErrs
}

// asObject accepts JSON-shaped objects: map[string]any directly, other
// string-keyed maps via reflection.
func asObject(v any) (map[string]any, bool) {
	if obj, ok := v.(map[string]any); ok {
		return obj, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	for _, k := range rv.MapKeys() {
		obj[k.String()] = rv.MapIndex(k).Interface()
	}
	return obj, true
}

// asList accepts []any directly, other slices and arrays via reflection.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := numericValue(v)
	return ok
}
