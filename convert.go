package reqval

import (
	"strconv"
	"strings"
)

// ValueType names the target type a raw request string is converted to.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeBool   ValueType = "bool"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeList   ValueType = "list"
	TypeDict   ValueType = "dict"
	// TypeObject passes the raw string through without conversion, for
	// parameters the caller interprets itself.
	TypeObject ValueType = "object"
)

func validValueType(t ValueType) bool {
	switch t {
	case TypeString, TypeBool, TypeInt, TypeFloat, TypeList, TypeDict, TypeObject:
		return true
	}
	return false
}

// Coerce converts a raw request string into the target type. Failures are
// reported as TypeConversionError; TypeString and TypeObject cannot fail.
//
// List values are comma-separated with surrounding whitespace trimmed
// ("a, b" => ["a" "b"]); an empty raw string yields an empty list. Dict
// values are comma-separated "key: value" entries split on the first
// colon ("country: Belarus, capital: Minsk").
func Coerce(raw string, t ValueType) (any, error) {
	switch t {
	case TypeString, TypeObject:
		return raw, nil

	case TypeBool:
		switch strings.ToLower(raw) {
		case "1", "true":
			return true, nil
		case "0", "false":
			return false, nil
		}
		return nil, TypeConversionError{Value: raw, Type: t}

	case TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, TypeConversionError{Value: raw, Type: t}
		}
		return n, nil

	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, TypeConversionError{Value: raw, Type: t}
		}
		return f, nil

	case TypeList:
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		list := make([]string, len(parts))
		for i, part := range parts {
			list[i] = strings.TrimSpace(part)
		}
		return list, nil

	case TypeDict:
		dict := make(map[string]string)
		for entry := range strings.SplitSeq(raw, ",") {
			key, value, found := strings.Cut(entry, ":")
			if !found {
				return nil, TypeConversionError{Value: raw, Type: t}
			}
			dict[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		return dict, nil
	}

	return nil, TypeConversionError{Value: raw, Type: t}
}
