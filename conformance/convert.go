package conformance

import "atrium/types"

// toValueMap converts a YAML-decoded properties map into the Value map
// instance/default properties are stored as, grounded on the teacher's
// runner.go convertYAMLValue but narrowed to the scalar/list/doc shapes
// fixtures actually need.
func toValueMap(m map[string]any) map[string]types.Value {
	out := make(map[string]types.Value, len(m))
	for k, v := range m {
		out[k] = toValue(v)
	}
	return out
}

func toValue(v any) types.Value {
	switch val := v.(type) {
	case nil:
		return types.Null{}
	case bool:
		return types.Bool(val)
	case int:
		return types.Int(int64(val))
	case int64:
		return types.Int(val)
	case float64:
		return types.Float(val)
	case string:
		return types.String(val)
	case []any:
		list := make(types.List, len(val))
		for i, elem := range val {
			list[i] = toValue(elem)
		}
		return list
	case map[string]any:
		return types.Doc(toValueMap(val))
	default:
		return types.Null{}
	}
}

func boolValue(b bool) types.Value { return types.Bool(b) }
