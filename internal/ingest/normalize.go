package ingest

// NormalizeVector coerces the raw embedding value of a backend into a flat
// vector, or rejects it. The accepted shapes are a fixed set:
//
//  1. a map carrying the vector under "embedding" or "vector"
//  2. a singleton list wrapping the vector one level deep
//  3. a list of lists: the first inner list matching expectedDim wins, then
//     the first all-numeric inner list, then a one-level flatten as a last
//     resort
//  4. a flat list of numbers
//
// When expectedDim is positive, a vector of any other length is rejected.
// The second return value reports acceptance; rejection never panics.
func NormalizeVector(raw interface{}, expectedDim int) ([]float32, bool) {
	if raw == nil {
		return nil, false
	}
	if m, ok := raw.(map[string]interface{}); ok {
		if v, ok := m["embedding"]; ok {
			raw = v
		} else if v, ok := m["vector"]; ok {
			raw = v
		} else {
			return nil, false
		}
	}
	list, ok := toList(raw)
	if !ok {
		return nil, false
	}
	if len(list) == 1 {
		if inner, ok := toList(list[0]); ok {
			list = inner
		}
	}
	if containsList(list) {
		if expectedDim > 0 {
			for _, el := range list {
				inner, ok := toList(el)
				if !ok || len(inner) != expectedDim {
					continue
				}
				if _, numeric := toNumbers(inner); numeric {
					list = inner
					break
				}
			}
		}
		if containsList(list) {
			for _, el := range list {
				inner, ok := toList(el)
				if !ok {
					continue
				}
				if _, numeric := toNumbers(inner); numeric {
					list = inner
					break
				}
			}
		}
		if containsList(list) {
			flat := make([]interface{}, 0, len(list))
			for _, el := range list {
				if inner, ok := toList(el); ok {
					flat = append(flat, inner...)
				} else {
					flat = append(flat, el)
				}
			}
			list = flat
		}
	}
	vec, ok := toNumbers(list)
	if !ok || len(vec) == 0 {
		return nil, false
	}
	if expectedDim > 0 && len(vec) != expectedDim {
		return nil, false
	}
	return vec, true
}

func toList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []float32:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case [][]float32:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case [][]float64:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}

func containsList(list []interface{}) bool {
	for _, el := range list {
		if _, ok := toList(el); ok {
			return true
		}
	}
	return false
}

func toNumbers(list []interface{}) ([]float32, bool) {
	out := make([]float32, 0, len(list))
	for _, el := range list {
		switch x := el.(type) {
		case float64:
			out = append(out, float32(x))
		case float32:
			out = append(out, x)
		case int:
			out = append(out, float32(x))
		case int64:
			out = append(out, float32(x))
		default:
			return nil, false
		}
	}
	return out, true
}
