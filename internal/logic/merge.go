package logic

import "strings"

// Merge folds src into dst and returns the result. Mappings merge key by
// key, lists merge element-wise by index (the longer list keeps its tail)
// and scalars are overwritten by src. A nil src leaves dst untouched.
// Neither argument is modified.
func Merge(dst, src any) any {
	if src == nil {
		return dst
	}
	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return Merge(map[string]any{}, s)
		}
		out := make(map[string]any, len(d)+len(s))
		for k, v := range d {
			out[k] = v
		}
		for k, v := range s {
			out[k] = Merge(out[k], v)
		}
		return out

	case []any:
		d, ok := dst.([]any)
		if !ok {
			d = nil
		}
		n := len(d)
		if len(s) > n {
			n = len(s)
		}
		out := make([]any, n)
		for i := 0; i < n; i++ {
			var dv, sv any
			if i < len(d) {
				dv = d[i]
			}
			if i < len(s) {
				sv = s[i]
			}
			out[i] = Merge(dv, sv)
		}
		return out

	default:
		return src
	}
}

// prune keeps only the value found along segs. A segment ending in "[]"
// descends into every element of a list; elements without the value stay
// as nil so indexes line up when records are merged.
func prune(v any, segs []string) any {
	if len(segs) == 0 {
		return v
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	name, isList := strings.CutSuffix(segs[0], "[]")
	child, ok := m[name]
	if !ok {
		return nil
	}
	if !isList {
		sub := prune(child, segs[1:])
		if sub == nil {
			return nil
		}
		return map[string]any{name: sub}
	}
	list, ok := child.([]any)
	if !ok {
		return nil
	}
	out := make([]any, len(list))
	for i, item := range list {
		if len(segs) == 1 {
			out[i] = item
			continue
		}
		out[i] = prune(item, segs[1:])
	}
	return map[string]any{name: out}
}
