package debugs

import (
	"fmt"
	"math"
	"slices"

	"go.starlark.net/starlark"
)

// toStarlarkValue converts a recorded value back into a Starlark value. Lists and
// dicts are fresh, mutating them in the REPL does not touch the frame.
func toStarlarkValue(v any) starlark.Value {
	switch v := v.(type) {

	case nil:
		return starlark.None

	case bool:
		return starlark.Bool(v)

	case string:
		return starlark.String(v)

	case int:
		return starlark.MakeInt(v)
	case int64:
		return starlark.MakeInt64(v)
	case uint64:
		return starlark.MakeUint64(v)

	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			// JSON numbers decode as float64
			return starlark.MakeInt64(int64(v))
		}
		return starlark.Float(v)

	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			elems[i] = toStarlarkValue(e)
		}
		return starlark.NewList(elems)

	case map[string]any:
		d := starlark.NewDict(len(v))
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			_ = d.SetKey(starlark.String(k), toStarlarkValue(v[k]))
		}
		return d

	}

	return starlark.String(fmt.Sprint(v))
}
