package traces

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

const circular = "[Circular]"

// deepCopy returns a JSON shaped copy sharing nothing with v. Cycles and values
// JSON cannot express are replaced by strings.
func deepCopy(v any) any {
	c := &copier{
		seen: make(map[uintptr]bool),
	}
	return c.copy(v)
}

type copier struct {
	// containers on the current path
	seen map[uintptr]bool
}

func (c *copier) enter(ptr uintptr) bool {
	if ptr == 0 {
		return true
	}
	if c.seen[ptr] {
		return false
	}
	c.seen[ptr] = true
	return true
}

func (c *copier) leave(ptr uintptr) {
	delete(c.seen, ptr)
}

func (c *copier) copy(v any) any {
	switch v := v.(type) {

	case nil, bool, string, int64, int, json.Number:
		return v

	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprint(v)
		}
		return v

	case []any:
		ptr := reflect.ValueOf(v).Pointer()
		if !c.enter(ptr) {
			return circular
		}
		defer c.leave(ptr)
		ret := make([]any, len(v))
		for i, elem := range v {
			ret[i] = c.copy(elem)
		}
		return ret

	case map[string]any:
		ptr := reflect.ValueOf(v).Pointer()
		if !c.enter(ptr) {
			return circular
		}
		defer c.leave(ptr)
		ret := make(map[string]any, len(v))
		for key, elem := range v {
			ret[key] = c.copy(elem)
		}
		return ret

	}

	return fmt.Sprint(v)
}

// canonical is the serialization used for change detection. Map keys are sorted,
// list order is significant.
func canonical(state map[string]any) string {
	bs, err := json.Marshal(state)
	if err != nil {
		return fmt.Sprint(state)
	}
	return string(bs)
}

// render formats a test result for the frame context.
func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	bs, err := json.Marshal(deepCopy(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bs)
}
