package sandboxes

import (
	"math"

	"github.com/reusee/tutor/events"
	"go.starlark.net/starlark"
)

const maxSnapshotDepth = 64

// snapshot converts a Starlark value to a JSON shaped Go value at record time.
// Later mutation of the Starlark value does not affect the snapshot.
func snapshot(v starlark.Value) events.Value {
	s := &snapshotter{
		seen: make(map[starlark.Value]bool),
	}
	return s.value(v, 0)
}

func snapshotBindings(kwargs []starlark.Tuple) events.Bindings {
	ret := make(events.Bindings, len(kwargs))
	for _, kv := range kwargs {
		name, ok := starlark.AsString(kv[0])
		if !ok {
			continue
		}
		ret[name] = snapshot(kv[1])
	}
	return ret
}

type snapshotter struct {
	// containers on the current path
	seen map[starlark.Value]bool
}

func (s *snapshotter) enter(v starlark.Value) bool {
	if s.seen[v] {
		return false
	}
	s.seen[v] = true
	return true
}

func (s *snapshotter) leave(v starlark.Value) {
	delete(s.seen, v)
}

func (s *snapshotter) value(v starlark.Value, depth int) events.Value {
	if depth > maxSnapshotDepth {
		return "[...]"
	}

	switch v := v.(type) {

	case nil, starlark.NoneType:
		return nil

	case starlark.Bool:
		return bool(v)

	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()

	case starlark.Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}
		return f

	case starlark.String:
		return string(v)

	case starlark.Bytes:
		return string(v)

	case starlark.Tuple:
		ret := make([]any, 0, len(v))
		for _, elem := range v {
			ret = append(ret, s.value(elem, depth+1))
		}
		return ret

	case *starlark.List:
		if !s.enter(v) {
			return circular
		}
		defer s.leave(v)
		ret := make([]any, 0, v.Len())
		for i := range v.Len() {
			ret = append(ret, s.value(v.Index(i), depth+1))
		}
		return ret

	case *starlark.Set:
		if !s.enter(v) {
			return circular
		}
		defer s.leave(v)
		ret := make([]any, 0, v.Len())
		iter := v.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			ret = append(ret, s.value(elem, depth+1))
		}
		return ret

	case *starlark.Dict:
		if !s.enter(v) {
			return circular
		}
		defer s.leave(v)
		ret := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				key = item[0].String()
			}
			ret[key] = s.value(item[1], depth+1)
		}
		return ret

	}

	// functions, builtins and other opaque values
	return v.String()
}

const circular = "[Circular]"
