package feed

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// tree mirrors the JSON value stored under the subscribed path so that
// partial put/patch events can be turned back into full snapshots.
type tree struct {
	root any
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// put replaces the node at path; a nil value deletes it.
func (t *tree) put(path string, value any) {
	t.root = setNode(t.root, splitPath(path), value)
}

// patch merges the children of value into the node at path.
func (t *tree) patch(path string, value map[string]any) {
	base := splitPath(path)
	for k, v := range value {
		t.root = setNode(t.root, append(append([]string{}, base...), splitPath(k)...), v)
	}
}

func setNode(node any, segs []string, value any) any {
	if len(segs) == 0 {
		if isEmptyNode(value) {
			return nil
		}
		return value
	}

	m := asObject(node)
	if m == nil {
		m = make(map[string]any)
	}

	child := setNode(m[segs[0]], segs[1:], value)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}

	if len(m) == 0 {
		return nil
	}
	return m
}

func isEmptyNode(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(n) == 0
	case []any:
		return len(n) == 0
	}
	return false
}

// asObject returns v as an object. Arrays are keyed by index, the way the
// realtime database serves children with numeric keys.
func asObject(v any) map[string]any {
	switch n := v.(type) {
	case map[string]any:
		return n
	case []any:
		m := make(map[string]any, len(n))
		for i, e := range n {
			if e != nil {
				m[strconv.Itoa(i)] = e
			}
		}
		return m
	}
	return nil
}

func (t *tree) snapshot() Snapshot {
	m := asObject(t.root)
	if len(m) == 0 {
		if t.root != nil {
			slog.Warn("feed value is not an object, treating as empty", "value", t.root)
		}
		return nil
	}

	snap := make(Snapshot, len(m))
	for k, v := range m {
		raw, err := json.Marshal(v)
		if err != nil {
			slog.Warn("dropping unencodable feed child", "id", k, "error", err)
			continue
		}
		snap[k] = raw
	}
	return snap
}
