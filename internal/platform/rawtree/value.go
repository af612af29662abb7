package rawtree

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Kind tags the shape of one node in a decoded provider graph.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindMap
	KindSeq
)

// Value wraps a single node of a decoded object graph. Provider payloads are
// not contractually stable, so callers pattern-match on Kind and coerce
// explicitly instead of asserting concrete types.
type Value struct {
	raw     any
	present bool
}

// Absent is the zero Value; every lookup on it stays absent.
var Absent = Value{}

func From(raw any) Value {
	return Value{raw: raw, present: true}
}

// Decode parses a JSON document into an untyped graph.
func Decode(data []byte) (Value, error) {
	var root any
	if err := sonic.Unmarshal(data, &root); err != nil {
		return Absent, err
	}
	return From(root), nil
}

func (v Value) Kind() Kind {
	if !v.present {
		return KindAbsent
	}
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, int, int64:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindMap
	case []any:
		return KindSeq
	default:
		return KindAbsent
	}
}

func (v Value) IsAbsent() bool {
	k := v.Kind()
	return k == KindAbsent || k == KindNull
}

// Key returns the value under name when v is a mapping, Absent otherwise.
func (v Value) Key(name string) Value {
	m, ok := v.raw.(map[string]any)
	if !ok || !v.present {
		return Absent
	}
	inner, ok := m[name]
	if !ok {
		return Absent
	}
	return From(inner)
}

// First returns the value under the first present key alias.
func (v Value) First(names ...string) Value {
	for _, name := range names {
		if got := v.Key(name); !got.IsAbsent() {
			return got
		}
	}
	return Absent
}

func (v Value) Index(i int) Value {
	s, ok := v.raw.([]any)
	if !ok || !v.present || i < 0 || i >= len(s) {
		return Absent
	}
	return From(s[i])
}

func (v Value) Len() int {
	switch node := v.raw.(type) {
	case []any:
		return len(node)
	case map[string]any:
		return len(node)
	default:
		return 0
	}
}

func (v Value) Map() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok && v.present
}

func (v Value) Seq() ([]any, bool) {
	s, ok := v.raw.([]any)
	return s, ok && v.present
}

func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok && v.present
}

// Float64 coerces numbers and numeric strings; everything else is not a number.
func (v Value) Float64() (float64, bool) {
	if !v.present {
		return 0, false
	}
	switch node := v.raw.(type) {
	case float64:
		return node, true
	case int:
		return float64(node), true
	case int64:
		return float64(node), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(node), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) Int64() (int64, bool) {
	f, ok := v.Float64()
	if !ok {
		return 0, false
	}
	i := int64(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok && v.present
}

// Text returns a trimmed string rendering for string and number nodes.
func (v Value) Text() string {
	switch node := v.raw.(type) {
	case string:
		return strings.TrimSpace(node)
	case float64:
		if node == float64(int64(node)) {
			return strconv.FormatInt(int64(node), 10)
		}
		return strconv.FormatFloat(node, 'f', -1, 64)
	default:
		return ""
	}
}
