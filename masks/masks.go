package masks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Token is the literal written over masked values. It is stored as-is, so
// redaction is irreversible.
const Token = "*****"

// Default key sets for the three masking policies. Matching is exact:
// header keys are expected in canonical MIME form, body/response keys in
// the casing clients actually send.
var (
	DefaultHeaderKeys = []string{
		"Cookie",
		"X-Csrftoken",
		"Authorization",
	}

	DefaultBodyKeys = []string{
		"password",
		"password1",
		"password2",
		"old_password",
		"new_password1",
		"new_password2",
		"token",
		"uid",
		"key",
		"otp",
		"secret",
		"csrfmiddlewaretoken",
	}

	DefaultResponseKeys = []string{
		"token",
		"key",
		"otp",
		"secret",
	}
)

// KeySet is the set of map keys whose values get replaced by Token.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from a list of keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is a sensitive key.
func (s KeySet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Value is a tagged variant over the shapes that survive JSON decoding:
// Map, Seq, String, Number, Bool, or nil for JSON null. Anything else is
// normalized to String on construction (a deliberate lossy conversion).
type Value interface {
	isValue()
}

// Map is an object with string keys.
type Map map[string]Value

// Seq is an ordered sequence.
type Seq []Value

// String, Number and Bool are the scalar kinds.
type (
	String string
	Number float64
	Bool   bool
)

func (Map) isValue()    {}
func (Seq) isValue()    {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}

// FromAny converts decoded JSON (or hand-built structures) into a Value.
// Unrecognized scalar kinds are stringified via fmt.Sprint; this loses the
// original type but guarantees the result is representable and maskable.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case Value:
		return t
	case map[string]any:
		m := make(Map, len(t))
		for k, elem := range t {
			m[k] = FromAny(elem)
		}
		return m
	case []any:
		s := make(Seq, 0, len(t))
		for _, elem := range t {
			s = append(s, FromAny(elem))
		}
		return s
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case uint:
		return Number(t)
	default:
		return String(fmt.Sprint(t))
	}
}

// FromJSON decodes raw JSON into a Value.
func FromJSON(data []byte) (Value, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return FromAny(v), nil
}

// FromStringMap converts a flat string map (e.g. query parameters).
func FromStringMap(m map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = String(v)
	}
	return out
}

// FromHeaderMap converts an HTTP header map. Multi-valued headers are
// joined with ", " so every header value stays a scalar and remains
// maskable by key.
func FromHeaderMap(h map[string][]string) Map {
	out := make(Map, len(h))
	for k, vs := range h {
		out[k] = String(strings.Join(vs, ", "))
	}
	return out
}

// Mask returns a copy of v with every map value whose key is in keys
// replaced by Token. Nested maps and sequences are visited recursively.
// Sequence elements carry no key and pass through unless they are
// themselves maps or sequences. Mask is pure and idempotent.
func Mask(v Value, keys KeySet) Value {
	switch t := v.(type) {
	case Map:
		out := make(Map, len(t))
		for k, elem := range t {
			switch elem.(type) {
			case Map, Seq:
				out[k] = Mask(elem, keys)
			default:
				if keys.Has(k) {
					out[k] = String(Token)
				} else {
					out[k] = elem
				}
			}
		}
		return out
	case Seq:
		out := make(Seq, 0, len(t))
		for _, elem := range t {
			switch elem.(type) {
			case Map, Seq:
				out = append(out, Mask(elem, keys))
			default:
				out = append(out, elem)
			}
		}
		return out
	default:
		return v
	}
}

// ToJSON encodes a Value back to JSON bytes.
func ToJSON(v Value) ([]byte, error) {
	return json.Marshal(v)
}
