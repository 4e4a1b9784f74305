// internal/domain/common/size.go
package common

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Size is a shoe size. Stored documents carry sizes either as numbers (42)
// or strings ("42.5", "M"), so the canonical form is the trimmed string.
type Size string

func (s Size) String() string { return string(s) }

func (s Size) IsZero() bool { return strings.TrimSpace(string(s)) == "" }

// Normalize trims the size and drops a trailing ".0" produced by float encoders.
func (s Size) Normalize() Size {
	v := strings.TrimSpace(string(s))
	if strings.HasSuffix(v, ".0") {
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			v = strings.TrimSuffix(v, ".0")
		}
	}
	return Size(v)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (s *Size) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Size(str).Normalize()
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = Size(n.String()).Normalize()
	return nil
}

// SizeFromAny converts a stored value (string, int64, float64, ...) into a Size.
func SizeFromAny(v any) Size {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Size(t).Normalize()
	case int:
		return Size(strconv.Itoa(t))
	case int64:
		return Size(strconv.FormatInt(t, 10))
	case float64:
		return Size(strconv.FormatFloat(t, 'f', -1, 64)).Normalize()
	case json.Number:
		return Size(t.String()).Normalize()
	default:
		return ""
	}
}
