// Package flexbool normalizes legacy flag columns at the model boundary.
// The imported catalog data stores booleans inconsistently (real booleans,
// 0/1 integers, "true"/"1" strings); a flexbool.Bool column tolerates all of
// them on the way in and always writes a real boolean on the way out, so
// everything above the repositories only ever sees Go bools.
package flexbool

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type Bool bool

func (b Bool) Bool() bool { return bool(b) }

func (b Bool) Value() (driver.Value, error) { return bool(b), nil }

func (b *Bool) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*b = false
	case bool:
		*b = Bool(v)
	case int64:
		*b = v != 0
	case float64:
		*b = v != 0
	case []byte:
		return b.parse(string(v))
	case string:
		return b.parse(v)
	default:
		return fmt.Errorf("flexbool: cannot scan %T", src)
	}
	return nil
}

func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return b.parse(s)
	}
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
	case bytes.Equal(data, []byte("false")):
		*b = false
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("flexbool: cannot unmarshal %q", data)
		}
		*b = n != 0
	}
	return nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func (b *Bool) parse(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "f", "no", "off", "null":
		*b = false
	case "1", "true", "t", "yes", "on":
		*b = true
	default:
		return fmt.Errorf("flexbool: cannot parse %q", s)
	}
	return nil
}
