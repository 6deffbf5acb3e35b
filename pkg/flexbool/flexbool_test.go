package flexbool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	truthy := []any{true, int64(1), int64(-3), float64(1), "1", "true", "T", " yes ", []byte("on")}
	falsy := []any{nil, false, int64(0), float64(0), "", "0", "false", "F", "off", []byte("no")}

	for _, v := range truthy {
		var b Bool
		require.NoError(t, b.Scan(v), "%v", v)
		require.True(t, b.Bool(), "%v", v)
	}
	for _, v := range falsy {
		var b Bool
		require.NoError(t, b.Scan(v), "%v", v)
		require.False(t, b.Bool(), "%v", v)
	}

	var b Bool
	require.Error(t, b.Scan("maybe"))
	require.Error(t, b.Scan(struct{}{}))
}

func TestUnmarshalJSON(t *testing.T) {
	var got struct {
		A Bool `json:"a"`
		B Bool `json:"b"`
		C Bool `json:"c"`
		D Bool `json:"d"`
		E Bool `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a":true,"b":"1","c":0,"d":null,"e":"FALSE"}`), &got)
	require.NoError(t, err)
	require.True(t, got.A.Bool())
	require.True(t, got.B.Bool())
	require.False(t, got.C.Bool())
	require.False(t, got.D.Bool())
	require.False(t, got.E.Bool())
}

func TestMarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Bool{"x": true, "y": false})
	require.NoError(t, err)
	require.JSONEq(t, `{"x":true,"y":false}`, string(out))
}
