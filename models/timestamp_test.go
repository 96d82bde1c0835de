package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeNormalizesAllStoredShapes(t *testing.T) {
	// One logical instant in the three historical storage shapes.
	shapes := map[string]string{
		"native string":  `"2024-05-01T10:00:00Z"`,
		"epoch seconds":  `{"seconds": 1714557600}`,
		"raw number":     `1714557600`,
		"epoch _seconds": `{"_seconds": 1714557600}`,
	}

	for name, raw := range shapes {
		t.Run(name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(raw), &ft))
			assert.Equal(t, "2024-05-01T10:00:00Z", ft.ISOString())

			out, err := json.Marshal(ft)
			require.NoError(t, err)
			assert.Equal(t, `"2024-05-01T10:00:00Z"`, string(out))
		})
	}
}

func TestFlexTimeEpochMilliseconds(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`1714557600000`), &ft))
	assert.Equal(t, "2024-05-01T10:00:00Z", ft.ISOString())
}

func TestFlexTimeNull(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &ft))
	assert.True(t, ft.IsZero())

	out, err := json.Marshal(ft)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestFlexTimeNative(t *testing.T) {
	instant := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ft := NewFlexTime(instant)

	resolved, ok := ft.Time()
	require.True(t, ok)
	assert.True(t, resolved.Equal(instant))
	assert.Equal(t, "2024-05-01T10:00:00Z", ft.ISOString())
}

func TestFlexTimeScanRoundTrip(t *testing.T) {
	ft := NewFlexTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	value, err := ft.Value()
	require.NoError(t, err)

	var scanned FlexTime
	require.NoError(t, scanned.Scan([]byte(value.(string))))
	assert.Equal(t, "2024-05-01T10:00:00Z", scanned.ISOString())
}

func TestFlexTimeUnparseableRaw(t *testing.T) {
	var ft FlexTime
	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &ft))
	assert.Equal(t, "", ft.ISOString())
}

func TestFlexIDAcceptsStringAndNumber(t *testing.T) {
	var id FlexID
	require.NoError(t, json.Unmarshal([]byte(`"TX1"`), &id))
	assert.Equal(t, "TX1", id.String())

	require.NoError(t, json.Unmarshal([]byte(`8412745`), &id))
	assert.Equal(t, "8412745", id.String())
}
