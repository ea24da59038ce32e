package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeIDJSONAcceptsStringAndNumber(t *testing.T) {
	var fromString, fromNumber SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`"1790000000000000001"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))

	assert.Equal(t, SnowflakeID(1790000000000000001), fromString)
	assert.Equal(t, SnowflakeID(42), fromNumber)

	out, err := json.Marshal(fromString)
	require.NoError(t, err)
	assert.JSONEq(t, `"1790000000000000001"`, string(out))
}

func TestSnowflakeIDScan(t *testing.T) {
	var id SnowflakeID
	require.NoError(t, id.Scan(int64(7)))
	assert.Equal(t, SnowflakeID(7), id)

	require.NoError(t, id.Scan([]byte("8")))
	assert.Equal(t, SnowflakeID(8), id)

	assert.Error(t, id.Scan(3.5))
}
