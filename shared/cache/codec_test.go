package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seatMap struct {
	FlightID string   `json:"flight_id"`
	Taken    []string `json:"taken"`
}

func TestEncodeDecode(t *testing.T) {
	raw, err := encode(seatMap{FlightID: "fl-1", Taken: []string{"1A", "12C"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"flight_id":"fl-1","taken":["1A","12C"]}`, string(raw))

	var got seatMap
	require.NoError(t, decode(raw, &got))
	assert.Equal(t, seatMap{FlightID: "fl-1", Taken: []string{"1A", "12C"}}, got)
}

func TestEncodeDecode_RawString(t *testing.T) {
	raw, err := encode("3")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), raw)

	var got string
	require.NoError(t, decode(raw, &got))
	assert.Equal(t, "3", got)
}

func TestEncodeDecode_Errors(t *testing.T) {
	_, err := encode(make(chan int))
	assert.Error(t, err)

	var target seatMap
	assert.Error(t, decode([]byte("{broken"), &target))
}
