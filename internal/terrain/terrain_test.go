package terrain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrounds_Ordered(t *testing.T) {
	for i, g := range Grounds {
		assert.True(t, g.Valid())
		assert.Equal(t, i, g.Index())
	}
	assert.False(t, GroundNone.Valid())
	assert.Panics(t, func() { GroundNone.Index() })
}

func TestGround_TextKeys(t *testing.T) {
	in := map[Ground]float64{GroundDesert: 0.5, GroundTundra: 2}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"desert":0.5,"tundra":2}`, string(b))

	var out map[Ground]float64
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	assert.Error(t, json.Unmarshal([]byte(`{"lava":1}`), &out))
}

func TestGround_Codes(t *testing.T) {
	seen := make(map[byte]Ground)
	for _, g := range Grounds {
		c := g.Code()
		prev, dup := seen[c]
		assert.False(t, dup, "%s and %s share code %c", g, prev, c)
		seen[c] = g
	}
}
