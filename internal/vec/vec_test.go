package vec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestDirections_RightHanded(t *testing.T) {
	// X × Y = Z
	assert.Equal(t, Forward, vec3.Cross(&Right, &Up))
	assert.Equal(t, Up, vec3.Cross(&Forward, &Right))
}

func TestVec2_ToWorld(t *testing.T) {
	cell := Vec2{X: 2, Y: 1}
	assert.Equal(t, vec3.T{2, 3, 1}, cell.ToWorld(3))
}

func TestVec3Float_Conversion(t *testing.T) {
	p := Vec3Float{X: 1.5, Y: -2, Z: 7}
	assert.Equal(t, vec3.T{1.5, -2, 7}, p.T())
	assert.Equal(t, p, FromT(p.T()))

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1.5,"y":-2,"z":7}`, string(data))
}
