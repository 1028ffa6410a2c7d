package assets

import (
	"testing"

	"github.com/annel0/buildgen/internal/config"
	"github.com/annel0/buildgen/internal/opening"
	"github.com/annel0/buildgen/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestFromConfig(t *testing.T) {
	c := FromConfig(config.Default().Assets)

	pools := c.Pools()
	assert.Equal(t, []string{"door_wood"}, pools.Doors)
	assert.Equal(t, []string{"window_square", "window_arched"}, pools.Windows)

	a, ok := c.Get("window_arched")
	require.True(t, ok)
	assert.Equal(t, opening.Window, a.Kind)

	b, err := c.ResolveAssetBounds("door_wood")
	require.NoError(t, err)
	assert.Equal(t, opening.Bounds{Height: 0.9, Depth: 0.1}, b)
}

func TestResolveAssetBounds_Missing(t *testing.T) {
	c := NewCatalog(
		[]Asset{{ID: "flat_door", Bounds: opening.Bounds{Height: 1}}},
		nil,
	)

	_, err := c.ResolveAssetBounds("flat_door")
	assert.ErrorIs(t, err, ErrMissingBounds)

	_, err = c.ResolveAssetBounds("ghost")
	assert.ErrorIs(t, err, ErrMissingBounds)
}

func TestResolveAssetBounds_SameRuleAsPlacer(t *testing.T) {
	c := NewCatalog(nil, []Asset{
		{ID: "flat", Bounds: opening.Bounds{Height: 1, Depth: 0}},
		{ID: "ok", Bounds: opening.Bounds{Height: 1, Depth: 0.1}},
	})

	for _, id := range []string{"flat", "ok"} {
		a, _ := c.Get(id)
		_, err := c.ResolveAssetBounds(id)
		assert.Equal(t, a.Bounds.Valid(), err == nil, id)
	}

	// Каталог как резолвер: плоский ассет пропускается размещателем
	p := opening.NewPlacer(opening.Pools{Windows: []string{"flat"}}, c)
	_, err := p.Place(opening.SlotKey{}, vec3.Zero, rng.NewScripted([]float64{0.5}, []int{0}), opening.SlotSet{})
	assert.ErrorIs(t, err, opening.ErrAssetBounds)
	assert.ErrorIs(t, err, ErrMissingBounds)
}

func TestPools_Copy(t *testing.T) {
	c := NewCatalog([]Asset{{ID: "d"}}, nil)
	pools := c.Pools()
	pools.Doors[0] = "changed"
	assert.Equal(t, []string{"d"}, c.Pools().Doors)
}
