package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/worldsmith/pkg/math"
)

func TestVectorFormatRoundTrip(t *testing.T) {
	vecs := []math.Vec3{
		{},
		{X: 1, Y: 2, Z: 3},
		{X: -0.1, Y: 1e-7, Z: 12345.678},
		{X: 0.33333334, Y: -2.5e10, Z: 7},
	}
	for _, v := range vecs {
		got, err := ParseVec3(FormatVec3(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	q := math.QuatFromEuler(math.Vec3{X: 0.3, Y: -1.2, Z: 2})
	got, err := ParseQuat(FormatQuat(q))
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestFormatVec3(t *testing.T) {
	assert.Equal(t, "1,2.5,-3", FormatVec3(math.Vec3{X: 1, Y: 2.5, Z: -3}))
	assert.Equal(t, "0,0,0,1", FormatQuat(math.QuatIdentity()))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"too few", "1,2"},
		{"too many", "1,2,3,4"},
		{"not a number", "1,x,3"},
		{"nan", "1,NaN,3"},
		{"inf", "1,2,+Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVec3(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestPlacementsCollectsAllErrors(t *testing.T) {
	doc := &Document{Nodes: []NodeRecord{
		{Name: "Tree", Position: "0,0,0", Rotation: "0,0,0,1", Scale: "1,1,1"},
		{Name: "Log", Position: "0,0", Rotation: "0,0,0,1", Scale: "1,1,1"},
		{Name: "", Position: "0,0,0", Rotation: "0,0,0,1", Scale: "1,1,1"},
		{Name: "Road", Position: "0,0,0", Rotation: "0,0,1", Scale: "1,1,1"},
	}}

	_, err := doc.Placements()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Contains(t, err.Error(), "nodes[1]")
	assert.Contains(t, err.Error(), "nodes[2]")
	assert.Contains(t, err.Error(), "nodes[3]")
	assert.NotContains(t, err.Error(), "nodes[0]")
}
