package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/worldsmith/pkg/math"
)

func TestAppendBoxLines(t *testing.T) {
	b := math.Box3{Min: math.Vec3{X: -1, Y: 0, Z: -2}, Max: math.Vec3{X: 1, Y: 3, Z: 2}}

	lines := AppendBoxLines(nil, b, 0)
	require.Len(t, lines, BoxLineVertexCount)

	for i := 0; i < len(lines); i += 2 {
		a, c := lines[i], lines[i+1]
		diff := 0
		if a.X != c.X {
			diff++
		}
		if a.Y != c.Y {
			diff++
		}
		if a.Z != c.Z {
			diff++
		}
		assert.Equal(t, 1, diff, "edge %d must run along one axis", i/2)
	}
}

func TestAppendBoxLinesPadding(t *testing.T) {
	b := math.Box3{Max: math.Vec3{X: 1, Y: 1, Z: 1}}

	lines := AppendBoxLines([]math.Vec3{{}}, b, 0.5)
	require.Len(t, lines, BoxLineVertexCount+1)

	for _, p := range lines[1:] {
		assert.Contains(t, []float32{-0.5, 1.5}, p.X)
		assert.Contains(t, []float32{-0.5, 1.5}, p.Y)
		assert.Contains(t, []float32{-0.5, 1.5}, p.Z)
	}
}

func TestScreenshotsSaveRGBAFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "frame")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// Bottom row red, top row blue, as OpenGL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path, err := s.SaveRGBA(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_2024-05-01_12-30-00.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
	r, _, b, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)
}

func TestScreenshotsSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "frame")
	_, err := s.SaveRGBA(make([]byte, 7), 2, 1)
	assert.Error(t, err)
}
