package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Ground: &GroundRecord{Texture: "aerial_grass_rock", Repeats: 500},
		Skybox: &SkyboxRecord{Texture: "DaySkyHDRI019A_2K-TONEMAPPED"},
		Nodes: []NodeRecord{
			{Name: "Tree", Position: "1.5,0,-2", Rotation: "0,0.38268343,0,0.9238795", Scale: "1,1,1"},
			{Name: "Bush red", Position: "0,0,0", Rotation: "0,0,0,1", Scale: "0.5,0.5,0.5"},
		},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"scene_export.json", FormatJSON},
		{"a/b/scene.YAML", FormatYAML},
		{"scene.yml", FormatYAML},
		{"scene.toml", FormatTOML},
		{"scene", FormatJSON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromPath(tt.path), tt.path)
	}
}

func TestCodecsPreserveDocument(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scene.json", "scene.yaml", "scene.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			want := sampleDocument()
			require.NoError(t, WriteFile(path, want))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestJSONShape(t *testing.T) {
	data, err := Marshal(&Document{}, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ground": null, "skybox": null, "nodes": []}`, string(data))
}

func TestReadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [`), 0644))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
