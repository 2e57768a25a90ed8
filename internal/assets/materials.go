package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // texture decoders
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/worldsmith/internal/engine/texture"
	"github.com/Faultbox/worldsmith/internal/scene"
)

// ErrTextureNotFound is returned when no file exists for a texture name.
var ErrTextureNotFound = errors.New("texture not found")

// textureExts are tried in order when resolving a texture name.
var textureExts = []string{".jpg", ".jpeg", ".png", ".bmp", ".tga"}

// TextureMaterials builds environment materials from textures in Dir.
type TextureMaterials struct {
	Dir string
}

// Resolve returns the file holding the named texture.
func (t TextureMaterials) Resolve(name string) (string, error) {
	for _, ext := range textureExts {
		path := filepath.Join(t.Dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTextureNotFound, name)
}

// TextureInfo describes a texture file.
type TextureInfo struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Probe resolves the named texture and reads its header.
func (t TextureMaterials) Probe(name string) (TextureInfo, error) {
	path, err := t.Resolve(name)
	if err != nil {
		return TextureInfo{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return TextureInfo{}, err
	}
	defer f.Close()

	var cfg image.Config
	format := "tga"
	// TGA has no magic number, so it never registers with package image.
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		cfg, err = texture.DecodeTGAConfig(f)
	} else {
		cfg, format, err = image.DecodeConfig(f)
	}
	if err != nil {
		return TextureInfo{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return TextureInfo{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// GroundMaterial returns a lit material tiling the named texture repeats
// times across the ground plane. A texture without a file keeps its bare
// name; the renderer shows such materials untextured.
func (t TextureMaterials) GroundMaterial(name string, repeats float32) *scene.Material {
	if repeats < 1 {
		repeats = 1
	}
	path, err := t.Resolve(name)
	if err != nil {
		path = name
	}
	return &scene.Material{
		Name:    "ground:" + name,
		Color:   "#ffffff",
		Texture: path,
		Repeats: repeats,
		Opacity: 1,
	}
}
