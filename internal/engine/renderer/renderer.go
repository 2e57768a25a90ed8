// Package renderer draws the scene as colored bounding boxes. Full model
// rendering belongs to the asset pipeline; the editor only needs to show
// where objects are and which one is highlighted.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/worldsmith/internal/engine/debug"
	"github.com/Faultbox/worldsmith/internal/engine/shader"
	"github.com/Faultbox/worldsmith/internal/scene"
	"github.com/Faultbox/worldsmith/pkg/math"
)

// floatsPerVertex is position (xyz) + color (rgb).
const floatsPerVertex = 6

// Renderer handles all OpenGL drawing.
type Renderer struct {
	log *zap.Logger

	program *shader.Program
	vao     uint32
	vbo     uint32

	lines    []math.Vec3
	vertices []float32
	capacity int // vbo size in floats
	width    int
	height   int
}

// New creates a renderer. It must be called after the OpenGL context exists.
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.53, 0.71, 0.87, 1.0) // sky blue

	var err error
	r.program, err = shader.Compile(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, floatsPerVertex*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, floatsPerVertex*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws the world bounds of every mesh in s except the skybox,
// in the color of each mesh's first material.
func (r *Renderer) DrawScene(s *scene.Scene, viewProj math.Mat4) {
	r.vertices = r.vertices[:0]
	sky := s.SkyboxNode()
	s.Traverse(func(n *scene.Node) {
		if n == sky || n.Mesh == nil {
			return
		}
		box, ok := n.WorldBounds()
		if !ok {
			return
		}
		red, green, blue := float32(0.8), float32(0.8), float32(0.8)
		if len(n.Mesh.Materials) > 0 && n.Mesh.Materials[0] != nil {
			if cr, cg, cb, ok := n.Mesh.Materials[0].RGB(); ok {
				red, green, blue = cr, cg, cb
			}
		}
		r.appendBox(box, red, green, blue)
	})
	if len(r.vertices) == 0 {
		return
	}

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, &viewProj[0])
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(r.vertices) > r.capacity {
		r.capacity = len(r.vertices) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.capacity*4, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.vertices)*4, gl.Ptr(r.vertices))
	gl.DrawArrays(gl.LINES, 0, int32(len(r.vertices)/floatsPerVertex))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) appendBox(b math.Box3, red, green, blue float32) {
	r.lines = debug.AppendBoxLines(r.lines[:0], b, 0)
	for _, p := range r.lines {
		r.vertices = append(r.vertices, p.X, p.Y, p.Z, red, green, blue)
	}
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows along with
// its size. Call it before the buffers are swapped.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	if r.width <= 0 || r.height <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, r.width*r.height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, r.width, r.height
}

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;

out vec3 vertexColor;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vertexColor = aColor;
}
`

const fragmentShaderSource = `
#version 410 core

in vec3 vertexColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vertexColor, 1.0);
}
`
