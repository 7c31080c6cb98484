// Package screen renders the CHIP-8 framebuffer with OpenGL.
package screen

import (
	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/chip8"
)

// Screen draws the machine's display as a single-channel texture on a
// fullscreen quad. The display stores one byte per pixel, so its buffer
// uploads directly without repacking.
type Screen struct {
	shader      uint32
	vao         uint32
	vbo         uint32
	texture     uint32
	width       int32
	height      int32
	dirty       bool
	initialized bool
}

// New creates a new screen for a display with the given dimensions.
func New(width, height int) *Screen {
	return &Screen{
		width:  int32(width),
		height: int32(height),
	}
}

// Startup initializes GL resources. It expects a current GL context.
func (s *Screen) Startup() error {
	var err error

	s.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrap(err, "failed to compile shaders")
	}

	gl.UseProgram(s.shader)

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	s.texture = makeTexture()
	s.dirty = true
	s.initialized = true
	return nil
}

// Shutdown clears up GL resources.
func (s *Screen) Shutdown() error {
	s.initialized = false
	gl.DeleteTextures(1, &s.texture)
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.shader)
	return nil
}

// Invalidate marks the texture as stale. Call it whenever the display
// contents change.
func (s *Screen) Invalidate() {
	s.dirty = true
}

// Draw uploads the display contents if needed and renders them.
func (s *Screen) Draw(d *chip8.Display) {
	if !s.initialized {
		return
	}

	if s.dirty {
		uploadTexture(s.texture, s.width, s.height, d.Pixels())
		s.dirty = false
	}

	gl.UseProgram(s.shader)
	gl.BindVertexArray(s.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
