// Package meshgl is the OpenGL 4.1 backend for creature meshes.
//
// Every function here must run on the thread that owns the GL context.
package meshgl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/engine/creature"
	"github.com/Faultbox/creature-render/internal/logger"
)

var _ creature.Device = (*Device)(nil)

// Device owns the creature shader and the viewport projection.
type Device struct {
	program uint32

	locTranslation int32
	locProjection  int32
	locOffset      int32
	locAlpha       int32
	locTint        int32
	locSampler     int32

	width, height int32
	white         uint32
}

// Init loads GL function pointers and logs the driver. Call it once after
// the context is current.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return nil
}

// NewDevice compiles the creature shader.
func NewDevice(width, height int) (*Device, error) {
	program, err := compileProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("creature shader: %w", err)
	}

	d := &Device{
		program:        program,
		locTranslation: uniform(program, "translationMatrix"),
		locProjection:  uniform(program, "projectionVector"),
		locOffset:      uniform(program, "offsetVector"),
		locAlpha:       uniform(program, "alpha"),
		locTint:        uniform(program, "tint"),
		locSampler:     uniform(program, "uSampler"),
	}
	d.white = d.UploadTexture(&image.RGBA{
		Pix:    []uint8{255, 255, 255, 255},
		Stride: 4,
		Rect:   image.Rect(0, 0, 1, 1),
	})
	d.SetViewport(width, height)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	return d, nil
}

// SetViewport resizes the GL viewport and the pixel projection.
func (d *Device) SetViewport(width, height int) {
	d.width, d.height = int32(width), int32(height)
	gl.Viewport(0, 0, d.width, d.height)
}

// Size returns the viewport size.
func (d *Device) Size() (width, height int) { return int(d.width), int(d.height) }

// Clear clears the color buffer.
func (d *Device) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// CreateBuffers creates a VAO with one buffer per attribute and an index
// buffer. Storage stays empty until the first allocation.
func (d *Device) CreateBuffers() (creature.DeviceBuffers, error) {
	b := &buffers{device: d}

	gl.GenVertexArrays(1, &b.vao)
	if b.vao == 0 {
		return nil, fmt.Errorf("glGenVertexArrays failed")
	}
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(int32(len(b.vbo)), &b.vbo[0])
	gl.GenBuffers(1, &b.ebo)

	layout := [...]struct {
		slot creature.Slot
		loc  uint32
		size int32
	}{
		{creature.SlotVertices, attribPosition, 2},
		{creature.SlotUVs, attribUV, 2},
		{creature.SlotColors, attribColor, 4},
	}
	for _, l := range layout {
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo[l.slot])
		gl.VertexAttribPointerWithOffset(l.loc, l.size, gl.FLOAT, false, l.size*4, 0)
		gl.EnableVertexAttribArray(l.loc)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// UploadTexture creates a mipmapped texture from premultiplied RGBA pixels.
func (d *Device) UploadTexture(img *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return id
}

// DeleteTexture releases a texture created by UploadTexture.
func (d *Device) DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

// ReadPixels reads the back buffer as RGBA rows, bottom row first.
func (d *Device) ReadPixels() []byte {
	pixels := make([]byte, int(d.width)*int(d.height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, d.width, d.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Destroy releases the shader and the fallback texture.
func (d *Device) Destroy() {
	if d.white != 0 {
		gl.DeleteTextures(1, &d.white)
		d.white = 0
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
		d.program = 0
	}
}

// buffers is one creature's device storage.
type buffers struct {
	device *Device
	vao    uint32
	vbo    [3]uint32
	ebo    uint32
}

func floatPtr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func (b *buffers) AllocateFloats(slot creature.Slot, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo[slot])
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, floatPtr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *buffers) UpdateFloats(slot creature.Slot, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo[slot])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, floatPtr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *buffers) AllocateIndices(data []uint16) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	// The element binding is VAO state.
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, ptr, gl.STATIC_DRAW)
	gl.BindVertexArray(0)
}

func (b *buffers) DrawTriangles(indexCount int, u creature.Uniforms) {
	if b.vao == 0 || indexCount == 0 {
		return
	}
	d := b.device

	gl.UseProgram(d.program)
	gl.UniformMatrix3fv(d.locTranslation, 1, false, &u.World[0])
	gl.Uniform2f(d.locProjection, float32(d.width)/2, float32(d.height)/2)
	gl.Uniform2f(d.locOffset, 0, 0)
	gl.Uniform1f(d.locAlpha, u.Alpha)
	gl.Uniform3f(d.locTint, u.Tint.X(), u.Tint.Y(), u.Tint.Z())

	tex := u.Texture
	if tex == 0 {
		tex = d.white
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(d.locSampler, 0)

	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

func (b *buffers) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo[0] != 0 {
		gl.DeleteBuffers(int32(len(b.vbo)), &b.vbo[0])
		b.vbo = [3]uint32{}
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
}
