package raster

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/pixels"
)

// WebGL error classes recorded by the context.
var (
	errInvalidEnum      = errors.New("raster: invalid enum")
	errInvalidValue     = errors.New("raster: invalid value")
	errInvalidOperation = errors.New("raster: invalid operation")
)

const maxVertexAttribs = 8

type vertexAttrib struct {
	enabled bool
	size    int
	stride  int
	offset  int
	buffer  glprint.Buffer
}

// glContext implements glprint.Context on top of a gg pixmap.
type glContext struct {
	surface *Surface

	next     uint32
	shaders  map[glprint.Shader]*shader
	programs map[glprint.Program]*program
	buffers  map[glprint.Buffer][]float32

	arrayBuffer glprint.Buffer
	current     *program
	attribs     [maxVertexAttribs]vertexAttrib
	clearColor  gg.RGBA

	err error
}

var _ glprint.Context = (*glContext)(nil)

func newContext(s *Surface) *glContext {
	return &glContext{
		surface:  s,
		shaders:  make(map[glprint.Shader]*shader),
		programs: make(map[glprint.Program]*program),
		buffers:  make(map[glprint.Buffer][]float32),
	}
}

// fail records the first error; later ones are dropped as in glGetError.
func (c *glContext) fail(class error, format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))
	}
}

func (c *glContext) handle() uint32 {
	c.next++
	return c.next
}

func (c *glContext) ShadingLanguage() glprint.ShadingLanguage { return glprint.GLSLES100 }

func (c *glContext) CreateShader(typ glprint.Enum) glprint.Shader {
	if typ != glprint.VertexShader && typ != glprint.FragmentShader {
		c.fail(errInvalidEnum, "createShader(0x%04x)", uint32(typ))
		return glprint.NoShader
	}
	s := glprint.Shader(c.handle())
	c.shaders[s] = &shader{typ: typ}
	return s
}

func (c *glContext) ShaderSource(s glprint.Shader, src string) {
	if sh := c.shader(s); sh != nil {
		sh.source = src
	}
}

func (c *glContext) CompileShader(s glprint.Shader) {
	if sh := c.shader(s); sh != nil {
		sh.compile()
	}
}

func (c *glContext) ShaderCompiled(s glprint.Shader) bool {
	sh := c.shaders[s]
	return sh != nil && sh.compiled
}

func (c *glContext) ShaderInfoLog(s glprint.Shader) string {
	if sh := c.shaders[s]; sh != nil {
		return sh.log
	}
	return ""
}

func (c *glContext) DeleteShader(s glprint.Shader) { delete(c.shaders, s) }

func (c *glContext) shader(s glprint.Shader) *shader {
	sh := c.shaders[s]
	if sh == nil {
		c.fail(errInvalidValue, "no shader %d", s)
	}
	return sh
}

func (c *glContext) CreateProgram() glprint.Program {
	p := glprint.Program(c.handle())
	c.programs[p] = &program{}
	return p
}

func (c *glContext) AttachShader(p glprint.Program, s glprint.Shader) {
	prog, sh := c.programs[p], c.shaders[s]
	if prog == nil || sh == nil {
		c.fail(errInvalidValue, "attachShader(%d, %d)", p, s)
		return
	}
	prog.attach(sh)
}

func (c *glContext) LinkProgram(p glprint.Program) {
	if prog := c.programs[p]; prog != nil {
		prog.link()
		return
	}
	c.fail(errInvalidValue, "linkProgram(%d)", p)
}

func (c *glContext) ProgramLinked(p glprint.Program) bool {
	prog := c.programs[p]
	return prog != nil && prog.linked
}

func (c *glContext) ProgramInfoLog(p glprint.Program) string {
	if prog := c.programs[p]; prog != nil {
		return prog.log
	}
	return ""
}

func (c *glContext) UseProgram(p glprint.Program) {
	if p == glprint.NoProgram {
		c.current = nil
		return
	}
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "useProgram(%d): program not linked", p)
		return
	}
	c.current = prog
}

func (c *glContext) CreateBuffer() glprint.Buffer {
	b := glprint.Buffer(c.handle())
	c.buffers[b] = nil
	return b
}

func (c *glContext) BindBuffer(target glprint.Enum, b glprint.Buffer) {
	if target != glprint.ArrayBuffer {
		c.fail(errInvalidEnum, "bindBuffer(0x%04x)", uint32(target))
		return
	}
	if _, ok := c.buffers[b]; !ok && b != glprint.NoBuffer {
		c.fail(errInvalidOperation, "bindBuffer: no buffer %d", b)
		return
	}
	c.arrayBuffer = b
}

func (c *glContext) BufferData(target glprint.Enum, data []float32, _ glprint.Enum) {
	if target != glprint.ArrayBuffer {
		c.fail(errInvalidEnum, "bufferData(0x%04x)", uint32(target))
		return
	}
	if c.arrayBuffer == glprint.NoBuffer {
		c.fail(errInvalidOperation, "bufferData: no buffer bound")
		return
	}
	c.buffers[c.arrayBuffer] = append([]float32(nil), data...)
}

func (c *glContext) GetAttribLocation(p glprint.Program, name string) int {
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "getAttribLocation(%d, %q)", p, name)
		return -1
	}
	return prog.attribLocation(name)
}

func (c *glContext) EnableVertexAttribArray(index int) {
	if index < 0 || index >= maxVertexAttribs {
		c.fail(errInvalidValue, "enableVertexAttribArray(%d)", index)
		return
	}
	c.attribs[index].enabled = true
}

func (c *glContext) VertexAttribPointer(index, size int, typ glprint.Enum, _ bool, stride, offset int) {
	switch {
	case index < 0 || index >= maxVertexAttribs:
		c.fail(errInvalidValue, "vertexAttribPointer: index %d", index)
	case typ != glprint.Float:
		c.fail(errInvalidEnum, "vertexAttribPointer: type 0x%04x", uint32(typ))
	case size < 1 || size > 4 || stride < 0 || offset < 0 || stride%4 != 0 || offset%4 != 0:
		c.fail(errInvalidValue, "vertexAttribPointer(%d, %d, stride %d, offset %d)", index, size, stride, offset)
	case c.arrayBuffer == glprint.NoBuffer:
		c.fail(errInvalidOperation, "vertexAttribPointer: no buffer bound")
	default:
		c.attribs[index] = vertexAttrib{
			enabled: c.attribs[index].enabled,
			size:    size,
			stride:  stride,
			offset:  offset,
			buffer:  c.arrayBuffer,
		}
	}
}

func (c *glContext) GetUniformLocation(p glprint.Program, name string) glprint.Uniform {
	prog := c.programs[p]
	if prog == nil || !prog.linked {
		c.fail(errInvalidOperation, "getUniformLocation(%d, %q)", p, name)
		return glprint.NoUniform
	}
	return prog.uniformLocation(name)
}

func (c *glContext) Uniform4f(u glprint.Uniform, v0, v1, v2, v3 float32) {
	if u == glprint.NoUniform {
		return
	}
	if c.current == nil {
		c.fail(errInvalidOperation, "uniform4f: no current program")
		return
	}
	if !c.current.setUniform(u, [4]float32{v0, v1, v2, v3}) {
		c.fail(errInvalidOperation, "uniform4f: location %d is not a vec4", u)
	}
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	c.clearColor = gg.RGBA{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

func (c *glContext) Clear(mask glprint.Enum) {
	if mask&^glprint.ColorBufferBit != 0 {
		c.fail(errInvalidValue, "clear(0x%04x)", uint32(mask))
		return
	}
	if mask&glprint.ColorBufferBit != 0 {
		c.surface.pixmap.Clear(c.clearColor)
	}
}

func (c *glContext) DrawArrays(mode glprint.Enum, first, count int) {
	if mode != glprint.Triangles {
		c.fail(errInvalidEnum, "drawArrays: mode 0x%04x", uint32(mode))
		return
	}
	if first < 0 || count < 0 {
		c.fail(errInvalidValue, "drawArrays(%d, %d)", first, count)
		return
	}
	if c.current == nil {
		c.fail(errInvalidOperation, "drawArrays: no current program")
		return
	}
	positions, err := c.fetchPositions(first, count)
	if err != nil {
		c.fail(errInvalidOperation, "drawArrays: %v", err)
		return
	}
	if err := c.rasterize(positions, c.current.fillColor()); err != nil {
		c.fail(errInvalidOperation, "drawArrays: %v", err)
	}
}

// fetchPositions reads count clip-space positions starting at vertex first
// from the attribute bound to the program's position input.
func (c *glContext) fetchPositions(first, count int) ([][2]float32, error) {
	loc := c.current.positionLocation()
	a := c.attribs[loc]
	if !a.enabled {
		return nil, fmt.Errorf("attribute %d not enabled", loc)
	}
	data := c.buffers[a.buffer]
	stride := a.stride / 4
	if stride == 0 {
		stride = a.size
	}
	out := make([][2]float32, count)
	for i := range out {
		base := a.offset/4 + (first+i)*stride
		if base+a.size > len(data) {
			return nil, fmt.Errorf("vertex %d out of buffer range", first+i)
		}
		out[i][0] = data[base]
		if a.size > 1 {
			out[i][1] = data[base+1]
		}
	}
	return out, nil
}

// rasterize fills each triangle of a triangle list with color. Clip space
// maps to pixels with y pointing down, as in the pixmap.
func (c *glContext) rasterize(positions [][2]float32, color [4]float32) error {
	dc := c.surface.dc
	w, h := float64(c.surface.width), float64(c.surface.height)
	dc.SetRGBA(clamp01(color[0]), clamp01(color[1]), clamp01(color[2]), clamp01(color[3]))
	for i := 0; i+2 < len(positions); i += 3 {
		for j, p := range positions[i : i+3] {
			x := (float64(p[0]) + 1) / 2 * w
			y := (1 - float64(p[1])) / 2 * h
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

func (c *glContext) DrawingBufferSize() (int, int) {
	return c.surface.width, c.surface.height
}

func (c *glContext) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) {
	if format != glprint.RGBA || typ != glprint.UnsignedByte {
		c.fail(errInvalidEnum, "readPixels: format 0x%04x type 0x%04x", uint32(format), uint32(typ))
		return
	}
	if width < 0 || height < 0 {
		c.fail(errInvalidValue, "readPixels(%d, %d)", width, height)
		return
	}
	if len(dst) < width*height*pixels.BytesPerPixel {
		c.fail(errInvalidOperation, "readPixels: destination holds %d bytes, need %d", len(dst), width*height*pixels.BytesPerPixel)
		return
	}
	sw, sh := c.surface.width, c.surface.height
	src := append([]byte(nil), c.surface.pixmap.Data()...)
	pixels.FlipRows(src, sw, sh)
	pixels.CopyRect(dst, src, sw, sh, x, y, width, height)
}

func (c *glContext) Err() error { return c.err }

func clamp01(v float32) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return float64(v)
	}
}
