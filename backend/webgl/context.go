//go:build js && wasm

package webgl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"syscall/js"

	"github.com/gogpu/glprint"
)

// WebGL enumerants used only inside this package.
const (
	glNoError       = 0
	glCompileStatus = 0x8B81
	glLinkStatus    = 0x8B82
)

// Errors reported by Err.
var (
	ErrContextLost = errors.New("webgl: context lost")
	ErrGL          = errors.New("webgl: GL error")
)

// glContext forwards glprint.Context calls to a WebGLRenderingContext.
// Integer handles map to the JS objects the browser returns.
type glContext struct {
	v js.Value

	next     uint32
	objects  map[uint32]js.Value
	uniforms []js.Value

	err error
}

var _ glprint.Context = (*glContext)(nil)

func newContext(v js.Value) *glContext {
	return &glContext{v: v, objects: make(map[uint32]js.Value)}
}

func (c *glContext) store(obj js.Value) uint32 {
	if !obj.Truthy() {
		return 0
	}
	c.next++
	c.objects[c.next] = obj
	return c.next
}

// object returns the JS object for a handle, or null for the zero handle.
func (c *glContext) object(h uint32) js.Value {
	if obj, ok := c.objects[h]; ok {
		return obj
	}
	return js.Null()
}

func (c *glContext) release() {
	if ext := c.v.Call("getExtension", "WEBGL_lose_context"); ext.Truthy() {
		ext.Call("loseContext")
	}
	c.objects = nil
	c.uniforms = nil
}

func (c *glContext) ShadingLanguage() glprint.ShadingLanguage { return glprint.GLSLES100 }

func (c *glContext) CreateShader(typ glprint.Enum) glprint.Shader {
	return glprint.Shader(c.store(c.v.Call("createShader", uint32(typ))))
}

func (c *glContext) ShaderSource(s glprint.Shader, src string) {
	c.v.Call("shaderSource", c.object(uint32(s)), src)
}

func (c *glContext) CompileShader(s glprint.Shader) {
	c.v.Call("compileShader", c.object(uint32(s)))
}

func (c *glContext) ShaderCompiled(s glprint.Shader) bool {
	return c.v.Call("getShaderParameter", c.object(uint32(s)), glCompileStatus).Truthy()
}

func (c *glContext) ShaderInfoLog(s glprint.Shader) string {
	return jsString(c.v.Call("getShaderInfoLog", c.object(uint32(s))))
}

func (c *glContext) DeleteShader(s glprint.Shader) {
	c.v.Call("deleteShader", c.object(uint32(s)))
	delete(c.objects, uint32(s))
}

func (c *glContext) CreateProgram() glprint.Program {
	return glprint.Program(c.store(c.v.Call("createProgram")))
}

func (c *glContext) AttachShader(p glprint.Program, s glprint.Shader) {
	c.v.Call("attachShader", c.object(uint32(p)), c.object(uint32(s)))
}

func (c *glContext) LinkProgram(p glprint.Program) {
	c.v.Call("linkProgram", c.object(uint32(p)))
}

func (c *glContext) ProgramLinked(p glprint.Program) bool {
	return c.v.Call("getProgramParameter", c.object(uint32(p)), glLinkStatus).Truthy()
}

func (c *glContext) ProgramInfoLog(p glprint.Program) string {
	return jsString(c.v.Call("getProgramInfoLog", c.object(uint32(p))))
}

func (c *glContext) UseProgram(p glprint.Program) {
	c.v.Call("useProgram", c.object(uint32(p)))
}

func (c *glContext) CreateBuffer() glprint.Buffer {
	return glprint.Buffer(c.store(c.v.Call("createBuffer")))
}

func (c *glContext) BindBuffer(target glprint.Enum, b glprint.Buffer) {
	c.v.Call("bindBuffer", uint32(target), c.object(uint32(b)))
}

func (c *glContext) BufferData(target glprint.Enum, data []float32, usage glprint.Enum) {
	c.v.Call("bufferData", uint32(target), float32Array(data), uint32(usage))
}

func (c *glContext) GetAttribLocation(p glprint.Program, name string) int {
	return c.v.Call("getAttribLocation", c.object(uint32(p)), name).Int()
}

func (c *glContext) EnableVertexAttribArray(index int) {
	c.v.Call("enableVertexAttribArray", index)
}

func (c *glContext) VertexAttribPointer(index, size int, typ glprint.Enum, normalized bool, stride, offset int) {
	c.v.Call("vertexAttribPointer", index, size, uint32(typ), normalized, stride, offset)
}

func (c *glContext) GetUniformLocation(p glprint.Program, name string) glprint.Uniform {
	loc := c.v.Call("getUniformLocation", c.object(uint32(p)), name)
	if !loc.Truthy() {
		return glprint.NoUniform
	}
	c.uniforms = append(c.uniforms, loc)
	return glprint.Uniform(len(c.uniforms) - 1)
}

func (c *glContext) Uniform4f(u glprint.Uniform, v0, v1, v2, v3 float32) {
	if u < 0 || int(u) >= len(c.uniforms) {
		return
	}
	c.v.Call("uniform4f", c.uniforms[u], v0, v1, v2, v3)
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	c.v.Call("clearColor", r, g, b, a)
}

func (c *glContext) Clear(mask glprint.Enum) {
	c.v.Call("clear", uint32(mask))
}

func (c *glContext) DrawArrays(mode glprint.Enum, first, count int) {
	c.v.Call("drawArrays", uint32(mode), first, count)
}

func (c *glContext) DrawingBufferSize() (int, int) {
	return c.v.Get("drawingBufferWidth").Int(), c.v.Get("drawingBufferHeight").Int()
}

func (c *glContext) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) {
	arr := js.Global().Get("Uint8Array").New(len(dst))
	c.v.Call("readPixels", x, y, width, height, uint32(format), uint32(typ), arr)
	js.CopyBytesToGo(dst, arr)
}

// Err drains getError and reports the first error seen, or a lost
// context. The result is sticky.
func (c *glContext) Err() error {
	if c.err != nil {
		return c.err
	}
	if c.v.Call("isContextLost").Bool() {
		c.err = ErrContextLost
		return c.err
	}
	for {
		code := c.v.Call("getError").Int()
		if code == glNoError {
			break
		}
		if c.err == nil {
			c.err = fmt.Errorf("%w 0x%04x", ErrGL, code)
		}
	}
	return c.err
}

// float32Array copies v into a new Float32Array.
func float32Array(v []float32) js.Value {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	u8 := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(u8, b)
	return js.Global().Get("Float32Array").New(u8.Get("buffer"))
}

func jsString(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
