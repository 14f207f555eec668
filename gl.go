package glprint

// Enum is a WebGL enumerant. Values match the WebGL 1 constants so that the
// browser host can pass them through unchanged.
type Enum uint32

// WebGL enumerants used by the fingerprint procedure.
const (
	ColorBufferBit Enum = 0x4000
	Triangles      Enum = 0x0004
	ArrayBuffer    Enum = 0x8892
	StaticDraw     Enum = 0x88E4
	Float          Enum = 0x1406
	UnsignedByte   Enum = 0x1401
	RGBA           Enum = 0x1908
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
)

// Object handles. The zero value of each handle type is the null object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Null handles.
const (
	NoShader  Shader  = 0
	NoProgram Program = 0
	NoBuffer  Buffer  = 0
)

// Uniform is a uniform location. NoUniform is returned for names the
// program does not declare; writes to it are ignored.
type Uniform int32

// NoUniform is the null uniform location.
const NoUniform Uniform = -1

// ShadingLanguage identifies the shader dialect a Context compiles.
type ShadingLanguage int

const (
	// GLSLES100 is the WebGL 1 shading language.
	GLSLES100 ShadingLanguage = iota
	// WGSL is the WebGPU shading language.
	WGSL
)

// String returns the dialect name.
func (l ShadingLanguage) String() string {
	switch l {
	case GLSLES100:
		return "glsl-es-1.00"
	case WGSL:
		return "wgsl"
	default:
		return "unknown"
	}
}

// Context is the subset of the WebGL 1 rendering context the fingerprint
// procedure drives. Attributes and uniforms are resolved by name.
//
// Methods follow WebGL conventions: they do not return errors. Failures that
// WebGL would report through getError are recorded and returned by Err.
type Context interface {
	// ShadingLanguage reports the dialect accepted by ShaderSource.
	ShadingLanguage() ShadingLanguage

	CreateShader(typ Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []float32, usage Enum)

	GetAttribLocation(p Program, name string) int
	EnableVertexAttribArray(index int)
	VertexAttribPointer(index, size int, typ Enum, normalized bool, stride, offset int)

	GetUniformLocation(p Program, name string) Uniform
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	DrawArrays(mode Enum, first, count int)

	// DrawingBufferSize returns the size of the color buffer in pixels.
	DrawingBufferSize() (width, height int)

	// ReadPixels copies a rectangle of the color buffer into dst. Rows are
	// ordered bottom-up, starting at the surface origin.
	ReadPixels(x, y, width, height int, format, typ Enum, dst []byte)

	// Err returns the first deferred failure, or nil.
	Err() error
}

// Surface is an off-screen drawing surface able to hand out a graphics
// context. A surface belongs to exactly one Generate call.
type Surface interface {
	// Context returns a context for the named graphics API, or nil when the
	// API is not available. Repeated calls return the same context.
	Context(api string) Context

	// Release frees the surface and every object created through its context.
	Release()
}

// Host creates surfaces. Implementations live under backend/.
type Host interface {
	// Name identifies the host in logs and in the backend registry.
	Name() string

	// NewSurface creates an off-screen surface. Errors wrapping
	// ErrEnvironmentUnsupported mean the host has no usable device.
	NewSurface() (Surface, error)
}
