package glprint

// The values in this file are the fingerprint protocol. Changing any of them
// changes the fingerprint of every device.

// ContextAPI is the only graphics API requested from a surface.
const ContextAPI = "webgl"

// Names of the position attribute and the fill color uniform.
const (
	PositionAttribute = "a_position"
	ColorUniform      = "u_color"
)

// VertexShaderGLSL passes the 2D position through to clip space.
const VertexShaderGLSL = `attribute vec2 a_position;
void main() {
  gl_Position = vec4(a_position, 0.0, 1.0);
}
`

// FragmentShaderGLSL fills with the uniform color.
const FragmentShaderGLSL = `precision mediump float;
uniform vec4 u_color;
void main() {
  gl_FragColor = u_color;
}
`

// VertexShaderWGSL is VertexShaderGLSL for WebGPU hosts.
const VertexShaderWGSL = `@vertex
fn vs_main(@location(0) a_position: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(a_position, 0.0, 1.0);
}
`

// FragmentShaderWGSL is FragmentShaderGLSL for WebGPU hosts.
const FragmentShaderWGSL = `@group(0) @binding(0) var<uniform> u_color: vec4<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return u_color;
}
`

// Triangle vertices in clip space, two floats per vertex.
var triangleVertices = [6]float32{
	0.0, 0.5,
	-0.5, -0.5,
	0.5, -0.5,
}

const (
	positionComponents  = 2
	triangleVertexCount = 3
)

// Fill and clear colors, normalized RGBA.
var (
	fillColor  = [4]float32{1, 1, 0, 1}
	clearColor = [4]float32{0, 0, 0, 1}
)

// ShaderSources returns the vertex and fragment source for a dialect.
func ShaderSources(lang ShadingLanguage) (vertex, fragment string) {
	if lang == WGSL {
		return VertexShaderWGSL, FragmentShaderWGSL
	}
	return VertexShaderGLSL, FragmentShaderGLSL
}

// TriangleVertices returns a copy of the triangle vertex data.
func TriangleVertices() []float32 {
	v := triangleVertices
	return v[:]
}
