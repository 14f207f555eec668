package raster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/backend"
)

func pixelAt(rb glprint.Readback, x, y int) [4]byte {
	i := (y*rb.Width + x) * 4
	return [4]byte{rb.Pixels[i], rb.Pixels[i+1], rb.Pixels[i+2], rb.Pixels[i+3]}
}

func TestGenerate(t *testing.T) {
	var rb glprint.Readback
	fp, err := glprint.Generate(context.Background(), NewHost(), glprint.WithReadback(func(r glprint.Readback) {
		rb = r
	}))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !glprint.IsFingerprint(fp) {
		t.Errorf("Generate() = %q, not a fingerprint", fp)
	}
	if rb.Width != DefaultWidth || rb.Height != DefaultHeight {
		t.Fatalf("readback size = %dx%d, want %dx%d", rb.Width, rb.Height, DefaultWidth, DefaultHeight)
	}

	// Triangle centroid, rows counted from the bottom.
	center := pixelAt(rb, DefaultWidth/2, DefaultHeight/2-1)
	if center[0] < 250 || center[1] < 250 || center[2] > 5 || center[3] != 255 {
		t.Errorf("center pixel = %v, want yellow", center)
	}
	for _, p := range [][2]int{{0, 0}, {DefaultWidth - 1, 0}, {0, DefaultHeight - 1}} {
		if got := pixelAt(rb, p[0], p[1]); got != [4]byte{0, 0, 0, 255} {
			t.Errorf("pixel %v = %v, want opaque black", p, got)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	host := NewHost(WithSize(64, 32))
	first, err := glprint.Generate(context.Background(), host)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := glprint.Generate(context.Background(), host)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if first != second {
		t.Errorf("fingerprints differ: %s != %s", first, second)
	}

	other, err := glprint.Generate(context.Background(), NewHost(WithSize(65, 32)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if other == first {
		t.Error("different surface sizes produced the same fingerprint")
	}
}

func TestNewSurfaceInvalidSize(t *testing.T) {
	_, err := NewHost(WithSize(0, 10)).NewSurface()
	if err == nil {
		t.Fatal("NewSurface() with zero width succeeded")
	}
	if _, err := glprint.Generate(context.Background(), NewHost(WithSize(-1, -1))); err == nil {
		t.Error("Generate() with negative size succeeded")
	}
}

func TestSurfaceContext(t *testing.T) {
	s, err := NewHost().NewSurface()
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}
	if s.Context("webgl2") != nil {
		t.Error("Context(webgl2) != nil")
	}
	gl := s.Context(glprint.ContextAPI)
	if gl == nil {
		t.Fatal("Context(webgl) = nil")
	}
	if s.Context(glprint.ContextAPI) != gl {
		t.Error("repeated Context calls returned different contexts")
	}
	if gl.ShadingLanguage() != glprint.GLSLES100 {
		t.Errorf("ShadingLanguage() = %v, want %v", gl.ShadingLanguage(), glprint.GLSLES100)
	}
	s.Release()
	s.Release()
	if s.Context(glprint.ContextAPI) != nil {
		t.Error("Context after Release != nil")
	}
}

func newGL(t *testing.T) glprint.Context {
	t.Helper()
	s, err := NewHost(WithSize(8, 8)).NewSurface()
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}
	t.Cleanup(s.Release)
	return s.Context(glprint.ContextAPI)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  glprint.Enum
		src  string
		want string
	}{
		{"empty", glprint.VertexShader, "  ", "empty"},
		{"no main", glprint.VertexShader, "attribute vec2 a;", "main"},
		{"no position", glprint.VertexShader, "void main() { }", "gl_Position"},
		{"attribute in fragment", glprint.FragmentShader, "attribute vec2 a;\nvoid main() { gl_FragColor = vec4(1.0); }", "attribute"},
		{"no precision", glprint.FragmentShader, "uniform vec4 c;\nvoid main() { gl_FragColor = c; }", "precision"},
		{"unbalanced", glprint.FragmentShader, "void main() { gl_FragColor = vec4(1.0);", "braces"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl := newGL(t)
			s := gl.CreateShader(tt.typ)
			gl.ShaderSource(s, tt.src)
			gl.CompileShader(s)
			if gl.ShaderCompiled(s) {
				t.Fatal("ShaderCompiled() = true")
			}
			if log := gl.ShaderInfoLog(s); !strings.Contains(log, tt.want) {
				t.Errorf("ShaderInfoLog() = %q, want it to mention %q", log, tt.want)
			}
		})
	}
}

func TestLinkResolvesNames(t *testing.T) {
	gl := newGL(t)
	vs, fs := glprint.ShaderSources(gl.ShadingLanguage())

	p := gl.CreateProgram()
	for typ, src := range map[glprint.Enum]string{glprint.VertexShader: vs, glprint.FragmentShader: fs} {
		s := gl.CreateShader(typ)
		gl.ShaderSource(s, src)
		gl.CompileShader(s)
		if !gl.ShaderCompiled(s) {
			t.Fatalf("compile: %s", gl.ShaderInfoLog(s))
		}
		gl.AttachShader(p, s)
	}
	gl.LinkProgram(p)
	if !gl.ProgramLinked(p) {
		t.Fatalf("link: %s", gl.ProgramInfoLog(p))
	}

	if got := gl.GetAttribLocation(p, glprint.PositionAttribute); got != 0 {
		t.Errorf("GetAttribLocation(%s) = %d, want 0", glprint.PositionAttribute, got)
	}
	if got := gl.GetAttribLocation(p, "a_missing"); got != -1 {
		t.Errorf("GetAttribLocation(a_missing) = %d, want -1", got)
	}
	if got := gl.GetUniformLocation(p, glprint.ColorUniform); got == glprint.NoUniform {
		t.Error("GetUniformLocation(u_color) = NoUniform")
	}
	if got := gl.GetUniformLocation(p, "u_missing"); got != glprint.NoUniform {
		t.Errorf("GetUniformLocation(u_missing) = %d, want NoUniform", got)
	}
	if err := gl.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestLinkWithoutFragment(t *testing.T) {
	gl := newGL(t)
	vs, _ := glprint.ShaderSources(glprint.GLSLES100)
	s := gl.CreateShader(glprint.VertexShader)
	gl.ShaderSource(s, vs)
	gl.CompileShader(s)

	p := gl.CreateProgram()
	gl.AttachShader(p, s)
	gl.LinkProgram(p)
	if gl.ProgramLinked(p) {
		t.Fatal("ProgramLinked() = true without a fragment shader")
	}
	if gl.ProgramInfoLog(p) == "" {
		t.Error("ProgramInfoLog() is empty")
	}
}

func TestDeferredErrors(t *testing.T) {
	tests := []struct {
		name string
		call func(gl glprint.Context)
		want error
	}{
		{"draw mode", func(gl glprint.Context) { gl.DrawArrays(0x0001, 0, 3) }, errInvalidEnum},
		{"draw without program", func(gl glprint.Context) { gl.DrawArrays(glprint.Triangles, 0, 3) }, errInvalidOperation},
		{"read format", func(gl glprint.Context) {
			gl.ReadPixels(0, 0, 1, 1, 0x1907, glprint.UnsignedByte, make([]byte, 4))
		}, errInvalidEnum},
		{"short destination", func(gl glprint.Context) {
			gl.ReadPixels(0, 0, 2, 2, glprint.RGBA, glprint.UnsignedByte, make([]byte, 4))
		}, errInvalidOperation},
		{"buffer data unbound", func(gl glprint.Context) {
			gl.BufferData(glprint.ArrayBuffer, []float32{0}, glprint.StaticDraw)
		}, errInvalidOperation},
		{"shader type", func(gl glprint.Context) { gl.CreateShader(0x1234) }, errInvalidEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl := newGL(t)
			tt.call(gl)
			if err := gl.Err(); !errors.Is(err, tt.want) {
				t.Errorf("Err() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFirstErrorSticks(t *testing.T) {
	gl := newGL(t)
	gl.DrawArrays(0x0001, 0, 3)
	gl.DrawArrays(glprint.Triangles, 0, 3)
	if err := gl.Err(); !errors.Is(err, errInvalidEnum) {
		t.Errorf("Err() = %v, want the first error %v", err, errInvalidEnum)
	}
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.Raster) {
		t.Fatal("raster backend not registered")
	}
	h, err := backend.Get(backend.Raster, backend.HostConfig{Width: 5, Height: 7})
	if err != nil {
		t.Fatalf("Get(raster) error = %v", err)
	}
	if h.Name() != backend.Raster {
		t.Errorf("Name() = %q, want %q", h.Name(), backend.Raster)
	}
	if rh := h.(*Host); rh.width != 5 || rh.height != 7 {
		t.Errorf("registered host size = %dx%d, want 5x7", rh.width, rh.height)
	}
}
