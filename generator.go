package glprint

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
)

// Readback is the rendered color buffer handed to WithReadback observers.
type Readback struct {
	Width  int
	Height int
	// Pixels holds Width*Height RGBA quadruplets, rows bottom-up.
	Pixels []byte
}

// Generator renders the fingerprint triangle on a host and hashes the result.
// A Generator holds no per-call state and is safe for concurrent use; every
// call creates and releases its own surface.
type Generator struct {
	host Host
	opts options
}

// New creates a Generator rendering on host.
func New(host Host, opts ...Option) *Generator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{host: host, opts: o}
}

// Generate is shorthand for New(host, opts...).Generate(ctx).
func Generate(ctx context.Context, host Host, opts ...Option) (string, error) {
	return New(host, opts...).Generate(ctx)
}

// Generate renders the triangle, reads the color buffer back and returns
// the lowercase hex SHA-256 of the pixels.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	log := Logger().With("host", g.host.Name())

	surface, err := g.host.NewSurface()
	if err != nil {
		if errors.Is(err, ErrEnvironmentUnsupported) {
			return "", err
		}
		return "", fmt.Errorf("glprint: create surface: %w", err)
	}
	defer surface.Release()

	gl := surface.Context(ContextAPI)
	if gl == nil {
		return "", fmt.Errorf("%w: no %s context on %s", ErrEnvironmentUnsupported, ContextAPI, g.host.Name())
	}

	program := initProgram(gl, log)
	if program == NoProgram {
		return "", ErrPipelineInitFailed
	}
	gl.UseProgram(program)

	vertices := TriangleVertices()
	buf := gl.CreateBuffer()
	gl.BindBuffer(ArrayBuffer, buf)
	gl.BufferData(ArrayBuffer, vertices, StaticDraw)

	position := gl.GetAttribLocation(program, PositionAttribute)
	gl.EnableVertexAttribArray(position)
	gl.VertexAttribPointer(position, positionComponents, Float, false, 0, 0)

	color := gl.GetUniformLocation(program, ColorUniform)
	gl.Uniform4f(color, fillColor[0], fillColor[1], fillColor[2], fillColor[3])

	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(ColorBufferBit)
	gl.DrawArrays(Triangles, 0, triangleVertexCount)

	width, height := gl.DrawingBufferSize()
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, width, height, RGBA, UnsignedByte, pixels)
	if err := gl.Err(); err != nil {
		return "", fmt.Errorf("glprint: render: %w", err)
	}
	log.Debug("readback complete", "width", width, "height", height, "bytes", len(pixels))

	if g.opts.readback != nil {
		g.opts.readback(Readback{Width: width, Height: height, Pixels: pixels})
	}

	sum, err := g.opts.digester.Digest(ctx, pixels)
	if err != nil {
		return "", fmt.Errorf("glprint: digest: %w", err)
	}

	fp := encodeDigest(sum)
	log.Info("fingerprint generated", "fingerprint", fp)
	return fp, nil
}

// Verify regenerates the fingerprint and compares it with stored in
// constant time.
func (g *Generator) Verify(ctx context.Context, stored string) (bool, error) {
	fp, err := g.Generate(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(fp), []byte(stored)) == 1, nil
}

// initProgram compiles both stages and links them. It returns NoProgram if
// any step fails; diagnostics go to the log.
func initProgram(gl Context, log *slog.Logger) Program {
	vsSource, fsSource := ShaderSources(gl.ShadingLanguage())

	vs := compileShader(gl, log, VertexShader, vsSource)
	fs := compileShader(gl, log, FragmentShader, fsSource)
	if vs == NoShader || fs == NoShader {
		return NoProgram
	}

	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	if !gl.ProgramLinked(p) {
		log.Error("program link failed", "info", gl.ProgramInfoLog(p))
		return NoProgram
	}
	return p
}

func compileShader(gl Context, log *slog.Logger, typ Enum, src string) Shader {
	s := gl.CreateShader(typ)
	gl.ShaderSource(s, src)
	gl.CompileShader(s)
	if !gl.ShaderCompiled(s) {
		log.Error("shader compile failed", "stage", stageName(typ), "info", gl.ShaderInfoLog(s))
		gl.DeleteShader(s)
		return NoShader
	}
	return s
}

func stageName(typ Enum) string {
	switch typ {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return fmt.Sprintf("0x%04x", uint32(typ))
	}
}
