package glprint

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// sha256 of four zero bytes: the readback of a cleared-to-zero 1x1 surface.
const zeroPixelFingerprint = "df3f619804a92fdb4057192dc43dd748ea778adc52bc498ce80524c014b81119"

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestGenerateZeroPixel(t *testing.T) {
	gl := newFakeContext(1, 1)
	host := &fakeHost{gl: gl}

	fp, err := Generate(context.Background(), host)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if fp != zeroPixelFingerprint {
		t.Errorf("Generate() = %s, want %s", fp, zeroPixelFingerprint)
	}
	if host.surfaces != 1 || host.released != 1 {
		t.Errorf("surfaces created/released = %d/%d, want 1/1", host.surfaces, host.released)
	}
}

func TestGenerateCallSequence(t *testing.T) {
	gl := newFakeContext(1, 1)
	if _, err := Generate(context.Background(), &fakeHost{gl: gl}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{
		"CreateShader(vertex)",
		"CompileShader(1)",
		"CreateShader(fragment)",
		"CompileShader(2)",
		"LinkProgram",
		"UseProgram",
		"BindBuffer(0x8892)",
		"BufferData(0x8892, [0 0.5 -0.5 -0.5 0.5 -0.5], 0x88e4)",
		"EnableVertexAttribArray(0)",
		"VertexAttribPointer(0, 2, 0x1406, false, 0, 0)",
		"Uniform4f(0, 1, 1, 0, 1)",
		"ClearColor(0, 0, 0, 1)",
		"Clear(0x4000)",
		"DrawArrays(0x0004, 0, 3)",
		"ReadPixels(0, 0, 1, 1, 0x1908, 0x1401, 4)",
	}
	if len(gl.calls) != len(want) {
		t.Fatalf("recorded %d calls, want %d:\n%s", len(gl.calls), len(want), strings.Join(gl.calls, "\n"))
	}
	for i := range want {
		if gl.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, gl.calls[i], want[i])
		}
	}
}

func TestGenerateShaderDialect(t *testing.T) {
	tests := []struct {
		lang     ShadingLanguage
		contains string
	}{
		{GLSLES100, "gl_FragColor"},
		{WGSL, "@fragment"},
	}
	for _, tt := range tests {
		t.Run(tt.lang.String(), func(t *testing.T) {
			gl := newFakeContext(2, 2)
			gl.lang = tt.lang
			if _, err := Generate(context.Background(), &fakeHost{gl: gl}); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !strings.Contains(gl.sources[2], tt.contains) {
				t.Errorf("fragment source %q does not contain %q", gl.sources[2], tt.contains)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gl := newFakeContext(4, 3)
	gl.fill = 0x7f
	host := &fakeHost{gl: gl}

	first, err := Generate(context.Background(), host)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	second, err := Generate(context.Background(), host)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if first != second {
		t.Errorf("fingerprints differ: %s != %s", first, second)
	}
	if !IsFingerprint(first) {
		t.Errorf("IsFingerprint(%q) = false", first)
	}
	if first == zeroPixelFingerprint {
		t.Error("different pixels produced the zero-pixel fingerprint")
	}
}

func TestGenerateNoContext(t *testing.T) {
	gl := newFakeContext(1, 1)
	host := &fakeHost{gl: gl, noContext: true}
	d := &countingDigester{}

	_, err := Generate(context.Background(), host, WithDigester(d))
	if !errors.Is(err, ErrEnvironmentUnsupported) {
		t.Fatalf("Generate() error = %v, want ErrEnvironmentUnsupported", err)
	}
	if gl.called("DrawArrays") {
		t.Error("DrawArrays called without a context")
	}
	if d.calls != 0 {
		t.Errorf("digest called %d times, want 0", d.calls)
	}
	if host.released != 1 {
		t.Errorf("surface released %d times, want 1", host.released)
	}
}

func TestGenerateSurfaceError(t *testing.T) {
	tests := []struct {
		name       string
		surfaceErr error
		want       error
	}{
		{"unsupported", ErrEnvironmentUnsupported, ErrEnvironmentUnsupported},
		{"other", errFakeDevice, errFakeDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(context.Background(), &fakeHost{surfaceErr: tt.surfaceErr})
			if !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerateShaderCompileFailure(t *testing.T) {
	for _, stage := range []Enum{VertexShader, FragmentShader} {
		t.Run(stageName(stage), func(t *testing.T) {
			logs := captureLog(t)
			gl := newFakeContext(1, 1)
			gl.failStage = stage
			d := &countingDigester{}

			_, err := Generate(context.Background(), &fakeHost{gl: gl}, WithDigester(d))
			if !errors.Is(err, ErrPipelineInitFailed) {
				t.Fatalf("Generate() error = %v, want ErrPipelineInitFailed", err)
			}
			if gl.called("ReadPixels") {
				t.Error("ReadPixels reached after compile failure")
			}
			if gl.called("LinkProgram") {
				t.Error("LinkProgram reached after compile failure")
			}
			if d.calls != 0 {
				t.Errorf("digest called %d times, want 0", d.calls)
			}
			if len(gl.deleted) != 1 {
				t.Errorf("deleted %d shaders, want 1", len(gl.deleted))
			}
			out := logs.String()
			if !strings.Contains(out, "stage="+stageName(stage)) || !strings.Contains(out, "syntax error") {
				t.Errorf("log output %q lacks stage diagnostic", out)
			}
		})
	}
}

func TestGenerateLinkFailure(t *testing.T) {
	logs := captureLog(t)
	gl := newFakeContext(1, 1)
	gl.failLink = true

	_, err := Generate(context.Background(), &fakeHost{gl: gl})
	if !errors.Is(err, ErrPipelineInitFailed) {
		t.Fatalf("Generate() error = %v, want ErrPipelineInitFailed", err)
	}
	if gl.called("ReadPixels") {
		t.Error("ReadPixels reached after link failure")
	}
	if !strings.Contains(logs.String(), "varying mismatch") {
		t.Errorf("log output %q lacks link diagnostic", logs.String())
	}
}

func TestGenerateDeferredError(t *testing.T) {
	gl := newFakeContext(1, 1)
	gl.err = errFakeDevice
	d := &countingDigester{}

	_, err := Generate(context.Background(), &fakeHost{gl: gl}, WithDigester(d))
	if !errors.Is(err, errFakeDevice) {
		t.Fatalf("Generate() error = %v, want %v", err, errFakeDevice)
	}
	if d.calls != 0 {
		t.Errorf("digest called %d times after render failure", d.calls)
	}
}

func TestGenerateDigestError(t *testing.T) {
	d := &countingDigester{err: context.Canceled}
	_, err := Generate(context.Background(), &fakeHost{gl: newFakeContext(1, 1)}, WithDigester(d))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerateReadbackObserver(t *testing.T) {
	gl := newFakeContext(3, 2)
	gl.fill = 9

	var got Readback
	_, err := Generate(context.Background(), &fakeHost{gl: gl}, WithReadback(func(rb Readback) {
		got = rb
	}))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Errorf("readback size = %dx%d, want 3x2", got.Width, got.Height)
	}
	if len(got.Pixels) != 3*2*4 {
		t.Errorf("readback length = %d, want %d", len(got.Pixels), 3*2*4)
	}
	if got.Pixels[0] != 9 {
		t.Errorf("readback[0] = %d, want 9", got.Pixels[0])
	}
}

func TestVerify(t *testing.T) {
	g := New(&fakeHost{gl: newFakeContext(1, 1)})

	ok, err := g.Verify(context.Background(), zeroPixelFingerprint)
	if err != nil || !ok {
		t.Errorf("Verify(match) = %v, %v; want true, nil", ok, err)
	}
	ok, err = g.Verify(context.Background(), strings.Repeat("0", FingerprintLength))
	if err != nil || ok {
		t.Errorf("Verify(mismatch) = %v, %v; want false, nil", ok, err)
	}
}
