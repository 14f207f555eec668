package glprint

import (
	"context"
	"strings"
	"testing"
)

func TestSHA256Digester(t *testing.T) {
	sum, err := SHA256.Digest(context.Background(), []byte("abc"))
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := encodeDigest(sum); got != want {
		t.Errorf("Digest(abc) = %s, want %s", got, want)
	}
}

func TestEncodeDigestZeroPadded(t *testing.T) {
	got := encodeDigest([]byte{0x00, 0x0a, 0xff, 0x10})
	if got != "000aff10" {
		t.Errorf("encodeDigest() = %q, want %q", got, "000aff10")
	}
}

func TestIsFingerprint(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{zeroPixelFingerprint, true},
		{strings.ToUpper(zeroPixelFingerprint), false},
		{zeroPixelFingerprint[:63], false},
		{zeroPixelFingerprint + "0", false},
		{strings.Repeat("g", 64), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsFingerprint(tt.in); got != tt.want {
			t.Errorf("IsFingerprint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithDigesterNilKeepsDefault(t *testing.T) {
	g := New(&fakeHost{gl: newFakeContext(1, 1)}, WithDigester(nil))
	fp, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if fp != zeroPixelFingerprint {
		t.Errorf("Generate() = %s, want %s", fp, zeroPixelFingerprint)
	}
}
