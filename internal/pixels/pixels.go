// Package pixels converts RGBA readback buffers between the layouts used by
// GPU copies, GL readback and image files.
package pixels

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// CopyPitchAlignment is the row alignment WebGPU requires for
// texture-to-buffer copies.
const CopyPitchAlignment = 256

// AlignedBytesPerRow returns the row pitch of a width-pixel row rounded up
// to CopyPitchAlignment.
func AlignedBytesPerRow(width int) int {
	bytesPerRow := width * BytesPerPixel
	return (bytesPerRow + CopyPitchAlignment - 1) &^ (CopyPitchAlignment - 1)
}

// Unpad strips per-row padding from src, whose rows are pitch bytes apart,
// and returns tightly packed rows. src is returned as-is when there is no
// padding.
func Unpad(src []byte, width, height, pitch int) []byte {
	bytesPerRow := width * BytesPerPixel
	if pitch == bytesPerRow {
		return src[:bytesPerRow*height]
	}
	tight := make([]byte, bytesPerRow*height)
	for row := 0; row < height; row++ {
		copy(tight[row*bytesPerRow:(row+1)*bytesPerRow], src[row*pitch:row*pitch+bytesPerRow])
	}
	return tight
}

// FlipRows reverses the row order of a tightly packed buffer in place.
// It converts between top-down image rows and bottom-up GL rows.
func FlipRows(buf []byte, width, height int) {
	bytesPerRow := width * BytesPerPixel
	tmp := make([]byte, bytesPerRow)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := buf[top*bytesPerRow : (top+1)*bytesPerRow]
		b := buf[bottom*bytesPerRow : (bottom+1)*bytesPerRow]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// CopyRect copies the rectangle (x, y, w, h) of a tightly packed
// srcWidth-wide buffer into dst, which must hold w*h pixels. Pixels outside
// the source are left untouched in dst.
func CopyRect(dst, src []byte, srcWidth, srcHeight, x, y, w, h int) {
	for row := 0; row < h; row++ {
		sy := y + row
		if sy < 0 || sy >= srcHeight {
			continue
		}
		for col := 0; col < w; col++ {
			sx := x + col
			if sx < 0 || sx >= srcWidth {
				continue
			}
			si := (sy*srcWidth + sx) * BytesPerPixel
			di := (row*w + col) * BytesPerPixel
			copy(dst[di:di+BytesPerPixel], src[si:si+BytesPerPixel])
		}
	}
}

// Image wraps a bottom-up GL readback as a top-down image.
func Image(readback []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, readback)
	FlipRows(img.Pix, width, height)
	return img
}

// FormatFromPath returns the image format for a file name: png, bmp or
// tiff. Unknown extensions default to png.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

// Encode writes a bottom-up GL readback to w as an image file.
func Encode(w io.Writer, format string, width, height int, readback []byte) error {
	if len(readback) < width*height*BytesPerPixel {
		return fmt.Errorf("pixels: readback holds %d bytes, want %d", len(readback), width*height*BytesPerPixel)
	}
	img := Image(readback, width, height)

	var err error
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("pixels: unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("pixels: encode %s: %w", format, err)
	}
	return nil
}
