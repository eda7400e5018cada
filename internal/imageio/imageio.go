// Package imageio converts between Go images and NHWC image tensors and
// reads and writes common image file formats.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/born-ml/imageops/internal/tensor"
)

// Channels is the channel count of tensors produced by FromImage (RGBA).
const Channels = 4

// Supported encode formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// JPEGQuality is the quality used when encoding JPEG files.
const JPEGQuality = 95

// ErrUnsupportedFormat is returned for file formats Encode cannot write.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FromImage converts img to a float32 tensor of shape [1, H, W, 4] holding
// non-premultiplied RGBA values in [0, 255].
func FromImage(img image.Image) *tensor.RawTensor {
	b := img.Bounds()
	raw, err := tensor.NewRaw(tensor.Shape{1, b.Dy(), b.Dx(), Channels}, tensor.Float32, tensor.CPU)
	if err != nil {
		panic(fmt.Sprintf("imageio: empty image bounds %v", b)) // NewRaw only fails on empty bounds
	}
	fillPixels(raw.AsFloat32(), img)
	return raw
}

// Stack converts equally sized images into one [N, H, W, 4] batch tensor.
func Stack(images ...image.Image) (*tensor.RawTensor, error) {
	if len(images) == 0 {
		return nil, errors.New("imageio: no images to stack")
	}
	size := images[0].Bounds().Size()
	for i, img := range images[1:] {
		if img.Bounds().Size() != size {
			return nil, fmt.Errorf("imageio: image %d is %v, want %v", i+1, img.Bounds().Size(), size)
		}
	}

	raw, err := tensor.NewRaw(tensor.Shape{len(images), size.Y, size.X, Channels}, tensor.Float32, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	data := raw.AsFloat32()
	plane := size.X * size.Y * Channels
	for i, img := range images {
		fillPixels(data[i*plane:(i+1)*plane], img)
	}
	return raw, nil
}

// fillPixels writes the RGBA values of img row by row into dst.
func fillPixels(dst []float32, img image.Image) {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := nrgba.Pix[nrgba.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx()*Channels; x++ {
				dst[i] = float32(row[x])
				i++
			}
		}
		return
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst[i], dst[i+1], dst[i+2], dst[i+3] = float32(c.R), float32(c.G), float32(c.B), float32(c.A)
			i += Channels
		}
	}
}

// ToImage converts image index batch of an NHWC float tensor back to an
// 8-bit image. One channel is treated as gray, three as opaque RGB and four
// as non-premultiplied RGBA. Values are rounded and clamped to [0, 255].
func ToImage(raw *tensor.RawTensor, batch int) (*image.NRGBA, error) {
	if !raw.DType().IsFloat() {
		return nil, fmt.Errorf("imageio: unsupported dtype %s", raw.DType())
	}
	n, h, w, c, err := raw.Shape().ImageDims()
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	if batch < 0 || batch >= n {
		return nil, fmt.Errorf("imageio: batch index %d out of range [0, %d)", batch, n)
	}
	if c != 1 && c != 3 && c != 4 {
		return nil, fmt.Errorf("imageio: cannot convert %d channels to an image", c)
	}

	at := func(i int) float64 {
		if raw.DType() == tensor.Float32 {
			return float64(raw.AsFloat32()[i])
		}
		return raw.AsFloat64()[i]
	}

	stride := raw.Strides()[tensor.AxisChannel]
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := raw.Index(batch, y, x, 0)
			px := color.NRGBA{A: 255}
			switch c {
			case 1:
				v := toByte(at(base))
				px.R, px.G, px.B = v, v, v
			case 3, 4:
				px.R = toByte(at(base))
				px.G = toByte(at(base + stride))
				px.B = toByte(at(base + 2*stride))
				if c == 4 {
					px.A = toByte(at(base + 3*stride))
				}
			}
			img.SetNRGBA(x, y, px)
		}
	}
	return img, nil
}

// toByte rounds v half away from zero and clamps it to [0, 255]. NaN maps to 0.
func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP, TIFF, WebP).
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return img, format, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("imageio: %w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}

// FormatFromPath returns the encode format implied by a file extension,
// or "" if the extension is not writable.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return ""
	}
}
