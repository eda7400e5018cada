package imageio

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/born-ml/imageops/internal/backend/cpu"
	"github.com/born-ml/imageops/internal/tensor"
)

// opaqueImage returns a deterministic opaque RGBA test pattern.
func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(7)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed = seed*1664525 + 1013904223
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(seed >> 24),
				G: uint8(seed >> 16),
				B: uint8(seed >> 8),
				A: 255,
			})
		}
	}
	return img
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	raw := FromImage(img)
	assert.Equal(t, tensor.Shape{1, 1, 2, 4}, raw.Shape())
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, []float32{10, 20, 30, 255, 200, 100, 50, 128}, raw.AsFloat32())
}

func TestFromImage_GenericPath(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 77})

	raw := FromImage(img)
	assert.Equal(t, tensor.Shape{1, 2, 2, 4}, raw.Shape())
	assert.Equal(t, []float32{77, 77, 77, 255}, raw.AsFloat32()[12:16])
	assert.Equal(t, []float32{0, 0, 0, 255}, raw.AsFloat32()[:4])
}

func TestFromImage_SubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 3, color.NRGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	raw := FromImage(sub)
	assert.Equal(t, tensor.Shape{1, 2, 2, 4}, raw.Shape())
	assert.Equal(t, float32(9), raw.AsFloat32()[raw.Index(0, 1, 0, 0)])
}

func TestStack(t *testing.T) {
	a := opaqueImage(3, 2)
	b := opaqueImage(3, 2)
	b.SetRGBA(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	raw, err := Stack(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 3, 4}, raw.Shape())
	assert.Equal(t, []float32{1, 2, 3, 255}, raw.AsFloat32()[24:28])

	_, err = Stack(a, opaqueImage(2, 3))
	assert.Error(t, err)

	_, err = Stack()
	assert.Error(t, err)
}

func TestToImage_RoundTrip(t *testing.T) {
	src := opaqueImage(5, 4)
	raw := FromImage(src)

	img, err := ToImage(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	assert.Equal(t, src.Pix, img.Pix)
}

func TestToImage_ChannelLayouts(t *testing.T) {
	gray, err := tensor.NewRaw(tensor.Shape{1, 1, 1, 1}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	gray.AsFloat64()[0] = 99.6

	img, err := ToImage(gray, 0)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, img.NRGBAAt(0, 0))

	rgb, err := tensor.NewRaw(tensor.Shape{1, 1, 1, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(rgb.AsFloat32(), []float32{-4, 300, float32(math.NaN())})

	img, err = ToImage(rgb, 0)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 0, A: 255}, img.NRGBAAt(0, 0))
}

func TestToImage_Errors(t *testing.T) {
	ints, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 4}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	_, err = ToImage(ints, 0)
	assert.Error(t, err, "integer dtype")

	two, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	_, err = ToImage(two, 0)
	assert.Error(t, err, "two channels")

	flat, err := tensor.NewRaw(tensor.Shape{4, 4}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	_, err = ToImage(flat, 0)
	assert.Error(t, err, "rank 2")

	_, err = ToImage(FromImage(opaqueImage(2, 2)), 1)
	assert.Error(t, err, "batch out of range")
}

func TestEncodeDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 5))
	copy(src.Pix, opaqueImage(6, 5).Pix)

	for _, format := range []string{FormatPNG, FormatBMP, FormatTIFF} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format))

			img, got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, format, got)
			assert.Equal(t, FromImage(src).AsFloat32(), FromImage(img).AsFloat32())
		})
	}

	t.Run(FormatJPEG, func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, src, FormatJPEG))

		img, got, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, FormatJPEG, got)
		assert.Equal(t, src.Bounds(), img.Bounds())
	})
}

func TestEncodeUnsupported(t *testing.T) {
	err := Encode(&bytes.Buffer{}, opaqueImage(1, 1), "gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatPNG, FormatFromPath("out/a.PNG"))
	assert.Equal(t, FormatJPEG, FormatFromPath("a.jpg"))
	assert.Equal(t, FormatJPEG, FormatFromPath("a.jpeg"))
	assert.Equal(t, FormatBMP, FormatFromPath("a.bmp"))
	assert.Equal(t, FormatTIFF, FormatFromPath("a.tif"))
	assert.Equal(t, "", FormatFromPath("a.safetensors"))
	assert.Equal(t, "", FormatFromPath("noext"))
}

// Nearest-neighbor center-mode resizing selects the same source pixels as
// x/image/draw when the source size is odd, because no sample then falls on
// an exact pixel boundary.
func TestResizeNearestMatchesXImageDraw(t *testing.T) {
	backend := cpu.New()

	sizes := []struct{ sw, sh, dw, dh int }{
		{7, 5, 3, 4},
		{9, 11, 20, 6},
		{13, 3, 13, 9},
		{5, 5, 1, 1},
	}
	for _, s := range sizes {
		src := opaqueImage(s.sw, s.sh)
		want := image.NewRGBA(image.Rect(0, 0, s.dw, s.dh))
		draw.NearestNeighbor.Scale(want, want.Bounds(), src, src.Bounds(), draw.Src, nil)

		in := FromImage(src)
		out, err := tensor.NewRaw(tensor.Shape{1, s.dh, s.dw, Channels}, tensor.Float32, tensor.CPU)
		require.NoError(t, err)
		require.NoError(t, backend.ResizeNearest(in, s.dw, s.dh, true, out))

		got, err := ToImage(out, 0)
		require.NoError(t, err)
		assert.Equal(t, want.Pix, got.Pix, "%dx%d -> %dx%d", s.sw, s.sh, s.dw, s.dh)
	}
}

// Bilinear center-mode resizing agrees with draw.ApproxBiLinear up to the
// 16-bit truncation x/image applies before narrowing to 8 bits.
func TestResizeBilinearMatchesXImageDraw(t *testing.T) {
	backend := cpu.New()

	sizes := []struct{ sw, sh, dw, dh int }{
		{4, 4, 8, 8},
		{7, 5, 3, 4},
		{10, 6, 17, 13},
	}
	for _, s := range sizes {
		src := opaqueImage(s.sw, s.sh)
		want := image.NewRGBA(image.Rect(0, 0, s.dw, s.dh))
		draw.ApproxBiLinear.Scale(want, want.Bounds(), src, src.Bounds(), draw.Src, nil)

		in := FromImage(src)
		out, err := tensor.NewRaw(tensor.Shape{1, s.dh, s.dw, Channels}, tensor.Float32, tensor.CPU)
		require.NoError(t, err)
		require.NoError(t, backend.ResizeBilinear(in, s.dw, s.dh, true, out))

		got, err := ToImage(out, 0)
		require.NoError(t, err)
		require.Len(t, got.Pix, len(want.Pix))
		for i := range want.Pix {
			assert.InDelta(t, float64(want.Pix[i]), float64(got.Pix[i]), 1,
				"%dx%d -> %dx%d byte %d", s.sw, s.sh, s.dw, s.dh, i)
		}
	}
}
