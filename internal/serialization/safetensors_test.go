package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/imageops/internal/tensor"
)

func newRaw(t *testing.T, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	require.NoError(t, err)
	return raw
}

// rawHeader builds a SafeTensors stream from a hand-written header and data section.
func rawHeader(t *testing.T, header map[string]any, data []byte) *bytes.Reader {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))))
	buf.Write(headerJSON)
	buf.Write(data)
	return bytes.NewReader(buf.Bytes())
}

// TestSafeTensorsRoundTrip tests write → read for every supported dtype.
func TestSafeTensorsRoundTrip(t *testing.T) {
	images := newRaw(t, tensor.Shape{2, 3, 4, 1}, tensor.Float32)
	for i := range images.AsFloat32() {
		images.AsFloat32()[i] = float32(i) * 0.5
	}
	boxes := newRaw(t, tensor.Shape{2, 4}, tensor.Float64)
	copy(boxes.AsFloat64(), []float64{0, 0, 1, 1, 0.25, 0.1, 0.75, 0.9})
	idx32 := newRaw(t, tensor.Shape{2}, tensor.Int32)
	copy(idx32.AsInt32(), []int32{1, 0})
	idx64 := newRaw(t, tensor.Shape{3}, tensor.Int64)
	copy(idx64.AsInt64(), []int64{-1, 0, 1 << 40})

	original := map[string]*tensor.RawTensor{
		"images":    images,
		"boxes":     boxes,
		"index32":   idx32,
		"box_index": idx64,
	}
	metadata := map[string]string{"method": "bilinear", "center": "true"}

	var buf bytes.Buffer
	require.NoError(t, WriteSafeTensors(&buf, original, metadata))

	loaded, gotMeta, err := ReadSafeTensors(&buf)
	require.NoError(t, err)
	assert.Equal(t, metadata, gotMeta)
	require.Len(t, loaded, len(original))

	for name, want := range original {
		got, ok := loaded[name]
		require.True(t, ok, name)
		assert.Equal(t, want.Shape(), got.Shape(), name)
		assert.Equal(t, want.DType(), got.DType(), name)
		assert.True(t, want.SameData(got), name)
	}
}

// TestSafeTensorsHeaderLayout checks alignment, sorting and offsets of the header.
func TestSafeTensorsHeaderLayout(t *testing.T) {
	b := newRaw(t, tensor.Shape{2}, tensor.Float64)
	a := newRaw(t, tensor.Shape{3}, tensor.Int32)

	var buf bytes.Buffer
	require.NoError(t, WriteSafeTensors(&buf, map[string]*tensor.RawTensor{"b": b, "a": a}, nil))

	stream := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(stream[:8])
	assert.Zero(t, headerSize%headerAlignment)
	assert.Len(t, stream, 8+int(headerSize)+12+16)

	var header map[string]SafeTensorInfo
	require.NoError(t, json.Unmarshal(stream[8:8+headerSize], &header))
	assert.NotContains(t, header, metadataKey)

	assert.Equal(t, SafeTensorInfo{DType: SafeTensorsI32, Shape: []int64{3}, DataOffsets: [2]int64{0, 12}}, header["a"])
	assert.Equal(t, SafeTensorInfo{DType: SafeTensorsF64, Shape: []int64{2}, DataOffsets: [2]int64{12, 28}}, header["b"])
}

// TestSafeTensorsFileRoundTrip tests the path based helpers.
func TestSafeTensorsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.safetensors")

	crops := newRaw(t, tensor.Shape{1, 2, 2, 3}, tensor.Float32)
	crops.AsFloat32()[5] = 42

	require.NoError(t, WriteSafeTensorsFile(path, map[string]*tensor.RawTensor{"crops": crops}, nil))

	loaded, metadata, err := ReadSafeTensorsFile(path)
	require.NoError(t, err)
	assert.Nil(t, metadata)
	assert.Equal(t, float32(42), loaded["crops"].AsFloat32()[5])

	_, _, err = ReadSafeTensorsFile(filepath.Join(t.TempDir(), "missing.safetensors"))
	assert.Error(t, err)
}

func TestWriteSafeTensors_InvalidName(t *testing.T) {
	raw := newRaw(t, tensor.Shape{1}, tensor.Float32)

	err := WriteSafeTensors(&bytes.Buffer{}, map[string]*tensor.RawTensor{"../x": raw}, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)
}

func TestReadSafeTensors_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))

	_, _, err := ReadSafeTensors(&buf)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestReadSafeTensors_Truncated(t *testing.T) {
	_, _, err := ReadSafeTensors(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err, "short size prefix")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(64)))
	buf.WriteString(`{"a":`)
	_, _, err = ReadSafeTensors(&buf)
	assert.Error(t, err, "short header")
}

func TestReadSafeTensors_Malformed(t *testing.T) {
	data := make([]byte, 16)

	tests := []struct {
		name    string
		header  map[string]any
		wantErr error
	}{
		{
			name: "unsupported dtype",
			header: map[string]any{
				"x": SafeTensorInfo{DType: "F16", Shape: []int64{8}, DataOffsets: [2]int64{0, 16}},
			},
			wantErr: ErrUnsupportedDType,
		},
		{
			name: "out of bounds",
			header: map[string]any{
				"x": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{8}, DataOffsets: [2]int64{0, 32}},
			},
			wantErr: ErrOutOfBounds,
		},
		{
			name: "overlap",
			header: map[string]any{
				"x": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{2}, DataOffsets: [2]int64{0, 8}},
				"y": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{2}, DataOffsets: [2]int64{4, 12}},
			},
			wantErr: ErrOffsetOverlap,
		},
		{
			name: "size mismatch",
			header: map[string]any{
				"x": SafeTensorInfo{DType: SafeTensorsF64, Shape: []int64{3}, DataOffsets: [2]int64{0, 16}},
			},
			wantErr: ErrSizeMismatch,
		},
		{
			name: "inverted offsets",
			header: map[string]any{
				"x": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{1}, DataOffsets: [2]int64{8, 4}},
			},
			wantErr: ErrNegativeOffset,
		},
		{
			name: "invalid name",
			header: map[string]any{
				"a/b": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{4}, DataOffsets: [2]int64{0, 16}},
			},
			wantErr: ErrInvalidTensorName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadSafeTensors(rawHeader(t, tt.header, data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("zero dimension", func(t *testing.T) {
		header := map[string]any{
			"x": SafeTensorInfo{DType: SafeTensorsF32, Shape: []int64{0, 4}, DataOffsets: [2]int64{0, 0}},
		}
		_, _, err := ReadSafeTensors(rawHeader(t, header, data))
		assert.Error(t, err)
	})

	t.Run("bad metadata", func(t *testing.T) {
		header := map[string]any{metadataKey: map[string]int{"n": 1}}
		_, _, err := ReadSafeTensors(rawHeader(t, header, nil))
		assert.Error(t, err)
	})
}
