package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/born-ml/imageops/internal/imageio"
	"github.com/born-ml/imageops/internal/serialization"
	"github.com/born-ml/imageops/tensor"
)

// Tensor names used in SafeTensors inputs and outputs.
const (
	imagesTensor     = "images"
	cropsTensor      = "crops"
	boxesTensor      = "boxes"
	boxIndicesTensor = "box_indices"
)

const safeTensorsExt = ".safetensors"

func isSafeTensors(path string) bool {
	return strings.EqualFold(filepath.Ext(path), safeTensorsExt)
}

// loadImages reads an NHWC image batch from an image file or from the
// "images" tensor of a SafeTensors file.
func loadImages(logger *slog.Logger, path string) (*tensor.RawTensor, error) {
	if isSafeTensors(path) {
		tensors, _, err := serialization.ReadSafeTensorsFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		raw, ok := tensors[imagesTensor]
		if !ok {
			return nil, fmt.Errorf("read %s: no %q tensor", path, imagesTensor)
		}
		logger.Debug("loaded tensor", "path", path, "shape", raw.Shape(), "dtype", raw.DType())
		return raw, nil
	}

	//nolint:gosec // G304: File path comes from the command line
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close() // Read-only; nothing to flush
	}()

	img, format, err := imageio.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	raw := imageio.FromImage(img)
	logger.Debug("loaded image", "path", path, "format", format, "shape", raw.Shape())
	return raw, nil
}

// saveImages writes raw to path. SafeTensors outputs hold the whole batch
// under name; image outputs get one file per batch entry, suffixed "-<n>"
// when indexed is set or the batch holds more than one image.
func saveImages(logger *slog.Logger, path string, raw *tensor.RawTensor, name string,
	metadata map[string]string, indexed bool,
) error {
	if isSafeTensors(path) {
		tensors := map[string]*tensor.RawTensor{name: raw}
		if err := serialization.WriteSafeTensorsFile(path, tensors, metadata); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("wrote tensor", "path", path, "name", name, "shape", raw.Shape())
		return nil
	}

	format := imageio.FormatFromPath(path)
	if format == "" {
		return fmt.Errorf("write %s: %w: %q", path, imageio.ErrUnsupportedFormat, filepath.Ext(path))
	}

	n := raw.Shape()[0]
	for i := 0; i < n; i++ {
		out := path
		if indexed || n > 1 {
			out = indexedPath(path, i)
		}
		if err := saveImage(out, raw, i, format); err != nil {
			return err
		}
		logger.Info("wrote image", "path", out, "format", format)
	}
	return nil
}

func saveImage(path string, raw *tensor.RawTensor, index int, format string) error {
	img, err := imageio.ToImage(raw, index)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	//nolint:gosec // G304: File path comes from the command line
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imageio.Encode(file, img, format); err != nil {
		_ = file.Close() // Best effort close on error
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// indexedPath inserts "-<i>" before the extension: out.png -> out-3.png.
func indexedPath(path string, i int) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + strconv.Itoa(i) + ext
}
