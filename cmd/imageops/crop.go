package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/imageops/internal/serialization"
	"github.com/born-ml/imageops/tensor"
)

type cropOptions struct {
	cropHeight    int
	cropWidth     int
	boxes         []string
	boxesFile     string
	method        string
	extrapolation float64
}

func newCropCmd(opts *options) *cobra.Command {
	c := &cropOptions{}

	cmd := &cobra.Command{
		Use:   "crop [flags] IN OUT",
		Short: "Extract resized crops from normalized boxes",
		Long: `crop samples each box (y1, x1, y2, x2 in normalized [0, 1] coordinates,
mapped onto [0, height-1] and [0, width-1]) from the image selected by its
batch index and resizes it to crop-height x crop-width. Samples outside the
image take the extrapolation value.

Boxes come from repeated --box flags or from a SafeTensors file holding a
"boxes" [N, 4] tensor and an optional "box_indices" [N] tensor.`,
		Example: `  imageops crop --crop-height 64 --crop-width 64 --box 0.1,0.1,0.6,0.6 photo.png face.png
  imageops crop --crop-height 7 --crop-width 7 --boxes rois.safetensors batch.safetensors crops.safetensors`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCrop(opts, c, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&c.cropHeight, "crop-height", 0, "Height of every crop in pixels")
	flags.IntVar(&c.cropWidth, "crop-width", 0, "Width of every crop in pixels")
	flags.StringArrayVar(&c.boxes, "box", nil, "Box as y1,x1,y2,x2[@index]; repeatable")
	flags.StringVar(&c.boxesFile, "boxes", "", "SafeTensors file with boxes and box_indices tensors")
	flags.StringVar(&c.method, "method", tensor.Bilinear.String(), "Sampling method: bilinear or nearest")
	flags.Float64Var(&c.extrapolation, "extrapolation", 0, "Value for samples outside the image")
	_ = cmd.MarkFlagRequired("crop-height")
	_ = cmd.MarkFlagRequired("crop-width")
	cmd.MarkFlagsMutuallyExclusive("box", "boxes")
	cmd.MarkFlagsOneRequired("box", "boxes")

	return cmd
}

func runCrop(opts *options, c *cropOptions, in, out string) error {
	method, err := tensor.ParseResizeMethod(c.method)
	if err != nil {
		return err
	}

	images, err := loadImages(opts.logger, in)
	if err != nil {
		return err
	}
	if len(images.Shape()) != 4 {
		return fmt.Errorf("%s: expected [batch, height, width, channels], got %v", in, images.Shape())
	}
	if c.cropHeight <= 0 || c.cropWidth <= 0 {
		return fmt.Errorf("crop size must be positive, got %dx%d", c.cropHeight, c.cropWidth)
	}

	var boxes, indices *tensor.RawTensor
	if c.boxesFile != "" {
		boxes, indices, err = loadBoxes(c.boxesFile, images.DType())
	} else {
		boxes, indices, err = parseBoxes(c.boxes, images.DType())
	}
	if err != nil {
		return err
	}

	numBoxes := boxes.Shape()[0]
	channels := images.Shape()[tensor.AxisChannel]
	output, err := tensor.NewRaw(tensor.Shape{numBoxes, c.cropHeight, c.cropWidth, channels}, images.DType(), tensor.CPU)
	if err != nil {
		return err
	}

	backend := opts.backend()
	if err := backend.CropAndResize(images, boxes, indices, c.cropHeight, c.cropWidth, method, c.extrapolation, output); err != nil {
		return err
	}
	opts.logger.Debug("cropped", "boxes", numBoxes, "method", method, "extrapolation", c.extrapolation)

	metadata := map[string]string{
		"op":            "crop_and_resize",
		"method":        method.String(),
		"extrapolation": strconv.FormatFloat(c.extrapolation, 'g', -1, 64),
	}
	return saveImages(opts.logger, out, output, cropsTensor, metadata, true)
}

// parseBox parses "y1,x1,y2,x2" with an optional "@index" suffix.
func parseBox(s string) (box [4]float64, index int64, err error) {
	coords, idx, hasIndex := strings.Cut(s, "@")
	if hasIndex {
		index, err = strconv.ParseInt(strings.TrimSpace(idx), 10, 64)
		if err != nil {
			return box, 0, fmt.Errorf("box %q: bad index: %w", s, err)
		}
	}

	parts := strings.Split(coords, ",")
	if len(parts) != 4 {
		return box, 0, fmt.Errorf("box %q: want 4 comma-separated values, got %d", s, len(parts))
	}
	for i, p := range parts {
		box[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return box, 0, fmt.Errorf("box %q: %w", s, err)
		}
	}
	return box, index, nil
}

// parseBoxes builds the boxes tensor (in dtype) and the int64 index tensor
// from --box flags.
func parseBoxes(specs []string, dtype tensor.DataType) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("no boxes given")
	}

	values := make([]float64, 0, 4*len(specs))
	idx := make([]int64, len(specs))
	for i, s := range specs {
		box, index, err := parseBox(s)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, box[:]...)
		idx[i] = index
	}

	boxes, err := floatTensor(values, tensor.Shape{len(specs), 4}, dtype)
	if err != nil {
		return nil, nil, err
	}
	indices, err := tensor.NewRaw(tensor.Shape{len(specs)}, tensor.Int64, tensor.CPU)
	if err != nil {
		return nil, nil, err
	}
	copy(indices.AsInt64(), idx)
	return boxes, indices, nil
}

// loadBoxes reads the boxes and box_indices tensors of a SafeTensors file.
// Boxes are converted to dtype; missing indices default to image 0.
func loadBoxes(path string, dtype tensor.DataType) (*tensor.RawTensor, *tensor.RawTensor, error) {
	tensors, _, err := serialization.ReadSafeTensorsFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	boxes, ok := tensors[boxesTensor]
	if !ok {
		return nil, nil, fmt.Errorf("read %s: no %q tensor", path, boxesTensor)
	}
	if len(boxes.Shape()) != 2 {
		return nil, nil, fmt.Errorf("read %s: boxes must be [num_boxes, 4], got %v", path, boxes.Shape())
	}
	if boxes.DType() != dtype {
		values, err := floatValues(boxes)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: boxes: %w", path, err)
		}
		if boxes, err = floatTensor(values, boxes.Shape(), dtype); err != nil {
			return nil, nil, err
		}
	}

	indices, ok := tensors[boxIndicesTensor]
	if !ok {
		if indices, err = tensor.NewRaw(tensor.Shape{boxes.Shape()[0]}, tensor.Int32, tensor.CPU); err != nil {
			return nil, nil, err
		}
	}
	return boxes, indices, nil
}

// floatTensor creates a tensor of dtype holding values. Non-float dtypes
// fall back to float32; the backend rejects them alongside the images.
func floatTensor(values []float64, shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if dtype != tensor.Float64 {
		dtype = tensor.Float32
	}
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, err
	}

	if dtype == tensor.Float64 {
		copy(raw.AsFloat64(), values)
		return raw, nil
	}
	data := raw.AsFloat32()
	for i, v := range values {
		data[i] = float32(v)
	}
	return raw, nil
}

// floatValues returns the elements of raw as float64.
func floatValues(raw *tensor.RawTensor) ([]float64, error) {
	out := make([]float64, raw.NumElements())
	switch raw.DType() {
	case tensor.Float32:
		for i, v := range raw.AsFloat32() {
			out[i] = float64(v)
		}
	case tensor.Float64:
		copy(out, raw.AsFloat64())
	default:
		return nil, fmt.Errorf("unsupported dtype %s", raw.DType())
	}
	return out, nil
}
