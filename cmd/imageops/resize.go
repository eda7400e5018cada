package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/imageops/tensor"
)

type resizeOptions struct {
	width  int
	height int
	method string
	center bool
}

func newResizeCmd(opts *options) *cobra.Command {
	r := &resizeOptions{}

	cmd := &cobra.Command{
		Use:   "resize [flags] IN OUT",
		Short: "Resize an image or image batch",
		Example: `  imageops resize --width 640 --height 480 photo.jpg small.png
  imageops resize --width 32 --height 32 --method nearest --center batch.safetensors thumbs.safetensors`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runResize(opts, r, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&r.width, "width", 0, "Output width in pixels")
	flags.IntVar(&r.height, "height", 0, "Output height in pixels")
	flags.StringVar(&r.method, "method", tensor.Bilinear.String(), "Sampling method: bilinear or nearest")
	flags.BoolVar(&r.center, "center", false, "Align pixel centers instead of pixel corners")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func runResize(opts *options, r *resizeOptions, in, out string) error {
	method, err := tensor.ParseResizeMethod(r.method)
	if err != nil {
		return err
	}

	images, err := loadImages(opts.logger, in)
	if err != nil {
		return err
	}
	shape := images.Shape()
	if len(shape) != 4 {
		return fmt.Errorf("%s: expected [batch, height, width, channels], got %v", in, shape)
	}
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("output size must be positive, got %dx%d", r.width, r.height)
	}

	output, err := tensor.NewRaw(shape.ResizedShape(r.height, r.width), images.DType(), tensor.CPU)
	if err != nil {
		return err
	}

	backend := opts.backend()
	switch method {
	case tensor.NearestNeighbor:
		err = backend.ResizeNearest(images, r.width, r.height, r.center, output)
	default:
		err = backend.ResizeBilinear(images, r.width, r.height, r.center, output)
	}
	if err != nil {
		return err
	}
	opts.logger.Debug("resized", "method", method, "center", r.center, "from", shape, "to", output.Shape())

	metadata := map[string]string{
		"op":     "resize",
		"method": method.String(),
		"center": strconv.FormatBool(r.center),
	}
	return saveImages(opts.logger, out, output, imagesTensor, metadata, false)
}
