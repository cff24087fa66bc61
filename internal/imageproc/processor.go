// Package imageproc prepares images for upload: one optional crop and one
// optional downscale, executed as a single transform producing a JPEG.
package imageproc

import (
	"context"
	"fmt"
	"log/slog"

	"socialfeed/internal/geometry"
	"socialfeed/internal/model"
)

// Format is the encoding of a transformed asset.
type Format string

// Supported output formats.
const (
	FormatJPEG Format = "jpeg"
)

// CropAction selects a pixel rectangle of the working image.
type CropAction struct {
	OriginX int
	OriginY int
	Width   int
	Height  int
}

// ResizeAction scales the working image to exact dimensions.
type ResizeAction struct {
	Width  int
	Height int
}

// Action is one step of a transform. Exactly one field is set.
type Action struct {
	Crop   *CropAction
	Resize *ResizeAction
}

// SaveOptions controls the encoding of the transformed asset.
type SaveOptions struct {
	Format  Format
	Quality float64
}

// Output describes the asset produced by a Transformer. Width and Height may
// be zero when the backend does not report them.
type Output struct {
	URI    string
	Width  int
	Height int
}

// Transformer is the image transform backend. It applies all actions in
// order as one request.
type Transformer interface {
	Transform(ctx context.Context, sourceURI string, actions []Action, opts SaveOptions) (Output, error)
}

// Request describes an image to prepare for upload.
type Request struct {
	SourceURI    string
	SourceWidth  int
	SourceHeight int
	Crop         *geometry.CropRect
	MaxLongSide  int
	Quality      float64
}

// Result is the prepared asset.
type Result struct {
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageProcessingError reports a failed transform. Callers may fall back to
// the unprocessed source.
type ImageProcessingError struct {
	SourceURI string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("process image %s: %v", e.SourceURI, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// Processor builds and runs upload transforms.
type Processor struct {
	transformer Transformer
	log         *slog.Logger
}

// New creates a Processor backed by the given transformer.
func New(t Transformer, log *slog.Logger) *Processor {
	return &Processor{transformer: t, log: log}
}

// Process crops (when req.Crop is set) and downscales (when the working size
// exceeds MaxLongSide) the source image in one transform.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	actions, width, height := Plan(req)

	quality := req.Quality
	if quality <= 0 || quality > 1 {
		quality = model.DefaultUploadQuality
	}

	out, err := p.transformer.Transform(ctx, req.SourceURI, actions, SaveOptions{Format: FormatJPEG, Quality: quality})
	if err != nil {
		return Result{}, &ImageProcessingError{SourceURI: req.SourceURI, Err: err}
	}

	res := Result{URI: out.URI, Width: width, Height: height}
	if out.Width > 0 {
		res.Width = out.Width
	}
	if out.Height > 0 {
		res.Height = out.Height
	}
	p.log.Debug("image processed", "source", req.SourceURI, "uri", res.URI,
		"actions", len(actions), "width", res.Width, "height", res.Height)
	return res, nil
}

// Plan returns the ordered actions for req and the working dimensions after
// they are applied.
func Plan(req Request) ([]Action, int, int) {
	width := max(req.SourceWidth, 1)
	height := max(req.SourceHeight, 1)

	var actions []Action
	if c := req.Crop; c != nil {
		crop := &CropAction{
			OriginX: max(c.OriginX, 0),
			OriginY: max(c.OriginY, 0),
			Width:   max(c.Width, 1),
			Height:  max(c.Height, 1),
		}
		actions = append(actions, Action{Crop: crop})
		width, height = crop.Width, crop.Height
	}

	if size, ok := geometry.ResizeForMaxLongSide(width, height, req.MaxLongSide); ok {
		resize := &ResizeAction{Width: int(size.Width), Height: int(size.Height)}
		actions = append(actions, Action{Resize: resize})
		width, height = resize.Width, resize.Height
	}

	return actions, width, height
}
