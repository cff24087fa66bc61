package imageproc

import (
	"context"
	"fmt"
	"image"
	_ "image/png" // PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decoder
)

// LocalTransformer applies transforms to files on the local filesystem and
// writes the results into OutputDir.
type LocalTransformer struct {
	OutputDir string
}

// NewLocalTransformer creates a LocalTransformer writing into dir.
func NewLocalTransformer(dir string) *LocalTransformer {
	return &LocalTransformer{OutputDir: dir}
}

// Transform implements Transformer.
func (l *LocalTransformer) Transform(ctx context.Context, sourceURI string, actions []Action, opts SaveOptions) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if opts.Format != "" && opts.Format != FormatJPEG {
		return Output{}, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	img, err := imaging.Open(localPath(sourceURI), imaging.AutoOrientation(true))
	if err != nil {
		return Output{}, fmt.Errorf("open source: %w", err)
	}

	for _, a := range actions {
		switch {
		case a.Crop != nil:
			c := a.Crop
			img = imaging.Crop(img, image.Rect(c.OriginX, c.OriginY, c.OriginX+c.Width, c.OriginY+c.Height))
		case a.Resize != nil:
			img = imaging.Resize(img, a.Resize.Width, a.Resize.Height, imaging.Lanczos)
		}
	}

	if err := os.MkdirAll(l.OutputDir, 0o750); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}
	dst := filepath.Join(l.OutputDir, uuid.NewString()+".jpg")
	if err := imaging.Save(img, dst, imaging.JPEGQuality(jpegQuality(opts.Quality))); err != nil {
		return Output{}, fmt.Errorf("save output: %w", err)
	}

	b := img.Bounds()
	return Output{URI: "file://" + dst, Width: b.Dx(), Height: b.Dy()}, nil
}

func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func jpegQuality(q float64) int {
	if q <= 0 || q > 1 {
		return 80
	}
	return int(math.Round(q * 100))
}

// Size returns the dimensions of the source image after EXIF orientation is
// applied, which is the coordinate space crop rectangles refer to.
func (l *LocalTransformer) Size(uri string) (int, int, error) {
	img, err := imaging.Open(localPath(uri), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, fmt.Errorf("open source: %w", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
