package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource decodes any raster format registered with image.Decode
type ImageSource struct {
	path string
}

func NewImageSource(path string) *ImageSource {
	return &ImageSource{path: path}
}

func (s *ImageSource) Image() (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, s.path, err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
