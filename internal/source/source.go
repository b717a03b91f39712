package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrUnsupportedFormat is returned when a file cannot be decoded as an image or PDF.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Source yields the single image a detection runs on
type Source interface {
	Image() (image.Image, error)
	Close() error
}

// Open picks a source by file extension. PDFs are rendered at dpi.
func Open(path string, dpi int) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a single image", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path, dpi)
	}
	return NewImageSource(path), nil
}

// Load opens path and decodes its image in one step.
func Load(path string, dpi int) (image.Image, error) {
	src, err := Open(path, dpi)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.Image()
}

// FitzPDFSource renders the first page of a PDF
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Image() (image.Image, error) {
	if f.doc.NumPage() == 0 {
		return nil, fmt.Errorf("%s has no pages", f.path)
	}
	return f.doc.ImageDPI(0, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
