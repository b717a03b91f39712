package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})

	path := filepath.Join(dir, "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), 40, 30)

	img, err := Load(path, 150)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestLoadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 12, 8))))
	require.NoError(t, f.Close())

	img, err := Load(path, 150)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
}

func TestLoadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a jpeg"), 0644))

	_, err := Load(path, 150)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), 150)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenDirectory(t *testing.T) {
	_, err := Open(t.TempDir(), 150)
	assert.Error(t, err)
}

func TestOpenPicksSourceByExtension(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 4)

	src, err := Open(path, 150)
	require.NoError(t, err)
	defer src.Close()
	assert.IsType(t, &ImageSource{}, src)
}

// writePDF builds a minimal PDF whose pages are w x h points each
func writePDF(t *testing.T, dir string, pages, w, h int) string {
	t.Helper()

	var kids []string
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
	}
	for i := 0; i < pages; i++ {
		num := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", num))
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] >>", w, h))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	path := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestLoadPDFRendersFirstPage(t *testing.T) {
	path := writePDF(t, t.TempDir(), 2, 72, 36)

	src, err := Open(path, 144)
	require.NoError(t, err)
	defer src.Close()
	assert.IsType(t, &FitzPDFSource{}, src)

	img, err := src.Image()
	require.NoError(t, err)
	assert.InDelta(t, 144, img.Bounds().Dx(), 1)
	assert.InDelta(t, 72, img.Bounds().Dy(), 1)
}

func TestLoadPDFWithoutPages(t *testing.T) {
	path := writePDF(t, t.TempDir(), 0, 72, 36)

	_, err := Load(path, 150)
	assert.Error(t, err)
}
