package certificates

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

var testContent = Content{
	StudentName: "Grace Hopper",
	CourseTitle: "Go Basics",
	CompletedOn: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func assertFrame(t *testing.T, img image.Image) {
	t.Helper()
	assert.Equal(t, canvasWidth, img.Bounds().Dx())
	assert.Equal(t, canvasHeight, img.Bounds().Dy())

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0x1f, 0x40, 0x68}, [3]uint32{r >> 8, g >> 8, b >> 8}, "border")

	r, g, b, _ = img.At(100, 100).RGBA()
	assert.Equal(t, [3]uint32{0xff, 0xff, 0xff}, [3]uint32{r >> 8, g >> 8, b >> 8}, "sheet")
}

// inked reports whether any pixel in the row band differs from white
func inked(img image.Image, top, bottom int) bool {
	for y := top; y < bottom; y++ {
		for x := borderWidth; x < canvasWidth-borderWidth; x += 3 {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
				return true
			}
		}
	}
	return false
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "certificates/7_3_certificate.png", FilePath(7, 3))
}

func TestNewRenderer_FallbackFont(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0644))

	tests := []struct {
		name      string
		fontPath  string
		expectErr bool
	}{
		{name: "no font configured", fontPath: ""},
		{name: "missing file", fontPath: filepath.Join(t.TempDir(), "missing.ttf"), expectErr: true},
		{name: "unparsable file", fontPath: garbage, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer, err := NewRenderer(tt.fontPath)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, renderer)
			assert.True(t, renderer.UsesFallbackFont())

			var buf bytes.Buffer
			require.NoError(t, renderer.Render(&buf, testContent))

			img := decodePNG(t, buf.Bytes())
			assertFrame(t, img)
			assert.True(t, inked(img, 300, 300+titleSize), "title drawn")
			assert.True(t, inked(img, 1400, 1400+dateSize), "date drawn")
		})
	}
}

func TestRenderer_Render_TrueTypeFont(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0644))

	renderer, err := NewRenderer(fontPath)
	require.NoError(t, err)
	assert.False(t, renderer.UsesFallbackFont())

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, testContent))

	img := decodePNG(t, buf.Bytes())
	assertFrame(t, img)
	assert.True(t, inked(img, 700, 1000), "body drawn")
	assert.False(t, inked(img, 1800, 2300), "bottom stays blank")
}
