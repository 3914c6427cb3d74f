// Package certificates renders completion certificates as PNG images
package certificates

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 3500
	canvasHeight = 2400
	borderWidth  = 20

	titleSize = 120
	bodySize  = 80
	dateSize  = 60

	lineSpacing = 1.25
)

var (
	navy  = color.NRGBA{R: 0x1f, G: 0x40, B: 0x68, A: 0xff}
	ink   = color.NRGBA{R: 0x1b, G: 0x1b, B: 0x2f, A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Content is what gets printed on a certificate
type Content struct {
	StudentName string
	CourseTitle string
	CompletedOn time.Time
}

// FilePath returns the storage path of the certificate of a student in a course
func FilePath(studentID, courseID int) string {
	return fmt.Sprintf("certificates/%d_%d_certificate.png", studentID, courseID)
}

// Renderer draws certificates with a TrueType/OpenType font, or with the
// built-in bitmap font when none could be loaded
type Renderer struct {
	font *opentype.Font
}

// NewRenderer creates a renderer. An empty, missing or unparsable font file
// selects the built-in fallback font; the returned error explains why and is
// informational only.
func NewRenderer(fontPath string) (*Renderer, error) {
	if fontPath == "" {
		return &Renderer{}, nil
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return &Renderer{}, fmt.Errorf("failed to read font %s: %w", fontPath, err)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return &Renderer{}, fmt.Errorf("failed to parse font %s: %w", fontPath, err)
	}

	return &Renderer{font: f}, nil
}

// UsesFallbackFont reports whether the built-in bitmap font is used
func (r *Renderer) UsesFallbackFont() bool {
	return r.font == nil
}

// Render draws the certificate and writes it to w as PNG
func (r *Renderer) Render(w io.Writer, content Content) error {
	// Navy frame with a white sheet pasted inside
	canvas := imaging.New(canvasWidth, canvasHeight, navy)
	sheet := imaging.New(canvasWidth-2*borderWidth, canvasHeight-2*borderWidth, white)
	canvas = imaging.Paste(canvas, sheet, image.Pt(borderWidth, borderWidth))

	blocks := []struct {
		text  string
		top   int
		size  float64
		color color.Color
	}{
		{"Certificate of Completion", 300, titleSize, navy},
		{"This is to certify that\n" + content.StudentName, 700, bodySize, ink},
		{"has successfully completed the course\n" + content.CourseTitle, 1000, bodySize, ink},
		{"Completed on " + content.CompletedOn.Format("January 02, 2006"), 1400, dateSize, ink},
	}

	var err error
	for _, block := range blocks {
		top := block.top
		for _, line := range strings.Split(block.text, "\n") {
			canvas, err = r.drawCentered(canvas, line, top, block.size, block.color)
			if err != nil {
				return err
			}
			top += int(block.size * lineSpacing)
		}
	}

	if err := imaging.Encode(w, canvas, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode certificate: %w", err)
	}
	return nil
}

// drawCentered draws one line horizontally centered with its top edge at top
func (r *Renderer) drawCentered(canvas *image.NRGBA, text string, top int, size float64, c color.Color) (*image.NRGBA, error) {
	if r.font == nil {
		return drawScaledBitmap(canvas, text, top, size, c), nil
	}

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := drawer.MeasureString(text).Ceil()
	drawer.Dot = fixed.P((canvasWidth-width)/2, top+face.Metrics().Ascent.Ceil())
	drawer.DrawString(text)

	return canvas, nil
}

// drawScaledBitmap draws text with basicfont.Face7x13 on a transparent strip,
// scales the strip to the requested size and overlays it on the canvas
func drawScaledBitmap(canvas *image.NRGBA, text string, top int, size float64, c color.Color) *image.NRGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return canvas
	}

	strip := image.NewNRGBA(image.Rect(0, 0, width, face.Height))
	drawer := &font.Drawer{
		Dst:  strip,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(text)

	scale := size / float64(face.Height)
	scaled := imaging.Resize(strip, int(float64(width)*scale), 0, imaging.NearestNeighbor)

	return imaging.Overlay(canvas, scaled, image.Pt((canvasWidth-scaled.Bounds().Dx())/2, top), 1.0)
}
