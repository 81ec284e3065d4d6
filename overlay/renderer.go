package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"actioncam/recognize"
	"actioncam/video"
)

// Renderer draws ranked activity labels onto frames for the debug stream.
// Each rank is rendered at a fixed vertical offset below the previous one.
type Renderer struct {
	origin     image.Point
	lineHeight int
	fontScale  float64
	thickness  int
	textColor  color.RGBA
	shadow     color.RGBA
}

// NewRenderer creates a renderer with the default overlay layout.
func NewRenderer() *Renderer {
	return &Renderer{
		origin:     image.Pt(16, 32),
		lineHeight: 28,
		fontScale:  0.7,
		thickness:  2,
		textColor:  color.RGBA{0, 255, 0, 255},
		shadow:     color.RGBA{0, 0, 0, 255},
	}
}

// Annotate draws the ranked label list onto a copy of the frame and returns
// it JPEG-encoded. The input frame is not modified.
func (r *Renderer) Annotate(f video.Frame, ranked []recognize.RankedLabel) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Data)
	if err != nil {
		return nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer mat.Close()

	img := mat.Clone()
	defer img.Close()

	for i, rl := range ranked {
		text := fmt.Sprintf("%d. %s (%.2f)", rl.Rank, rl.Label, rl.Score)
		pt := image.Pt(r.origin.X, r.origin.Y+i*r.lineHeight)
		// Shadow pass first so labels stay readable on bright frames.
		gocv.PutText(&img, text, image.Pt(pt.X+1, pt.Y+1), gocv.FontHersheySimplex, r.fontScale, r.shadow, r.thickness+1)
		gocv.PutText(&img, text, pt, gocv.FontHersheySimplex, r.fontScale, r.textColor, r.thickness)
	}

	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encoding annotated frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
