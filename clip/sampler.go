package clip

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"actioncam/video"
)

// ErrInsufficientFrames is returned when Sample is called with anything other
// than a full buffer's worth of frames. Callers must gate on buffer fullness.
var ErrInsufficientFrames = errors.New("insufficient frames for clip")

// Sampler converts a full frame-buffer snapshot into a fixed-shape Clip:
// spatial center-crop, resize to the target resolution, then rescale pixel
// values from [0, 255] to [-1, 1] into channel-first, time-second layout.
// Stateless and deterministic.
type Sampler struct {
	clipLength int
	cropSize   int
	resizeSize int
}

// NewSampler creates a sampler producing clips of clipLength frames,
// center-cropped to cropSize and resized to resizeSize pixels square.
func NewSampler(clipLength, cropSize, resizeSize int) *Sampler {
	return &Sampler{
		clipLength: clipLength,
		cropSize:   cropSize,
		resizeSize: resizeSize,
	}
}

// Sample builds a Clip from exactly clipLength frames in arrival order.
func (s *Sampler) Sample(frames []video.Frame) (*Clip, error) {
	if len(frames) != s.clipLength {
		return nil, fmt.Errorf("%w: got %d frames, want %d", ErrInsufficientFrames, len(frames), s.clipLength)
	}

	out := &Clip{
		Data:     make([]float32, 3*len(frames)*s.resizeSize*s.resizeSize),
		Channels: 3,
		Frames:   len(frames),
		Height:   s.resizeSize,
		Width:    s.resizeSize,
	}

	for t, f := range frames {
		pixels, err := s.cropAndResize(f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", t, err)
		}
		// Rescale to [-1, 1] and permute from interleaved HWC into the
		// channel-first, time-second tensor layout.
		for y := 0; y < s.resizeSize; y++ {
			for x := 0; x < s.resizeSize; x++ {
				for ch := 0; ch < 3; ch++ {
					v := float32(pixels[(y*s.resizeSize+x)*3+ch])/255*2 - 1
					out.Data[((ch*out.Frames+t)*out.Height+y)*out.Width+x] = v
				}
			}
		}
	}

	return out, nil
}

// cropAndResize center-crops the frame to the crop window (clamped to the
// frame bounds) and resizes it to the target resolution, returning packed
// HWC bytes.
func (s *Sampler) cropAndResize(f video.Frame) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Data)
	if err != nil {
		return nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer mat.Close()

	cropW, cropH := s.cropSize, s.cropSize
	if cropW > f.Width {
		cropW = f.Width
	}
	if cropH > f.Height {
		cropH = f.Height
	}
	x0 := (f.Width - cropW) / 2
	y0 := (f.Height - cropH) / 2

	roi := mat.Region(image.Rect(x0, y0, x0+cropW, y0+cropH))
	defer roi.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(roi, &resized, image.Pt(s.resizeSize, s.resizeSize), 0, 0, gocv.InterpolationLinear)

	return resized.ToBytes(), nil
}
