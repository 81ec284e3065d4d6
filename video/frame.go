package video

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFrameShape is returned when an ingested frame does not match the
// configured capture shape. Offending frames are dropped by the caller.
var ErrInvalidFrameShape = errors.New("invalid frame shape")

// Frame is a single color image sample from the ingestion path. Data holds
// packed height*width*3 bytes in row-major order.
type Frame struct {
	Data      []byte
	Width     int
	Height    int
	Channels  int
	Sequence  int64
	Timestamp time.Time
}

// CheckShape verifies the frame against the configured capture dimensions.
func (f Frame) CheckShape(width, height int) error {
	if f.Width != width || f.Height != height || f.Channels != 3 {
		return fmt.Errorf("%w: got %dx%dx%d, want %dx%dx3",
			ErrInvalidFrameShape, f.Width, f.Height, f.Channels, width, height)
	}
	if len(f.Data) != width*height*3 {
		return fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidFrameShape, len(f.Data), width*height*3)
	}
	return nil
}
