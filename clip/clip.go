package clip

// Clip is a normalized classifier input tensor in channel-first, time-second
// layout [C, T, H, W] with pixel values rescaled to [-1, 1]. A clip is built
// fresh for every classification call and discarded afterwards.
type Clip struct {
	Data     []float32
	Channels int
	Frames   int
	Height   int
	Width    int
}

// Dims returns the tensor dimensions in [C, T, H, W] order.
func (c *Clip) Dims() (channels, frames, height, width int) {
	return c.Channels, c.Frames, c.Height, c.Width
}

// At returns the value at channel ch, frame t, row y, column x.
func (c *Clip) At(ch, t, y, x int) float32 {
	return c.Data[((ch*c.Frames+t)*c.Height+y)*c.Width+x]
}
