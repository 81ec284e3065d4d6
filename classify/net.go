package classify

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sync"

	"gocv.io/x/gocv"

	"actioncam/clip"
)

// Net runs the activity-recognition network through the OpenCV DNN module.
// The forward pass is mutex-guarded: OpenCV nets are not safe for concurrent
// inference.
type Net struct {
	net     gocv.Net
	classes int
	gpu     bool
	mu      sync.Mutex
}

// NewNet loads the network from modelPath. classes must match the network's
// output class count. With useGPU set it attempts the CUDA backend and falls
// back to CPU when no usable GPU is present.
func NewNet(modelPath string, classes int, useGPU bool) (*Net, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", modelPath)
	}

	n := &Net{net: net, classes: classes}
	if useGPU && setupGPUBackend(&n.net) {
		n.gpu = true
	} else {
		n.net.SetPreferableBackend(gocv.NetBackendDefault)
		n.net.SetPreferableTarget(gocv.NetTargetCPU)
	}
	return n, nil
}

// setupGPUBackend switches the net to CUDA when an NVIDIA GPU is reachable.
func setupGPUBackend(net *gocv.Net) bool {
	if err := exec.Command("nvidia-smi", "-L").Run(); err != nil {
		return false
	}
	net.SetPreferableBackend(gocv.NetBackendCUDA)
	net.SetPreferableTarget(gocv.NetTargetCUDA)
	return true
}

// UsingGPU reports whether the CUDA backend is active.
func (n *Net) UsingGPU() bool {
	return n.gpu
}

// Classify runs one forward pass over the clip and returns per-class,
// per-time logits [classes][T].
func (n *Net) Classify(c *clip.Clip) ([][]float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, frames, height, width := c.Dims()

	// Pack the clip tensor into a 5-D float blob [1, C, T, H, W].
	data := make([]byte, len(c.Data)*4)
	for i, v := range c.Data {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	blob, err := gocv.NewMatWithSizesFromBytes([]int{1, channels, frames, height, width}, gocv.MatTypeCV32F, data)
	if err != nil {
		return nil, fmt.Errorf("building input blob: %w", err)
	}
	defer blob.Close()

	n.net.SetInput(blob, "")
	output := n.net.Forward("")
	defer output.Close()

	total := output.Total()
	if total == 0 || total%n.classes != 0 {
		return nil, fmt.Errorf("unexpected output size %d for %d classes", total, n.classes)
	}
	steps := total / n.classes

	flat := output.Reshape(1, n.classes)
	defer flat.Close()

	logits := make([][]float64, n.classes)
	for i := 0; i < n.classes; i++ {
		row := make([]float64, steps)
		for t := 0; t < steps; t++ {
			row[t] = float64(flat.GetFloatAt(i, t))
		}
		logits[i] = row
	}
	return logits, nil
}

// Close releases the network resources.
func (n *Net) Close() error {
	return n.net.Close()
}
