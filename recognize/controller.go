package recognize

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"actioncam/clip"
	"actioncam/logger"
	"actioncam/video"
)

// TaskActivityRecognition is the only start-command task the controller
// handles. Start commands naming any other task are ignored.
const TaskActivityRecognition = "activity_recognition"

// State is the controller's lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Sampler converts a full buffer snapshot into a classifier input clip.
type Sampler interface {
	Sample(frames []video.Frame) (*clip.Clip, error)
}

// Classifier runs the activity-recognition network on one clip and returns
// per-class, per-time logits.
type Classifier interface {
	Classify(c *clip.Clip) ([][]float64, error)
}

// Renderer draws a ranked label list onto a frame and returns the encoded
// annotated image. Kept behind an interface so the controller core stays
// testable without an imaging dependency.
type Renderer interface {
	Annotate(f video.Frame, ranked []RankedLabel) ([]byte, error)
}

// Publisher receives intermediate and final recognition results.
type Publisher interface {
	PublishIntermediate(r IntermediateResult)
	PublishFinal(r FinalResult)
}

// RankedLabel is one entry of a top-k result.
type RankedLabel struct {
	Rank  int     `json:"rank"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// IntermediateResult is the smoothed rolling-window output emitted every
// tick once the accumulator has warmed up.
type IntermediateResult struct {
	SessionID string
	Labels    []RankedLabel
	Annotated []byte
	Timestamp time.Time
}

// FinalResult is the single authoritative verdict of a recognition session.
type FinalResult struct {
	SessionID string
	Labels    []RankedLabel
	Clips     int
	Timestamp time.Time
}

// Config carries the controller's tunable parameters.
type Config struct {
	ClipLength        int
	AverageOverNClips int
	ResultNClips      int
	LoopRate          int // ticks per second
	FrameWidth        int
	FrameHeight       int
	TopK              int
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdStop
)

type command struct {
	kind commandKind
	task string
}

// Controller is the recognition state machine. Frames arrive through Ingest
// (camera rate), while Run ticks at a fixed rate: when the frame buffer is
// full it samples a clip, classifies it, folds the scores into the
// accumulator, and emits smoothed intermediate output until the clip target
// is reached, at which point it publishes the final result and goes idle.
type Controller struct {
	cfg        Config
	labels     []string
	sampler    Sampler
	classifier Classifier
	renderer   Renderer
	publisher  Publisher
	log        *logger.Logger
	stats      *PipelineStats

	buffer *video.FrameBuffer
	scores *ScoreAccumulator

	commands  chan command
	state     atomic.Int32
	accepting atomic.Bool

	// sessionID is owned by the Run goroutine.
	sessionID string
}

// NewController wires the controller with its collaborators. labels must
// have one entry per classifier output class.
func NewController(cfg Config, labels []string, sampler Sampler, classifier Classifier, renderer Renderer, publisher Publisher, log *logger.Logger, stats *PipelineStats) *Controller {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	return &Controller{
		cfg:        cfg,
		labels:     labels,
		sampler:    sampler,
		classifier: classifier,
		renderer:   renderer,
		publisher:  publisher,
		log:        log,
		stats:      stats,
		buffer:     video.NewFrameBuffer(cfg.ClipLength),
		scores:     NewScoreAccumulator(len(labels), cfg.ResultNClips),
		commands:   make(chan command, 16),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Start enqueues a start command for the given task.
func (c *Controller) Start(task string) {
	c.commands <- command{kind: cmdStart, task: task}
}

// Stop enqueues a stop command.
func (c *Controller) Stop() {
	c.commands <- command{kind: cmdStop}
}

// Ingest accepts one frame from the capture path. Frames are dropped while
// the controller is idle (ingestion is unregistered between sessions) and
// rejected with video.ErrInvalidFrameShape on a shape mismatch. Ingest never
// blocks on a running classification: the buffer lock is held only for the
// append itself.
func (c *Controller) Ingest(f video.Frame) error {
	if !c.accepting.Load() {
		return nil
	}
	if err := f.CheckShape(c.cfg.FrameWidth, c.cfg.FrameHeight); err != nil {
		return err
	}
	c.buffer.Push(f)
	c.stats.RecordIngest()
	return nil
}

// Run drives the tick loop at the configured rate until ctx is cancelled.
// Commands are applied as they arrive and drained again right before each
// tick, so a stop always takes effect before active-tick logic.
func (c *Controller) Run(ctx context.Context) {
	rate := c.cfg.LoopRate
	if rate <= 0 {
		rate = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.reset()
			return
		case cmd := <-c.commands:
			c.apply(cmd)
		case <-ticker.C:
			c.drainCommands()
			if c.State() == StateActive {
				c.tick()
			}
		}
	}
}

// drainCommands applies every queued command without blocking.
func (c *Controller) drainCommands() {
	for {
		select {
		case cmd := <-c.commands:
			c.apply(cmd)
		default:
			return
		}
	}
}

func (c *Controller) apply(cmd command) {
	switch cmd.kind {
	case cmdStart:
		if c.State() != StateIdle {
			c.log.Warning("start command ignored: controller is %s", c.State())
			return
		}
		if cmd.task != TaskActivityRecognition {
			c.log.Info("ignoring start command for task %q", cmd.task)
			return
		}
		// Clear any stale state from an aborted session before activating.
		c.buffer.Clear()
		c.scores.Reset()
		c.sessionID = uuid.NewString()
		c.state.Store(int32(StateActive))
		c.accepting.Store(true)
		c.log.Info("session %s: recognition started", c.sessionID)
	case cmdStop:
		if c.State() != StateActive {
			return
		}
		c.log.Info("session %s: recognition stopped", c.sessionID)
		c.reset()
	}
}

// reset flushes all session state and returns to idle. Ingestion is cut off
// first so no frame lands between the clear and the state change.
func (c *Controller) reset() {
	c.accepting.Store(false)
	c.buffer.Clear()
	c.scores.Reset()
	c.state.Store(int32(StateIdle))
}

// tick runs one active-state iteration.
func (c *Controller) tick() {
	if !c.buffer.IsFull() {
		return
	}

	frames := c.buffer.Snapshot()
	cl, err := c.sampler.Sample(frames)
	if err != nil {
		c.log.Error("session %s: clip sampling failed: %v", c.sessionID, err)
		return
	}

	start := time.Now()
	logits, err := c.classifier.Classify(cl)
	if err != nil {
		// Not fatal: frames kept flowing during the failed call, so the next
		// tick retries on a fresh buffer.
		c.log.Warning("session %s: classification failed, staying active: %v", c.sessionID, err)
		return
	}
	c.stats.RecordClassify(time.Since(start))

	scores := maxOverTime(logits)
	if len(scores) != c.scores.Classes() {
		c.log.Error("session %s: classifier returned %d classes, want %d", c.sessionID, len(scores), c.scores.Classes())
		return
	}
	c.scores.Push(scores)

	if c.scores.ReadyForIntermediate(c.cfg.AverageOverNClips) {
		c.publishIntermediate(frames[len(frames)-1])
	}

	if c.scores.ReadyForFinal(c.cfg.ResultNClips) {
		c.publishFinal()
		c.reset()
		return
	}

	// Bound enforcement runs strictly after the final-result check for this
	// push; see ScoreAccumulator.EvictOverflow.
	c.scores.EvictOverflow()
}

func (c *Controller) publishIntermediate(latest video.Frame) {
	smoothed := c.scores.TrailingSum(c.cfg.AverageOverNClips)
	ranked := c.rank(TopK(smoothed, c.cfg.TopK))

	annotated, err := c.renderer.Annotate(latest, ranked)
	if err != nil {
		c.log.Warning("session %s: overlay rendering failed: %v", c.sessionID, err)
		annotated = nil
	}

	c.publisher.PublishIntermediate(IntermediateResult{
		SessionID: c.sessionID,
		Labels:    ranked,
		Annotated: annotated,
		Timestamp: time.Now(),
	})
	c.stats.RecordPublish()
}

func (c *Controller) publishFinal() {
	total := c.scores.FullSum()
	ranked := c.rank(TopK(total, c.cfg.TopK))

	c.publisher.PublishFinal(FinalResult{
		SessionID: c.sessionID,
		Labels:    ranked,
		Clips:     c.cfg.ResultNClips,
		Timestamp: time.Now(),
	})
	c.stats.RecordPublish()
	c.log.Info("session %s: final result published after %d clips", c.sessionID, c.cfg.ResultNClips)
}

// rank attaches labels and 1-based ranks to a top-k selection.
func (c *Controller) rank(top []RankedClass) []RankedLabel {
	out := make([]RankedLabel, len(top))
	for i, rc := range top {
		label := "unknown"
		if rc.Index >= 0 && rc.Index < len(c.labels) {
			label = c.labels[rc.Index]
		}
		out[i] = RankedLabel{Rank: i + 1, Label: label, Score: rc.Score}
	}
	return out
}
