package recognize

import (
	"sync"
	"time"
)

// PipelineStats tracks performance metrics for the ingestion and recognition
// stages of the pipeline.
type PipelineStats struct {
	mu             sync.Mutex
	ingestCount    int64
	classifyCount  int64
	publishCount   int64
	classifyTotal  time.Duration
	lastReportTime time.Time
}

// NewPipelineStats creates a new pipeline statistics tracker.
func NewPipelineStats() *PipelineStats {
	return &PipelineStats{lastReportTime: time.Now()}
}

// RecordIngest counts one accepted frame.
func (ps *PipelineStats) RecordIngest() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.ingestCount++
}

// RecordClassify counts one classification call and its duration.
func (ps *PipelineStats) RecordClassify(d time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.classifyCount++
	ps.classifyTotal += d
}

// RecordPublish counts one published result.
func (ps *PipelineStats) RecordPublish() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.publishCount++
}

// Report returns rates and averages since the previous report and resets the
// counters.
func (ps *PipelineStats) Report() (ingestFPS, classifyPerSec float64, avgClassify time.Duration, publishes int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := time.Now()
	window := now.Sub(ps.lastReportTime).Seconds()
	if window <= 0 {
		window = 1.0
	}

	ingestFPS = float64(ps.ingestCount) / window
	classifyPerSec = float64(ps.classifyCount) / window
	if ps.classifyCount > 0 {
		avgClassify = ps.classifyTotal / time.Duration(ps.classifyCount)
	}
	publishes = ps.publishCount

	ps.ingestCount = 0
	ps.classifyCount = 0
	ps.publishCount = 0
	ps.classifyTotal = 0
	ps.lastReportTime = now

	return
}
