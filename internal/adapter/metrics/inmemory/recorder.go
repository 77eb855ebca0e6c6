package inmemory

import "sync"

type Snapshot struct {
	Resets       uint64 `json:"resets"`
	Steps        uint64 `json:"steps"`
	Builds       uint64 `json:"builds"`
	EmptySteps   uint64 `json:"empty_steps"`
	Failures     uint64 `json:"failures"`
	MaxStepBuild uint64 `json:"max_step_builds"`
}

type Recorder struct {
	mu       sync.Mutex
	resets   uint64
	steps    uint64
	builds   uint64
	empty    uint64
	failures uint64
	maxStep  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordReset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *Recorder) RecordStep(builds int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
	if builds <= 0 {
		r.empty++
		return
	}
	n := uint64(builds)
	r.builds += n
	if n > r.maxStep {
		r.maxStep = n
	}
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Resets:       r.resets,
		Steps:        r.steps,
		Builds:       r.builds,
		EmptySteps:   r.empty,
		Failures:     r.failures,
		MaxStepBuild: r.maxStep,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
