package bgew

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
	Step   string  `json:"step,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// Checkpoint is the board state recorded by a "checkpoint" action.
type Checkpoint struct {
	Label    string
	Tick     uint64
	Step     string
	Entities int
}

// TestRunner plays a scripted sequence of injected input, step changes,
// waits and checkpoints across ticks. Attach it with Board.SetTestRunner.
//
// Actions: click, dblclick, rightclick, move, drag, key, wait, step,
// pause, resume, checkpoint, screenshot.
type TestRunner struct {
	steps       []testStep
	cursor      int
	waitCount   int
	done        bool
	checkpoints []Checkpoint
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func knownAction(a string) bool {
	switch a {
	case "click", "dblclick", "rightclick", "move", "drag", "key", "wait", "step", "pause", "resume", "checkpoint", "screenshot":
		return true
	}
	return false
}

// SetTestRunner attaches a runner. Its next action runs at the start of
// every tick, before input is processed.
func (b *Board) SetTestRunner(runner *TestRunner) {
	b.runner = runner
}

// Done reports whether all steps in the script have run and their input
// has been delivered.
func (r *TestRunner) Done() bool {
	return r.done
}

// Checkpoints returns the recorded checkpoints in script order.
func (r *TestRunner) Checkpoints() []Checkpoint {
	return r.checkpoints
}

// step advances the runner by one tick.
func (r *TestRunner) step(b *Board) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if b.Injecting() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		b.InjectClick(st.X, st.Y)
	case "dblclick":
		b.InjectDoubleClick(st.X, st.Y)
	case "rightclick":
		b.InjectRightClick(st.X, st.Y)
	case "move":
		b.InjectMove(st.X, st.Y)
	case "drag":
		b.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		b.InjectKey(st.Key, 0)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "step":
		if err := b.MoveToStep(st.Step, nil); err != nil {
			b.log.Warn("test runner", zap.Error(err))
		}
	case "pause":
		b.Pause()
	case "resume":
		b.Resume()
	case "screenshot":
		b.Screenshot(st.Label)
	case "checkpoint":
		cp := Checkpoint{Label: st.Label, Tick: b.ticks, Entities: b.CountEntities()}
		if b.step != nil {
			cp.Step = b.step.name
		}
		r.checkpoints = append(r.checkpoints, cp)
		b.log.Debug("checkpoint", zap.String("label", cp.Label), zap.Uint64("tick", cp.Tick))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !b.Injecting() {
		r.done = true
	}
}
