package bgew

import (
	"strings"
	"testing"
)

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"bad json", `{`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "fly"}]}`, `unknown action "fly"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerPlaysScript(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	b.AddStep("level", StepFuncs{Enter: func(s *GameStep, _ any) {
		s.Board().AddEntity(NewEntity(0, 0, 10, 10))
	}})

	e := NewEntity(0, 0, 20, 20)
	b.AddEntity(e)
	clicks := 0
	e.On(EventClick, func(InputEvent) { clicks++ })
	var keys []string
	e.On(EventKeyDown, func(ev InputEvent) { keys = append(keys, ev.Key) })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 5, "y": 5},
		{"action": "key", "key": "q"},
		{"action": "checkpoint", "label": "before"},
		{"action": "wait", "frames": 3},
		{"action": "step", "step": "level"},
		{"action": "checkpoint", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.SetTestRunner(runner)

	for i := 0; i < 50 && !runner.Done(); i++ {
		tickOnce(sched)
	}

	if !runner.Done() {
		t.Fatal("runner did not finish")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if len(keys) != 1 || keys[0] != "q" {
		t.Errorf("keys = %v, want [q]", keys)
	}

	cps := runner.Checkpoints()
	if len(cps) != 2 {
		t.Fatalf("checkpoints = %+v, want 2", cps)
	}
	if cps[0].Label != "before" || cps[0].Step != "main" || cps[0].Entities != 1 {
		t.Errorf("checkpoint 0 = %+v", cps[0])
	}
	if cps[1].Label != "after" || cps[1].Step != "level" || cps[1].Entities != 1 {
		t.Errorf("checkpoint 1 = %+v", cps[1])
	}
	if cps[1].Tick-cps[0].Tick < 4 {
		t.Errorf("ticks between checkpoints = %d, want the wait to hold at least 3", cps[1].Tick-cps[0].Tick)
	}
}

func TestTestRunnerWaitsForInjection(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 50, "toY": 0, "frames": 5},
		{"action": "checkpoint", "label": "dropped"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.SetTestRunner(runner)

	for i := 0; i < 20 && !runner.Done(); i++ {
		tickOnce(sched)
	}

	cps := runner.Checkpoints()
	if len(cps) != 1 {
		t.Fatalf("checkpoints = %+v, want 1", cps)
	}
	// The drag starts on tick 1 and feeds one frame per tick through tick 5.
	if cps[0].Tick != 6 {
		t.Errorf("checkpoint tick = %d, want 6", cps[0].Tick)
	}
}

func TestTestRunnerPauseResume(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "pause"},
		{"action": "checkpoint", "label": "paused"},
		{"action": "resume"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.SetTestRunner(runner)

	sched.Step(2)
	paused := b.Paused()
	sched.Step(1)

	if !paused {
		t.Error("board should be paused after the pause action")
	}
	if b.Paused() {
		t.Error("board should be running after resume")
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestTestRunnerUnknownStepKeepsGoing(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "step", "step": "nowhere"},
		{"action": "checkpoint", "label": "still here"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.SetTestRunner(runner)
	sched.Step(3)

	cps := runner.Checkpoints()
	if len(cps) != 1 || cps[0].Step != "main" {
		t.Errorf("checkpoints = %+v, want one on main", cps)
	}
}
