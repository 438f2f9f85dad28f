package sketchpad

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "snapshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "tool", "tool": "circle"},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "frames": 6},
			{"action": "wheel", "x": 5, "y": 6, "deltaY": -2}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "snapshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Tool != "circle" {
		t.Error("step 3 mismatch")
	}
	if s := runner.steps[4]; s.FromX != 1 || s.FromY != 2 || s.ToX != 3 || s.ToY != 4 || s.Frames != 6 {
		t.Errorf("step 4 mismatch: %+v", s)
	}
	if runner.steps[5].DeltaY != -2 {
		t.Error("step 5 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, msg string
	}{
		{"invalid", `not json`, "invalid JSON"},
		{"no steps", `{"actions": []}`, "missing steps"},
		{"empty", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`, `unknown action "screenshot"`},
		{"unknown tool", `{"steps": [{"action": "tool", "tool": "lasso"}]}`, `unknown tool "lasso"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want containing %q", err, tt.msg)
			}
		})
	}
}

// runScript drives e until the runner finishes or maxFrames pass.
func runScript(t *testing.T, e *Engine, r *TestRunner, maxFrames int) int {
	t.Helper()
	e.SetTestRunner(r)
	for i := range maxFrames {
		if r.Done() {
			return i
		}
		e.Update(1.0 / 60)
	}
	if !r.Done() {
		t.Fatalf("runner not done after %d frames", maxFrames)
	}
	return maxFrames
}

func TestRunnerDrawsAndSnapshots(t *testing.T) {
	e := newTestEngine()
	e.SnapshotDir = t.TempDir()
	e.SnapshotWidth, e.SnapshotHeight = 64, 48

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "tool", "tool": "rectangle"},
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 250, "toY": 180, "frames": 4},
		{"action": "snapshot", "label": "after draw"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, e, runner, 30)

	comps := e.Scene().Components()
	if len(comps) != 1 || comps[0].Geometry() != (Geometry{X: 100, Y: 100, Width: 150, Height: 80}) {
		t.Fatalf("components = %v", comps)
	}
	if runner.Err != nil {
		t.Fatal(runner.Err)
	}
	if len(runner.Snapshots) != 1 {
		t.Fatalf("snapshots = %v", runner.Snapshots)
	}
	path := runner.Snapshots[0]
	if filepath.Base(path) != "20240101_000000_after_draw.png" {
		t.Errorf("snapshot name = %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestRunnerDragWithoutFrames(t *testing.T) {
	e := newTestEngine()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "tool", "tool": "rectangle"},
		{"action": "drag", "fromX": 100, "fromY": 100, "toX": 250, "toY": 180}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, e, runner, 20)

	comps := e.Scene().Components()
	if len(comps) != 1 || comps[0].Geometry() != (Geometry{X: 100, Y: 100, Width: 150, Height: 80}) {
		t.Fatalf("components = %v, want one 150x80 rectangle", comps)
	}
	if !e.Scene().IsSelected(comps[0].ID) {
		t.Error("drawn rectangle not selected")
	}
}

func TestRunnerStep_Click(t *testing.T) {
	e := newTestEngine()
	e.Scene().Add(rect("a", 0, 0, 200, 200))

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetTestRunner(runner)

	// First step call: click queues press+release (2 events).
	runner.step(e)
	if e.PendingInjected() != 2 {
		t.Fatalf("expected 2 queued events, got %d", e.PendingInjected())
	}
	// Runner should not be done yet: injections still pending.
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	e.processInjectedInput()
	e.processInjectedInput()

	runner.step(e)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
	if !e.Scene().IsSelected("a") {
		t.Error("click did not select a")
	}
}

func TestRunnerWait(t *testing.T) {
	e := newTestEngine()
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "tool", "tool": "pen"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetTestRunner(runner)
	for range 3 {
		e.Update(0)
	}
	if e.Tool() != ToolSelect {
		t.Fatalf("tool changed during wait: %s", e.Tool())
	}
	e.Update(0)
	if e.Tool() != ToolPen || !runner.Done() {
		t.Errorf("tool = %s done = %v after wait", e.Tool(), runner.Done())
	}
}

func TestRunnerSnapshotError(t *testing.T) {
	e := newTestEngine()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	e.SnapshotDir = filepath.Join(blocker, "sub")

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "snapshot"}, {"action": "wheel", "deltaY": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, e, runner, 10)
	if runner.Err == nil {
		t.Error("expected snapshot error")
	}
	if len(runner.Snapshots) != 0 {
		t.Error("failed snapshot recorded")
	}
	if !approxEqual(e.Viewport().Zoom, 1.1, 1e-9) {
		t.Error("runner stopped after a failed snapshot")
	}
}
