package sketchpad

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string
	Label  string
	Tool   string
	X, Y   float64
	FromX  float64
	FromY  float64
	ToX    float64
	ToY    float64
	DeltaY float64
	Frames int
}

// TestRunner sequences injected input events, tool changes and snapshots
// across frames for automated testing of the editor. Attach to an Engine via
// SetTestRunner.
//
// A script is a JSON object with a "steps" array, for example:
//
//	{"steps": [
//	  {"action": "tool", "tool": "rectangle"},
//	  {"action": "drag", "fromX": 100, "fromY": 100, "toX": 250, "toY": 180, "frames": 8},
//	  {"action": "snapshot", "label": "after-draw"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	// Snapshots lists the files written by snapshot steps.
	Snapshots []string
	// Err is the first error a step produced, if any.
	Err error
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an Engine via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	if !gjson.ValidBytes(jsonData) {
		return nil, fmt.Errorf("parse test script: invalid JSON")
	}
	raw := gjson.GetBytes(jsonData, "steps")
	if !raw.IsArray() {
		return nil, fmt.Errorf("parse test script: missing steps array")
	}
	var steps []testStep
	var stepErr error
	raw.ForEach(func(_, v gjson.Result) bool {
		st := testStep{
			Action: v.Get("action").String(),
			Label:  v.Get("label").String(),
			Tool:   v.Get("tool").String(),
			X:      v.Get("x").Float(),
			Y:      v.Get("y").Float(),
			FromX:  v.Get("fromX").Float(),
			FromY:  v.Get("fromY").Float(),
			ToX:    v.Get("toX").Float(),
			ToY:    v.Get("toY").Float(),
			DeltaY: v.Get("deltaY").Float(),
			Frames: int(v.Get("frames").Int()),
		}
		if !knownAction(st.Action) {
			stepErr = fmt.Errorf("parse test script: step %d: unknown action %q", len(steps), st.Action)
			return false
		}
		if st.Action == "tool" {
			if _, ok := ParseTool(st.Tool); !ok {
				stepErr = fmt.Errorf("parse test script: step %d: unknown tool %q", len(steps), st.Tool)
				return false
			}
		}
		steps = append(steps, st)
		return true
	})
	if stepErr != nil {
		return nil, stepErr
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	return &TestRunner{steps: steps}, nil
}

func knownAction(a string) bool {
	switch a {
	case "tool", "press", "move", "release", "click", "drag", "wheel", "wait", "snapshot":
		return true
	}
	return false
}

// SetTestRunner attaches a TestRunner to the engine. The runner's step
// method is called from Engine.Update before injected input is processed.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Engine.Update.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
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
	case "tool":
		t, _ := ParseTool(st.Tool)
		e.SetTool(t)
	case "press":
		e.InjectPress(st.X, st.Y)
	case "move":
		e.InjectMove(st.X, st.Y)
	case "release":
		e.InjectRelease(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.DeltaY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "snapshot":
		path, err := e.SaveSnapshot(st.Label)
		if err != nil {
			e.logf("test runner: %v", err)
			if r.Err == nil {
				r.Err = err
			}
		} else {
			r.Snapshots = append(r.Snapshots, path)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
