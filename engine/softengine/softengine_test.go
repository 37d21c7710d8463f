// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/motion/engine"
)

const sceneJSON = `{
	"artboards": [{
		"name": "Scene",
		"width": 10,
		"height": 10,
		"fills": [{"x": 0, "y": 0, "w": 10, "h": 10, "color": 4294901760}],
		"animations": [{"name": "fade", "duration": 2, "fill": 0, "from": 4278190080, "to": 4294967295}],
		"machines": [{
			"name": "Main",
			"inputs": [
				{"name": "on", "type": "bool", "value": true},
				{"name": "speed", "type": "number", "value": 3},
				{"name": "tap", "type": "trigger"}
			],
			"settleAfter": 0.1,
			"counts": "frames"
		}]
	}],
	"viewModels": [{
		"name": "Settings",
		"properties": [
			{"name": "frames", "type": "number", "value": 0},
			{"name": "Title", "type": "string", "value": "home"},
			{"name": "tint", "type": "color", "value": 4278255615},
			{"name": "items", "type": "list"},
			{"name": "child", "type": "instance", "viewModel": "Settings"}
		],
		"instances": [{"name": "night", "values": {"Title": "dark"}}]
	}]
}`

type liveFactory struct{}

func (liveFactory) Live() bool { return true }

type deadFactory struct{}

func (deadFactory) Live() bool { return false }

func loadScene(t *testing.T) engine.File {
	t.Helper()
	f, err := New().Load([]byte(sceneJSON), liveFactory{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return f
}

func TestLoadRequiresLiveFactory(t *testing.T) {
	if _, err := New().Load([]byte(sceneJSON), deadFactory{}); !errors.Is(err, ErrDeadFactory) {
		t.Fatalf("Load with dead factory = %v, want ErrDeadFactory", err)
	}
	if _, err := New().Load([]byte(sceneJSON), nil); !errors.Is(err, ErrDeadFactory) {
		t.Fatalf("Load with nil factory = %v, want ErrDeadFactory", err)
	}
}

func TestLoadRejectsMalformedFiles(t *testing.T) {
	bad := []string{
		`{broken`,
		`{"artboards": [{"name": "x", "width": 0, "height": 10}]}`,
		`{"artboards": [{"name": "x", "width": 10, "height": 10,
			"animations": [{"name": "a", "duration": 1, "fill": 3}]}]}`,
		`{"artboards": [{"name": "x", "width": 10, "height": 10,
			"machines": [{"name": "m", "inputs": [{"name": "i", "type": "matrix"}]}]}]}`,
		`{"viewModels": [{"name": "v", "properties": [{"name": "p", "type": "quaternion"}]}]}`,
	}
	for i, data := range bad {
		if _, err := New().Load([]byte(data), liveFactory{}); err == nil {
			t.Errorf("case %d: malformed file accepted", i)
		}
	}
}

func TestFileArtboards(t *testing.T) {
	f := loadScene(t)
	if names := f.ArtboardNames(); len(names) != 1 || names[0] != "Scene" {
		t.Fatalf("ArtboardNames = %v", names)
	}

	ab, err := f.Artboard("")
	if err != nil {
		t.Fatalf("default artboard: %v", err)
	}
	if ab.Name() != "Scene" {
		t.Fatalf("default artboard is %q", ab.Name())
	}
	w, h := ab.Size()
	if w != 10 || h != 10 {
		t.Fatalf("size = %gx%g, want 10x10", w, h)
	}

	if _, err := f.Artboard("Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown artboard = %v, want ErrNotFound", err)
	}
}

func TestArtboardInstancesAreIndependent(t *testing.T) {
	f := loadScene(t)
	ab1, _ := f.Artboard("")
	ab2, _ := f.Artboard("")

	anim, err := ab1.Animation("fade")
	if err != nil {
		t.Fatalf("Animation: %v", err)
	}
	anim.Advance(2)
	anim.Apply()

	if ab1.(*artboard).fills[0].Color == ab2.(*artboard).fills[0].Color {
		t.Fatal("animating one instance changed the other")
	}
}

func TestMachineInputsAndBudget(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	sm, err := ab.StateMachine("Main")
	if err != nil {
		t.Fatalf("StateMachine: %v", err)
	}

	// Authored initial values.
	if on, err := sm.Bool("on"); err != nil || !on {
		t.Fatalf("Bool(on) = (%v, %v), want (true, nil)", on, err)
	}
	if speed, err := sm.Number("speed"); err != nil || speed != 3 {
		t.Fatalf("Number(speed) = (%g, %v), want (3, nil)", speed, err)
	}
	if _, err := sm.Bool("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown input = %v, want ErrNotFound", err)
	}
	if err := sm.SetNumber("on", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-typed write = %v, want ErrNotFound", err)
	}

	// The 100ms budget drains across advances, then reports settled.
	if !sm.Advance(0.06) {
		t.Fatal("machine settled with budget remaining")
	}
	if sm.Advance(0.06) {
		t.Fatal("machine still active past its budget")
	}

	// Any input write re-arms it.
	if err := sm.SetBool("on", false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if !sm.Advance(0.06) {
		t.Fatal("machine not re-armed by input write")
	}

	// Triggers and pointer events re-arm too.
	sm.Advance(0.06)
	if err := sm.FireTrigger("tap"); err != nil {
		t.Fatalf("FireTrigger: %v", err)
	}
	if !sm.Advance(0.01) {
		t.Fatal("machine not re-armed by trigger")
	}
	sm.Advance(1)
	sm.PointerDown(1, 1)
	if !sm.Advance(0.01) {
		t.Fatal("machine not re-armed by pointer event")
	}

	// Zero-delta advances evaluate without draining.
	sm.Advance(1)
	if sm.Advance(0) {
		t.Fatal("zero-delta advance reported active after settling")
	}
}

func TestMachineCountsFramesIntoBoundInstance(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	sm, _ := ab.StateMachine("")
	vmi, err := f.DefaultViewModelInstance("Settings")
	if err != nil {
		t.Fatalf("DefaultViewModelInstance: %v", err)
	}
	if err := sm.Bind(vmi); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	sm.Advance(0.016)
	sm.Advance(0.016)
	sm.Advance(0) // zero-delta advances do not count

	v, err := vmi.Value("frames", engine.MatchExact)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v.Num != 2 {
		t.Fatalf("frames = %g, want 2", v.Num)
	}
}

func TestAnimationOneShotClampsAtEnd(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	anim, _ := ab.Animation("fade")

	if !anim.Advance(1) { // halfway through the 2s timeline
		t.Fatal("animation stopped mid-timeline")
	}
	if anim.Advance(2) { // past the end
		t.Fatal("one-shot animation kept running past the end")
	}
	anim.Apply()
	// Fully faded: black to white ends at white.
	if c := ab.(*artboard).fills[0].Color; c != 0xFFFFFFFF {
		t.Fatalf("final color = %#x, want 0xFFFFFFFF", c)
	}
}

func TestAnimationLoopWraps(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	anim, _ := ab.Animation("fade")
	anim.SetLoop(engine.LoopLoop)

	for i := 0; i < 10; i++ {
		if !anim.Advance(0.7) {
			t.Fatal("looping animation stopped")
		}
	}
	// 7s into a 2s loop: playhead at 1s.
	a := anim.(*animation)
	if math.Abs(a.time-1) > 1e-9 {
		t.Fatalf("playhead = %g, want 1", a.time)
	}
}

func TestAnimationPingPongBounces(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	anim, _ := ab.Animation("fade")
	anim.SetLoop(engine.LoopPingPong)

	a := anim.(*animation)
	anim.Advance(1.5) // forward to 1.5
	anim.Advance(1.0) // hits 2.0, bounces back to 1.5
	if math.Abs(a.time-1.5) > 1e-9 || !a.pong {
		t.Fatalf("after bounce: time %g pong %v, want 1.5 true", a.time, a.pong)
	}
	anim.Advance(2.0) // back through 0, bounces forward to 0.5
	if math.Abs(a.time-0.5) > 1e-9 || a.pong {
		t.Fatalf("after second bounce: time %g pong %v, want 0.5 false", a.time, a.pong)
	}
}

func TestLerpColorEndpoints(t *testing.T) {
	if c := lerpColor(0xFF112233, 0xFF445566, 0); c != 0xFF112233 {
		t.Fatalf("t=0: %#x", c)
	}
	if c := lerpColor(0xFF112233, 0xFF445566, 1); c != 0xFF445566 {
		t.Fatalf("t=1: %#x", c)
	}
	if c := lerpColor(0xFF000000, 0xFFFFFFFF, 0.5); c>>24 != 0xFF {
		t.Fatalf("t=0.5: alpha %#x, want 0xFF", c>>24)
	}
}

func TestInstanceModes(t *testing.T) {
	f := loadScene(t)

	blank, err := f.BlankViewModelInstance("Settings")
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	if v, _ := blank.Value("Title", engine.MatchExact); v.Str != "" {
		t.Fatalf("blank Title = %q, want empty", v.Str)
	}

	def, err := f.DefaultViewModelInstance("Settings")
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if v, _ := def.Value("Title", engine.MatchExact); v.Str != "home" {
		t.Fatalf("default Title = %q, want home", v.Str)
	}
	if v, _ := def.Value("tint", engine.MatchExact); v.Color != 0xFF00FFFF {
		t.Fatalf("default tint = %#x, want 0xFF00FFFF", v.Color)
	}

	named, err := f.NamedViewModelInstance("Settings", "night")
	if err != nil {
		t.Fatalf("Named: %v", err)
	}
	if v, _ := named.Value("Title", engine.MatchExact); v.Str != "dark" {
		t.Fatalf("preset Title = %q, want dark", v.Str)
	}
	// Non-overridden properties keep their defaults.
	if v, _ := named.Value("tint", engine.MatchExact); v.Color != 0xFF00FFFF {
		t.Fatalf("preset tint = %#x, want default", v.Color)
	}

	if _, err := f.NamedViewModelInstance("Settings", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown preset = %v, want ErrNotFound", err)
	}
	if _, err := f.DefaultViewModelInstance("Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown view model = %v, want ErrNotFound", err)
	}
}

func TestPropertyPathMatching(t *testing.T) {
	f := loadScene(t)
	vmi, _ := f.DefaultViewModelInstance("Settings")

	// Exact matching is case-sensitive.
	if _, err := vmi.Value("title", engine.MatchExact); !errors.Is(err, ErrNotFound) {
		t.Fatalf("exact mismatch = %v, want ErrNotFound", err)
	}
	// Folded matching is not.
	if v, err := vmi.Value("TITLE", engine.MatchFold); err != nil || v.Str != "home" {
		t.Fatalf("folded read = (%q, %v), want (home, nil)", v.Str, err)
	}
}

func TestNestedInstancePaths(t *testing.T) {
	f := loadScene(t)
	outer, _ := f.DefaultViewModelInstance("Settings")
	inner, _ := f.DefaultViewModelInstance("Settings")

	if err := outer.SetInstance("child", engine.MatchExact, inner); err != nil {
		t.Fatalf("SetInstance: %v", err)
	}
	if err := inner.SetValue("Title", engine.MatchExact, engine.StringValue("nested")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	v, err := outer.Value("child/Title", engine.MatchExact)
	if err != nil {
		t.Fatalf("nested read: %v", err)
	}
	if v.Str != "nested" {
		t.Fatalf("child/Title = %q, want nested", v.Str)
	}

	// Writes through the path land on the inner instance.
	if err := outer.SetValue("child/Title", engine.MatchExact, engine.StringValue("deep")); err != nil {
		t.Fatalf("nested write: %v", err)
	}
	if v, _ := inner.Value("Title", engine.MatchExact); v.Str != "deep" {
		t.Fatalf("inner Title = %q, want deep", v.Str)
	}

	// Descending through an unset instance fails.
	blank, _ := f.BlankViewModelInstance("Settings")
	if _, err := blank.Value("child/Title", engine.MatchExact); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unset nested = %v, want ErrNotFound", err)
	}
	// Descending through a scalar fails with a type error.
	if _, err := outer.Value("Title/x", engine.MatchExact); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("descend through scalar = %v, want ErrTypeMismatch", err)
	}
}

func TestPropertyTypeChecks(t *testing.T) {
	f := loadScene(t)
	vmi, _ := f.DefaultViewModelInstance("Settings")

	if err := vmi.SetValue("Title", engine.MatchExact, engine.NumberValue(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("wrong-typed write = %v, want ErrTypeMismatch", err)
	}
	if _, err := vmi.Value("items", engine.MatchExact); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("scalar read of list = %v, want ErrTypeMismatch", err)
	}
	if err := vmi.FireTrigger("Title", engine.MatchExact); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("trigger fire on string = %v, want ErrTypeMismatch", err)
	}
}

func TestListOperations(t *testing.T) {
	f := loadScene(t)
	vmi, _ := f.DefaultViewModelInstance("Settings")

	size := func() int {
		n, err := vmi.ListSize("items", engine.MatchExact)
		if err != nil {
			t.Fatalf("ListSize: %v", err)
		}
		return n
	}

	if size() != 0 {
		t.Fatalf("new list size = %d", size())
	}
	vmi.ListAppend("items", engine.MatchExact, engine.StringValue("a"))
	vmi.ListAppend("items", engine.MatchExact, engine.StringValue("b"))
	if size() != 2 {
		t.Fatalf("size after appends = %d, want 2", size())
	}
	if err := vmi.ListRemove("items", engine.MatchExact, 0); err != nil {
		t.Fatalf("ListRemove: %v", err)
	}
	if size() != 1 {
		t.Fatalf("size after remove = %d, want 1", size())
	}
	if err := vmi.ListRemove("items", engine.MatchExact, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("out-of-range remove = %v, want ErrNotFound", err)
	}
}

func TestDecodeAssets(t *testing.T) {
	e := New()

	if _, err := e.DecodeAudio([]byte("not a wav")); err == nil {
		t.Fatal("garbage audio decoded")
	}
	if _, err := e.DecodeImage([]byte("not an image"), liveFactory{}); err == nil {
		t.Fatal("garbage image decoded")
	}
	if _, err := e.DecodeImage(nil, deadFactory{}); !errors.Is(err, ErrDeadFactory) {
		t.Fatalf("decode with dead factory = %v, want ErrDeadFactory", err)
	}
	if _, err := e.DecodeFont([]byte("not a font")); err == nil {
		t.Fatal("garbage font decoded")
	}
}

func TestDrawScalesResizedArtboard(t *testing.T) {
	f := loadScene(t)
	ab, _ := f.Artboard("")
	ab.Resize(20, 20)

	rec := &recordingRenderer{}
	ab.Draw(rec)
	if rec.rects != 1 {
		t.Fatalf("drew %d rects, want 1", rec.rects)
	}
	// The fill is authored 10x10; the renderer sees a 2x scale transform.
	if rec.scaleX != 2 || rec.scaleY != 2 {
		t.Fatalf("draw scale = (%g, %g), want (2, 2)", rec.scaleX, rec.scaleY)
	}
}

// recordingRenderer captures transforms and fills for draw assertions.
type recordingRenderer struct {
	rects  int
	scaleX float64
	scaleY float64
}

func (r *recordingRenderer) Save()    {}
func (r *recordingRenderer) Restore() {}

func (r *recordingRenderer) Transform(m engine.Matrix) {
	r.scaleX, r.scaleY = m.A, m.E
}

func (r *recordingRenderer) FillRect(x, y, w, h float64, color uint32) {
	r.rects++
}

var _ engine.Renderer = (*recordingRenderer)(nil)
var _ engine.RectFiller = (*recordingRenderer)(nil)
