// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/surface"
)

// --------------------------------------------------------------------------
// Mock engine
// --------------------------------------------------------------------------

type mockEngine struct {
	loadErr error
	// machineScript seeds the advance script of every state machine
	// instantiated through this engine.
	machineScript []bool
}

func (e *mockEngine) Load(data []byte, f engine.Factory) (engine.File, error) {
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	if f == nil || !f.Live() {
		return nil, errors.New("mock: dead factory")
	}
	return &mockFile{engine: e}, nil
}

func (e *mockEngine) DecodeImage(data []byte, f engine.Factory) (engine.Asset, error) {
	if f == nil || !f.Live() {
		return nil, errors.New("mock: dead factory")
	}
	return &mockAsset{}, nil
}

func (e *mockEngine) DecodeAudio(data []byte) (engine.Asset, error) { return &mockAsset{}, nil }
func (e *mockEngine) DecodeFont(data []byte) (engine.Asset, error)  { return &mockAsset{}, nil }

type mockAsset struct{ closed bool }

func (a *mockAsset) Close() { a.closed = true }

type mockFile struct {
	engine *mockEngine
	closed bool
}

func (f *mockFile) ArtboardNames() []string { return []string{"Main"} }

func (f *mockFile) Artboard(name string) (engine.Artboard, error) {
	if name != "" && name != "Main" {
		return nil, fmt.Errorf("mock: no artboard %q", name)
	}
	return &mockArtboard{file: f, w: 8, h: 8}, nil
}

func (f *mockFile) ViewModelNames() []string { return []string{"Data"} }

func (f *mockFile) BlankViewModelInstance(vm string) (engine.ViewModelInstance, error) {
	return f.newInstance(vm)
}

func (f *mockFile) DefaultViewModelInstance(vm string) (engine.ViewModelInstance, error) {
	return f.newInstance(vm)
}

func (f *mockFile) NamedViewModelInstance(vm, instance string) (engine.ViewModelInstance, error) {
	if instance == "missing" {
		return nil, fmt.Errorf("mock: no instance %q", instance)
	}
	return f.newInstance(vm)
}

func (f *mockFile) newInstance(vm string) (engine.ViewModelInstance, error) {
	if vm != "Data" {
		return nil, fmt.Errorf("mock: no view model %q", vm)
	}
	return &mockInstance{values: map[string]engine.Value{
		"speed": engine.NumberValue(1),
	}}, nil
}

func (f *mockFile) Close() { f.closed = true }

type mockArtboard struct {
	file     *mockFile
	w, h     float32
	advances int
	draws    int
	closed   bool
}

func (a *mockArtboard) Name() string             { return "Main" }
func (a *mockArtboard) Size() (float32, float32) { return a.w, a.h }
func (a *mockArtboard) Resize(w, h float32)      { a.w, a.h = w, h }
func (a *mockArtboard) Advance(dt float32)       { a.advances++ }

func (a *mockArtboard) Draw(r engine.Renderer) {
	a.draws++
	if fr, ok := r.(engine.RectFiller); ok {
		fr.FillRect(0, 0, float64(a.w), float64(a.h), 0xFFFF0000)
	}
}

func (a *mockArtboard) StateMachine(name string) (engine.StateMachine, error) {
	script := append([]bool(nil), a.file.engine.machineScript...)
	return &mockMachine{script: script}, nil
}

func (a *mockArtboard) Animation(name string) (engine.Animation, error) {
	return &mockAnimation{}, nil
}

func (a *mockArtboard) Bind(vmi engine.ViewModelInstance) error { return nil }
func (a *mockArtboard) Close()                                  { a.closed = true }

type mockMachine struct {
	script   []bool
	advances int
	bools    map[string]bool
	numbers  map[string]float64
	pointer  []string
	closed   bool
}

func (m *mockMachine) Advance(dt float32) bool {
	m.advances++
	if len(m.script) == 0 {
		return false
	}
	v := m.script[0]
	m.script = m.script[1:]
	return v
}

func (m *mockMachine) SetBool(name string, v bool) error {
	if m.bools == nil {
		m.bools = make(map[string]bool)
	}
	m.bools[name] = v
	return nil
}

func (m *mockMachine) SetNumber(name string, v float64) error {
	if m.numbers == nil {
		m.numbers = make(map[string]float64)
	}
	m.numbers[name] = v
	return nil
}

func (m *mockMachine) Bool(name string) (bool, error) {
	v, ok := m.bools[name]
	if !ok {
		return false, fmt.Errorf("mock: no bool input %q", name)
	}
	return v, nil
}

func (m *mockMachine) Number(name string) (float64, error) {
	v, ok := m.numbers[name]
	if !ok {
		return 0, fmt.Errorf("mock: no number input %q", name)
	}
	return v, nil
}

func (m *mockMachine) FireTrigger(name string) error { return nil }

func (m *mockMachine) PointerMove(x, y float32) { m.record("move", x, y) }
func (m *mockMachine) PointerDown(x, y float32) { m.record("down", x, y) }
func (m *mockMachine) PointerUp(x, y float32)   { m.record("up", x, y) }
func (m *mockMachine) PointerExit(x, y float32) { m.record("exit", x, y) }

func (m *mockMachine) record(ev string, x, y float32) {
	m.pointer = append(m.pointer, fmt.Sprintf("%s %g,%g", ev, x, y))
}

func (m *mockMachine) Bind(vmi engine.ViewModelInstance) error { return nil }
func (m *mockMachine) Close()                                  { m.closed = true }

type mockAnimation struct {
	advances int
	applied  int
	closed   bool
}

func (a *mockAnimation) Name() string                  { return "anim" }
func (a *mockAnimation) Advance(dt float32) bool       { a.advances++; return true }
func (a *mockAnimation) Apply()                        { a.applied++ }
func (a *mockAnimation) SetLoop(engine.LoopMode)       {}
func (a *mockAnimation) SetDirection(engine.Direction) {}
func (a *mockAnimation) Close()                        { a.closed = true }

type mockInstance struct {
	values map[string]engine.Value
	closed bool
}

func (i *mockInstance) Value(path string, m engine.PathMatch) (engine.Value, error) {
	v, ok := i.values[path]
	if !ok {
		return engine.Value{}, fmt.Errorf("mock: no property %q", path)
	}
	return v, nil
}

func (i *mockInstance) SetValue(path string, m engine.PathMatch, v engine.Value) error {
	if _, ok := i.values[path]; !ok {
		return fmt.Errorf("mock: no property %q", path)
	}
	i.values[path] = v
	return nil
}

func (i *mockInstance) FireTrigger(path string, m engine.PathMatch) error { return nil }

func (i *mockInstance) ListSize(path string, m engine.PathMatch) (int, error) { return 0, nil }

func (i *mockInstance) ListAppend(path string, m engine.PathMatch, v engine.Value) error {
	return nil
}

func (i *mockInstance) ListRemove(path string, m engine.PathMatch, index int) error { return nil }

func (i *mockInstance) SetInstance(path string, m engine.PathMatch, nested engine.ViewModelInstance) error {
	return nil
}

func (i *mockInstance) Close() { i.closed = true }

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func startServer(t *testing.T, eng engine.Engine, grace int) *Server {
	t.Helper()
	s := New(Config{Engine: eng, Backend: surface.SoftwareBackend, SettleGrace: grace})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		s.Channel().Enqueue(command.Stop{})
		s.Channel().Close()
		<-s.Done()
	})
	return s
}

// fence blocks until every previously enqueued command has executed.
func fence(t *testing.T, s *Server) {
	t.Helper()
	done := command.NewCall[struct{}]()
	if !s.Channel().Enqueue(command.RunOnce{Done: done}) {
		t.Fatal("fence: channel closed")
	}
	if _, err := done.Wait(); err != nil {
		t.Fatalf("fence: %v", err)
	}
}

// drain fences the worker and returns every outbound message posted so far.
func drain(t *testing.T, s *Server) []command.Message {
	t.Helper()
	fence(t, s)
	return s.Outbox().PopAll(nil)
}

func loadFile(t *testing.T, s *Server, req uint64) command.FileHandle {
	t.Helper()
	s.Channel().Enqueue(command.LoadFile{Req: req, Data: []byte("mock")})
	for _, m := range drain(t, s) {
		if m.Req != req {
			continue
		}
		if m.Kind == command.MsgError {
			t.Fatalf("LoadFile: %v", m.Err)
		}
		if m.Kind == command.MsgFileLoaded {
			return command.FileHandle(m.Handle)
		}
	}
	t.Fatal("LoadFile: no reply")
	return 0
}

func createArtboard(t *testing.T, s *Server, f command.FileHandle) command.ArtboardHandle {
	t.Helper()
	done := command.NewCall[command.ArtboardHandle]()
	s.Channel().Enqueue(command.CreateArtboard{File: f, Done: done})
	h, err := done.Wait()
	if err != nil {
		t.Fatalf("CreateArtboard: %v", err)
	}
	return h
}

func createMachine(t *testing.T, s *Server, ab command.ArtboardHandle) command.StateMachineHandle {
	t.Helper()
	done := command.NewCall[command.StateMachineHandle]()
	s.Channel().Enqueue(command.CreateStateMachine{Artboard: ab, Done: done})
	h, err := done.Wait()
	if err != nil {
		t.Fatalf("CreateStateMachine: %v", err)
	}
	return h
}

func createTargetAndDraw(t *testing.T, s *Server, ab command.ArtboardHandle, w, h int) (command.RenderTargetHandle, command.DrawKey) {
	t.Helper()
	tdone := command.NewCall[command.RenderTargetHandle]()
	s.Channel().Enqueue(command.CreateRenderTarget{W: w, H: h, Done: tdone})
	target, err := tdone.Wait()
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}
	kdone := command.NewCall[command.DrawKey]()
	s.Channel().Enqueue(command.RegisterDraw{
		Target:   target,
		Artboard: ab,
		Fit:      engine.FitContain,
		Align:    engine.AlignCenter,
		Done:     kdone,
	})
	key, err := kdone.Wait()
	if err != nil {
		t.Fatalf("RegisterDraw: %v", err)
	}
	return target, key
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestStartRequiresEngine(t *testing.T) {
	s := New(Config{})
	if err := s.Start(); !errors.Is(err, ErrNilEngine) {
		t.Fatalf("Start = %v, want ErrNilEngine", err)
	}
}

func TestStartUnknownBackend(t *testing.T) {
	s := New(Config{Engine: &mockEngine{}, Backend: "no-such-backend"})
	if err := s.Start(); err == nil {
		t.Fatal("Start succeeded with an unknown backend")
	}
}

func TestHandlesMonotonicAndUnique(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	sm := createMachine(t, s, ab)

	handles := []uint64{uint64(f), uint64(ab), uint64(sm)}
	for i, h := range handles {
		if h == 0 {
			t.Fatalf("handle %d is zero", i)
		}
		if i > 0 && h <= handles[i-1] {
			t.Fatalf("handle %d (%d) not greater than previous (%d)", i, h, handles[i-1])
		}
	}
}

func TestCommandsExecuteInSubmissionOrder(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	var order []int
	for i := 0; i < 20; i++ {
		i := i
		done := command.NewCall[struct{}]()
		s.Channel().Enqueue(command.RunOnce{
			Fn:   func() error { order = append(order, i); return nil },
			Done: done,
		})
	}
	fence(t, s)

	if len(order) != 20 {
		t.Fatalf("executed %d commands, want 20", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("position %d executed command %d", i, v)
		}
	}
}

func TestInvalidHandleReportsError(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	// Fire-and-forget on a bogus handle must not wedge the worker.
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: 999, Delta: 0.016})

	// Correlated read on a bogus handle must produce an error message.
	s.Channel().Enqueue(command.GetProperty{Req: 7, Target: 999, Path: "speed"})

	var found bool
	for _, m := range drain(t, s) {
		if m.Req == 7 {
			found = true
			if m.Kind != command.MsgError {
				t.Fatalf("reply kind = %v, want MsgError", m.Kind)
			}
			if !errors.Is(m.Err, ErrInvalidHandle) {
				t.Fatalf("reply error = %v, want ErrInvalidHandle", m.Err)
			}
		}
	}
	if !found {
		t.Fatal("no reply for the correlated read")
	}

	// Worker still alive and serving.
	loadFile(t, s, 8)
}

func TestLoadFileFailureReportsError(t *testing.T) {
	loadErr := errors.New("mock: corrupt file")
	s := startServer(t, &mockEngine{loadErr: loadErr}, 1)

	s.Channel().Enqueue(command.LoadFile{Req: 3, Data: []byte("junk")})
	for _, m := range drain(t, s) {
		if m.Req == 3 {
			if m.Kind != command.MsgError || !errors.Is(m.Err, loadErr) {
				t.Fatalf("reply = %+v, want MsgError wrapping load failure", m)
			}
			return
		}
	}
	t.Fatal("no reply for failed load")
}

func TestDeleteFileCascades(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	sm := createMachine(t, s, ab)

	s.Channel().Enqueue(command.DeleteFile{File: f})
	fence(t, s)

	// Creating from the deleted file fails.
	done := command.NewCall[command.ArtboardHandle]()
	s.Channel().Enqueue(command.CreateArtboard{File: f, Done: done})
	if _, err := done.Wait(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("create on deleted file = %v, want ErrInvalidHandle", err)
	}

	// The artboard cascaded away with the file.
	mdone := command.NewCall[command.StateMachineHandle]()
	s.Channel().Enqueue(command.CreateStateMachine{Artboard: ab, Done: mdone})
	if _, err := mdone.Wait(); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("create on cascaded artboard = %v, want ErrInvalidHandle", err)
	}

	// The machine cascaded away with the artboard.
	s.Channel().Enqueue(command.GetBoolInput{Req: 5, Machine: sm, Input: "x"})
	for _, m := range drain(t, s) {
		if m.Req == 5 {
			if !errors.Is(m.Err, ErrInvalidHandle) {
				t.Fatalf("read on cascaded machine = %v, want ErrInvalidHandle", m.Err)
			}
			return
		}
	}
	t.Fatal("no reply for read on cascaded machine")
}

func TestSettleAfterGraceWindow(t *testing.T) {
	// The machine reports active for two advances, then settled forever.
	eng := &mockEngine{machineScript: []bool{true, true}}
	s := startServer(t, eng, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	sm := createMachine(t, s, ab)

	settled := func() int {
		n := 0
		for _, m := range drain(t, s) {
			if m.Kind == command.MsgSettled && m.Handle == command.Handle(sm) {
				n++
			}
		}
		return n
	}

	advance := func(dt float32) {
		s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: dt})
	}

	// Two active advances, then one settled advance that burns the grace
	// frame. No settle message yet.
	advance(0.016)
	advance(0.016)
	advance(0.016)
	if n := settled(); n != 0 {
		t.Fatalf("settled during grace window: %d messages", n)
	}

	// The next settled advance exhausts the grace and reports once.
	advance(0.016)
	if n := settled(); n != 1 {
		t.Fatalf("got %d settle messages, want 1", n)
	}

	// Already settled: further advances stay silent.
	advance(0.016)
	advance(0.016)
	if n := settled(); n != 0 {
		t.Fatalf("settled machine reported again: %d messages", n)
	}

	// An input write re-arms the machine; it settles once more after the
	// grace window.
	s.Channel().Enqueue(command.SetBoolInput{Machine: sm, Input: "active", Value: true})
	advance(0.016) // burns grace
	advance(0.016) // settles
	if n := settled(); n != 1 {
		t.Fatalf("got %d settle messages after re-arm, want 1", n)
	}
}

func TestZeroDeltaNeverSettles(t *testing.T) {
	eng := &mockEngine{} // settled from the first advance
	s := startServer(t, eng, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	sm := createMachine(t, s, ab)

	for i := 0; i < 10; i++ {
		s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0})
	}
	for _, m := range drain(t, s) {
		if m.Kind == command.MsgSettled {
			t.Fatal("zero-delta advances settled the machine")
		}
	}

	// Nonzero deltas settle it: one grace frame, then the report.
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0.016})
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0.016})
	var n int
	for _, m := range drain(t, s) {
		if m.Kind == command.MsgSettled {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("got %d settle messages, want 1", n)
	}
}

func TestAnimationAdvanceSkipsArtboardWhenMachinePlays(t *testing.T) {
	s := startServer(t, &mockEngine{machineScript: []bool{true, true, true, true}}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)

	var entry *artboardEntry
	done := command.NewCall[struct{}]()
	s.Channel().Enqueue(command.RunOnce{
		Fn:   func() error { entry = s.reg.artboards[ab]; return nil },
		Done: done,
	})
	if _, err := done.Wait(); err != nil {
		t.Fatalf("fetch entry: %v", err)
	}
	mab := entry.ab.(*mockArtboard)

	adone := command.NewCall[command.AnimationHandle]()
	s.Channel().Enqueue(command.CreateAnimation{Artboard: ab, Done: adone})
	anim, err := adone.Wait()
	if err != nil {
		t.Fatalf("CreateAnimation: %v", err)
	}

	// No machine: the animation advances the artboard's transform graph.
	s.Channel().Enqueue(command.AdvanceAnimation{Animation: anim, Delta: 0.016})
	fence(t, s)
	if mab.advances != 1 {
		t.Fatalf("artboard advances = %d, want 1", mab.advances)
	}

	// With a playing machine on the same artboard, the machine owns the
	// artboard advance.
	createMachine(t, s, ab)
	s.Channel().Enqueue(command.AdvanceAnimation{Animation: anim, Delta: 0.016})
	fence(t, s)
	if mab.advances != 1 {
		t.Fatalf("artboard advances = %d, want 1 (machine owns the advance)", mab.advances)
	}
}

func TestDrawRendersAndReportsDone(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	_, key := createTargetAndDraw(t, s, ab, 8, 8)

	s.Channel().Enqueue(command.Draw{Req: 9, Key: key})
	var done bool
	for _, m := range drain(t, s) {
		if m.Req == 9 {
			if m.Kind != command.MsgDrawDone {
				t.Fatalf("reply kind = %v, want MsgDrawDone", m.Kind)
			}
			done = true
		}
	}
	if !done {
		t.Fatal("no draw-done message")
	}
}

func TestDrawToBuffer(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	_, key := createTargetAndDraw(t, s, ab, 8, 8)

	buf := make([]byte, 8*8*4)
	done := command.NewCall[struct{}]()
	s.Channel().Enqueue(command.DrawToBuffer{Key: key, Buf: buf, Done: done})
	if _, err := done.Wait(); err != nil {
		t.Fatalf("DrawToBuffer: %v", err)
	}

	// The mock artboard fills itself with opaque red.
	if buf[0] != 0xFF || buf[1] != 0 || buf[2] != 0 || buf[3] != 0xFF {
		t.Fatalf("pixel (0,0) = %v, want opaque red", buf[:4])
	}
}

func TestDrawToBufferShortBufferFailsBeforeDrawing(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	_, key := createTargetAndDraw(t, s, ab, 8, 8)

	var entry *artboardEntry
	fdone := command.NewCall[struct{}]()
	s.Channel().Enqueue(command.RunOnce{
		Fn:   func() error { entry = s.reg.artboards[ab]; return nil },
		Done: fdone,
	})
	if _, err := fdone.Wait(); err != nil {
		t.Fatalf("fetch entry: %v", err)
	}
	mab := entry.ab.(*mockArtboard)

	done := command.NewCall[struct{}]()
	s.Channel().Enqueue(command.DrawToBuffer{Key: key, Buf: make([]byte, 3), Done: done})
	if _, err := done.Wait(); err == nil {
		t.Fatal("DrawToBuffer accepted a short buffer")
	}
	if mab.draws != 0 {
		t.Fatalf("artboard drawn %d times despite short buffer", mab.draws)
	}
}

func TestDrawSpritesEmptyBatchRejected(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	target, _ := createTargetAndDraw(t, s, ab, 8, 8)

	s.Channel().Enqueue(command.DrawSprites{Req: 4, Target: target})
	for _, m := range drain(t, s) {
		if m.Req == 4 {
			if m.Kind != command.MsgError || !errors.Is(m.Err, ErrEmptyBatch) {
				t.Fatalf("reply = %+v, want ErrEmptyBatch", m)
			}
			return
		}
	}
	t.Fatal("no reply for empty batch")
}

func TestPointerMapsFrameToArtboardSpace(t *testing.T) {
	s := startServer(t, &mockEngine{machineScript: []bool{true}}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f) // 8x8 artboard
	sm := createMachine(t, s, ab)

	var entry *machineEntry
	done := command.NewCall[struct{}]()
	s.Channel().Enqueue(command.RunOnce{
		Fn:   func() error { entry = s.reg.machines[sm]; return nil },
		Done: done,
	})
	if _, err := done.Wait(); err != nil {
		t.Fatalf("fetch entry: %v", err)
	}
	mm := entry.sm.(*mockMachine)

	// 8x8 artboard contained in a 16x16 frame scales by 2: frame (8,8)
	// maps back to artboard (4,4).
	s.Channel().Enqueue(command.Pointer{
		Event:   command.KindPointerDown,
		Machine: sm,
		X:       8, Y: 8,
		Fit:    engine.FitContain,
		Align:  engine.AlignCenter,
		FrameW: 16, FrameH: 16,
	})
	fence(t, s)

	if len(mm.pointer) != 1 || mm.pointer[0] != "down 4,4" {
		t.Fatalf("pointer events = %v, want [down 4,4]", mm.pointer)
	}
}

func TestSubscribePropertyEmitsOnChange(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	ab := createArtboard(t, s, f)
	sm := createMachine(t, s, ab)

	idone := command.NewCall[command.ViewModelInstanceHandle]()
	s.Channel().Enqueue(command.CreateViewModelInstance{
		File: f, ViewModel: "Data", Mode: command.InstanceDefault, Done: idone,
	})
	vmi, err := idone.Wait()
	if err != nil {
		t.Fatalf("CreateViewModelInstance: %v", err)
	}

	s.Channel().Enqueue(command.SubscribeProperty{Req: 11, Target: vmi, Path: "speed"})
	drain(t, s) // discard; subscription primed with the current value

	updates := func() []command.Message {
		var out []command.Message
		for _, m := range drain(t, s) {
			if m.Kind == command.MsgPropertyUpdate && m.Req == 11 {
				out = append(out, m)
			}
		}
		return out
	}

	// Unchanged value: advances emit nothing.
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0})
	if got := updates(); len(got) != 0 {
		t.Fatalf("unchanged value emitted %d updates", len(got))
	}

	// Changed value: exactly one update, carrying the new value.
	s.Channel().Enqueue(command.SetProperty{
		Target: vmi, Path: "speed", Value: engine.NumberValue(2),
	})
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0})
	got := updates()
	if len(got) != 1 {
		t.Fatalf("got %d updates, want 1", len(got))
	}
	if got[0].Value.Num != 2 {
		t.Fatalf("update value = %g, want 2", got[0].Value.Num)
	}

	// Steady state again: silent.
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0})
	if got := updates(); len(got) != 0 {
		t.Fatalf("steady value emitted %d updates", len(got))
	}

	// Unsubscribe: further changes are silent.
	s.Channel().Enqueue(command.UnsubscribeProperty{Req: 11})
	s.Channel().Enqueue(command.SetProperty{
		Target: vmi, Path: "speed", Value: engine.NumberValue(3),
	})
	s.Channel().Enqueue(command.AdvanceStateMachine{Machine: sm, Delta: 0})
	if got := updates(); len(got) != 0 {
		t.Fatalf("unsubscribed path emitted %d updates", len(got))
	}
}

func TestSubscribeBadPathFailsAtSubscribe(t *testing.T) {
	s := startServer(t, &mockEngine{}, 1)

	f := loadFile(t, s, 1)
	idone := command.NewCall[command.ViewModelInstanceHandle]()
	s.Channel().Enqueue(command.CreateViewModelInstance{
		File: f, ViewModel: "Data", Mode: command.InstanceDefault, Done: idone,
	})
	vmi, err := idone.Wait()
	if err != nil {
		t.Fatalf("CreateViewModelInstance: %v", err)
	}

	s.Channel().Enqueue(command.SubscribeProperty{Req: 12, Target: vmi, Path: "no/such"})
	for _, m := range drain(t, s) {
		if m.Req == 12 {
			if m.Kind != command.MsgError {
				t.Fatalf("reply kind = %v, want MsgError", m.Kind)
			}
			return
		}
	}
	t.Fatal("bad subscribe path produced no error")
}

func TestShutdownRejectsQueuedCommands(t *testing.T) {
	s := New(Config{Engine: &mockEngine{}, Backend: surface.SoftwareBackend})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Hold the worker inside a command so the stop command and everything
	// queued behind it land in one batch.
	gate := make(chan struct{})
	s.Channel().Enqueue(command.RunOnce{
		Fn:   func() error { <-gate; return nil },
		Done: command.NewCall[struct{}](),
	})

	// Everything queued behind the stop command resolves with ErrStopped.
	done := command.NewCall[command.ArtboardHandle]()
	s.Channel().Enqueue(command.Stop{})
	s.Channel().Enqueue(command.CreateArtboard{File: 1, Done: done})
	s.Channel().Enqueue(command.LoadFile{Req: 6, Data: []byte("x")})
	s.Channel().Close()
	close(gate)
	<-s.Done()

	if _, err := done.Wait(); !errors.Is(err, ErrStopped) {
		t.Fatalf("queued create resolved with %v, want ErrStopped", err)
	}
	var found bool
	for _, m := range s.Outbox().PopAll(nil) {
		if m.Req == 6 {
			found = true
			if m.Kind != command.MsgError || !errors.Is(m.Err, ErrStopped) {
				t.Fatalf("queued load reply = %+v, want ErrStopped", m)
			}
		}
	}
	if !found {
		t.Fatal("queued load produced no reply")
	}
}

func TestShutdownClosesCommandChannel(t *testing.T) {
	s := New(Config{Engine: &mockEngine{}, Backend: surface.SoftwareBackend})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Only the stop command is enqueued here: closing the channel is the
	// worker's job, so that no command can be accepted after the worker
	// is gone.
	s.Channel().Enqueue(command.Stop{})
	<-s.Done()

	if !s.Channel().Closed() {
		t.Fatal("worker exited without closing the command channel")
	}
	done := command.NewCall[command.ArtboardHandle]()
	if s.Channel().Enqueue(command.CreateArtboard{File: 1, Done: done}) {
		t.Fatal("command accepted after shutdown; its caller would wait forever")
	}
}
