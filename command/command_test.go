// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindStop, "Stop"},
		{KindLoadFile, "LoadFile"},
		{KindAdvanceStateMachine, "AdvanceStateMachine"},
		{KindPointerDown, "PointerDown"},
		{KindDecodeFont, "DecodeFont"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if got := Kind(250).String(); got == "" {
		t.Error("out-of-range Kind produced empty name")
	}
}

func TestPointerCommandKindFollowsEvent(t *testing.T) {
	events := []Kind{KindPointerMove, KindPointerDown, KindPointerUp, KindPointerExit}
	for _, ev := range events {
		p := Pointer{Event: ev, Machine: 1}
		if p.CommandKind() != ev {
			t.Errorf("Pointer{Event: %v}.CommandKind() = %v", ev, p.CommandKind())
		}
	}
}

func TestDecodeAssetCommandKindFollowsOp(t *testing.T) {
	ops := []Kind{KindDecodeImage, KindDecodeAudio, KindDecodeFont}
	for _, op := range ops {
		d := DecodeAsset{Op: op, Req: 1}
		if d.CommandKind() != op {
			t.Errorf("DecodeAsset{Op: %v}.CommandKind() = %v", op, d.CommandKind())
		}
	}
}

func TestHandleValidity(t *testing.T) {
	if FileHandle(InvalidHandle).IsValid() {
		t.Error("zero FileHandle reports valid")
	}
	if !FileHandle(1).IsValid() {
		t.Error("FileHandle(1) reports invalid")
	}
	if DrawKey(0).IsValid() {
		t.Error("zero DrawKey reports valid")
	}
}
