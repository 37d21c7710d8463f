// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "github.com/gogpu/motion/engine"

// MessageKind identifies the type of an outbound message.
type MessageKind uint8

const (
	// MsgError reports a failed asynchronous request.
	MsgError MessageKind = iota
	// MsgFileLoaded carries the handle of a newly imported file.
	MsgFileLoaded
	// MsgBoolInput carries a boolean input read result.
	MsgBoolInput
	// MsgNumberInput carries a numeric input read result.
	MsgNumberInput
	// MsgProperty carries a property read result.
	MsgProperty
	// MsgPropertyUpdate is a recurring subscription update. The same
	// request id recurs for every change; the subscription stays live.
	MsgPropertyUpdate
	// MsgListSize carries a list length read result.
	MsgListSize
	// MsgAssetDecoded carries the handle of a newly decoded asset.
	MsgAssetDecoded
	// MsgDrawDone reports completion of a correlated draw.
	MsgDrawDone
	// MsgSettled reports, unsolicited (Req zero), that a state machine
	// has settled and left the active set.
	MsgSettled
)

// messageKindNames maps MessageKind values to their string representation.
var messageKindNames = [...]string{
	MsgError:          "Error",
	MsgFileLoaded:     "FileLoaded",
	MsgBoolInput:      "BoolInput",
	MsgNumberInput:    "NumberInput",
	MsgProperty:       "Property",
	MsgPropertyUpdate: "PropertyUpdate",
	MsgListSize:       "ListSize",
	MsgAssetDecoded:   "AssetDecoded",
	MsgDrawDone:       "DrawDone",
	MsgSettled:        "Settled",
}

// String returns the string representation of a MessageKind.
func (k MessageKind) String() string {
	if int(k) < len(messageKindNames) {
		return messageKindNames[k]
	}
	return "Unknown"
}

// Message is one outbound result or event produced by the worker.
// Only the payload fields relevant to Kind are set.
type Message struct {
	// Kind is the message discriminant.
	Kind MessageKind

	// Req is the correlation id of the originating request, or zero for
	// unsolicited events.
	Req uint64

	// Handle carries created handles (MsgFileLoaded, MsgAssetDecoded)
	// and the settled machine (MsgSettled).
	Handle Handle

	// Value carries input and property payloads.
	Value engine.Value

	// Size carries list length payloads.
	Size int

	// Err carries the failure for MsgError.
	Err error
}
