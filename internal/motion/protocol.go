package motion

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types.
const (
	MsgHello   = "hello"   // phone -> server
	MsgSample  = "sample"  // phone -> server
	MsgButton  = "button"  // phone -> server
	MsgWelcome = "welcome" // server -> phone
	MsgEvent   = "event"   // server -> phone
	MsgState   = "state"   // server -> phone
)

// ProtocolVersion is sent in welcome and must match the one in hello.
const ProtocolVersion = 1

// ErrBadEnvelope is wrapped by every encode and decode failure.
var ErrBadEnvelope = errors.New("motion: bad envelope")

// ErrVersionMismatch is returned for a hello with another protocol
// version. The server closes such connections.
var ErrVersionMismatch = errors.New("motion: protocol version mismatch")

// Envelope is the frame every message travels in.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type Hello struct {
	V    int    `json:"v"`
	Name string `json:"name,omitempty"`
}

// SamplePayload is a raw accelerometer reading from the phone.
type SamplePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Button is a tap on one of the phone's on-screen controls.
type Button struct {
	ID string `json:"id"`
}

type Welcome struct {
	ClientID         string `json:"clientId"`
	V                int    `json:"v"`
	SampleIntervalMS int    `json:"sampleIntervalMs"`
}

// Event mirrors one simulation event for display on the phone.
type Event struct {
	Tick    uint64  `json:"tick"`
	Type    string  `json:"type"`
	ItemID  uint64  `json:"itemId,omitempty"`
	Kind    string  `json:"kind,omitempty"`
	Outcome string  `json:"outcome,omitempty"`
	X       float64 `json:"x,omitempty"`
	Score   int     `json:"score,omitempty"`
	From    string  `json:"from,omitempty"`
	To      string  `json:"to,omitempty"`
}

// State is a periodic session summary.
type State struct {
	Tick     uint64 `json:"tick"`
	State    string `json:"state"`
	Score    int    `json:"score"`
	WinScore int    `json:"winScore"`
	Items    int    `json:"items"`
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("%w: empty type", ErrBadEnvelope)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: nil payload for %q", ErrBadEnvelope, t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %q: %v", ErrBadEnvelope, t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer frame without touching the payload.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("%w: empty message", ErrBadEnvelope)
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrBadEnvelope)
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w: empty payload for %q", ErrBadEnvelope, env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("%w: payload for %q: %v", ErrBadEnvelope, env.T, err)
	}
	return out, nil
}
