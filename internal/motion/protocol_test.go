package motion

import (
	"errors"
	"testing"
)

func TestEncodeDecodeSample(t *testing.T) {
	b, err := Encode(MsgSample, SamplePayload{X: 0.25, Y: -0.5, Z: 9.8})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if string(b) != `{"t":"sample","p":{"x":0.25,"y":-0.5,"z":9.8}}` {
		t.Errorf("unexpected wire form: %s", b)
	}

	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	p, err := DecodePayload[SamplePayload](env)
	if err != nil {
		t.Fatalf("DecodePayload() failed: %v", err)
	}
	if p.X != 0.25 || p.Y != -0.5 {
		t.Errorf("payload = %+v", p)
	}
}

func TestProtocolRejects(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"encode empty type", func() error { _, err := Encode("", Hello{}); return err }},
		{"encode nil payload", func() error { _, err := Encode(MsgHello, nil); return err }},
		{"decode empty", func() error { _, err := DecodeEnvelope(nil); return err }},
		{"decode garbage", func() error { _, err := DecodeEnvelope([]byte("{not json")); return err }},
		{"decode missing type", func() error { _, err := DecodeEnvelope([]byte(`{"p":{}}`)); return err }},
		{"empty payload", func() error {
			_, err := DecodePayload[Hello](Envelope{T: MsgHello})
			return err
		}},
		{"wrong payload shape", func() error {
			_, err := DecodePayload[SamplePayload](Envelope{T: MsgSample, P: []byte(`{"x":"left"}`)})
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, ErrBadEnvelope) {
				t.Errorf("error = %v, expected ErrBadEnvelope", err)
			}
		})
	}
}
