package traintasticdiy

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := NewSetOutputState(42, true)
	raw := msg.Encode()

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.OpCode != SetOutputState {
		t.Fatalf("expected SetOutputState, got %v", decoded.OpCode)
	}
	if decoded.Address() != 42 {
		t.Fatalf("expected address 42, got %d", decoded.Address())
	}
	if !decoded.State() {
		t.Fatal("expected state true")
	}
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	raw := NewHeartbeat().Encode()
	raw[len(raw)-1] ^= 0xFF

	if _, err := Decode(raw); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestThrottleSetSpeedDirectionFlags(t *testing.T) {
	msg := NewThrottleSetSpeedDirection(1, 3, 64, 128, false, true, true, true)
	raw := msg.Encode()
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.IsSpeedSet() || decoded.IsEmergencyStop() || !decoded.IsDirectionSet() || !decoded.IsForward() {
		t.Fatalf("unexpected flags decoded from %+v", decoded)
	}
	if decoded.Speed() != 64 || decoded.SpeedMax() != 128 {
		t.Fatalf("unexpected speed/speedMax: %d/%d", decoded.Speed(), decoded.SpeedMax())
	}
}

func TestThrottleSetFunctionFields(t *testing.T) {
	msg := NewThrottleSetFunction(2, 99, 5, true)
	raw := msg.Encode()
	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ThrottleId() != 2 || decoded.ThrottleAddress() != 99 {
		t.Fatalf("unexpected throttle/address: %d/%d", decoded.ThrottleId(), decoded.ThrottleAddress())
	}
	if decoded.FunctionNumber() != 5 || !decoded.FunctionValue() {
		t.Fatalf("unexpected function fields: %d/%v", decoded.FunctionNumber(), decoded.FunctionValue())
	}
}

func TestZeroPayloadMessagesRoundTrip(t *testing.T) {
	for _, msg := range []Message{NewHeartbeat(), NewGetInfo(), NewGetFeatures()} {
		decoded, err := Decode(msg.Encode())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decoded.OpCode != msg.OpCode {
			t.Fatalf("expected opcode %v, got %v", msg.OpCode, decoded.OpCode)
		}
	}
}
