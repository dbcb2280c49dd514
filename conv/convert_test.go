package conv

import "testing"

func TestConvertWidening(t *testing.T) {
	got, err := Convert[int32, int8](int8(-5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -5 {
		t.Fatalf("got %d, want -5", got)
	}
}

func TestConvertNarrowingOutOfRange(t *testing.T) {
	_, err := Convert[int8, int32](1000)
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestConvertNarrowingInRange(t *testing.T) {
	got, err := Convert[int8, int32](100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
}

func TestConvertFloatToIntRounds(t *testing.T) {
	got, err := Convert[int, float64](2.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("got %d, want 3", got)
	}

	got, err = Convert[int, float64](-2.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -3 {
		t.Fatalf("got %d, want -3", got)
	}
}

func TestConvertFloatOutOfIntRange(t *testing.T) {
	_, err := Convert[int8, float64](1e10)
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestConvertIntToFloatAlwaysOk(t *testing.T) {
	got, err := Convert[float64, int32](42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %v, want 42", got)
	}
}

func TestConvertBoolIdentityOnly(t *testing.T) {
	got, err := Convert[bool, bool](true)
	if err != nil || !got {
		t.Fatalf("got %v, %v, want true, nil", got, err)
	}

	_, err = Convert[bool, int](1)
	if err == nil {
		t.Fatal("expected conversion error for int->bool")
	}

	_, err = Convert[int, bool](true)
	if err == nil {
		t.Fatal("expected conversion error for bool->int")
	}
}

func TestConvertIntToString(t *testing.T) {
	got, err := Convert[string, int](42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42" {
		t.Fatalf("got %q, want \"42\"", got)
	}
}

func TestConvertUnsignedRejectsNegative(t *testing.T) {
	_, err := Convert[uint8, int](-1)
	if err == nil {
		t.Fatal("expected out-of-range error for negative->unsigned")
	}
}

func TestClampAndBetween(t *testing.T) {
	if Clamp(10, 0, 5) != 5 {
		t.Fatal("clamp high failed")
	}
	if Clamp(-1, 0, 5) != 0 {
		t.Fatal("clamp low failed")
	}
	if !Between(3, 0, 5) {
		t.Fatal("between failed")
	}
	if Between(6, 0, 5) {
		t.Fatal("between should reject 6")
	}
}
