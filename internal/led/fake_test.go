package led

import (
	"errors"
	"testing"
)

func TestFakeRecordsIntensities(t *testing.T) {
	f := NewFake()

	for _, v := range []int{0, 11, 255} {
		if err := f.SetIntensity(v); err != nil {
			t.Fatalf("set %d: %v", v, err)
		}
	}

	if len(f.Applied) != 3 {
		t.Fatalf("applied: got %d values, want 3", len(f.Applied))
	}
	if f.Applied[0] != 0 || f.Applied[1] != 11 || f.Applied[2] != 255 {
		t.Errorf("applied: got %v", f.Applied)
	}
	if f.Last() != 255 {
		t.Errorf("last: got %d, want 255", f.Last())
	}
}

func TestFakeClampsLikeHardware(t *testing.T) {
	f := NewFake()
	f.SetIntensity(-5)
	f.SetIntensity(999)

	if f.Applied[0] != 0 {
		t.Errorf("negative input: got %d, want 0", f.Applied[0])
	}
	if f.Applied[1] != MaxIntensity {
		t.Errorf("oversized input: got %d, want %d", f.Applied[1], MaxIntensity)
	}
}

func TestFakeLastEmpty(t *testing.T) {
	f := NewFake()
	if f.Last() != 0 {
		t.Errorf("last with no writes: got %d, want 0", f.Last())
	}
}

func TestFakeSetError(t *testing.T) {
	f := NewFake()
	f.SetError = errors.New("simulated error")

	if err := f.SetIntensity(10); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Applied) != 0 {
		t.Error("failed set should not be recorded")
	}
}

func TestFakeCloseAndReset(t *testing.T) {
	f := NewFake()
	f.SetIntensity(42)
	f.Close()

	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || len(f.Applied) != 0 {
		t.Error("reset should clear state")
	}
}
