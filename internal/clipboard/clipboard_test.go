package clipboard

import "testing"

func TestMemorySlotRoundTrip(t *testing.T) {
	SetMemoryOnly(true)
	defer SetMemoryOnly(false)

	if err := Write("section payload"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "section payload" {
		t.Fatalf("Read = %q", got)
	}

	if err := Write(""); err != nil {
		t.Fatalf("Write empty: %v", err)
	}
	got, err = Read()
	if err != nil || got != "" {
		t.Fatalf("Read after clearing = %q, %v", got, err)
	}
}
