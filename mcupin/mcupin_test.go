package mcupin

import "testing"

func TestRoutesForEveryPinHasAtLeastOneRoute(t *testing.T) {
	for pin := 0; pin < 16; pin++ {
		routes := RoutesFor(pin)
		if len(routes) == 0 {
			t.Errorf("pin %d: expected at least one SCU route", pin)
		}
	}
}

func TestSGPIOSCUMapHasFortyTwoEntries(t *testing.T) {
	total := 0
	for pin := 0; pin < 16; pin++ {
		total += len(RoutesFor(pin))
	}
	if total != 42 {
		t.Fatalf("expected 42 total routes across all pins, got %d", total)
	}
}

func TestIOSliceOrderCoversAllSlices(t *testing.T) {
	seen := make(map[byte]bool)
	for p := 0; p < 16; p++ {
		seen[IOSlice(p)] = true
	}
	if len(seen) != 16 {
		t.Fatalf("expected 16 distinct I/O slice letters, got %d", len(seen))
	}
}

func TestClockSliceOrderCoversAllSlices(t *testing.T) {
	seen := make(map[byte]bool)
	for p := 0; p < 16; p++ {
		seen[ClockSlice(p)] = true
	}
	if len(seen) != 16 {
		t.Fatalf("expected 16 distinct clock slice letters, got %d", len(seen))
	}
}

func TestDirectionSliceWidthOne(t *testing.T) {
	letter, ok := DirectionSlice(0, 'A', 1)
	if !ok || letter != IOSlice(8) {
		t.Fatalf("DirectionSlice(0, 'A', 1) = (%c, %v), want the mirror I/O slice %c", letter, ok, IOSlice(8))
	}
}

func TestDirectionSliceWraps(t *testing.T) {
	letter, ok := DirectionSlice(13, 'O', 4)
	if !ok {
		t.Fatal("expected a direction slice for a 4-bit bus")
	}
	if letter != 'A' {
		t.Fatalf("DirectionSlice('O', 4) = %c, want wraparound to 'A'", letter)
	}
}
