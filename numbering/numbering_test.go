package numbering

import (
	"errors"
	"slices"
	"testing"
)

func TestExtractPrefix(t *testing.T) {
	for _, tc := range []struct {
		name string
		want int
	}{
		{"00100_intro.svg", 100},
		{"-0050_x.svg", -50},
		{"+25 title.svg", 25},
		{"0.svg", 0},
		{"slides/00200_body.svg", 200},
	} {
		got, err := ExtractPrefix(tc.name)
		if err != nil {
			t.Errorf("ExtractPrefix(%q) error = %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ExtractPrefix(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}

	for _, name := range []string{"intro.svg", "", "_100.svg", "-x.svg"} {
		if _, err := ExtractPrefix(name); err == nil {
			t.Errorf("ExtractPrefix(%q) did not fail", name)
		}
	}
}

func TestReplacePrefix(t *testing.T) {
	for _, tc := range []struct {
		name   string
		number int
		digits int
		want   string
	}{
		{"00100_intro.svg", 25, 5, "00025_intro.svg"},
		{"00100_intro.svg", 25, 0, "00025_intro.svg"},
		{"100 - body.svg", -50, 5, "-0050 - body.svg"},
		{"+5.svg", 12345, 3, "12345.svg"},
		{"slides/00100_intro.svg", 150, 5, "slides/00150_intro.svg"},
	} {
		got, err := ReplacePrefix(tc.name, tc.number, tc.digits)
		if err != nil {
			t.Errorf("ReplacePrefix(%q, %d) error = %v", tc.name, tc.number, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ReplacePrefix(%q, %d) = %q, want %q", tc.name, tc.number, got, tc.want)
		}
	}

	if _, err := ReplacePrefix("intro.svg", 100, 5); err == nil {
		t.Errorf("ReplacePrefix without a prefix did not fail")
	}
}

func TestTryInsert(t *testing.T) {
	for _, tc := range []struct {
		name          string
		existing      []int
		position      int
		allowNegative bool
		want          int
	}{
		{"empty", nil, 0, false, 100},
		{"append", []int{100}, 1, false, 200},
		{"midpoint", []int{100, 200}, 1, false, 150},
		{"uneven gap", []int{0, 5}, 1, false, 2},
		{"front with room", []int{200, 300}, 0, false, 99},
		{"front negative allowed", []int{50}, 0, true, -50},
		{"front already negative", []int{-200, 100}, 0, true, -300},
		{"between negatives", []int{-10, -2}, 1, true, -6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TryInsert(tc.existing, tc.position, tc.allowNegative, 100)
			if err != nil {
				t.Fatalf("TryInsert() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("TryInsert() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTryInsertErrors(t *testing.T) {
	if _, err := TryInsert([]int{1, 2}, 1, false, 100); !errors.Is(err, ErrNoFreeNumber) {
		t.Errorf("adjacent neighbours: error = %v, want ErrNoFreeNumber", err)
	}
	if _, err := TryInsert([]int{0, 1}, 0, false, 100); !errors.Is(err, ErrNoFreeNumber) {
		t.Errorf("no room at front: error = %v, want ErrNoFreeNumber", err)
	}
	if _, err := TryInsert([]int{-5, 10}, 0, false, 100); !errors.Is(err, ErrNegativeNumbers) {
		t.Errorf("negative prefix present: error = %v, want ErrNegativeNumbers", err)
	}
	if _, err := TryInsert([]int{10, 20}, 3, false, 100); err == nil {
		t.Errorf("out of range position did not fail")
	}
	if _, err := TryInsert([]int{10, 20}, -1, false, 100); err == nil {
		t.Errorf("negative position did not fail")
	}
	if _, err := TryInsert([]int{20, 10}, 0, false, 100); err == nil {
		t.Errorf("unsorted numbers did not fail")
	}
	if _, err := TryInsert([]int{10, 10}, 0, false, 100); err == nil {
		t.Errorf("duplicate numbers did not fail")
	}

	// Appending never needs a gap, even in an all-negative sequence.
	if got, err := TryInsert([]int{-300, -200}, 2, false, 100); err != nil || got != -100 {
		t.Errorf("append after negatives = %d, %v; want -100, nil", got, err)
	}
}

func TestInsertWithoutRenames(t *testing.T) {
	number, plan, err := Insert([]int{100, 200}, 1, false, 100)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if number != 150 || len(plan) != 0 {
		t.Errorf("Insert() = %d, %v; want 150 and no renames", number, plan)
	}
}

func TestInsertRenumbersUpward(t *testing.T) {
	// Between 1 and 2 nothing fits. Moving 2 up is cheaper than pulling 1
	// down to 0, which would leave unit gaps everywhere.
	number, plan, err := Insert([]int{1, 2}, 1, false, 100)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if number != 101 {
		t.Errorf("number = %d, want 101", number)
	}
	if want := []Rename{{From: 2, To: 201}}; !slices.Equal(plan, want) {
		t.Errorf("plan = %v, want %v", plan, want)
	}
}

func TestInsertAtFrontRenumbersUpward(t *testing.T) {
	// Negatives are disallowed, so the only way to get in front of 0 is to
	// push the whole block up. Largest renames come first so applying the
	// plan in order never collides.
	number, plan, err := Insert([]int{0, 1}, 0, false, 100)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if number != 99 {
		t.Errorf("number = %d, want 99", number)
	}
	if want := []Rename{{From: 1, To: 299}, {From: 0, To: 199}}; !slices.Equal(plan, want) {
		t.Errorf("plan = %v, want %v", plan, want)
	}
}

func TestInsertRenumbersIntoGap(t *testing.T) {
	// The numbers below the position are packed against zero, so only
	// shifting 2 and 3 up into the gap before 20 works. The moved block is
	// spread evenly through the gap and increases run largest first.
	number, plan, err := Insert([]int{0, 1, 2, 3, 20}, 2, false, 100)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if number != 5 {
		t.Errorf("number = %d, want 5", number)
	}
	if want := []Rename{{From: 3, To: 15}, {From: 2, To: 10}}; !slices.Equal(plan, want) {
		t.Errorf("plan = %v, want %v", plan, want)
	}
}

func TestInsertPrefersDownwardWhenCheaper(t *testing.T) {
	// Above 100 everything is packed to 105; below it the space is wide
	// open. Pulling 100 down renames one file, pushing five up renames
	// five.
	number, plan, err := Insert([]int{100, 101, 102, 103, 104, 105}, 1, false, 100)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if len(plan) != 1 || plan[0].From != 100 {
		t.Fatalf("plan = %v, want exactly one rename of 100", plan)
	}
	if plan[0].To >= number || number >= 101 {
		t.Errorf("order broken: 100->%d, new %d, next 101", plan[0].To, number)
	}
}

func TestInsertErrors(t *testing.T) {
	if _, _, err := Insert([]int{5, 10}, 7, false, 100); err == nil {
		t.Errorf("out of range position did not fail")
	}
	if _, _, err := Insert([]int{-5, 0}, 0, false, 100); !errors.Is(err, ErrNegativeNumbers) {
		t.Errorf("negative prefix present: error = %v, want ErrNegativeNumbers", err)
	}
}
