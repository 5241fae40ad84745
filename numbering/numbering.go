// Package numbering works with the numeric filename prefixes which order
// slides in a deck.
//
// Prefixes are assigned BASIC line number style: consecutive slides are
// spaced a preferred step apart so that later insertions and reorderings
// usually fit into an existing gap without touching any other file. When no
// gap is available, Insert picks the smallest set of neighbouring renames
// which creates one.
package numbering

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
)

const (
	// DefaultStep is the preferred distance between consecutive prefixes.
	DefaultStep = 100
	// DefaultDigits is the zero-padded width of a rewritten prefix.
	DefaultDigits = 5
)

var (
	// ErrNoFreeNumber reports that no integer fits between the neighbours
	// at the requested position.
	ErrNoFreeNumber = errors.New("no free number available at this position")
	// ErrNegativeNumbers reports that the existing numbers already contain
	// a negative prefix while negative numbers are disallowed.
	ErrNegativeNumbers = errors.New("existing numbers contain a negative prefix")
)

// Rename is a single prefix change in a renumbering plan.
type Rename struct {
	From int
	To   int
}

var prefixRe = regexp.MustCompile(`^[-+]?[0-9]+`)

// ExtractPrefix returns the value of the numeric prefix of the base name of
// path. It fails when the name does not start with an optionally signed
// integer.
func ExtractPrefix(path string) (int, error) {
	name := filepath.Base(path)
	m := prefixRe.FindString(name)
	if m == "" {
		return 0, fmt.Errorf("file name %q has no numeric prefix", name)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("bad numeric prefix in %q: %w", name, err)
	}
	return n, nil
}

// ReplacePrefix rewrites the numeric prefix of the base name of path with
// number, zero-padded to digits characters (a sign counts toward the width).
// The rest of the name and any leading directories are preserved. Values of
// digits below one fall back to DefaultDigits.
func ReplacePrefix(path string, number, digits int) (string, error) {
	if digits < 1 {
		digits = DefaultDigits
	}
	name := filepath.Base(path)
	m := prefixRe.FindString(name)
	if m == "" {
		return "", fmt.Errorf("file name %q has no numeric prefix", name)
	}
	renamed := fmt.Sprintf("%0*d%s", digits, number, name[len(m):])
	if dir := filepath.Dir(path); dir != "." {
		return filepath.Join(dir, renamed), nil
	}
	return renamed, nil
}

func checkNumbers(existing []int) error {
	for i := 1; i < len(existing); i++ {
		if existing[i] <= existing[i-1] {
			return fmt.Errorf("numbers must be sorted and distinct, got %d before %d", existing[i-1], existing[i])
		}
	}
	return nil
}

// TryInsert returns a new file number which would sort at position within
// existing (sorted, duplicate-free). Appending extends past the last number
// by step; inserting between neighbours takes the midpoint of the gap. When
// the neighbours are adjacent no number exists and ErrNoFreeNumber is
// returned. Unless allowNegative is set, numbers below zero are never
// produced and an already negative sequence is rejected with
// ErrNegativeNumbers.
func TryInsert(existing []int, position int, allowNegative bool, step int) (int, error) {
	if step < 1 {
		step = DefaultStep
	}
	if err := checkNumbers(existing); err != nil {
		return 0, err
	}
	if position < 0 || position > len(existing) {
		return 0, fmt.Errorf("insert position %d out of range [0, %d]", position, len(existing))
	}

	// Appending (an empty list is just another case of appending).
	if position == len(existing) {
		last := 0
		if len(existing) > 0 {
			last = existing[len(existing)-1]
		}
		return last + step, nil
	}

	if !allowNegative && existing[0] < 0 {
		return 0, ErrNegativeNumbers
	}

	var before, after int
	if position == 0 {
		after = existing[0]
		if allowNegative || after < 0 {
			return after - step, nil
		}
		// Pretend a number -1 exists so the midpoint below stays
		// non-negative.
		before = -1
	} else {
		before = existing[position-1]
		after = existing[position]
	}

	if after-before >= 2 {
		return before + (after-before)/2, nil
	}
	return 0, ErrNoFreeNumber
}

// evenlySpaced returns count distinct, increasing integers strictly between
// start and end. The caller guarantees end-start > count.
func evenlySpaced(start, end, count int) []int {
	out := make([]int, count)
	for i := 1; i <= count; i++ {
		out[i-1] = start + (i*(end-start))/(count+1)
	}
	return out
}

// squeezeLeading inserts a new number in front of numbers (sorted,
// non-empty), incrementing as few of them as necessary to make room. The
// number one below numbers[0] is assumed taken, so the moved block is spread
// evenly up to the first gap; with no gap at all the whole block restarts
// stepwise above that floor. The returned slice is one longer than numbers.
func squeezeLeading(numbers []int, step int) []int {
	last := numbers[0] - 1
	gapIndex := -1
	for i, n := range numbers {
		if n != last+1 {
			gapIndex = i
			break
		}
		last = n
	}

	if gapIndex < 0 {
		// No gaps anywhere: renumber everything.
		out := make([]int, len(numbers)+1)
		for i := range out {
			out[i] = numbers[0] - 1 + (i+1)*step
		}
		return out
	}

	start := numbers[0] - 1
	end := numbers[gapIndex]
	return append(evenlySpaced(start, end, gapIndex+1), numbers[gapIndex:]...)
}

// scoreCandidate rates how disruptive a candidate renumbering is: first by
// how many existing numbers it renames, then by how tightly it packs the
// result (the sum of 1/gap over adjacent pairs). Lower is better.
func scoreCandidate(previous []int, position int, candidate []int) (int, float64) {
	renames := 0
	for i, c := range candidate {
		var p int
		switch {
		case i < position:
			p = previous[i]
		case i == position:
			p = c
		default:
			p = previous[i-1]
		}
		if p != c {
			renames++
		}
	}

	spacing := 0.0
	for i := 1; i < len(candidate); i++ {
		spacing += 1.0 / float64(candidate[i]-candidate[i-1])
	}
	return renames, spacing
}

// Insert picks a new file number which slots into existing (sorted,
// duplicate-free) at position. When no gap is available it renumbers a
// minimal set of neighbours to create one, preferring the least disruptive
// of shifting later numbers up or earlier numbers down. Unless allowNegative
// is set no new negative numbers are produced (except between already
// negative neighbours).
//
// The returned renames are ordered so that applying them sequentially never
// collides: decreases smallest first, then increases largest first.
func Insert(existing []int, position int, allowNegative bool, step int) (int, []Rename, error) {
	if step < 1 {
		step = DefaultStep
	}

	n, err := TryInsert(existing, position, allowNegative, step)
	if err == nil {
		return n, nil, nil
	}
	if !errors.Is(err, ErrNoFreeNumber) {
		return 0, nil, err
	}

	// No free number: renumber either the tail upward or the head downward
	// and keep whichever disturbs less.
	var candidates [][]int

	up := slices.Clone(existing[:position])
	up = append(up, squeezeLeading(existing[position:], step)...)
	candidates = append(candidates, up)

	leading := slices.Clone(existing[:position])
	if !allowNegative {
		// A virtual -1 entry guards the bottom: if the squeeze has to
		// move it, the downward candidate would go negative.
		leading = slices.Insert(leading, 0, -1)
	}
	inverted := make([]int, len(leading))
	for i, v := range leading {
		inverted[len(leading)-1-i] = -v
	}
	squeezed := squeezeLeading(inverted, step)
	down := make([]int, len(squeezed))
	for i, v := range squeezed {
		down[len(squeezed)-1-i] = -v
	}
	keep := true
	if !allowNegative {
		if down[0] != -1 {
			keep = false
		}
		down = down[1:]
	}
	if keep {
		candidates = append(candidates, append(down, existing[position:]...))
	}

	best := candidates[0]
	bestRenames, bestSpacing := scoreCandidate(existing, position, best)
	for _, c := range candidates[1:] {
		renames, spacing := scoreCandidate(existing, position, c)
		if renames < bestRenames || (renames == bestRenames && spacing < bestSpacing) {
			best, bestRenames, bestSpacing = c, renames, spacing
		}
	}

	number := best[position]

	var plan []Rename
	for i := 0; i < position; i++ {
		if existing[i] != best[i] {
			plan = append(plan, Rename{From: existing[i], To: best[i]})
		}
	}
	var increases []Rename
	for i := position; i < len(existing); i++ {
		if existing[i] != best[i+1] {
			increases = append(increases, Rename{From: existing[i], To: best[i+1]})
		}
	}
	slices.Reverse(increases)
	plan = append(plan, increases...)

	return number, plan, nil
}
