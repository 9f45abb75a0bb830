package twotsp

import "fmt"

// Tour is a Hamiltonian cycle given as a sequence of city ids. The arc from
// the last element back to the first is implicit.
type Tour []int

// Validate checks that t visits every city of inst exactly once.
func (t Tour) Validate(inst *Instance) error {
	n := inst.Len()
	if len(t) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTour, len(t), n)
	}
	seen := make([]bool, n)
	for pos, id := range t {
		i, ok := inst.index[id]
		if !ok {
			return fmt.Errorf("%w: unknown city %d at position %d", ErrInvalidTour, id, pos)
		}
		if seen[i] {
			return fmt.Errorf("%w: city %d visited twice", ErrInvalidTour, id)
		}
		seen[i] = true
	}
	return nil
}

// RotateToStart returns a new tour with the same cyclic order that begins at
// start.
func (t Tour) RotateToStart(start int) (Tour, error) {
	at := -1
	for pos, id := range t {
		if id == start {
			at = pos
			break
		}
	}
	if at < 0 {
		return nil, fmt.Errorf("%w: %d not on tour", ErrUnknownCity, start)
	}
	out := make(Tour, 0, len(t))
	out = append(out, t[at:]...)
	out = append(out, t[:at]...)
	return out, nil
}

// Closed returns the tour with its first city appended at the end.
func (t Tour) Closed() []int {
	if len(t) == 0 {
		return nil
	}
	out := make([]int, 0, len(t)+1)
	out = append(out, t...)
	return append(out, t[0])
}

// EqualModuloRotation reports whether a and b describe the same directed
// cycle.
func EqualModuloRotation(a, b Tour) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	r, err := b.RotateToStart(a[0])
	if err != nil {
		return false
	}
	for i := range a {
		if a[i] != r[i] {
			return false
		}
	}
	return true
}
