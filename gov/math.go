package gov

// Checked u64 arithmetic. Overflow is a systemic invariant violation and is
// surfaced as ErrNumericalOverflow, never wrapped or saturated.

func addU64(a, b uint64) (uint64, error) {
	s := a + b
	if s < a {
		return 0, ErrNumericalOverflow
	}
	return s, nil
}

func subU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrNumericalOverflow
	}
	return a - b, nil
}

func addU8(a, b uint8) (uint8, error) {
	s := a + b
	if s < a {
		return 0, ErrNumericalOverflow
	}
	return s, nil
}

func subU8(a, b uint8) (uint8, error) {
	if b > a {
		return 0, ErrNumericalOverflow
	}
	return a - b, nil
}
