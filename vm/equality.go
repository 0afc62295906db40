package vm

import "fmt"

// Equals implements EQUAL/NOTEQUAL's structural comparison rules:
// ByteString and Buffer compare by byte content, Integer and Boolean by
// value, primitives of different kinds are unequal, Struct compares
// recursively within a work budget, Array/Map/Pointer/InteropInterface
// compare by identity, and Null equals only Null.
func Equals(a, b Item, limits Limits) (bool, error) {
	budget := limits.MaxComparableSize
	return equalsBudgeted(a, b, limits, &budget)
}

func equalsBudgeted(a, b Item, limits Limits, budget *int) (bool, error) {
	if a == Null || b == Null {
		return a == Null && b == Null, nil
	}

	switch av := a.(type) {
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv, nil

	case *Integer:
		bv, ok := b.(*Integer)
		if !ok {
			return false, nil
		}
		ai, _ := av.Integer()
		bi, _ := bv.Integer()
		return ai.Cmp(bi) == 0, nil

	case *ByteString:
		return equalsBytesLike(av, b, limits, budget)

	case *Buffer:
		return equalsBytesLike(av, b, limits, budget)

	case *Struct:
		bv, ok := b.(*Struct)
		if !ok {
			return false, nil
		}
		if av == bv {
			return true, nil
		}
		if av.Len() != bv.Len() {
			return false, nil
		}
		*budget -= av.Len()
		if *budget < 0 {
			return false, fmt.Errorf("%w: struct comparison", ErrComparableTooLarge)
		}
		for i := 0; i < av.Len(); i++ {
			eq, err := equalsBudgeted(av.At(i), bv.At(i), limits, budget)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil

	case *Array:
		bv, ok := b.(*Array)
		return ok && av == bv, nil

	case *Map:
		bv, ok := b.(*Map)
		return ok && av == bv, nil

	case *Pointer:
		bv, ok := b.(*Pointer)
		return ok && av.Script == bv.Script && av.Position == bv.Position, nil

	case *InteropInterface:
		bv, ok := b.(*InteropInterface)
		return ok && av == bv, nil

	default:
		return false, fmt.Errorf("%w: cannot compare %T", ErrInvalidType, a)
	}
}

func equalsBytesLike(a Item, b Item, limits Limits, budget *int) (bool, error) {
	ab, err := a.Bytes()
	if err != nil {
		return false, err
	}
	var bb []byte
	switch bv := b.(type) {
	case *ByteString:
		bb, err = bv.Bytes()
	case *Buffer:
		bb, err = bv.Bytes()
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(ab) > limits.MaxComparableSize || len(bb) > limits.MaxComparableSize {
		return false, fmt.Errorf("%w: %d/%d bytes", ErrComparableTooLarge, len(ab), len(bb))
	}
	*budget -= maxInt(len(ab), len(bb))
	if *budget < 0 {
		return false, fmt.Errorf("%w: comparison work budget exhausted", ErrComparableTooLarge)
	}
	if len(ab) != len(bb) {
		return false, nil
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false, nil
		}
	}
	return true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
