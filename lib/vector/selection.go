package vector

import "math/rand/v2"

// ChooseNthItem returns the index the k-th smallest element occupies after a
// partial, in-place reordering. k is clamped into [0, Len-1]; an empty vector
// yields 0. The pivot source is seeded per call so repeated calls on equal
// content are reproducible.
func (v *Vector[T, P]) ChooseNthItem(k int) int {
	return v.ChooseNthItemRand(k, rand.New(rand.NewPCG(1, uint64(len(v.data)))))
}

// ChooseNthItemRand is ChooseNthItem with a caller supplied pivot source
func (v *Vector[T, P]) ChooseNthItemRand(k int, rng *rand.Rand) int {
	if k >= len(v.data) {
		k = len(v.data) - 1
	}
	if k < 0 {
		k = 0
	}
	return v.chooseNthItem(k, 0, len(v.data), rng)
}

// chooseNthItem narrows [start, end) around target with a three-way partition
// until target falls into a run of pivot-equal elements or the range is trivial.
func (v *Vector[T, P]) chooseNthItem(target, start, end int, rng *rand.Rand) int {
	cmp := v.compare()
	data := v.data
	for {
		num := end - start
		if num <= 1 {
			return start
		}
		if num == 2 {
			if cmp(data[start], data[start+1]) < 0 {
				if target > start {
					return start + 1
				}
				return start
			}
			if target > start {
				return start
			}
			return start + 1
		}

		// move a random pivot to the front
		pivot := start + rng.IntN(num)
		data[pivot], data[start] = data[start], data[pivot]

		// [start, nextLesser) < pivot, [nextLesser, nextSample) == pivot, [prevGreater, end) > pivot
		nextLesser, prevGreater := start, end
		for nextSample := start + 1; nextSample < prevGreater; {
			switch c := cmp(data[nextSample], data[nextLesser]); {
			case c < 0:
				data[nextLesser], data[nextSample] = data[nextSample], data[nextLesser]
				nextLesser++
				nextSample++
			case c == 0:
				nextSample++
			default:
				prevGreater--
				data[prevGreater], data[nextSample] = data[nextSample], data[prevGreater]
			}
		}

		switch {
		case target < nextLesser:
			end = nextLesser
		case target < prevGreater:
			return nextLesser
		default:
			start = prevGreater
		}
	}
}
