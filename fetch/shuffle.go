package fetch

import "math/rand"

// Shuffle returns a copy of items in uniformly random order. It walks from the
// last index down to 1, swapping with a uniformly chosen index in [0, i], so
// every permutation is equally likely and none is favored.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
