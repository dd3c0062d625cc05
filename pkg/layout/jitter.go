package layout

import "hash/fnv"

// jitter derives a small deterministic (x, y) displacement from a node ID.
// Two independent FNV-1a hashes are scaled into [-amplitude, amplitude].
// The same ID always yields the same displacement, across processes and
// reloads.
func jitter(id string, amplitude float64) (float64, float64) {
	if amplitude == 0 {
		return 0, 0
	}
	return hashUnit(id, 0) * amplitude, hashUnit(id, 1) * amplitude
}

// hashUnit maps (id, salt) onto [-1, 1].
func hashUnit(id string, salt byte) float64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	h.Write([]byte{salt})
	// Map the hash onto [0,1) using the top 53 bits, then shift to [-1,1].
	u := float64(h.Sum64()>>11) / float64(1<<53)
	return u*2 - 1
}
