package features

// HashVersion identifies the n-gram hash below. Artifacts record it and are
// refused when it differs
const HashVersion = 1

const hashSeed = 0xBEEF

// Hash is 32-bit MurmurHash2 of s with a fixed seed
func Hash(s string) uint32 {
	const (
		m = 0x5bd1e995
		r = 24
	)
	n := len(s)
	h := uint32(hashSeed) ^ uint32(n)

	i := 0
	for ; n-i >= 4; i += 4 {
		k := uint32(s[i]) | uint32(s[i+1])<<8 | uint32(s[i+2])<<16 | uint32(s[i+3])<<24
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
	}

	switch n - i {
	case 3:
		h ^= uint32(s[i+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(s[i+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(s[i])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}
