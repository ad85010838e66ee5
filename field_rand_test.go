package secp256k1

import (
	sha256simd "github.com/minio/sha256-simd"
)

// testRand is a deterministic stream of pseudorandom 32-byte values built by
// chaining SHA-256 from a seed. Property and differential tests draw from it
// so failures reproduce without recording inputs.
type testRand struct {
	state [32]byte
}

func newTestRand(seed string) *testRand {
	return &testRand{state: sha256simd.Sum256([]byte(seed))}
}

func (s *testRand) next32() [32]byte {
	s.state = sha256simd.Sum256(s.state[:])
	return s.state
}

// fieldElement returns a normalized pseudorandom field element. The top bit
// is cleared so the value is below 2^255 and therefore in range.
func (s *testRand) fieldElement() FieldElement {
	b := s.next32()
	b[0] &= 0x7F
	var fe FieldElement
	if err := fe.SetB32(b[:]); err != nil {
		panic(err)
	}
	return fe
}

// elementAndBytes draws a fresh value and returns it both as a field element
// and as its 32-byte serialization.
func (s *testRand) elementAndBytes() (FieldElement, [32]byte) {
	b := s.next32()
	b[0] &= 0x7F
	var fe FieldElement
	if err := fe.SetB32(b[:]); err != nil {
		panic(err)
	}
	return fe, b
}
