// Package secp256k1 implements arithmetic in the secp256k1 base field, the
// prime field of integers modulo p = 2^256 - 2^32 - 977.
//
// Field elements are held in a redundant representation of 5 uint64 limbs in
// base 2^52, and operations use lazy reduction: additions, negations and
// small-integer multiplications only grow a per-element magnitude bound, and
// the cost of modular reduction is paid inside multiplication and squaring
// (which accept any input of magnitude at most 8) or by an explicit
// Normalize. Higher layers composing these operations are responsible for
// keeping the magnitude bookkeeping within bounds; violations are caught by
// panics.
//
// The group law on curve points, scalar arithmetic and signature schemes are
// built on top of this package and live elsewhere.
package secp256k1
