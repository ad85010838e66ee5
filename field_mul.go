package secp256k1

import "math/bits"

// The kernels below are the portable back-end, written on the 64x64->128
// multiply primitive from math/bits. An alternative back-end (hand-scheduled
// assembly) would replace Mul and Sqr behind a build tag with bit-identical
// outputs.

// uint128 is a 128-bit accumulator for the multiplication kernels.
type uint128 struct {
	high, low uint64
}

// mulU64ToU128 returns a*b as a uint128.
func mulU64ToU128(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{high: hi, low: lo}
}

// addMulU128 returns c + a*b.
func addMulU128(c uint128, a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	newLo, carry := bits.Add64(c.low, lo, 0)
	newHi, _ := bits.Add64(c.high, hi, carry)
	return uint128{high: newHi, low: newLo}
}

// addU128 returns c + a.
func addU128(c uint128, a uint64) uint128 {
	newLo, carry := bits.Add64(c.low, a, 0)
	newHi, _ := bits.Add64(c.high, 0, carry)
	return uint128{high: newHi, low: newLo}
}

// lo returns the lower 64 bits.
func (u uint128) lo() uint64 {
	return u.low
}

// rshift shifts the uint128 right by n bits.
func (u uint128) rshift(n uint) uint128 {
	if n >= 64 {
		return uint128{high: 0, low: u.high >> (n - 64)}
	}
	return uint128{
		high: u.high >> n,
		low:  (u.low >> n) | (u.high << (64 - n)),
	}
}

// Mul sets r to the product a * b. Both inputs must have magnitude at most
// 8; the result has magnitude 1 and is not normalized. r may alias a or b.
//
// The schedule follows secp256k1_fe_mul_inner: the 5x5 limb convolution is
// folded on the fly using 2^256 = 0x1000003D1 mod p, with the two 128-bit
// accumulators c (low half) and d (high half) never overflowing given the
// magnitude bound.
func (r *FieldElement) Mul(a, b *FieldElement) {
	// The magnitude bound is what keeps the 128-bit accumulators below
	// overflow; callers exceeding it must NormalizeWeak first.
	if a.magnitude > 8 || b.magnitude > 8 {
		panic("field element magnitude must not exceed 8")
	}

	// All limbs are read before any output limb is written, so aliasing
	// r with a or b is safe.
	a0, a1, a2, a3, a4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]
	b0, b1, b2, b3, b4 := b.n[0], b.n[1], b.n[2], b.n[3], b.n[4]

	const M = limb0Max
	const R = fieldReductionConstantShifted

	// [... a b c] denotes ... + a<<104 + b<<52 + c, mod p.

	// d = p3 = a0*b3 + a1*b2 + a2*b1 + a3*b0
	var c, d uint128
	d = mulU64ToU128(a0, b3)
	d = addMulU128(d, a1, b2)
	d = addMulU128(d, a2, b1)
	d = addMulU128(d, a3, b0)

	// c = p8 = a4*b4
	c = mulU64ToU128(a4, b4)

	// Fold p8 into p3: d += R * c_lo; c >>= 64
	d = addMulU128(d, R, c.lo())
	c = c.rshift(64)

	t3 := d.lo() & M
	d = d.rshift(52)

	// d += p4 = a0*b4 + a1*b3 + a2*b2 + a3*b1 + a4*b0
	d = addMulU128(d, a0, b4)
	d = addMulU128(d, a1, b3)
	d = addMulU128(d, a2, b2)
	d = addMulU128(d, a3, b1)
	d = addMulU128(d, a4, b0)

	// Fold the remaining high half of p8.
	d = addMulU128(d, R<<12, c.lo())

	t4 := d.lo() & M
	d = d.rshift(52)
	tx := t4 >> 48
	t4 &= M >> 4

	// c = p0 = a0*b0
	c = mulU64ToU128(a0, b0)

	// d += p5 = a1*b4 + a2*b3 + a3*b2 + a4*b1
	d = addMulU128(d, a1, b4)
	d = addMulU128(d, a2, b3)
	d = addMulU128(d, a3, b2)
	d = addMulU128(d, a4, b1)

	u0 := d.lo() & M
	d = d.rshift(52)
	u0 = (u0 << 4) | tx

	// Fold p5 (plus the spilled top bits of t4) into p0.
	c = addMulU128(c, u0, R>>4)

	r0 := c.lo() & M
	c = c.rshift(52)

	// c += p1 = a0*b1 + a1*b0
	c = addMulU128(c, a0, b1)
	c = addMulU128(c, a1, b0)

	// d += p6 = a2*b4 + a3*b3 + a4*b2
	d = addMulU128(d, a2, b4)
	d = addMulU128(d, a3, b3)
	d = addMulU128(d, a4, b2)

	c = addMulU128(c, R, d.lo()&M)
	d = d.rshift(52)

	r1 := c.lo() & M
	c = c.rshift(52)

	// c += p2 = a0*b2 + a1*b1 + a2*b0
	c = addMulU128(c, a0, b2)
	c = addMulU128(c, a1, b1)
	c = addMulU128(c, a2, b0)

	// d += p7 = a3*b4 + a4*b3
	d = addMulU128(d, a3, b4)
	d = addMulU128(d, a4, b3)

	c = addMulU128(c, R, d.lo())
	d = d.rshift(64)

	r2 := c.lo() & M
	c = c.rshift(52)

	c = addMulU128(c, R<<12, d.lo())
	c = addU128(c, t3)

	r3 := c.lo() & M
	c = c.rshift(52)

	r.n[0] = r0
	r.n[1] = r1
	r.n[2] = r2
	r.n[3] = r3
	r.n[4] = c.lo() + t4

	r.magnitude = 1
	r.normalized = false
}

// Sqr sets r to the square of a, which must have magnitude at most 8. The
// result has magnitude 1 and is not normalized. r may alias a.
//
// This is the Mul schedule specialized for a == b: symmetric cross terms
// are computed once and doubled, following secp256k1_fe_sqr_inner.
func (r *FieldElement) Sqr(a *FieldElement) {
	if a.magnitude > 8 {
		panic("field element magnitude must not exceed 8")
	}

	a0, a1, a2, a3, a4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]

	const M = limb0Max
	const R = fieldReductionConstantShifted

	// d = p3 = 2*a0*a3 + 2*a1*a2
	var c, d uint128
	d = mulU64ToU128(a0*2, a3)
	d = addMulU128(d, a1*2, a2)

	// c = p8 = a4*a4
	c = mulU64ToU128(a4, a4)

	d = addMulU128(d, R, c.lo())
	c = c.rshift(64)

	t3 := d.lo() & M
	d = d.rshift(52)

	// d += p4 = 2*a0*a4 + 2*a1*a3 + a2*a2
	a4 *= 2
	d = addMulU128(d, a0, a4)
	d = addMulU128(d, a1*2, a3)
	d = addMulU128(d, a2, a2)

	d = addMulU128(d, R<<12, c.lo())

	t4 := d.lo() & M
	d = d.rshift(52)
	tx := t4 >> 48
	t4 &= M >> 4

	// c = p0 = a0*a0
	c = mulU64ToU128(a0, a0)

	// d += p5 = 2*a1*a4 + 2*a2*a3 (a4 already doubled)
	d = addMulU128(d, a1, a4)
	d = addMulU128(d, a2*2, a3)

	u0 := d.lo() & M
	d = d.rshift(52)
	u0 = (u0 << 4) | tx

	c = addMulU128(c, u0, R>>4)

	r0 := c.lo() & M
	c = c.rshift(52)

	// c += p1 = 2*a0*a1
	a0 *= 2
	c = addMulU128(c, a0, a1)

	// d += p6 = 2*a2*a4 + a3*a3 (a4 already doubled)
	d = addMulU128(d, a2, a4)
	d = addMulU128(d, a3, a3)

	c = addMulU128(c, R, d.lo()&M)
	d = d.rshift(52)

	r1 := c.lo() & M
	c = c.rshift(52)

	// c += p2 = 2*a0*a2 + a1*a1 (a0 already doubled)
	c = addMulU128(c, a0, a2)
	c = addMulU128(c, a1, a1)

	// d += p7 = 2*a3*a4 (a4 already doubled)
	d = addMulU128(d, a3, a4)

	c = addMulU128(c, R, d.lo())
	d = d.rshift(64)

	r2 := c.lo() & M
	c = c.rshift(52)

	c = addMulU128(c, R<<12, d.lo())
	c = addU128(c, t3)

	r3 := c.lo() & M
	c = c.rshift(52)

	r.n[0] = r0
	r.n[1] = r1
	r.n[2] = r2
	r.n[3] = r3
	r.n[4] = c.lo() + t4

	r.magnitude = 1
	r.normalized = false
}

// fieldPrimeMinus2 is p - 2, the Fermat inversion exponent, big endian.
var fieldPrimeMinus2 = [32]byte{
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFE, 0xFF, 0xFF, 0xFC, 0x2D,
}

// Inv sets r to the modular inverse of a, computed as a^(p-2) by Fermat's
// little theorem. The exponent is fixed, so the square-and-multiply pattern
// is identical for every input. Inv of zero yields zero. r may alias a. The
// result has magnitude 1 and is not normalized.
func (r *FieldElement) Inv(a *FieldElement) {
	var base FieldElement
	base = *a
	base.Normalize()

	r.SetInt(1)

	for i := len(fieldPrimeMinus2) - 1; i >= 0; i-- {
		b := fieldPrimeMinus2[i]
		for j := 0; j < 8; j++ {
			if (b>>j)&1 == 1 {
				r.Mul(r, &base)
			}
			base.Sqr(&base)
		}
	}

	r.magnitude = 1
	r.normalized = false
}

// Sqrt sets r to a square root of a if one exists and reports whether it
// does. Since p = 3 mod 4 the candidate root is a^((p+1)/4); that exponent
// is even, so a and -a produce the same candidate while only one of them is
// a quadratic residue. The candidate is checked by squaring; when a has no
// root, r holds the root of -a instead. r may alias a.
func (r *FieldElement) Sqrt(a *FieldElement) bool {
	var aNorm FieldElement
	aNorm = *a
	aNorm.Normalize()

	// The binary representation of (p+1)/4 has 3 blocks of 1s, with lengths
	// in { 2, 22, 223 }. Build a^(2^n - 1) for each block by addition
	// chain: 1, [2], 3, 6, 9, 11, [22], 44, 88, 176, 220, [223].
	var x2, x3, x6, x9, x11, x22, x44, x88, x176, x220, x223, t1 FieldElement

	x2.Sqr(&aNorm)
	x2.Mul(&x2, &aNorm)

	x3.Sqr(&x2)
	x3.Mul(&x3, &aNorm)

	x6 = x3
	for j := 0; j < 3; j++ {
		x6.Sqr(&x6)
	}
	x6.Mul(&x6, &x3)

	x9 = x6
	for j := 0; j < 3; j++ {
		x9.Sqr(&x9)
	}
	x9.Mul(&x9, &x3)

	x11 = x9
	for j := 0; j < 2; j++ {
		x11.Sqr(&x11)
	}
	x11.Mul(&x11, &x2)

	x22 = x11
	for j := 0; j < 11; j++ {
		x22.Sqr(&x22)
	}
	x22.Mul(&x22, &x11)

	x44 = x22
	for j := 0; j < 22; j++ {
		x44.Sqr(&x44)
	}
	x44.Mul(&x44, &x22)

	x88 = x44
	for j := 0; j < 44; j++ {
		x88.Sqr(&x88)
	}
	x88.Mul(&x88, &x44)

	x176 = x88
	for j := 0; j < 88; j++ {
		x176.Sqr(&x176)
	}
	x176.Mul(&x176, &x88)

	x220 = x176
	for j := 0; j < 44; j++ {
		x220.Sqr(&x220)
	}
	x220.Mul(&x220, &x44)

	x223 = x220
	for j := 0; j < 3; j++ {
		x223.Sqr(&x223)
	}
	x223.Mul(&x223, &x3)

	// Assemble the exponent with a sliding window over the blocks.
	t1 = x223
	for j := 0; j < 23; j++ {
		t1.Sqr(&t1)
	}
	t1.Mul(&t1, &x22)
	for j := 0; j < 6; j++ {
		t1.Sqr(&t1)
	}
	t1.Mul(&t1, &x2)
	t1.Sqr(&t1)
	r.Sqr(&t1)

	// Verify the candidate actually squares back to a.
	var check FieldElement
	check.Sqr(r)
	check.Normalize()

	return check.Equal(&aNorm)
}

// IsSquare returns whether a is a quadratic residue mod p.
func (a *FieldElement) IsSquare() bool {
	var root FieldElement
	return root.Sqrt(a)
}

// Half sets r to a/2 mod p: when a is odd, p is added first so the shifted
// value stays integral. The resulting magnitude is (m>>1)+1 for an input of
// magnitude m. r may alias a.
func (r *FieldElement) Half(a *FieldElement) {
	*r = *a

	t0, t1, t2, t3, t4 := r.n[0], r.n[1], r.n[2], r.n[3], r.n[4]
	one := uint64(1)
	mask := uint64(-int64(t0&one)) >> 12

	// Conditionally add the prime when the value is odd.
	t0 += fieldPrimeLimb0 & mask
	t1 += mask
	t2 += mask
	t3 += mask
	t4 += mask >> 4

	r.n[0] = (t0 >> 1) + ((t1 & one) << 51)
	r.n[1] = (t1 >> 1) + ((t2 & one) << 51)
	r.n[2] = (t2 >> 1) + ((t3 & one) << 51)
	r.n[3] = (t3 >> 1) + ((t4 & one) << 51)
	r.n[4] = t4 >> 1

	r.magnitude = (r.magnitude >> 1) + 1
	r.normalized = false
}
