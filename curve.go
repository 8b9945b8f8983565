// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package curvefill

// FillWeight is the scalar curve-fill predicate shared by every fragment
// stage. It returns 1 when the fragment at curve-space coordinates (u, v)
// is inside the filled region and 0 otherwise; no intermediate values are
// produced for finite inputs.
//
// Non-curve triangles fill unconditionally. Curve triangles fill on one
// side of the implicit parabola v == u*u:
//
//	curve, non-inverse: filled iff v >= u*u  (the locus itself fills)
//	curve, inverse:     filled iff v <  u*u  (the locus does not fill)
//
// The asymmetric treatment of the boundary v == u*u is deliberate: a
// fragment exactly on the curve belongs to the non-inverse side, so two
// adjacent triangles sharing a curve edge never both claim it.
func FillWeight(isInverse, isCurve bool, u, v float32) float32 {
	if !isCurve {
		return 1
	}
	uu := u * u
	if isInverse {
		if v < uu {
			return 1
		}
		return 0
	}
	if v >= uu {
		return 1
	}
	return 0
}

// FillWeightMeta evaluates [FillWeight] from a packed vertex metadata word,
// decoding the [MetaCurve] and [MetaInverse] bits.
func FillWeightMeta(metadata int32, u, v float32) float32 {
	return FillWeight(metadata&MetaInverse != 0, metadata&MetaCurve != 0, u, v)
}
