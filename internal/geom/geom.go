// Package geom provides the geometric primitives shared by the contact
// estimation pipeline: triangle meshes with OBJ import/export, validated
// rigid-body poses, row-major 4x4 transforms with batched application,
// and area-weighted surface sampling.
//
// Vectors are gonum spatial/r3 values and quaternions gonum num/quat
// values so downstream packages share one numeric vocabulary.
package geom

import "errors"

// ErrAssetLoad indicates a mesh asset could not be loaded: the path does
// not resolve to a readable file, or the file is not a usable triangle
// mesh. Construction of any component that owns a mesh must abort.
var ErrAssetLoad = errors.New("geom: asset load failed")

// ErrDimensionMismatch indicates a caller passed batches whose sizes do
// not agree with the configured layout (wrong instance count, wrong
// point count). It always signals a caller bug, not bad input data.
var ErrDimensionMismatch = errors.New("geom: dimension mismatch")

// ErrInvalidPose indicates a pose value that cannot encode a rigid-body
// orientation, such as a zero-norm quaternion.
var ErrInvalidPose = errors.New("geom: invalid pose")
