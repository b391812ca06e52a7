package contact

import (
	"fmt"

	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// GoalCloud returns, per instance, the plug surface sample scaled by
// that instance's scalar factor and transformed by the socket pose: the
// plug as it would sit when fully inserted. plugScale must have one
// entry per instance.
func (e *Estimator) GoalCloud(socketPoses []geom.Pose, plugScale []float64) ([][]r3.Vec, error) {
	if len(socketPoses) != e.cfg.NumEnvs || len(plugScale) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d socket poses and %d scales, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(socketPoses), len(plugScale), e.cfg.NumEnvs)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goalCloudLocked(socketPoses, plugScale), nil
}

func (e *Estimator) goalCloudLocked(socketPoses []geom.Pose, plugScale []float64) [][]r3.Vec {
	out := make([][]r3.Vec, e.cfg.NumEnvs)
	for i, pose := range socketPoses {
		t := pose.Transform()
		scaled := make([]r3.Vec, len(e.plugSample))
		for j, p := range e.plugSample {
			scaled[j] = r3.Scale(plugScale[i], p)
		}
		out[i] = t.ApplyAll(scaled)
	}
	return out
}

// MergeGoalCloud concatenates each instance's existing cloud with its
// goal points and resamples back down to the existing cloud's point
// count, drawing without replacement from the union. One permutation is
// shared across instances so corresponding rows stay aligned.
func (e *Estimator) MergeGoalCloud(existing [][]r3.Vec, socketPoses []geom.Pose, plugScale []float64) ([][]r3.Vec, error) {
	if len(existing) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d clouds, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(existing), e.cfg.NumEnvs)
	}
	if len(socketPoses) != e.cfg.NumEnvs || len(plugScale) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d socket poses and %d scales, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(socketPoses), len(plugScale), e.cfg.NumEnvs)
	}
	width := len(existing[0])
	for i, row := range existing {
		if len(row) != width {
			return nil, fmt.Errorf("%w: cloud row %d has %d points, row 0 has %d",
				geom.ErrDimensionMismatch, i, len(row), width)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	goal := e.goalCloudLocked(socketPoses, plugScale)

	keep := e.rng.Perm(width + len(e.plugSample))[:width]
	out := make([][]r3.Vec, e.cfg.NumEnvs)
	for i := range out {
		union := make([]r3.Vec, 0, width+len(goal[i]))
		union = append(union, existing[i]...)
		union = append(union, goal[i]...)
		row := make([]r3.Vec, width)
		for j, idx := range keep {
			row[j] = union[idx]
		}
		out[i] = row
	}
	return out, nil
}

// CombinedCloud composes the observation cloud: the plug at its current
// pose, the plug at its goal (socket) pose and the socket sample are
// concatenated per instance and subsampled without replacement back to
// the plug's point count P.
func (e *Estimator) CombinedCloud(objPoses, socketPoses []geom.Pose) ([][]r3.Vec, error) {
	if len(objPoses) != e.cfg.NumEnvs || len(socketPoses) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d object and %d socket poses, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(objPoses), len(socketPoses), e.cfg.NumEnvs)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	objT := geom.BatchTransforms(objPoses)
	socketT := geom.BatchTransforms(socketPoses)

	plug := geom.ApplyBatch(objT, e.plugSample)
	plugGoal := geom.ApplyBatch(socketT, e.plugSample)
	socket := geom.ApplyBatch(socketT, e.socketLocal)

	p := e.cfg.NumPoints
	keep := e.rng.Perm(3 * p)[:p]
	out := make([][]r3.Vec, e.cfg.NumEnvs)
	for i := range out {
		union := make([]r3.Vec, 0, 3*p)
		union = append(union, plug[i]...)
		union = append(union, plugGoal[i]...)
		union = append(union, socket[i]...)
		row := make([]r3.Vec, p)
		for j, idx := range keep {
			row[j] = union[idx]
		}
		out[i] = row
	}
	return out, nil
}

// FlattenCloud lays an N x P cloud out as N rows of 3P coordinates
// (x0,y0,z0, x1,...), the layout downstream observation builders expect.
func FlattenCloud(cloud [][]r3.Vec) [][]float64 {
	out := make([][]float64, len(cloud))
	for i, row := range cloud {
		flat := make([]float64, 0, 3*len(row))
		for _, pt := range row {
			flat = append(flat, pt.X, pt.Y, pt.Z)
		}
		out[i] = flat
	}
	return out
}
