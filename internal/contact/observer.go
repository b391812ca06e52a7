package contact

import "gonum.org/v1/gonum/spatial/r3"

// StepSnapshot captures one instance's state after a contact query, for
// diagnostic consumers. Slices are owned by the snapshot and safe to
// retain.
type StepSnapshot struct {
	Step         int
	Instance     int
	PlugPoints   []r3.Vec  // transformed plug surface sample, world frame
	SocketPoints []r3.Vec  // socket surface sample, world frame
	Scores       []float64 // per-sample contact scores for the instance
}

// StepObserver receives a snapshot after each contact query. It is a
// hook for visualisation and recording; the estimator never renders
// anything itself. Implementations must not block for long: they run
// synchronously inside the step.
type StepObserver interface {
	ObserveStep(StepSnapshot)
}
