// Package contact estimates extrinsic contact between a manipulated plug
// and a stationary socket across N parallel simulation instances. Given
// per-instance rigid poses it scores how close each cached plug surface
// sample sits to the socket surface, and tracks a spin-invariant pose
// estimate over time.
//
// The estimator owns all mesh-derived state: the plug surface sample,
// the socket mesh with its distance field, and the score buffers. It is
// driven synchronously, once per simulation step.
package contact

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ismarou/extrinsic-contact/internal/distfield"
	"github.com/ismarou/extrinsic-contact/internal/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultNumPoints  = 50
	DefaultThreshold  = 0.002 // metres
	DefaultCutoff     = 0.1
	DefaultDropoutMax = 0.1
)

// Config configures an Estimator. Zero-valued fields fall back to the
// defaults above; scales default to 1.
type Config struct {
	PlugMeshPath   string
	SocketMeshPath string

	PlugScale   float64 // uniform scale applied to the plug mesh before sampling
	SocketScale float64 // uniform scale applied to the socket mesh before indexing

	// SocketPosition places the socket mesh in the world frame at
	// construction; RepositionSocket moves it later.
	SocketPosition r3.Vec

	NumEnvs   int // parallel instance count N; required
	NumPoints int // surface sample size P

	Threshold float64 // default contact distance threshold

	// Cutoff is the closeness score above which a sample snaps to full
	// contact (1.0).
	Cutoff float64

	// DropoutMax is the upper bound of the uniform draw that sizes the
	// stochastic dropout of full-contact samples. Negative disables
	// dropout entirely (useful in tests).
	DropoutMax float64

	// Seed seeds sampling and dropout randomness. Zero means
	// time-seeded: production runs are intentionally non-deterministic.
	Seed int64

	// Observer, when set, receives a snapshot of instance 0 after every
	// contact query.
	Observer StepObserver
}

func (c *Config) applyDefaults() {
	if c.PlugScale == 0 {
		c.PlugScale = 1
	}
	if c.SocketScale == 0 {
		c.SocketScale = 1
	}
	if c.NumPoints == 0 {
		c.NumPoints = DefaultNumPoints
	}
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Cutoff == 0 {
		c.Cutoff = DefaultCutoff
	}
	if c.DropoutMax == 0 {
		c.DropoutMax = DefaultDropoutMax
	}
}

// Estimator computes per-sample contact scores and companion point
// clouds. All shared mesh state is read-mostly; the mutex exists to make
// RepositionSocket an exclusive critical section relative to queries.
type Estimator struct {
	mu  sync.Mutex
	cfg Config
	rng *rand.Rand

	plugMesh    *geom.Mesh // scaled
	plugSample  []r3.Vec   // P points, plug frame
	baseSocket  *geom.Mesh // as loaded, unscaled: pristine base for rebuilds
	socketMesh  *geom.Mesh // scaled + positioned
	socketLocal []r3.Vec   // P points, socket frame: pose transforms apply to these
	socketWorld []r3.Vec   // socketLocal translated to the configured position
	field       *distfield.Field

	tracker    *Tracker
	lastScores [][]float64 // N x P accumulator, zeroed by Reset
	step       int
}

// New builds an Estimator: loads and scales both meshes, draws the fixed
// surface samples, and constructs the socket distance field. Any failure
// aborts construction.
func New(cfg Config) (*Estimator, error) {
	if cfg.NumEnvs <= 0 {
		return nil, fmt.Errorf("%w: NumEnvs must be positive, got %d", geom.ErrDimensionMismatch, cfg.NumEnvs)
	}
	cfg.applyDefaults()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Estimator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}

	plugBase, err := geom.LoadOBJ(cfg.PlugMeshPath)
	if err != nil {
		return nil, fmt.Errorf("plug mesh: %w", err)
	}
	e.plugMesh = plugBase.UniformScaled(cfg.PlugScale)
	e.plugSample, err = geom.SampleSurface(e.plugMesh, cfg.NumPoints, e.rng)
	if err != nil {
		return nil, fmt.Errorf("plug sample: %w", err)
	}

	e.baseSocket, err = geom.LoadOBJ(cfg.SocketMeshPath)
	if err != nil {
		return nil, fmt.Errorf("socket mesh: %w", err)
	}
	if err := e.installSocket(cfg.SocketPosition); err != nil {
		return nil, err
	}

	e.tracker = NewTracker(cfg.NumEnvs)
	e.lastScores = make([][]float64, cfg.NumEnvs)
	for i := range e.lastScores {
		e.lastScores[i] = make([]float64, cfg.NumPoints)
	}
	return e, nil
}

// installSocket derives the positioned socket mesh, its surface samples
// and distance field from the pristine base. Everything is built into
// locals first so a failure leaves the estimator unchanged. The surface
// sample is drawn in the socket frame (scaled, untranslated mesh);
// CombinedCloud places it with the caller's socket pose, so baking the
// world position in here would double the offset.
func (e *Estimator) installSocket(pos r3.Vec) error {
	local := e.baseSocket.UniformScaled(e.cfg.SocketScale)
	sample, err := geom.SampleSurface(local, e.cfg.NumPoints, e.rng)
	if err != nil {
		return fmt.Errorf("socket sample: %w", err)
	}
	mesh := local.Translated(pos)
	field, err := distfield.Build(mesh)
	if err != nil {
		return fmt.Errorf("socket distance field: %w", err)
	}
	world := make([]r3.Vec, len(sample))
	for i, p := range sample {
		world[i] = r3.Add(p, pos)
	}

	e.socketMesh = mesh
	e.socketLocal = sample
	e.socketWorld = world
	e.field = field
	e.cfg.SocketPosition = pos
	return nil
}

// NumEnvs returns the configured parallel instance count.
func (e *Estimator) NumEnvs() int { return e.cfg.NumEnvs }

// NumPoints returns the surface sample size P.
func (e *Estimator) NumPoints() int { return e.cfg.NumPoints }

// Reset zeroes the score accumulator, restarts the step counter and
// re-initialises the pose tracker.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lastScores {
		for j := range e.lastScores[i] {
			e.lastScores[i][j] = 0
		}
	}
	e.step = 0
	e.tracker.Reset()
}

// RepositionSocket rebuilds the socket-side state (mesh rescaled from
// its pristine base, translated to pos; fresh surface sample; fresh
// distance field) as one atomic operation: on error the previous state
// remains valid and in use. The pose tracker restarts from identity.
func (e *Estimator) RepositionSocket(pos r3.Vec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.installSocket(pos); err != nil {
		return err
	}
	e.tracker.Reset()
	return nil
}

// Contact returns the N x P contact score array for the given object and
// socket poses. threshold <= 0 selects the configured default. Scores
// are in [0,1]: raw distances are clipped to [0,threshold], converted to
// closeness 1-d/threshold, snapped to 1.0 above the cutoff, and finally
// thinned by the stochastic dropout policy.
//
// The dropout count is data dependent on purpose: among the samples at
// full contact, the number zeroed is int(sum of those scores * u) with u
// drawn uniformly from [0, DropoutMax]. Since every such score is 1.0
// the sum equals the count, but the formula is kept in this form to
// match the established behaviour exactly.
func (e *Estimator) Contact(objPoses, socketPoses []geom.Pose, threshold float64) ([][]float64, error) {
	if len(objPoses) != e.cfg.NumEnvs || len(socketPoses) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d object and %d socket poses, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(objPoses), len(socketPoses), e.cfg.NumEnvs)
	}
	if threshold <= 0 {
		threshold = e.cfg.Threshold
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.field == nil {
		panic("contact: query before distance field built")
	}

	world := geom.ApplyBatch(geom.BatchTransforms(objPoses), e.plugSample)

	// Flatten across instances for one batched distance query, mirroring
	// the downstream flattened score shaping.
	n, p := e.cfg.NumEnvs, e.cfg.NumPoints
	flat := make([]r3.Vec, 0, n*p)
	for _, pts := range world {
		flat = append(flat, pts...)
	}
	dist := e.field.NearestDistance(flat)

	scores := make([]float64, len(dist))
	for i, d := range dist {
		if d > threshold {
			d = threshold
		}
		if d < 0 {
			d = 0
		}
		s := 1.0 - d/threshold
		s = clamp(s, 0, 1)
		if s > e.cfg.Cutoff {
			s = 1.0
		}
		scores[i] = s
	}

	e.applyDropout(scores)

	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = scores[i*p : (i+1)*p : (i+1)*p]
		copy(e.lastScores[i], out[i])
	}

	if e.cfg.Observer != nil {
		e.cfg.Observer.ObserveStep(StepSnapshot{
			Step:         e.step,
			Instance:     0,
			PlugPoints:   append([]r3.Vec(nil), world[0]...),
			SocketPoints: append([]r3.Vec(nil), e.socketWorld...),
			Scores:       append([]float64(nil), out[0]...),
		})
	}
	e.step++
	return out, nil
}

// applyDropout zeroes a random subset of the full-contact entries so the
// signal is not a noise-free oracle during learning.
func (e *Estimator) applyDropout(scores []float64) {
	if e.cfg.DropoutMax <= 0 {
		return
	}
	var full []int
	var sum float64
	for i, s := range scores {
		if s == 1.0 {
			full = append(full, i)
			sum += s
		}
	}
	if len(full) == 0 {
		return
	}
	e.rng.Shuffle(len(full), func(i, j int) { full[i], full[j] = full[j], full[i] })
	num := int(sum * e.rng.Float64() * e.cfg.DropoutMax)
	if num > len(full) {
		num = len(full)
	}
	for _, idx := range full[:num] {
		scores[idx] = 0
	}
}

// LastScores returns a copy of the most recent N x P score array (zeroes
// after Reset or before the first query).
func (e *Estimator) LastScores() [][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]float64, len(e.lastScores))
	for i, row := range e.lastScores {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Track feeds the current raw object poses through the spin-invariant
// tracker and returns the tracked transforms. The tracker state restarts
// from identity on Reset and RepositionSocket.
func (e *Estimator) Track(objPoses []geom.Pose) ([]geom.Transform, error) {
	if len(objPoses) != e.cfg.NumEnvs {
		return nil, fmt.Errorf("%w: got %d poses, estimator configured for %d instances",
			geom.ErrDimensionMismatch, len(objPoses), e.cfg.NumEnvs)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Update(geom.BatchTransforms(objPoses)), nil
}
