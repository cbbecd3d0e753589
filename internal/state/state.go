// Package state implements the staged state container force elements
// compute against: discrete variables, lazily validated cache entries,
// and continuous auxiliary state, all gated by an ordered set of
// computation stages with cascading invalidation.
package state

import "fmt"

// Stage is a dependency level. A quantity tagged with a stage may only
// be computed once everything at earlier stages is available.
type Stage int

const (
	Topology Stage = iota
	Model
	Instance
	Time
	Position
	Velocity
	Dynamics
	Acceleration

	numStages
)

var stageNames = [numStages]string{
	"topology", "model", "instance", "time",
	"position", "velocity", "dynamics", "acceleration",
}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Handles into a State. Allocated once at setup and stable thereafter.
type (
	DiscreteIndex int
	CacheIndex    int
	ZIndex        int
)

type discreteVar struct {
	stage Stage
	val   any
}

// A cache entry remembers the generation of its stage it was computed
// against; it is valid while that generation is still current.
type cacheEntry struct {
	stage Stage
	val   any
	gen   uint64
}

// State holds one evaluation snapshot: time, generalized coordinates q,
// generalized speeds u, auxiliary continuous state z (with its
// derivative block zdot), plus the allocated discrete variables and
// cache entries. A State is not safe for concurrent mutation.
type State struct {
	gen      [numStages]uint64
	discrete []discreteVar
	caches   []cacheEntry
	time     float64
	q, u     []float64
	z, zdot  []float64
}

func New() *State {
	s := &State{}
	for i := range s.gen {
		s.gen[i] = 1
	}
	return s
}

// Invalidate bumps the generation of stage and every later stage, so
// all cache entries at or beyond it become stale.
func (s *State) Invalidate(stage Stage) {
	for g := stage; g < numStages; g++ {
		s.gen[g]++
	}
}

// AllocDiscrete reserves a discrete variable whose changes invalidate
// the given stage onward.
func (s *State) AllocDiscrete(stage Stage, def any) DiscreteIndex {
	s.discrete = append(s.discrete, discreteVar{stage: stage, val: def})
	return DiscreteIndex(len(s.discrete) - 1)
}

func (s *State) Discrete(ix DiscreteIndex) any {
	return s.discrete[ix].val
}

func (s *State) SetDiscrete(ix DiscreteIndex, val any) {
	dv := &s.discrete[ix]
	dv.val = val
	s.Invalidate(dv.stage)
}

// AllocCache reserves a lazily computed cache entry whose inputs become
// available at the given stage.
func (s *State) AllocCache(stage Stage) CacheIndex {
	s.caches = append(s.caches, cacheEntry{stage: stage})
	return CacheIndex(len(s.caches) - 1)
}

func (s *State) CacheValid(ix CacheIndex) bool {
	e := &s.caches[ix]
	return e.gen == s.gen[e.stage]
}

// Cache returns the stored value; callers must check CacheValid first.
func (s *State) Cache(ix CacheIndex) any {
	return s.caches[ix].val
}

// SetCache stores a freshly computed value and marks it valid for the
// current generation of its stage.
func (s *State) SetCache(ix CacheIndex, val any) {
	e := &s.caches[ix]
	e.val = val
	e.gen = s.gen[e.stage]
}

func (s *State) Time() float64 { return s.time }

func (s *State) SetTime(t float64) {
	s.time = t
	s.Invalidate(Time)
}

// AllocQU sizes the generalized coordinate and speed vectors.
func (s *State) AllocQU(nq, nu int) {
	s.q = make([]float64, nq)
	s.u = make([]float64, nu)
	s.Invalidate(Position)
}

func (s *State) Q() []float64 { return s.q }
func (s *State) U() []float64 { return s.u }

func (s *State) SetQ(q []float64) {
	if len(q) != len(s.q) {
		panic(fmt.Sprintf("state: SetQ with %d values, want %d", len(q), len(s.q)))
	}
	copy(s.q, q)
	s.Invalidate(Position)
}

func (s *State) SetU(u []float64) {
	if len(u) != len(s.u) {
		panic(fmt.Sprintf("state: SetU with %d values, want %d", len(u), len(s.u)))
	}
	copy(s.u, u)
	s.Invalidate(Velocity)
}

// AllocZ reserves n auxiliary continuous state slots, zero-initialized,
// with a matching derivative block. Returns the offset of the first slot.
func (s *State) AllocZ(n int) ZIndex {
	ix := ZIndex(len(s.z))
	s.z = append(s.z, make([]float64, n)...)
	s.zdot = append(s.zdot, make([]float64, n)...)
	return ix
}

// NZ reports the total auxiliary state size.
func (s *State) NZ() int { return len(s.z) }

// Z returns the auxiliary state block. Treat as read-only; use UpdZ to
// mutate.
func (s *State) Z() []float64 { return s.z }

// UpdZ returns the auxiliary state block for writing and invalidates
// the Dynamics stage, since forces and derivatives read z.
func (s *State) UpdZ() []float64 {
	s.Invalidate(Dynamics)
	return s.z
}

// ZDot is the derivative block elements fill during the Dynamics sweep.
// Writing derivatives never invalidates anything.
func (s *State) ZDot() []float64 { return s.zdot }
