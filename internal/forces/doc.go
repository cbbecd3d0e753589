// Package forces provides pluggable force-contribution elements for a
// multibody dynamics simulation. Each element reads the current
// kinematic state and adds its contribution to caller-owned
// accumulators: spatial forces on bodies, 3-vector forces on free
// particles, and generalized forces on mobilities.
//
//   - [TwoPointLinearSpring], [TwoPointLinearDamper],
//     [TwoPointConstantForce]: act along the line between two
//     body-fixed stations
//   - [MobilityLinearSpring], [MobilityLinearDamper],
//     [MobilityConstantForce]: act on a single generalized coordinate
//   - [LinearBushing]: six-axis spring-damper between two body-fixed
//     frames
//   - [Thermostat]: Nose-Hoover chain thermostat driving every mobility
//   - [ConstantForce], [ConstantTorque], [GlobalDamper],
//     [UniformGravity]: simple global force laws
//   - [Custom]: extension point for force laws implemented outside the
//     package
//
// Elements are registered with a [Subsystem] at construction and are
// read-only afterwards, so one element set may serve many [state.State]
// instances. Evaluation only ever adds into the accumulators; totals
// are independent of element order.
//
// # Energy
//
// Conservative elements (springs, bushing, gravity) report a potential
// energy; dampers and externally driven elements report zero. The
// thermostat's energy bookkeeping lives in its bath, queried through
// [Thermostat.BathEnergy] rather than the potential.
package forces
