// Package rpperr defines the typed error taxonomy used across the solver
// pipeline, so callers can classify failures with errors.As instead of
// string matching.
package rpperr

import "fmt"

// InputError reports a malformed or contradictory CLI/API input, caught
// before any graph work starts.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s", e.Reason)
}

// EmptyGraph reports that no drivable edges survived filtering.
type EmptyGraph struct{}

func (e *EmptyGraph) Error() string {
	return "empty graph: no drivable edges after filtering"
}

// DisconnectedRequiredComponents reports two required-edge components with
// no directed path between their representatives in either direction.
type DisconnectedRequiredComponents struct {
	RepA, RepB int64
}

func (e *DisconnectedRequiredComponents) Error() string {
	return fmt.Sprintf("disconnected required components: no path between representative nodes %d and %d in either direction", e.RepA, e.RepB)
}

// SCCSample is a short human-readable summary of one strongly connected
// component, used in MultiSCCRequired's detail listing.
type SCCSample struct {
	ID         int
	Size       int
	SampleNode int64
}

// MultiSCCRequired reports that, in DRPP strict mode, required nodes span
// more than one strongly connected component of the driving graph.
type MultiSCCRequired struct {
	SCCs []SCCSample // up to 5 SCCs with sample nodes
}

func (e *MultiSCCRequired) Error() string {
	return fmt.Sprintf("multiple SCCs required: required arcs span %d or more strongly connected components; rerun with --drop-drpp-blockers to proceed", len(e.SCCs))
}

// MatchingInfeasible reports that some odd-degree node pair is unreachable
// in both directions while building the T-join auxiliary graph.
type MatchingInfeasible struct {
	Node int64
}

func (e *MatchingInfeasible) Error() string {
	return fmt.Sprintf("matching infeasible: odd-degree node %d has no reachable partner in the auxiliary graph", e.Node)
}

// FlowInfeasible reports that some (surplus, demand) node pair is
// unreachable while building the min-cost-flow transportation network.
type FlowInfeasible struct {
	From, To int64
}

func (e *FlowInfeasible) Error() string {
	return fmt.Sprintf("flow infeasible: no directed path from %d to %d for degree balancing", e.From, e.To)
}

// InvariantFailure reports that a post-solve sanity check failed, which
// indicates a bug in the solver rather than a property of the input.
type InvariantFailure struct {
	Reason string
}

func (e *InvariantFailure) Error() string {
	return fmt.Sprintf("invariant failure: %s", e.Reason)
}

// IoError reports a failure loading the OSM input or writing an output
// file (GPX, diagnostics report, cache).
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error on %q: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
