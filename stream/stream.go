// Package stream provides the valid/ready handshake primitives shared by all
// simulated cores.
//
// A transfer happens on a clock edge where both Valid and Ready are asserted.
// A producer must hold Payload and Valid stable until the transfer completes;
// a consumer may assert and deassert Ready freely. Components sample their
// input ports and drive their output ports inside Tick, which advances state
// by exactly one clock edge.
package stream

// InPort is the receiving side of a valid/ready stream. The environment
// drives Payload and Valid; the component drives Ready.
type InPort[T any] struct {
	// Payload is the data being offered to the component.
	Payload T

	// Valid indicates Payload is meaningful this cycle.
	Valid bool

	// Ready indicates the component can accept a payload this cycle.
	// Updated by the component during Tick.
	Ready bool
}

// Fired reports whether a transfer completed on the last clock edge.
func (p *InPort[T]) Fired() bool {
	return p.Valid && p.Ready
}

// OutPort is the producing side of a valid/ready stream. The component
// drives Payload and Valid; the environment drives Ready.
type OutPort[T any] struct {
	// Payload is the data being offered by the component. Only meaningful
	// while Valid is asserted.
	Payload T

	// Valid indicates Payload is meaningful this cycle. Updated by the
	// component during Tick and held until the transfer completes.
	Valid bool

	// Ready indicates the environment accepts the payload this cycle.
	Ready bool
}

// Fired reports whether a transfer completed on the last clock edge.
func (p *OutPort[T]) Fired() bool {
	return p.Valid && p.Ready
}

// Component is a clocked simulation object.
type Component interface {
	// Reset returns the component to its power-on state. Port wiring
	// survives a reset; in-flight transactions do not.
	Reset()

	// Tick advances the component by one clock edge.
	Tick()
}

// Streamed is a component with one input stream and one output stream.
type Streamed[I, O any] interface {
	Component

	// In returns the component's input port.
	In() *InPort[I]

	// Out returns the component's output port.
	Out() *OutPort[O]
}
