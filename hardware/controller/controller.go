// Package controller implements the three addressed-entity mixins a
// hardware interface composes to own decoders, inputs and outputs: each
// holds an object list of what it owns. The decoder controller also
// enforces protocol-specific address ranges and speed-step sets and
// rejects duplicate (protocol, address) pairs; the input and output
// controllers do no such checks.
package controller

import (
	"fmt"

	"traintastic/conv"
	"traintastic/hardware/decoder"
	"traintastic/hardware/input"
	"traintastic/hardware/output"
	"traintastic/object"
)

// AddressRange is an inclusive [Min, Max] address window for a protocol.
type AddressRange struct {
	Min, Max uint16
}

func (r AddressRange) Contains(address uint16) bool {
	return conv.Between(address, r.Min, r.Max)
}

// Per-protocol address ranges, exactly as specified.
var (
	DCCShortAddressRange  = AddressRange{Min: 1, Max: 127}
	DCCLongAddressRange   = AddressRange{Min: 1, Max: 10239}
	MotorolaAddressRange  = AddressRange{Min: 1, Max: 80}
	SelectrixAddressRange = AddressRange{Min: 1, Max: 112}
)

// AddressRangeFor returns the address range for protocol p, using
// LongAddress to disambiguate DCC short vs. long addressing.
func AddressRangeFor(p decoder.Protocol, longAddress bool) AddressRange {
	switch p {
	case decoder.ProtocolDCC:
		if longAddress {
			return DCCLongAddressRange
		}
		return DCCShortAddressRange
	case decoder.ProtocolMotorola:
		return MotorolaAddressRange
	case decoder.ProtocolSelectrix:
		return SelectrixAddressRange
	default:
		return DCCLongAddressRange
	}
}

// Permitted speed-step counts, per protocol. A speed-steps value of 0
// means "automatic" and is always permitted.
var (
	DCCSpeedSteps       = map[uint8]bool{14: true, 27: true, 28: true, 128: true}
	MotorolaSpeedSteps  = map[uint8]bool{14: true, 27: true, 28: true}
	SelectrixSpeedSteps = map[uint8]bool{32: true}
)

func speedStepsValidFor(p decoder.Protocol, steps uint8) bool {
	if steps == decoder.SpeedStepsAuto {
		return true
	}
	switch p {
	case decoder.ProtocolDCC:
		return DCCSpeedSteps[steps]
	case decoder.ProtocolMotorola:
		return MotorolaSpeedSteps[steps]
	case decoder.ProtocolSelectrix:
		return SelectrixSpeedSteps[steps]
	default:
		return false
	}
}

type decoderKey struct {
	protocol decoder.Protocol
	address  uint16
}

// DecoderController owns a set of decoders, address-range- and
// speed-step-validating each on admission and rejecting duplicate
// (protocol, address) pairs.
type DecoderController struct {
	*object.IdObject

	Decoders *object.List[*decoder.Decoder]

	byAddress map[decoderKey]string
}

// NewDecoderController constructs a decoder-owning controller mixin and
// registers it in the world index.
func NewDecoderController(registry *object.Registry, id string) *DecoderController {
	c := &DecoderController{
		IdObject:  object.NewIdObject("decoder_controller", registry, id),
		byAddress: make(map[decoderKey]string),
	}
	c.Bind(c)
	c.Decoders = object.NewList[*decoder.Decoder](c.Base, "decoders")
	return c
}

// AddDecoder validates d's (protocol, address, speedSteps) and, if
// acceptable, admits it to the owned set.
func (c *DecoderController) AddDecoder(d *decoder.Decoder) error {
	proto := d.Protocol.Get()
	address := d.Address.Get()
	rng := AddressRangeFor(proto, d.LongAddress.Get())
	if !rng.Contains(address) {
		return object.ErrOutOfRange
	}
	if !speedStepsValidFor(proto, d.SpeedSteps.Get()) {
		return object.ErrInvalidValue
	}
	key := decoderKey{protocol: proto, address: address}
	if _, exists := c.byAddress[key]; exists {
		return object.ErrInvalidValue
	}
	c.byAddress[key] = d.Id()
	c.Decoders.Add(d)
	return nil
}

// RemoveDecoder removes d from the owned set.
func (c *DecoderController) RemoveDecoder(d *decoder.Decoder) {
	delete(c.byAddress, decoderKey{protocol: d.Protocol.Get(), address: d.Address.Get()})
	c.Decoders.Remove(d)
}

type channelAddress struct {
	channel, address uint16
}

// InputController owns a set of inputs keyed by (channel, address) and
// routes kernel-reported hardware changes to the matching input.
type InputController struct {
	*object.IdObject

	Inputs *object.List[*input.Input]

	byAddress map[channelAddress]*input.Input
}

// NewInputController constructs an input-owning controller mixin and
// registers it in the world index.
func NewInputController(registry *object.Registry, id string) *InputController {
	c := &InputController{
		IdObject:  object.NewIdObject("input_controller", registry, id),
		byAddress: make(map[channelAddress]*input.Input),
	}
	c.Bind(c)
	c.Inputs = object.NewList[*input.Input](c.Base, "inputs")
	return c
}

func (c *InputController) AddInput(i *input.Input) error {
	c.Inputs.Add(i)
	return nil
}

func (c *InputController) RemoveInput(i *input.Input) {
	c.Inputs.Remove(i)
}

// Track registers i under (channel, address) so InputChanged can route to
// it; called by the kernel once it knows which address an input serves.
func (c *InputController) Track(channel, address uint16, i *input.Input) {
	c.byAddress[channelAddress{channel, address}] = i
}

// InputChanged is called by a kernel reporting raw hardware state for
// (channel, address); it is a no-op if no input has been tracked there.
func (c *InputController) InputChanged(channel, address uint16, value bool) {
	if i, ok := c.byAddress[channelAddress{channel, address}]; ok {
		i.ReportValue(value)
	}
}

// SimulateInputChange is the test/simulation-mode hook a kernel exposes to
// flip a tracked input's raw hardware state, described in the surface
// contract as simulateInputChange(channel, address).
func (c *InputController) SimulateInputChange(channel, address uint16) error {
	i, ok := c.byAddress[channelAddress{channel, address}]
	if !ok {
		return fmt.Errorf("controller: no input tracked at channel %d address %d", channel, address)
	}
	i.ReportValue(!i.Value.Get())
	return nil
}

// OutputController owns a set of outputs keyed by (channel, address) and
// is the SetOutput/OutputEcho surface kernels and outputs route through.
type OutputController struct {
	*object.IdObject

	Outputs *object.List[*output.Output]

	byAddress map[channelAddress]*output.Output
}

// NewOutputController constructs an output-owning controller mixin and
// registers it in the world index.
func NewOutputController(registry *object.Registry, id string) *OutputController {
	c := &OutputController{
		IdObject:  object.NewIdObject("output_controller", registry, id),
		byAddress: make(map[channelAddress]*output.Output),
	}
	c.Bind(c)
	c.Outputs = object.NewList[*output.Output](c.Base, "outputs")
	return c
}

func (c *OutputController) AddOutput(o *output.Output) error {
	c.byAddress[channelAddress{o.Channel.Get(), o.Address.Get()}] = o
	c.Outputs.Add(o)
	return nil
}

func (c *OutputController) RemoveOutput(o *output.Output) {
	delete(c.byAddress, channelAddress{o.Channel.Get(), o.Address.Get()})
	c.Outputs.Remove(o)
}

// SetOutput is the surface output.Output's Value validator calls through
// to; a real controller overrides this by embedding OutputController and
// shadowing the method with one that also talks to hardware. The base
// implementation always accepts, which is sufficient for controllers
// whose kernel drives output state unconditionally.
func (c *OutputController) SetOutput(channel, address uint16, value bool) bool {
	return true
}

// OutputEcho is called by a kernel once hardware confirms output state
// for (channel, address); it is a no-op if no output is tracked there.
func (c *OutputController) OutputEcho(channel, address uint16, value bool) {
	if o, ok := c.byAddress[channelAddress{channel, address}]; ok {
		o.ReportEcho(value)
	}
}
