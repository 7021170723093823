// Package base10 implements binary to binary-coded-decimal conversion
// cores.
//
// BinaryToBCD streams one conversion at a time: small widths go through a
// combinational double-dabble network, widths up to 20 bits go through a
// pipelined binary to base-1000 decomposition feeding two small
// double-dabble networks.
package base10

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/stream"
)

// MaxDigits is the capacity of a Digits payload.
const MaxDigits = 8

// Digits is a packed-BCD result, least significant digit first. Each
// element holds one decimal digit; elements past the converter's digit
// count are zero.
type Digits [MaxDigits]uint8

// Limit declares how much of a converter's input range must convert
// correctly.
type Limit uint8

const (
	// LimitLargestPower10 only guarantees inputs below the largest power
	// of ten that fits the input width. Cheaper conversions are allowed
	// to truncate above it.
	LimitLargestPower10 Limit = iota

	// LimitEntireRange guarantees every representable input.
	LimitEntireRange
)

// String returns the lowercase name of the limit.
func (l Limit) String() string {
	switch l {
	case LimitLargestPower10:
		return "largest-power-10"
	case LimitEntireRange:
		return "entire-range"
	default:
		return "unknown"
	}
}

// BinaryToBCD converts unsigned binary values to packed BCD.
//
// Conversions follow the stream handshake. The double-dabble path produces
// its result on the accepting edge, so it is visible one cycle after
// acceptance; the base-1000 path takes four cycles and pipelines up to
// three conversions. Results hold on Outp until consumed.
type BinaryToBCD struct {
	// Inp is the binary input stream. Only the low width bits of the
	// payload are read.
	Inp stream.InPort[uint64]

	// Outp is the BCD digit stream.
	Outp stream.OutPort[Digits]

	width   uint
	ndigits uint

	// conv is nil on the double-dabble path.
	conv *b2ToB1000
}

// NewBinaryToBCD returns a converter for the given input width in bits.
//
// Not every width/limit combination has an implementation: conversion needs
// width >= 4, the double-dabble path covers up to 2 digits at any limit and
// up to width 10 at LimitLargestPower10, and the base-1000 path covers 4 to
// 6 digits at any limit and up to width 20 at LimitLargestPower10.
func NewBinaryToBCD(width uint, limit Limit) (*BinaryToBCD, error) {
	if width <= 3 {
		return nil, errors.New(
			"base10: BCD conversion is only meaningful for width 4 " +
				"or greater")
	}
	if width > 64 {
		return nil, errors.Errorf(
			"base10: width must be at most 64, got %d", width)
	}

	nd := numDigits(width)
	b := &BinaryToBCD{width: width, ndigits: nd}

	// A base-1000 decomposition is not worth it for the 24 values above
	// 10^3 at width 10, so the double-dabble cutoff sits there.
	switch {
	case nd < 3 || (limit == LimitLargestPower10 && width <= 10):
		return b, nil
	case (nd > 3 && nd <= 6) || (limit == LimitLargestPower10 && width <= 20):
		conv, err := newB2ToB1000(3)
		if err != nil {
			return nil, err
		}
		b.conv = conv
		return b, nil
	default:
		return nil, errors.Errorf(
			"base10: no converter for width %d with limit %v",
			width, limit)
	}
}

// Width returns the input width in bits.
func (b *BinaryToBCD) Width() uint { return b.width }

// NumDigits returns how many elements of a result carry digits.
func (b *BinaryToBCD) NumDigits() uint { return b.ndigits }

// In returns the binary input port.
func (b *BinaryToBCD) In() *stream.InPort[uint64] { return &b.Inp }

// Out returns the digit port.
func (b *BinaryToBCD) Out() *stream.OutPort[Digits] { return &b.Outp }

// Reset returns the converter to the idle state.
func (b *BinaryToBCD) Reset() {
	if b.conv != nil {
		b.conv.Reset()
	}
	b.Inp.Ready = false
	b.Outp.Valid = false
	b.Outp.Payload = Digits{}
}

// Tick advances the converter by one clock edge.
func (b *BinaryToBCD) Tick() {
	if b.conv == nil {
		b.tickDoubleDabble()
	} else {
		b.tickBase1000()
	}
}

func (b *BinaryToBCD) tickDoubleDabble() {
	inReady := !b.Outp.Valid || b.Outp.Ready
	if b.Outp.Fired() {
		b.Outp.Valid = false
	}
	if inReady && b.Inp.Valid {
		b.Outp.Valid = true
		b.Outp.Payload = doubleDabble(b.Inp.Payload, b.width, b.ndigits)
	}
	b.Inp.Ready = !b.Outp.Valid || b.Outp.Ready
}

func (b *BinaryToBCD) tickBase1000() {
	// The input wires pass straight through to the base-1000 pipeline;
	// its output is consumed as soon as this converter's own output
	// register is free.
	c := b.conv
	c.inp.Valid = b.Inp.Valid
	c.inp.Payload = b.Inp.Payload
	c.outp.Ready = !b.Outp.Valid || b.Outp.Ready

	convFired := c.outp.Fired()
	convPayload := c.outp.Payload

	c.Tick()

	if b.Outp.Fired() {
		b.Outp.Valid = false
	}
	if convFired {
		lo := doubleDabble(uint64(convPayload[0]), 10, 4)
		hi := doubleDabble(uint64(convPayload[1]), 10, 4)

		var d Digits
		d[0], d[1], d[2] = lo[0], lo[1], lo[2]
		for i := uint(3); i < b.ndigits && i-3 < 4; i++ {
			d[i] = hi[i-3]
		}
		b.Outp.Valid = true
		b.Outp.Payload = d
	}
	b.Inp.Ready = c.inp.Ready
}
