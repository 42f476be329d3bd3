// Package stormbinc provides a storm codec based on Binc.
package stormbinc

import (
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

const name = "binc"

// Codec that encodes to and decodes from Binc.
// See https://github.com/ugorji/binc
var Codec = new(bincCodec)

var handle = newHandle()

type bincCodec int

func newHandle() *codec.BincHandle {
	h := new(codec.BincHandle)
	h.Canonical = true
	h.AsSymbols = 1 // Field names are written as symbols.
	return h
}

func (c bincCodec) Marshal(v any) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, handle).Encode(v)
	return b, errors.Wrap(err, "binc: could not encode")
}

func (c bincCodec) Unmarshal(b []byte, v any) error {
	err := codec.NewDecoderBytes(b, handle).Decode(v)
	return errors.Wrap(err, "binc: could not decode")
}

func (c bincCodec) Name() string {
	return name
}
