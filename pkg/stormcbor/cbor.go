// Package stormcbor provides a storm codec based on CBOR.
package stormcbor

import (
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

const name = "cbor"

// Codec that encodes to and decodes from CBOR (Concise Binary Object Representation).
// http://cbor.io/
// https://tools.ietf.org/html/rfc7049
var Codec = new(cborCodec)

var handle = newHandle()

type cborCodec int

func newHandle() *codec.CborHandle {
	h := new(codec.CborHandle)
	h.Canonical = true // Map keys are sorted so equal records give equal bytes.
	h.TimeRFC3339 = false
	return h
}

func (c cborCodec) Marshal(v any) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, handle).Encode(v)
	return b, errors.Wrap(err, "cbor: could not encode")
}

func (c cborCodec) Unmarshal(b []byte, v any) error {
	err := codec.NewDecoderBytes(b, handle).Decode(v)
	return errors.Wrap(err, "cbor: could not decode")
}

func (c cborCodec) Name() string {
	return name
}
