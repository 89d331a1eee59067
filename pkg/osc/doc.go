// Package osc implements the OSC 1.0 wire format and a UDP transport for
// spindle.
//
// # Messages
//
// A Message is a path plus an ordered sequence of value.Value arguments.
// Marshal encodes each argument with a fixed tag per kind; a Decoder maps
// every wire tag back to a value using an exhaustive table:
//
//	i, h      -> Int
//	f, d      -> Float
//	s         -> Text
//	S         -> Symbol
//	b         -> Blob (explicit length, zero bytes preserved)
//	m         -> Quad
//	T, F      -> Bool
//	N         -> Nil
//	I         -> Float(+Inf)
//
// Any other tag is reported through Decoder.OnUnknownTag and decoded as
// Nil, so the rest of the message still arrives. Tags the wire format
// defines but the table does not (t, c, r, [, ]) are skipped with their
// correct width.
//
// # Bundles
//
// Inbound bundles are flattened: DecodePacket returns the contained
// messages in order. The bridge never sends bundles.
//
// # Transport
//
// Server listens for datagrams and invokes a callback per message. Client
// and Server both implement Sender; sending through the Server makes
// replies come back to the listen port.
package osc
