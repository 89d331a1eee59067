// Package value defines the typed values that cross the OSC and scripting
// boundaries.
//
// A Value is a closed tagged variant: Nil, Bool, Int, Float, Text, Blob,
// Symbol and Quad. Values are immutable once constructed; Blob copies its
// input so callers may reuse their buffers.
//
// # Lossy Mappings
//
// Two conversions deliberately change kind:
//   - Script numbers sent outward are always encoded as Float, even when
//     integral.
//   - Int payloads delivered to Lua become plain numbers.
//
// Text and Symbol keep distinct kinds so a handler can tell them apart.
package value
