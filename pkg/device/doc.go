// Package device tracks attached grid and arc controllers.
//
// Scripts never hold driver objects. They hold a Handle, a slot index plus
// a generation counter, and every command resolves the handle through the
// Registry. A handle whose device has detached, or whose slot has since
// been reused by another device, resolves to ErrStaleHandle.
//
// All coordinates at this layer are zero-based. Translation to the
// one-based convention of scripts happens in the bridge package.
package device
