// Package bridge hosts the Lua scripting environment and translates
// between it and the rest of the process.
//
// Scripts reach native functionality through the global "bridge" table
// (the command surface in commands.go). Native events reach scripts
// through handler functions looked up as bridge.<namespace>.<function>
// (the dispatcher in dispatch.go). Device identities and positions are
// zero-based everywhere outside this package and one-based inside Lua;
// the translation happens here, exactly once in each direction.
//
// A Runtime is not safe for concurrent use. The service package owns it
// and calls it from a single goroutine.
package bridge
