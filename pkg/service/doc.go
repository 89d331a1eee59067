// Package service owns the scripting runtime and the event loop that feeds it.
//
// Drivers and the OSC server never touch the Lua state. They post events
// (device attach/detach, grid and arc input, inbound OSC, console lines)
// and a single loop goroutine dispatches them to the runtime in order:
//
//	reg := device.NewRegistry()
//	svc, err := service.New(service.Config{
//		Registry: reg,
//		Sender:   oscServer,
//		Script:   "sequencer.lua",
//	})
//	svc.Start(ctx)
//	defer svc.Stop()
//
//	oscServerConfig.OnMessage = svc.OSCMessage
//
// # Runtime Reset
//
// A script can call reset_runtime(). The loop finishes the current
// dispatch, closes the Lua state, builds a new one, reruns the script and
// re-announces every attached device. Input queued for the old runtime is
// dropped; device attach and detach events are kept so the new runtime's
// view of attached devices matches the registry.
//
// # Failures
//
// A failing Lua handler is logged and recorded as a protocol error event.
// It never stops the loop.
package service
