// Package serialosc drives monome grids and arcs through the serialosc
// daemon.
//
// The driver asks the daemon for attached devices, subscribes to hotplug
// notifications and points each device at the driver's own OSC socket
// with a per-device prefix. Device input becomes Sink callbacks; LED
// output is buffered per device and sent as level maps on Refresh.
//
// Protocol reference: https://monome.org/docs/serialosc/osc/
package serialosc
