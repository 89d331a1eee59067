// Package discovery implements mDNS/DNS-SD discovery for the bridge.
//
// Two service types are involved:
//
// # OSC endpoint (_osc._udp)
//
// The bridge advertises its OSC listen port so that peers on the local
// network can find it without configuration. Instance name is the
// user-facing bridge name. TXT records include: sid (session ID) and
// rp (remote port the bridge sends to).
//
// # Controllers (_monome-osc._udp)
//
// serialosc 1.4 and later announces each attached grid or arc as its own
// service. Instance names have the form "<model> (<serial>)", for example
// "monome 128 (m1000123)". The port is the device's own OSC port, so the
// driver can connect to it directly.
package discovery
