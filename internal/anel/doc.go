// Package anel implements the UDP control protocol spoken by ANEL
// NET-PwrCtrl style multi-outlet power controllers.
//
// The protocol is a simple datagram exchange over a configurable port
// pair: commands are sent to the device's inbound port ("pout" in the
// configuration, 77 by default) and the device answers on our listening
// port ("pin", 75 by default) with a colon-separated status datagram
// describing the controller and the current state of its outlets.
//
// # Discovery
//
// Discovery broadcasts a probe ("wer da?") to the local network and
// collects every status datagram that arrives within a bounded window.
// Devices answering with a duplicate address, and datagrams that do not
// parse, are logged and skipped. Finding nothing is not an error.
//
// # Commands
//
// Switching an outlet sends an authenticated Sw_on/Sw_off frame and
// waits for the device's status reply, from which the resulting outlet
// state is read. Reset power-cycles the whole controller. Both are
// single request/response exchanges with a per-exchange timeout.
//
// Failures are reported as *ProtocolError values classifying the cause
// (network, timeout, authentication, parse). No retries happen at this
// layer.
//
// Client implements the registry.Protocol interface.
package anel
