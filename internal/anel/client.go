package anel

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/netpwr/pwrctl/internal/logging"
	"github.com/netpwr/pwrctl/internal/registry"
)

const (
	// probeMessage is the discovery broadcast devices answer to.
	probeMessage = "wer da?"

	// Command frame prefixes. Credentials are appended directly after
	// the outlet number, the way the firmware expects them.
	switchOnPrefix  = "Sw_on"
	switchOffPrefix = "Sw_off"
	resetPrefix     = "Rst_"

	// errReply prefixes the datagram sent on rejected credentials.
	errReply = "Err"

	// DefaultExchangeTimeout bounds a single command/response exchange.
	DefaultExchangeTimeout = 5 * time.Second

	// DefaultDiscoveryWindow is how long discovery collects responses.
	DefaultDiscoveryWindow = 3 * time.Second

	maxDatagramSize = 1024
)

// Client talks the NET-PwrCtrl UDP protocol. It is stateless apart from
// its timeouts; every operation opens its own socket. Client implements
// registry.Protocol.
type Client struct {
	// Timeout is the maximum time to wait for a device's reply to a
	// single command.
	Timeout time.Duration

	// Window is how long discovery keeps listening for responses.
	Window time.Duration
}

// NewClient creates a client with default timeouts.
func NewClient() *Client {
	return &Client{
		Timeout: DefaultExchangeTimeout,
		Window:  DefaultDiscoveryWindow,
	}
}

// Discover broadcasts a probe and collects the status datagrams of every
// controller that answers within the window. Duplicate addresses and
// malformed datagrams are skipped. An empty result is not an error.
func (c *Client) Discover(ctx context.Context, creds registry.Credentials, ports registry.Ports) ([]registry.DeviceInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Window)
	defer cancel()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: ports.In})
	if err != nil {
		return nil, newNetworkError("failed to listen for device responses", err, "")
	}
	defer conn.Close()

	bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: ports.Out}
	logging.LogDatagram("discovery probe", bcast.String(), []byte(probeMessage))
	if _, err := conn.WriteToUDP([]byte(probeMessage), bcast); err != nil {
		return nil, newNetworkError("failed to send discovery probe", err, "")
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	seen := make(map[string]bool)
	infos := make([]registry.DeviceInfo, 0)
	buf := make([]byte, maxDatagramSize)

	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if os.IsTimeout(err) {
				// Window closed, collection done.
				break
			}
			return nil, newNetworkError("failed reading discovery responses", err, "")
		}

		logging.LogDatagram("discovery response", addr.String(), buf[:n])

		info, perr := parseStatus(buf[:n])
		if perr != nil {
			logging.Warn("Ignoring malformed discovery response",
				zap.String("remote_addr", addr.String()),
				zap.Error(perr),
			)
			continue
		}

		if seen[info.Address] {
			continue
		}
		seen[info.Address] = true
		infos = append(infos, info)
	}

	return infos, nil
}

// Switch sets one outlet on or off and returns the state the device
// reports afterwards.
func (c *Client) Switch(ctx context.Context, address string, plug int, on bool, creds registry.Credentials, ports registry.Ports) (registry.State, error) {
	prefix := switchOffPrefix
	if on {
		prefix = switchOnPrefix
	}
	payload := fmt.Sprintf("%s%d%s%s", prefix, plug, creds.User, creds.Password)

	info, err := c.exchange(ctx, address, payload, ports)
	if err != nil {
		return registry.StateUnknown, err
	}

	for _, p := range info.Plugs {
		if p.Index == plug {
			return p.State, nil
		}
	}
	return registry.StateUnknown, newParseError(
		fmt.Sprintf("status from %s does not report outlet %d", address, plug), nil, address)
}

// Reset power-cycles the whole controller. The device acknowledges with
// a status datagram before it drops power.
func (c *Client) Reset(ctx context.Context, address string, creds registry.Credentials, ports registry.Ports) error {
	payload := fmt.Sprintf("%s%s%s", resetPrefix, creds.User, creds.Password)
	if _, err := c.exchange(ctx, address, payload, ports); err != nil {
		return err
	}
	return nil
}

// exchange sends one command datagram to a device and waits for its
// status reply on the inbound port. Datagrams from other hosts are
// ignored; controllers broadcast unsolicited status updates and those
// must not be mistaken for our reply.
func (c *Client) exchange(ctx context.Context, address, payload string, ports registry.Ports) (registry.DeviceInfo, error) {
	var zero registry.DeviceInfo

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: ports.In})
	if err != nil {
		return zero, newNetworkError("failed to listen for device response", err, address)
	}
	defer conn.Close()

	target, err := resolveTarget(address, ports.Out)
	if err != nil {
		return zero, newNetworkError("failed to resolve device address", err, address)
	}

	logging.LogDatagram("sending command", target.String(), []byte(payload))
	if _, err := conn.WriteToUDP([]byte(payload), target); err != nil {
		return zero, newNetworkError("failed to send command", err, address)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if os.IsTimeout(err) {
				return zero, newTimeoutError(address, err)
			}
			return zero, newNetworkError("failed reading device response", err, address)
		}

		logging.LogDatagram("device response", addr.String(), buf[:n])

		if !addr.IP.Equal(target.IP) {
			continue
		}

		if strings.HasPrefix(string(buf[:n]), errReply) {
			return zero, newAuthError(address)
		}

		info, perr := parseStatus(buf[:n])
		if perr != nil {
			return zero, perr
		}
		return info, nil
	}
}

// resolveTarget builds the UDP address for a device. Addresses are
// usually dotted IPs from discovery or the configuration, but hostnames
// are accepted too.
func resolveTarget(address string, port int) (*net.UDPAddr, error) {
	if ip := net.ParseIP(address); ip != nil {
		return &net.UDPAddr{IP: ip, Port: port}, nil
	}
	return net.ResolveUDPAddr("udp4", net.JoinHostPort(address, strconv.Itoa(port)))
}
