package rtpendpoint

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Local bind-address resolution for CRCX, per the "no remote
 *		given" case: rather than binding to 0.0.0.0 (which would
 *		report an unusable address in the ACK), look up the
 *		address actually assigned to the interface the RSL
 *		signalling link runs over.
 *
 *------------------------------------------------------------------*/

// resolveSignallingIP returns the first IPv4 address configured on
// iface, the same link the RSL signalling socket is bound to.
func resolveSignallingIP(iface string) (string, error) {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return "", fmt.Errorf("rtpendpoint: lookup interface %q: %w", iface, err)
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("rtpendpoint: list addresses on %q: %w", iface, err)
	}
	for _, a := range addrs {
		if a.IP != nil && !a.IP.IsLoopback() {
			return a.IP.String(), nil
		}
	}
	return "", fmt.Errorf("rtpendpoint: no IPv4 address on %q", iface)
}

// bindAddress picks the bind IP per the CRCX rule: 0.0.0.0 when a
// remote endpoint was given (let connect() pick), otherwise the RSL
// signalling interface's address so the ACK reports something usable.
func (h *Handler) bindAddress(haveRemote bool) string {
	if haveRemote {
		return "0.0.0.0"
	}
	if h.SignallingIface == "" {
		return "0.0.0.0"
	}
	ip, err := resolveSignallingIP(h.SignallingIface)
	if err != nil {
		h.Log.Warn("falling back to 0.0.0.0 bind address", "err", err)
		return "0.0.0.0"
	}
	return ip
}

// substituteConnectIP applies the connect_ip = 0.0.0.0 -> RSL peer IP
// fallback rule shared by CRCX and MDCX.
func (h *Handler) substituteConnectIP(ip string) string {
	if ip != "0.0.0.0" {
		return ip
	}
	if h.PeerAddr != nil {
		if peer := h.PeerAddr(); peer != "" {
			return peer
		}
	}
	return ip
}

func parseIPv4(b []byte) string {
	if len(b) != 4 {
		return ""
	}
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

// parseIPStr is the inverse of parseIPv4, used to encode the LOCAL_IP
// IE from the string form the RTP socket factory returns.
func parseIPStr(s string) []byte {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil
	}
	return []byte(v4)
}
