package capture

import (
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"xdpwall/infrastructure/log"
	"xdpwall/pkg/nic"
)

// ErrTimeout is returned by a FrameReader when no frame arrived within its receive timeout.
var ErrTimeout = xerrors.New("receive timeout")

// ErrOutgoing is returned by a FrameReader for a frame the host itself transmitted.
var ErrOutgoing = xerrors.New("outgoing frame")

// FrameReader yields one link-layer frame per call.
type FrameReader interface {
	ReadFrame(buf []byte) (int, error)
	Close() error
}

// PacketSocket is a raw AF_PACKET socket bound to a single interface.
type PacketSocket struct {
	fd    int
	iface string
}

func htons(v uint16) uint16 {
	return v<<8 | v>>8
}

// OpenPacketSocket receives every frame seen by iface, with a 500ms receive timeout.
func OpenPacketSocket(iface string) (s *PacketSocket, err error) {
	ifindex, err := nic.Index(iface)
	if err != nil {
		return nil, err
	}

	proto := htons(unix.ETH_P_ALL)
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(proto))
	if err != nil {
		return nil, xerrors.Errorf("failed to open packet socket: %w", err)
	}
	defer func() {
		if err != nil {
			_ = unix.Close(fd)
		}
	}()

	if err = unix.Bind(fd, &unix.SockaddrLinklayer{Protocol: proto, Ifindex: ifindex}); err != nil {
		return nil, xerrors.Errorf("failed to bind packet socket to %s: %w", iface, err)
	}
	if err = unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &unix.Timeval{Usec: 500000}); err != nil {
		return nil, xerrors.Errorf("failed to set receive timeout: %w", err)
	}

	log.Logger.Infof("packet socket opened. if_index: %d, if_name: %s", ifindex, iface)
	return &PacketSocket{fd: fd, iface: iface}, nil
}

// incoming reports whether from describes a frame received by the interface.
// AF_PACKET with ETH_P_ALL also delivers the host's own transmissions.
func incoming(from unix.Sockaddr) bool {
	ll, ok := from.(*unix.SockaddrLinklayer)
	if !ok {
		return true
	}
	return ll.Pkttype != unix.PACKET_OUTGOING
}

func (s *PacketSocket) ReadFrame(buf []byte) (int, error) {
	n, from, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return 0, ErrTimeout
		}
		return 0, xerrors.Errorf("failed to receive from %s: %w", s.iface, err)
	}
	if !incoming(from) {
		return 0, ErrOutgoing
	}
	return n, nil
}

func (s *PacketSocket) Close() error {
	return unix.Close(s.fd)
}
