package loader

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/rlimit"
	bpf "github.com/iovisor/gobpf/bcc"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"

	"xdpwall/config"
	"xdpwall/constant"
	"xdpwall/infrastructure/log"
	"xdpwall/pkg/nic"
)

type Loader interface {
	LoadModule() (*bpf.Module, error)
	Attached() bool
	UnLoadModule(m *bpf.Module) error
}

// XDPLoader compiles the classifier with bcc and attaches it to a single interface.
type XDPLoader struct {
	prog    []byte
	iface   string
	xdpMode string

	program  *ebpf.Program
	link     link.Link
	attached atomic.Bool
}

func NewLoader(prog []byte, iface, xdpMode string) *XDPLoader {
	return &XDPLoader{
		prog:    prog,
		iface:   iface,
		xdpMode: xdpMode,
	}
}

func attachFlags(xdpMode string) link.XDPAttachFlags {
	if xdpMode == "native" {
		return link.XDPDriverMode
	}
	return link.XDPGenericMode
}

func cflags() []string {
	if config.IsDebug() {
		return []string{"-DDEBUG"}
	}
	return []string{}
}

// LoadModule compiles and attaches the XDP program. On error the module is already closed.
func (l *XDPLoader) LoadModule() (m *bpf.Module, err error) {
	// The record layout shared with the kernel is little-endian.
	if bpf.GetHostByteOrder() != binary.LittleEndian {
		err = xerrors.New("host byte order is not little-endian")
		return
	}

	if err = rlimit.RemoveMemlock(); err != nil {
		err = xerrors.Errorf("failed to remove memlock rlimit: %w", err)
		return
	}

	m = bpf.NewModule(string(l.prog), cflags())
	if m == nil {
		err = xerrors.New("failed to compile xdp program")
		return
	}

	if err = l.attach(m); err != nil {
		m.Close()
		m = nil
		err = xerrors.Errorf("failed to attach xdp program to %s: %w", l.iface, err)
		return
	}
	return
}

func (l *XDPLoader) attach(m *bpf.Module) (err error) {
	xdpProgType := 6
	fd, err := m.Load(constant.XDPFuncName, xdpProgType, 0, 0)
	if err != nil {
		return xerrors.Errorf("failed to load %s: %w", constant.XDPFuncName, err)
	}

	// bcc closes its own fd when the module is closed.
	dup, err := unix.Dup(fd)
	if err != nil {
		return xerrors.Errorf("failed to duplicate program fd: %w", err)
	}
	l.program, err = ebpf.NewProgramFromFD(dup)
	if err != nil {
		_ = unix.Close(dup)
		return xerrors.Errorf("failed to open program from fd: %w", err)
	}

	ifindex, err := nic.Index(l.iface)
	if err != nil {
		_ = l.program.Close()
		return err
	}

	l.link, err = link.AttachXDP(link.XDPOptions{
		Program:   l.program,
		Interface: ifindex,
		Flags:     attachFlags(l.xdpMode),
	})
	if err != nil {
		_ = l.program.Close()
		return xerrors.Errorf("failed to attach xdp link: %w", err)
	}
	l.attached.Store(true)

	info, err := l.link.Info()
	if err != nil || info.XDP() == nil {
		log.Logger.Warnf("failed to obtain XDP program metadata: %+v", err)
		return nil
	}
	log.Logger.Infof("xdp program attached. if_index: %d, if_name: %s, xdp_prog_id: %d, mode: %s", info.XDP().Ifindex, l.iface, info.Program, l.xdpMode)
	return nil
}

func (l *XDPLoader) Attached() bool {
	return l.attached.Load()
}

// UnLoadModule detaches the program and closes the module.
func (l *XDPLoader) UnLoadModule(m *bpf.Module) (err error) {
	if l.link != nil {
		if err = l.link.Close(); err != nil {
			err = xerrors.Errorf("failed to detach xdp program from %s: %w", l.iface, err)
		}
		l.link = nil
		l.attached.Store(false)
	}
	if l.program != nil {
		_ = l.program.Close()
		l.program = nil
	}
	if m != nil {
		m.Close()
	}
	return
}
