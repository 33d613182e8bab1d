package nic

import (
	"github.com/vishvananda/netlink"
	"golang.org/x/xerrors"
)

// Index resolves the interface index of name.
func Index(name string) (int, error) {
	l, err := netlink.LinkByName(name)
	if err != nil {
		return 0, xerrors.Errorf("interface %s not found: %w", name, err)
	}
	return l.Attrs().Index, nil
}
