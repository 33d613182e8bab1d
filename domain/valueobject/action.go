package valueobject

import (
	"strings"

	"xdpwall/pkg/convert"
)

// Action is the disposition of a frame. The numeric values are the kernel's xdp_action codes.
type Action uint32

const (
	ActionAborted Action = iota
	ActionDrop
	ActionPass
	ActionTransmit
	ActionRedirect
)

// DefaultAction applies to any address absent from the policy table.
const DefaultAction = ActionPass

func (a Action) Valid() bool {
	return a <= ActionRedirect
}

func (a Action) String() string {
	return convert.ActionToString(uint32(a))
}

// ParseAction accepts the XDP names (DROP, PASS, ...) in any case.
func ParseAction(s string) (Action, bool) {
	switch strings.ToUpper(s) {
	case "ABORTED":
		return ActionAborted, true
	case "DROP":
		return ActionDrop, true
	case "PASS":
		return ActionPass, true
	case "TX":
		return ActionTransmit, true
	case "REDIRECT":
		return ActionRedirect, true
	}
	return 0, false
}
