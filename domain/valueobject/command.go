package valueobject

import (
	"fmt"
	"strings"
)

type CommandKind uint8

const (
	CommandAllow CommandKind = iota
	CommandBlock
)

func (k CommandKind) String() string {
	if k == CommandBlock {
		return "block"
	}
	return "allow"
}

// ParseCommandKind accepts "block" and "allow" in any case.
func ParseCommandKind(s string) (CommandKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block":
		return CommandBlock, true
	case "allow":
		return CommandAllow, true
	}
	return 0, false
}

// Command is a request to change the policy of a single source address.
type Command struct {
	Kind    CommandKind
	Address Address
}

func Block(addr Address) Command {
	return Command{Kind: CommandBlock, Address: addr}
}

func Allow(addr Address) Command {
	return Command{Kind: CommandAllow, Address: addr}
}

// Action is the policy value the command writes.
func (c Command) Action() Action {
	if c.Kind == CommandBlock {
		return ActionDrop
	}
	return ActionPass
}

func (c Command) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.Address)
}
