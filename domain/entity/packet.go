package entity

import (
	"fmt"
	"net"

	"xdpwall/domain/valueobject"
)

// Packet is the human readable view of a DecisionRecord.
type Packet struct {
	Source      net.IP
	Destination net.IP
	Protocol    valueobject.Protocol
	Action      valueobject.Action
}

func NewPacket(r valueobject.DecisionRecord) *Packet {
	return &Packet{
		Source:      r.Source.IP(),
		Destination: r.Destination.IP(),
		Protocol:    r.Protocol,
		Action:      r.Action,
	}
}

func (p *Packet) String() string {
	return fmt.Sprintf("{Source: %s Destination: %s Protocol: %s Action: %s}", p.Source, p.Destination, p.Protocol, p.Action)
}
