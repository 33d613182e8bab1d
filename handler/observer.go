package handler

import (
	"context"

	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
)

// Observer turns decision records into policy commands.
type Observer struct {
	id int
}

func NewObserver(id int) *Observer {
	return &Observer{id: id}
}

// Decide is the policy trigger: ICMP sources are blocked, everything else is allowed.
func Decide(r valueobject.DecisionRecord) valueobject.Command {
	if r.Protocol == valueobject.ProtocolICMP {
		return valueobject.Block(r.Source)
	}
	return valueobject.Allow(r.Source)
}

// Run consumes records until ctx is done or records is closed.
// A command send blocks until the updater accepts it or ctx is done.
func (o *Observer) Run(ctx context.Context, records <-chan []byte, commands chan<- valueobject.Command) {
	log.Logger.Debugf("observer %d started", o.id)
	defer log.Logger.Debugf("observer %d stopped", o.id)

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-records:
			if !ok {
				return
			}
			cmd, err := o.handle(data)
			if err != nil {
				log.Logger.Warnf("failed to decode received data: %+v", err)
				continue
			}
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (o *Observer) handle(data []byte) (valueobject.Command, error) {
	record, err := valueobject.DecodeRecord(data)
	if err != nil {
		return valueobject.Command{}, err
	}
	packet := entity.NewPacket(record)
	log.Logger.Infof("a packet detected. observer: %d, action: %s, Protocol: %s, SourceAddr: %s, DestinationAddr: %s", o.id, packet.Action, packet.Protocol, packet.Source, packet.Destination)
	return Decide(record), nil
}
