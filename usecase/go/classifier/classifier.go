package classifier

import (
	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/pkg/header"
)

// Classifier decides the action of a frame from its source address.
// It is the userspace twin of the XDP program in usecase/ebpf/xdp.c.
type Classifier struct {
	policies entity.PolicyReader
}

func New(policies entity.PolicyReader) *Classifier {
	return &Classifier{policies: policies}
}

// Classify returns the action for frame and, for IPv4 frames, the record to emit.
//
// Non-IPv4 frames pass without a record. A frame too short for any
// required field is aborted without a record. Every other frame yields exactly one record.
func (c *Classifier) Classify(frame []byte) (valueobject.Action, valueobject.DecisionRecord, bool) {
	isIPv4, err := header.IsIPv4(frame)
	if err != nil {
		return valueobject.ActionAborted, valueobject.DecisionRecord{}, false
	}
	if !isIPv4 {
		return valueobject.ActionPass, valueobject.DecisionRecord{}, false
	}

	src, err := header.Source(frame)
	if err != nil {
		return valueobject.ActionAborted, valueobject.DecisionRecord{}, false
	}
	dst, err := header.Destination(frame)
	if err != nil {
		return valueobject.ActionAborted, valueobject.DecisionRecord{}, false
	}
	proto, err := header.IPProtocol(frame)
	if err != nil {
		return valueobject.ActionAborted, valueobject.DecisionRecord{}, false
	}

	record := valueobject.DecisionRecord{
		Source:      valueobject.Address(src),
		Destination: valueobject.Address(dst),
		Action:      valueobject.DefaultAction,
		Protocol:    valueobject.ProtocolFromNumber(proto),
	}

	// An explicit Pass entry is indistinguishable from an absent one.
	if action, ok := c.policies.Lookup(record.Source); ok && action != valueobject.ActionPass {
		record.Action = action
	}
	return record.Action, record, true
}
