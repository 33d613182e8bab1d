package valueobject

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/xerrors"
)

// Wire layout of a DecisionRecord. This is the only definition of it in Go,
// and struct packet_log in usecase/ebpf/xdp.c mirrors it field for field.
//
//	offset size field
//	0      4    source address
//	4      4    destination address
//	8      4    action
//	12     1    protocol
const (
	recordSourceOffset      = 0
	recordDestinationOffset = 4
	recordActionOffset      = 8
	recordProtocolOffset    = 12

	// RecordSize is the encoded size of a DecisionRecord. There is no padding.
	RecordSize = 13
)

// RecordByteOrder is applied to every multi-byte field of the record.
var RecordByteOrder = binary.LittleEndian

// DecisionRecord is emitted once per classified IPv4 frame.
type DecisionRecord struct {
	Source      Address
	Destination Address
	Action      Action
	Protocol    Protocol
}

// DecodeError reports a record that cannot be interpreted.
type DecodeError struct {
	Len    int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode decision record (%d bytes): %s", e.Len, e.Reason)
}

// EncodeRecord writes r into dst and returns the number of bytes written.
func EncodeRecord(dst []byte, r DecisionRecord) (int, error) {
	if len(dst) < RecordSize {
		return 0, xerrors.Errorf("record buffer too small: %d < %d", len(dst), RecordSize)
	}
	RecordByteOrder.PutUint32(dst[recordSourceOffset:], uint32(r.Source))
	RecordByteOrder.PutUint32(dst[recordDestinationOffset:], uint32(r.Destination))
	RecordByteOrder.PutUint32(dst[recordActionOffset:], uint32(r.Action))
	dst[recordProtocolOffset] = uint8(r.Protocol)
	return RecordSize, nil
}

// MarshalRecord returns a freshly allocated encoding of r.
func MarshalRecord(r DecisionRecord) []byte {
	b := make([]byte, RecordSize)
	_, _ = EncodeRecord(b, r)
	return b
}

// DecodeRecord parses the first RecordSize bytes of b. Trailing bytes are ignored
// because the perf ring pads every sample.
func DecodeRecord(b []byte) (DecisionRecord, error) {
	if len(b) < RecordSize {
		return DecisionRecord{}, &DecodeError{Len: len(b), Reason: fmt.Sprintf("shorter than %d bytes", RecordSize)}
	}
	action := Action(RecordByteOrder.Uint32(b[recordActionOffset:]))
	if !action.Valid() {
		return DecisionRecord{}, &DecodeError{Len: len(b), Reason: fmt.Sprintf("unknown action code %d", uint32(action))}
	}
	return DecisionRecord{
		Source:      Address(RecordByteOrder.Uint32(b[recordSourceOffset:])),
		Destination: Address(RecordByteOrder.Uint32(b[recordDestinationOffset:])),
		Action:      action,
		Protocol:    ProtocolFromNumber(b[recordProtocolOffset]),
	}, nil
}

// RecordSource peeks at the source address without decoding the rest of the record.
func RecordSource(b []byte) (Address, bool) {
	if len(b) < recordSourceOffset+4 {
		return 0, false
	}
	return Address(RecordByteOrder.Uint32(b[recordSourceOffset:])), true
}
