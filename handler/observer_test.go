package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"xdpwall/domain/valueobject"
)

func TestDecide(t *testing.T) {
	src := valueobject.Address(0x01020304)
	tests := []struct {
		name     string
		protocol valueobject.Protocol
		want     valueobject.Command
	}{
		{name: "ICMP source is blocked.", protocol: valueobject.ProtocolICMP, want: valueobject.Block(src)},
		{name: "TCP source is allowed.", protocol: valueobject.ProtocolTCP, want: valueobject.Allow(src)},
		{name: "UDP source is allowed.", protocol: valueobject.ProtocolUDP, want: valueobject.Allow(src)},
		{name: "Unknown protocol source is allowed.", protocol: valueobject.ProtocolUnknown, want: valueobject.Allow(src)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(valueobject.DecisionRecord{Source: src, Destination: 1, Action: valueobject.ActionPass, Protocol: tt.protocol})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObserver_Run(t *testing.T) {
	obs := observeLogs(t, zap.InfoLevel)

	records := make(chan []byte, 4)
	commands := make(chan valueobject.Command, 4)

	records <- valueobject.MarshalRecord(valueobject.DecisionRecord{Source: 0x01020304, Destination: 0x0a000001, Action: valueobject.ActionPass, Protocol: valueobject.ProtocolICMP})
	records <- []byte{1, 2, 3}
	records <- valueobject.MarshalRecord(valueobject.DecisionRecord{Source: 0x05060708, Destination: 0x0a000001, Action: valueobject.ActionPass, Protocol: valueobject.ProtocolTCP})
	close(records)

	NewObserver(0).Run(context.Background(), records, commands)
	close(commands)

	var got []valueobject.Command
	for cmd := range commands {
		got = append(got, cmd)
	}
	assert.Equal(t, []valueobject.Command{
		valueobject.Block(0x01020304),
		valueobject.Allow(0x05060708),
	}, got, "the undersized record is skipped and the next one is still handled")

	logs := messages(obs)
	assert.Contains(t, logs, "failed to decode received data")
	assert.Contains(t, logs, "action: PASS, Protocol: ICMP, SourceAddr: 1.2.3.4, DestinationAddr: 10.0.0.1")
	assert.Contains(t, logs, "SourceAddr: 5.6.7.8")
}

func TestObserver_RunStopsWhileBlockedOnCommands(t *testing.T) {
	observeLogs(t, zap.InfoLevel)

	records := make(chan []byte, 1)
	records <- valueobject.MarshalRecord(valueobject.DecisionRecord{Source: 1, Action: valueobject.ActionPass, Protocol: valueobject.ProtocolTCP})
	commands := make(chan valueobject.Command)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewObserver(1).Run(ctx, records, commands)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("observer did not stop after cancellation")
	}
}
