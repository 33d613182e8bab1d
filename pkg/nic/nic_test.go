package nic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name    string
		iface   string
		wantErr bool
	}{
		{name: "The loopback interface exists.", iface: "lo", wantErr: false},
		{name: "An unknown interface is an error.", iface: "xdpwall-none0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Index(tt.iface)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Greater(t, got, 0)
		})
	}
}
