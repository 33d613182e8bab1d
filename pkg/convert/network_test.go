package convert

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNtoaAton(t *testing.T) {
	tests := []struct {
		name string
		str  string
		num  uint32
	}{
		{name: "Loopback", str: "127.0.0.1", num: 0x7f000001},
		{name: "Scenario address", str: "1.2.3.4", num: 0x01020304},
		{name: "Broadcast", str: "255.255.255.255", num: 0xffffffff},
		{name: "Zero", str: "0.0.0.0", num: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, Ntoa(tt.num))
			got, err := Aton(tt.str)
			assert.NoError(t, err)
			assert.Equal(t, tt.num, got)
		})
	}
}

func TestAton_Invalid(t *testing.T) {
	for _, s := range []string{"", "1.2.3", "fd00::1", "host"} {
		_, err := Aton(s)
		assert.Error(t, err, s)
	}
}

func TestProtoToString(t *testing.T) {
	assert.Equal(t, "TCP", ProtoToString(6))
	assert.Equal(t, "UDP", ProtoToString(17))
	assert.Equal(t, "ICMP", ProtoToString(1))
	assert.Equal(t, "UNK", ProtoToString(47))
}

func TestActionToString(t *testing.T) {
	assert.Equal(t, "DROP", ActionToString(1))
	assert.Equal(t, "PASS", ActionToString(2))
	assert.Equal(t, "UNKNOWN", ActionToString(9))
}

func TestHostToIPv4s(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantIPs []net.IP
		wantErr bool
	}{
		{
			name:    "Can convert a literal address.",
			host:    "10.0.0.5",
			wantIPs: []net.IP{net.ParseIP("10.0.0.5").To4()},
		},
		{
			name:    "IPv6 literal is rejected.",
			host:    "fd00::2:2",
			wantErr: true,
		},
		{
			name:    "Empty host is rejected.",
			host:    "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIPs, err := HostToIPv4s(tt.host)
			if (err != nil) != tt.wantErr {
				t.Errorf("HostToIPv4s() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.wantIPs, gotIPs)
		})
	}
}
