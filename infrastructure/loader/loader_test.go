package loader

import (
	"os"
	"testing"

	"github.com/cilium/ebpf/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readFile opens a file at the specified path and returns []bytes
func readFile(t *testing.T, path string) (p []byte) {
	t.Helper()
	var err error
	p, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to open file path: %s, err: %s", path, err)
		return nil
	}
	return
}

func TestAttachFlags(t *testing.T) {
	tests := []struct {
		name    string
		xdpMode string
		want    link.XDPAttachFlags
	}{
		{name: "skb uses the generic hook.", xdpMode: "skb", want: link.XDPGenericMode},
		{name: "native uses the driver hook.", xdpMode: "native", want: link.XDPDriverMode},
		{name: "anything else falls back to the generic hook.", xdpMode: "", want: link.XDPGenericMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attachFlags(tt.xdpMode))
		})
	}
}

func TestCflags(t *testing.T) {
	t.Setenv("ENV", "debug")
	assert.Equal(t, []string{"-DDEBUG"}, cflags())

	t.Setenv("ENV", "test")
	assert.Empty(t, cflags())
}

func TestXDPLoader_LoadModule(t *testing.T) {
	if testing.Short() || os.Geteuid() != 0 {
		t.Skip("loading an XDP program requires root")
	}

	tests := []struct {
		name    string
		iface   string
		wantErr bool
	}{
		{name: "Successfully attach the program to the loopback interface.", iface: "lo", wantErr: false},
		{name: "An unknown interface is an error.", iface: "xdpwall-none0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(readFile(t, "../../usecase/ebpf/xdp.c"), tt.iface, "skb")
			m, err := l.LoadModule()
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, l.Attached())
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Attached())

			require.NoError(t, l.UnLoadModule(m))
			assert.False(t, l.Attached())
		})
	}
}
