package header

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"xdpwall/pkg/testutil"
)

func TestField(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		name    string
		start   int
		offset  int
		length  int
		want    []byte
		wantErr bool
	}{
		{name: "Read at the start.", start: 0, offset: 0, length: 2, want: []byte{0, 1}},
		{name: "Read ending exactly at the end.", start: 4, offset: 2, length: 2, want: []byte{6, 7}},
		{name: "Zero length read at the end.", start: 8, offset: 0, length: 0, want: []byte{}},
		{name: "Read one byte past the end.", start: 4, offset: 2, length: 3, wantErr: true},
		{name: "Negative offset.", start: 0, offset: -1, length: 1, wantErr: true},
		{name: "Start past the end.", start: 9, offset: 0, length: 0, wantErr: true},
		{name: "Huge start does not wrap around.", start: math.MaxInt, offset: 1, length: 4, wantErr: true},
		{name: "Huge offset does not wrap around.", start: 4, offset: math.MaxInt, length: 4, wantErr: true},
		{name: "Huge length does not wrap around.", start: 4, offset: 2, length: math.MaxInt, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Field(buf, tt.start, tt.offset, tt.length)
			if tt.wantErr {
				var boundsErr *BoundsError
				require.True(t, xerrors.As(err, &boundsErr))
				assert.Equal(t, len(buf), boundsErr.End)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIPv4Fields(t *testing.T) {
	frame := testutil.IPv4Frame(6, "1.2.3.4", "10.0.0.1")

	isIPv4, err := IsIPv4(frame)
	require.NoError(t, err)
	assert.True(t, isIPv4)

	proto, err := IPProtocol(frame)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), proto)

	src, err := Source(frame)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), src)

	dst, err := Destination(frame)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0a000001), dst)
}

func TestNonIPv4(t *testing.T) {
	isIPv4, err := IsIPv4(testutil.EtherFrame(testutil.EtherTypeARP))
	require.NoError(t, err)
	assert.False(t, isIPv4)
}

func TestTruncatedFrame(t *testing.T) {
	frame := testutil.IPv4Frame(1, "1.2.3.4", "10.0.0.1")

	_, err := EtherType(frame[:13])
	assert.Error(t, err)

	_, err = IPProtocol(frame[:23])
	assert.Error(t, err)

	_, err = Source(frame[:29])
	assert.Error(t, err)

	// Source needs 30 bytes, destination 34.
	_, err = Source(frame[:30])
	assert.NoError(t, err)
	_, err = Destination(frame[:33])
	assert.Error(t, err)
}

func TestReadsDoNotAllocate(t *testing.T) {
	frame := testutil.IPv4Frame(17, "1.2.3.4", "10.0.0.1")
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = EtherType(frame)
		_, _ = IPProtocol(frame)
		_, _ = Source(frame)
		_, _ = Destination(frame)
	})
	assert.Equal(t, float64(0), allocs)
}
