package constant

const (
	// PolicyPath is the default path of the seed policy file.
	PolicyPath string = "policy.yml"

	// ProgName is the name of this program
	ProgName string = "xdpwall"

	// NicName is the default network interface the classifier is attached to
	NicName string = "eth0"

	// XDPFuncName is the name of the XDP entry point in usecase/ebpf/xdp.c
	XDPFuncName string = "xdp_filter"

	// ActionTableName and EventsTableName are the BPF maps declared by the XDP program.
	ActionTableName string = "action_list"
	EventsTableName string = "events"

	// PolicyCapacity is the maximum number of distinct source addresses in the policy table.
	// It must match the size of action_list in the XDP program.
	PolicyCapacity int = 1024

	// RecordChannelDepth is the number of records buffered per observer.
	RecordChannelDepth int = 10

	// CaptureSnapLen is the largest frame the packet socket capture reads in one call.
	CaptureSnapLen int = 65535

	// CommandQueueDepth is the depth of the queue shared by every observer in front of the policy updater.
	CommandQueueDepth int = 32

	// SourceQueueDepth is the depth of the channel between a record source and the dispatcher.
	SourceQueueDepth int = 1000

	// APIAddr is the default listen address of the REST API.
	APIAddr string = "127.0.0.1:8080"
)

// Link layer and IPv4 header layout.
const (
	// EtherTypeIPv4 is the EtherType of an encapsulated IPv4 packet
	EtherTypeIPv4 uint16 = 0x0800

	EthHeaderLen     int = 14
	EtherTypeOffset  int = 12
	IPProtocolOffset int = 9
	IPSourceOffset   int = 12
	IPDestOffset     int = 16

	IPProtocolNumICMP uint8 = 1
	IPProtocolNumTCP  uint8 = 6
	IPProtocolNumUDP  uint8 = 17
)
