package policy

import "xdpwall/domain/valueobject"

// Repository mirrors policy table entries into the kernel classifier.
type Repository interface {
	Save(addr valueobject.Address, action valueobject.Action) error
}
