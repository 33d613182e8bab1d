package policy

import (
	"unsafe"

	bpf "github.com/iovisor/gobpf/bcc"
	"golang.org/x/xerrors"

	"xdpwall/constant"
	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
	"xdpwall/infrastructure/repository/interface/policy"
)

// Key and Value mirror the u32 key and u32 leaf of action_list.
// The key is the source address in host order, as produced by bpf_ntohl in the XDP program.
type Key struct {
	Addr uint32
}

type Value struct {
	Action uint32
}

type Repository struct {
	Module *bpf.Module
	table  *bpf.Table
}

var _ policy.Repository = (*Repository)(nil)

func NewPolicyRepository(m *bpf.Module) *Repository {
	return &Repository{
		Module: m,
		table:  bpf.NewTable(m.TableId(constant.ActionTableName), m),
	}
}

// Save writes a single entry into the kernel action table.
func (r *Repository) Save(addr valueobject.Address, action valueobject.Action) error {
	k := &Key{Addr: uint32(addr)}
	v := &Value{Action: uint32(action)}
	if err := r.table.SetP(unsafe.Pointer(k), unsafe.Pointer(v)); err != nil {
		return xerrors.Errorf("failed to save policy %s -> %s: %w", addr, action, err)
	}
	log.Logger.Debugf("policy saved to ebpf map: %s -> %s", addr, action)
	return nil
}

// Load reads the kernel action table back.
func (r *Repository) Load() (entries []entity.PolicyEntry, err error) {
	iter := r.table.Iter()
	for iter.Next() {
		k := *(*Key)(unsafe.Pointer(&iter.Key()[0]))
		v := *(*Value)(unsafe.Pointer(&iter.Leaf()[0]))
		entries = append(entries, entity.PolicyEntry{
			Address: valueobject.Address(k.Addr),
			Action:  valueobject.Action(v.Action),
		})
	}
	if err = iter.Err(); err != nil {
		err = xerrors.Errorf("failed to iterate action table: %w", err)
	}
	return
}

// Diverged returns the userspace entries the kernel lacks or holds with another action,
// followed by the kernel entries userspace does not know.
func Diverged(kernel []entity.PolicyEntry, table []entity.PolicyEntry) (diverged []entity.PolicyEntry) {
	inKernel := make(map[valueobject.Address]valueobject.Action, len(kernel))
	for _, e := range kernel {
		inKernel[e.Address] = e.Action
	}
	for _, e := range table {
		action, ok := inKernel[e.Address]
		if !ok || action != e.Action {
			diverged = append(diverged, e)
		}
		delete(inKernel, e.Address)
	}
	for _, e := range kernel {
		if _, ok := inKernel[e.Address]; ok {
			diverged = append(diverged, e)
		}
	}
	return
}

// Verify logs whether the kernel action table still matches the userspace table.
func (r *Repository) Verify(table []entity.PolicyEntry) error {
	kernel, err := r.Load()
	if err != nil {
		return err
	}
	diverged := Diverged(kernel, table)
	if len(diverged) > 0 {
		log.Logger.Warnf("kernel policy table diverged from userspace. kernel: %d, userspace: %d, diverged: %+v", len(kernel), len(table), diverged)
		return nil
	}
	log.Logger.Infof("kernel policy table is consistent. entries: %d", len(kernel))
	return nil
}
