package handler

import (
	"context"
	"sync/atomic"

	"golang.org/x/xerrors"

	"xdpwall/domain/entity"
	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
	policyRepo "xdpwall/infrastructure/repository/interface/policy"
)

// ErrUpdaterStopped is returned by Submit once the context of the caller is done.
var ErrUpdaterStopped = xerrors.New("policy updater stopped")

// UpdaterStats are the counters of a PolicyUpdater.
type UpdaterStats struct {
	Applied        uint64 `json:"applied"`
	Rejected       uint64 `json:"rejected"`
	MirrorFailures uint64 `json:"mirror_failures"`
}

// PolicyUpdater is the single writer of the policy table.
// Every mutation, whatever its origin, arrives through its queue.
type PolicyUpdater struct {
	writer   *entity.PolicyWriter
	mirror   policyRepo.Repository
	commands chan valueobject.Command

	applied        atomic.Uint64
	rejected       atomic.Uint64
	mirrorFailures atomic.Uint64
}

// NewPolicyUpdater takes ownership of writer. mirror may be nil when no kernel table exists.
func NewPolicyUpdater(writer *entity.PolicyWriter, mirror policyRepo.Repository, depth int) *PolicyUpdater {
	return &PolicyUpdater{
		writer:   writer,
		mirror:   mirror,
		commands: make(chan valueobject.Command, depth),
	}
}

// Commands is the send side of the queue shared by every producer.
func (u *PolicyUpdater) Commands() chan<- valueobject.Command {
	return u.commands
}

// Submit enqueues cmd, blocking while the queue is full.
func (u *PolicyUpdater) Submit(ctx context.Context, cmd valueobject.Command) error {
	select {
	case u.commands <- cmd:
		return nil
	case <-ctx.Done():
		return xerrors.Errorf("failed to submit %s: %w", cmd, ErrUpdaterStopped)
	}
}

func (u *PolicyUpdater) Stats() UpdaterStats {
	return UpdaterStats{
		Applied:        u.applied.Load(),
		Rejected:       u.rejected.Load(),
		MirrorFailures: u.mirrorFailures.Load(),
	}
}

// Run applies commands in arrival order until ctx is done. Queued commands are discarded on shutdown.
func (u *PolicyUpdater) Run(ctx context.Context) {
	log.Logger.Debugf("policy updater started")
	defer log.Logger.Debugf("policy updater stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-u.commands:
			if !ok {
				return
			}
			u.Apply(cmd)
		}
	}
}

// Apply writes a single command. It must only be called from the goroutine running Run,
// or before Run starts.
func (u *PolicyUpdater) Apply(cmd valueobject.Command) {
	action := cmd.Action()
	if current, ok := u.writer.Lookup(cmd.Address); ok && current == action {
		u.applied.Add(1)
		return
	}
	if err := u.writer.Upsert(cmd.Address, action); err != nil {
		u.rejected.Add(1)
		if xerrors.Is(err, entity.ErrCapacityExceeded) {
			log.Logger.Warnf("policy command dropped: %s, err: %+v", cmd, err)
		} else {
			log.Logger.Errorf("failed to apply policy command: %s, err: %+v", cmd, err)
		}
		return
	}
	u.applied.Add(1)
	log.Logger.Debugf("policy applied: %s -> %s", cmd.Address, action)

	if u.mirror == nil {
		return
	}
	if err := u.mirror.Save(cmd.Address, action); err != nil {
		u.mirrorFailures.Add(1)
		log.Logger.Errorf("failed to save policy to ebpf map: %s, err: %+v", cmd, err)
	}
}
