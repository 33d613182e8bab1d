package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/xerrors"

	"xdpwall/domain/valueobject"
	"xdpwall/handler"
	"xdpwall/infrastructure/log"
)

// statusClientClosedRequest is nginx's code for a request the client abandoned.
const statusClientClosedRequest = 499

// listPolicies handles GET /api/v1/policies
func (s *Server) listPolicies(c *gin.Context) {
	entries := s.policies.Entries()
	res := PolicyListResponse{
		Policies: make([]PolicyEntry, 0, len(entries)),
		Count:    len(entries),
		Capacity: s.policies.Capacity(),
	}
	for _, e := range entries {
		res.Policies = append(res.Policies, PolicyEntry{Address: e.Address.String(), Action: e.Action.String()})
	}
	c.JSON(http.StatusOK, res)
}

// createPolicy handles POST /api/v1/policies
// The command is only queued; the updater applies it asynchronously.
func (s *Server) createPolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	addr, err := valueobject.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}
	kind, ok := valueobject.ParseCommandKind(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "action must be block or allow"})
		return
	}

	cmd := valueobject.Command{Kind: kind, Address: addr}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	if err := s.updater.Submit(ctx, cmd); err != nil {
		if s.ctx.Err() == nil && c.Request.Context().Err() != nil {
			log.Logger.Debugf("client went away before policy command was queued: %s", cmd)
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		status := http.StatusInternalServerError
		if xerrors.Is(err, handler.ErrUpdaterStopped) {
			status = http.StatusServiceUnavailable
		}
		log.Logger.Errorf("failed to submit policy command: %s, err: %+v", cmd, err)
		c.JSON(status, ErrorResponse{Error: "policy_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, PolicyEntry{Address: addr.String(), Action: cmd.Action().String()})
}
