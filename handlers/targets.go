package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sre-api/logger"
	"sre-api/services"
)

const (
	// LogFieldKeys for structured logging
	LogFieldEndpoint   = "endpoint"
	LogFieldInstanceID = "instance_id"
	LogFieldReason     = "reason"
)

// TargetService is the slice of the services.Client used by the target
// handlers.
type TargetService interface {
	ResolveTargetGroup(ctx context.Context) (string, error)
	LookupInstance(ctx context.Context, instanceID string) *services.InstanceInfo
	ListTargetInstances(ctx context.Context, targetGroupARN string) ([]services.InstanceInfo, error)
	RegisterInstance(ctx context.Context, targetGroupARN, instanceID string) error
	DeregisterInstance(ctx context.Context, targetGroupARN, instanceID string) error
}

// TargetHandler serves the /elb/alb-ls endpoints against a single configured
// load balancer.
type TargetHandler struct {
	svc              TargetService
	loadBalancerName string
}

// NewTargetHandler - 타겟 핸들러 생성
func NewTargetHandler(svc TargetService, loadBalancerName string) *TargetHandler {
	return &TargetHandler{svc: svc, loadBalancerName: loadBalancerName}
}

// ListInstances lists the instances attached to the configured load balancer.
//
// @Summary      List machines attached to the default load balancer
// @Tags         elb
// @Produce      json
// @Success      200 {array}  services.InstanceInfo
// @Failure      404 {object} handlers.ErrorResponse
// @Failure      500 {object} handlers.ErrorResponse
// @Router       /elb/alb-ls [get]
func (h *TargetHandler) ListInstances(c *gin.Context) {
	targetGroupARN, err := h.svc.ResolveTargetGroup(c.Request.Context())
	if err != nil {
		h.respondTargetGroupError(c, err)
		return
	}

	instances, err := h.svc.ListTargetInstances(c.Request.Context(), targetGroupARN)
	if err != nil {
		logger.Logger.Error("list targets failed",
			zap.String(LogFieldEndpoint, "list"),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, instances)
}

// AttachInstance registers an instance on the configured load balancer.
//
// @Summary      Attach an instance on the default load balancer
// @Tags         elb
// @Accept       json
// @Produce      json
// @Param        request body handlers.TargetRequest true "instance to attach"
// @Success      201 {object} services.InstanceInfo
// @Failure      400 {object} handlers.ErrorResponse
// @Failure      404 {object} handlers.ErrorResponse
// @Failure      409 {object} handlers.ErrorResponse
// @Failure      500 {object} handlers.ErrorResponse
// @Router       /elb/alb-ls [post]
func (h *TargetHandler) AttachInstance(c *gin.Context) {
	info, targetGroupARN, done := h.prepareMutation(c, "attach")
	if done {
		return
	}

	if err := h.svc.RegisterInstance(c.Request.Context(), targetGroupARN, info.InstanceID); err != nil {
		if errors.Is(err, services.ErrDuplicateTarget) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: fmt.Sprintf("Instance %s is already attached to the load balancer.", info.InstanceID),
			})
			return
		}
		logger.Logger.Error("register target failed",
			zap.String(LogFieldEndpoint, "attach"),
			zap.String(LogFieldInstanceID, info.InstanceID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, info)
}

// DetachInstance deregisters an instance from the configured load balancer.
// It responds 201 on success, mirroring the attach endpoint.
//
// @Summary      Detach an instance from the default load balancer
// @Tags         elb
// @Accept       json
// @Produce      json
// @Param        request body handlers.TargetRequest true "instance to detach"
// @Success      201 {object} services.InstanceInfo
// @Failure      400 {object} handlers.ErrorResponse
// @Failure      404 {object} handlers.ErrorResponse
// @Failure      409 {object} handlers.ErrorResponse
// @Failure      500 {object} handlers.ErrorResponse
// @Router       /elb/alb-ls [delete]
func (h *TargetHandler) DetachInstance(c *gin.Context) {
	info, targetGroupARN, done := h.prepareMutation(c, "detach")
	if done {
		return
	}

	if err := h.svc.DeregisterInstance(c.Request.Context(), targetGroupARN, info.InstanceID); err != nil {
		if errors.Is(err, services.ErrTargetNotAttached) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: fmt.Sprintf("Instance %s is not attached to the load balancer.", info.InstanceID),
			})
			return
		}
		logger.Logger.Error("deregister target failed",
			zap.String(LogFieldEndpoint, "detach"),
			zap.String(LogFieldInstanceID, info.InstanceID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, info)
}

// prepareMutation runs the shared attach/detach preamble: body validation,
// instance existence and target group resolution. It writes the error
// response itself and reports done=true when the handler should stop.
func (h *TargetHandler) prepareMutation(c *gin.Context, endpoint string) (info *services.InstanceInfo, targetGroupARN string, done bool) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InstanceID == "" {
		logger.Logger.Info("invalid request body",
			zap.String(LogFieldEndpoint, endpoint),
			zap.String(LogFieldReason, "missing instanceId"),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format. Expected: {'instanceId': 'instance_id'}",
		})
		return nil, "", true
	}

	info = h.svc.LookupInstance(c.Request.Context(), req.InstanceID)
	if info == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("Instance %s does not exist.", req.InstanceID),
		})
		return nil, "", true
	}

	targetGroupARN, err := h.svc.ResolveTargetGroup(c.Request.Context())
	if err != nil {
		h.respondTargetGroupError(c, err)
		return nil, "", true
	}

	return info, targetGroupARN, false
}

// respondTargetGroupError maps target group resolution errors to HTTP
// responses: absence is 404, anything else (including the multiple target
// group precondition) is 500.
func (h *TargetHandler) respondTargetGroupError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTargetGroupNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: fmt.Sprintf("Load balancer %s does not exist or has no target group.", h.loadBalancerName),
		})
		return
	}
	logger.Logger.Error("target group resolution failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
