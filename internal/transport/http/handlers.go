package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/notify"
	"github.com/Gunvolt24/orderfeed/internal/orderapi"
	"github.com/Gunvolt24/orderfeed/internal/usecase"
	"github.com/Gunvolt24/orderfeed/internal/warmup"
	"github.com/Gunvolt24/orderfeed/pkg/httpx"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type acceptActiveRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

type serviceAreaRequest struct {
	ServiceAreaCode string `json:"serviceAreaCode" binding:"required"`
}

func (h *Handler) listOrders(c *gin.Context) {
	limit, offset := httpx.ParseLimitOffset(c, defaultPageSize, maxPageSize)
	all := h.feed.Orders()

	c.Header("X-Total-Count", strconv.Itoa(len(all)))
	c.JSON(http.StatusOK, httpx.Page(all, limit, offset))
}

func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.feed.Order(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) assignedOrders(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	orders, err := h.feed.AssignedOrders(ctx, httpx.ParseBool(c, "force", false))
	if err != nil {
		h.fail(c, "AssignedOrders", err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) removeOrder(c *gin.Context) {
	if !h.feed.RemoveOrder(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) acceptOrder(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	res, err := h.feed.Accept(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "Accept", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) listNotifications(c *gin.Context) {
	list := h.feed.Notifications()
	if list == nil {
		list = []domain.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) activeNotification(c *gin.Context) {
	n, ok := h.feed.ActiveNotification()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) dismissActive(c *gin.Context) {
	n, ok := h.feed.DismissActive()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) markActiveRead(c *gin.Context) {
	if !h.feed.MarkActiveRead() {
		c.JSON(http.StatusNotFound, gin.H{"error": notify.ErrNoActive.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) acceptActive(c *gin.Context) {
	var req acceptActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.feed.AcceptActive(ctx, req.OrderID); err != nil {
		h.fail(c, "AcceptActive", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) refresh(c *gin.Context) {
	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.feed.Refresh(ctx); err != nil {
		h.fail(c, "Refresh", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) changeServiceArea(c *gin.Context) {
	var req serviceAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceAreaCode is required"})
		return
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	if err := h.feed.ChangeServiceArea(ctx, req.ServiceAreaCode); err != nil {
		h.fail(c, "ChangeServiceArea", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Status())
}

// ------вспомогательные функции------

func (h *Handler) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// fail — перевод доменных ошибок в HTTP-статус.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
	} else {
		h.log.Warnf(c.Request.Context(), "%s rejected err=%v", op, err)
	}
	_ = c.Error(err)

	body := gin.H{"error": err.Error()}
	var apiErr *orderapi.APIError
	if errors.As(err, &apiErr) {
		body["upstreamStatus"] = apiErr.StatusCode
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	var apiErr *orderapi.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidServiceArea):
		return http.StatusBadRequest
	case errors.Is(err, notify.ErrNoActive), errors.Is(err, notify.ErrNotActive):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr),
		errors.Is(err, usecase.ErrAcceptFailed),
		errors.Is(err, warmup.ErrBulkLoad):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
