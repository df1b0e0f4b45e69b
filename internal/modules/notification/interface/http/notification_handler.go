package handler

import (
	notificationRequest "NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/application/dto/respond"
	"NotiFlow/internal/modules/notification/application/service"
	"NotiFlow/pkg/back"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Send 内部模块（订单/评价/促销）或管理后台触发单条通知
func (h *NotificationHandler) Send(c *gin.Context) {
	var req notificationRequest.SendNotificationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	// 未显式指定收件人时发给自己（dashboard 测试入口）
	userId := req.UserId
	if userId == "" {
		userId = c.GetString("uuid")
	}

	data, err := h.svc.SendNotification(c.Request.Context(), userId, req)
	back.Result(c, data, err)
}

func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req notificationRequest.SendBulkNotificationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.SendBulkNotification(c.Request.Context(), req.UserIds, req.Notification)
	back.Result(c, data, err)
}

func (h *NotificationHandler) List(c *gin.Context) {
	var req notificationRequest.GetNotificationListRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.GetNotifications(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, data, err)
}

func (h *NotificationHandler) ListGrouped(c *gin.Context) {
	var req notificationRequest.GetNotificationListRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.GetGroupedNotifications(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, data, err)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req notificationRequest.NotificationIdRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.MarkAsRead(c.Request.Context(), req.NotificationId, c.GetString("uuid"))
	back.Result(c, nil, err)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	affected, err := h.svc.MarkAllAsRead(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, &respond.AffectedRespond{Affected: affected}, err)
}

func (h *NotificationHandler) Archive(c *gin.Context) {
	var req notificationRequest.NotificationIdRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.ArchiveNotification(c.Request.Context(), req.NotificationId, c.GetString("uuid"))
	back.Result(c, nil, err)
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	var req notificationRequest.NotificationIdRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.DismissNotification(c.Request.Context(), req.NotificationId, c.GetString("uuid"))
	back.Result(c, nil, err)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.GetUnreadCount(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, &respond.UnreadCountRespond{Count: count}, err)
}
