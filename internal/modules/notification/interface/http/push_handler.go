package handler

import (
	notificationRequest "NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/application/service"
	"NotiFlow/pkg/back"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type PushHandler struct {
	svc service.PushService
}

func NewPushHandler(svc service.PushService) *PushHandler {
	return &PushHandler{svc: svc}
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	var req notificationRequest.SubscribePushRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.SubscribePush(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, nil, err)
}

func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req notificationRequest.UnsubscribePushRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	err := h.svc.UnsubscribePush(c.Request.Context(), c.GetString("uuid"), req.Endpoint)
	back.Result(c, nil, err)
}
