package handler

import (
	notificationRequest "NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/application/service"
	"NotiFlow/pkg/back"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	svc service.PreferenceService
}

func NewPreferenceHandler(svc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	data, err := h.svc.GetUserPreferences(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, data, err)
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	var req notificationRequest.UpdatePreferencesRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.UpdatePreferences(c.Request.Context(), c.GetString("uuid"), req)
	back.Result(c, data, err)
}
