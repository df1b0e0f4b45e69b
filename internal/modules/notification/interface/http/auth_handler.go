package handler

import (
	"NotiFlow/pkg/back"
	"NotiFlow/pkg/util"
	"NotiFlow/pkg/util/myjwt"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username" binding:"required"`
}

type loginRespond struct {
	Uuid  string `json:"uuid"`
	Token string `json:"token"`
}

// Login dashboard 测试入口：账号体系在别的服务里，这里只签发本服务自用的 Token
// uuid 缺省时新生成一个
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	uuid := req.Uuid
	if uuid == "" {
		uuid = util.GenerateUUID()
	}

	token, err := myjwt.GenerateToken(uuid, req.Username)
	if err != nil {
		zlog.Error("generate token failed: " + err.Error())
		back.Error(c, xerr.InternalServerError, xerr.ErrServerError.Message)
		return
	}

	back.Success(c, &loginRespond{Uuid: uuid, Token: token})
}
