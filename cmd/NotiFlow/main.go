package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	https_server "NotiFlow/api/http"
	"NotiFlow/internal/config"
	"NotiFlow/pkg/redis"
	"NotiFlow/pkg/zlog"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()
	zlog.Init(conf.LogConfig.LogPath)
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	// 2. 启动摘要调度器
	if https_server.Scheduler != nil {
		https_server.Scheduler.Start()
	}

	// 3. 启动 HTTP 服务
	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		if err := https_server.GE.Run(addr); err != nil {
			zlog.Fatal("服务器启动失败: " + err.Error())
			return
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	zlog.Info("正在关闭服务器...")
	if https_server.Scheduler != nil {
		https_server.Scheduler.Stop()
	}
	_ = redis.Close()
	zlog.Sync()

	zlog.Info("服务器已关闭")
}
