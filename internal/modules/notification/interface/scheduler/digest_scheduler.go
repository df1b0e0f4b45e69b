package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"NotiFlow/internal/modules/notification/application/service"
	"NotiFlow/pkg/zlog"

	"github.com/robfig/cron/v3"
)

// DigestScheduler 三个互不协调的定时摘要任务
// 每个任务带一个进行中标记：上一轮还没跑完时本轮直接跳过，
// 只防重叠，不引入水位线，选取语义保持纯时间窗口
type DigestScheduler struct {
	cron      *cron.Cron
	digestSvc service.DigestService

	hourlyRunning atomic.Bool
	dailyRunning  atomic.Bool
	weeklyRunning atomic.Bool
}

func NewDigestScheduler(digestSvc service.DigestService, timezone string) *DigestScheduler {
	loc := time.Local
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		} else {
			zlog.Warn("digest scheduler: invalid timezone " + timezone + ", using local")
		}
	}
	return &DigestScheduler{
		// 标准5段Cron表达式（不含秒）
		cron:      cron.New(cron.WithLocation(loc)),
		digestSvc: digestSvc,
	}
}

func (s *DigestScheduler) Start() {
	// 每小时整点
	_, err := s.cron.AddFunc("0 * * * *", func() {
		s.runGuarded("hourly", &s.hourlyRunning, s.digestSvc.RunHourly)
	})
	if err != nil {
		zlog.Error("cron schedule failed: " + err.Error())
	}

	// 每天 08:00
	_, err = s.cron.AddFunc("0 8 * * *", func() {
		s.runGuarded("daily", &s.dailyRunning, s.digestSvc.RunDaily)
	})
	if err != nil {
		zlog.Error("cron schedule failed: " + err.Error())
	}

	// 每周一 09:00
	_, err = s.cron.AddFunc("0 9 * * 1", func() {
		s.runGuarded("weekly", &s.weeklyRunning, s.digestSvc.RunWeekly)
	})
	if err != nil {
		zlog.Error("cron schedule failed: " + err.Error())
	}

	s.cron.Start()
	zlog.Info("Digest scheduler started")
}

func (s *DigestScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *DigestScheduler) runGuarded(name string, running *atomic.Bool, job func(ctx context.Context) error) {
	if !running.CompareAndSwap(false, true) {
		zlog.Warn("digest job still running, skipping this tick: " + name)
		return
	}
	defer running.Store(false)

	if err := job(context.Background()); err != nil {
		// 任务内部已打日志，这里只记一轮失败
		zlog.Error("digest job failed: " + name)
	}
}
