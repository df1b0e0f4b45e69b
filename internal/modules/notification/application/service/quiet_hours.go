package service

import (
	"strconv"
	"strings"
	"time"

	"NotiFlow/internal/modules/notification/domain/entity"
)

// parseHHMM "HH:mm" 转为当天的分钟偏移
func parseHHMM(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// IsQuietHours 判断 now 是否落在用户的免打扰窗口内
// 计算失败（时区无效、边界格式错误）一律放行，宁可打扰也不丢投递
func IsQuietHours(pref *entity.NotificationPreference, now time.Time) bool {
	if pref == nil || !pref.QuietHoursEnabled {
		return false
	}
	if pref.QuietHoursStart == "" || pref.QuietHoursEnd == "" {
		return false
	}

	tz := pref.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return false
	}

	start, ok := parseHHMM(pref.QuietHoursStart)
	if !ok {
		return false
	}
	end, ok := parseHHMM(pref.QuietHoursEnd)
	if !ok {
		return false
	}

	local := now.In(loc)
	cur := local.Hour()*60 + local.Minute()

	if start > end {
		// 跨午夜窗口，如 22:00 - 08:00
		return cur >= start || cur < end
	}
	// 同日窗口，结束时刻不含
	return cur >= start && cur < end
}
