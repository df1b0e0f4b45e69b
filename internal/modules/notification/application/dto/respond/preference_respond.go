package respond

import "NotiFlow/internal/modules/notification/domain/entity"

type PreferenceRespond struct {
	UserId            string          `json:"user_id"`
	Categories        map[string]bool `json:"categories"`
	Channel           string          `json:"channel"`
	QuietHoursEnabled bool            `json:"quiet_hours_enabled"`
	QuietHoursStart   string          `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     string          `json:"quiet_hours_end,omitempty"`
	Timezone          string          `json:"timezone"`
	EmailDigest       string          `json:"email_digest"`
}

func NewPreferenceRespond(p *entity.NotificationPreference) *PreferenceRespond {
	return &PreferenceRespond{
		UserId: p.UserId,
		Categories: map[string]bool{
			entity.CategoryOrders:         p.Orders,
			entity.CategoryReviews:        p.Reviews,
			entity.CategoryProductUpdates: p.ProductUpdates,
			entity.CategoryPromotions:     p.Promotions,
			entity.CategoryCommunity:      p.Community,
			entity.CategoryAchievements:   p.Achievements,
			entity.CategoryPriceDrops:     p.PriceDrops,
			entity.CategoryBackInStock:    p.BackInStock,
			entity.CategoryNewsletter:     p.Newsletter,
			entity.CategorySecurity:       p.Security,
		},
		Channel:           p.Channel,
		QuietHoursEnabled: p.QuietHoursEnabled,
		QuietHoursStart:   p.QuietHoursStart,
		QuietHoursEnd:     p.QuietHoursEnd,
		Timezone:          p.Timezone,
		EmailDigest:       p.EmailDigest,
	}
}
