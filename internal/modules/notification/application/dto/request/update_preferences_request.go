package request

// CategoriesPatch 类别开关的局部更新，nil 表示不修改
// security 即使显式传 false 也会被强制改回 true
type CategoriesPatch struct {
	Orders         *bool `json:"orders"`
	Reviews        *bool `json:"reviews"`
	ProductUpdates *bool `json:"product_updates"`
	Promotions     *bool `json:"promotions"`
	Community      *bool `json:"community"`
	Achievements   *bool `json:"achievements"`
	PriceDrops     *bool `json:"price_drops"`
	BackInStock    *bool `json:"back_in_stock"`
	Newsletter     *bool `json:"newsletter"`
	Security       *bool `json:"security"`
}

type UpdatePreferencesRequest struct {
	Categories        *CategoriesPatch `json:"categories"`
	Channel           *string          `json:"channel"`
	QuietHoursEnabled *bool            `json:"quiet_hours_enabled"`
	QuietHoursStart   *string          `json:"quiet_hours_start"` // "HH:mm"
	QuietHoursEnd     *string          `json:"quiet_hours_end"`
	Timezone          *string          `json:"timezone"`
	EmailDigest       *string          `json:"email_digest"` // instant | daily | weekly | none
}
