package models

// Store is the storefront document for a single vendor. Its ID equals the
// owner id of the authenticated vendor (1:1 mapping, not a generated key).
// Timestamps are kept as RFC3339 strings so the document round-trips through
// the local cache tiers without losing its portable form.
type Store struct {
	ID               string  `json:"id" gorm:"primaryKey;type:varchar(64)"`
	StoreName        string  `json:"storeName" gorm:"type:varchar(100)"`
	Username         string  `json:"username" gorm:"uniqueIndex;type:varchar(120)"`
	WhatsappNumber   string  `json:"whatsappNumber" gorm:"type:varchar(32)"`
	BannerImage      string  `json:"bannerImage,omitempty"`
	Logo             string  `json:"logo,omitempty"`
	Description      string  `json:"description,omitempty" gorm:"type:varchar(500)"`
	StoreRating      float64 `json:"storeRating"`
	StoreRatingCount int     `json:"storeRatingCount"`
	CreatedAt        string  `json:"createdAt,omitempty" gorm:"type:varchar(40)"`
	UpdatedAt        string  `json:"updatedAt,omitempty" gorm:"type:varchar(40)"`
}

// StoreChanges is a partial update of a Store. Nil fields are left untouched
// by the merge, so callers can change a single field without reading the rest.
type StoreChanges struct {
	StoreName        *string  `json:"storeName,omitempty" validate:"omitempty,min=1,max=100"`
	Username         *string  `json:"username,omitempty" validate:"omitempty,min=1,max=120"`
	WhatsappNumber   *string  `json:"whatsappNumber,omitempty" validate:"omitempty,min=7,max=32"`
	BannerImage      *string  `json:"bannerImage,omitempty"`
	Logo             *string  `json:"logo,omitempty"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	StoreRating      *float64 `json:"storeRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	StoreRatingCount *int     `json:"storeRatingCount,omitempty" validate:"omitempty,gte=0"`
}

// Apply merges the non-nil fields of c into s.
func (c StoreChanges) Apply(s *Store) {
	if c.StoreName != nil {
		s.StoreName = *c.StoreName
	}
	if c.Username != nil {
		s.Username = *c.Username
	}
	if c.WhatsappNumber != nil {
		s.WhatsappNumber = *c.WhatsappNumber
	}
	if c.BannerImage != nil {
		s.BannerImage = *c.BannerImage
	}
	if c.Logo != nil {
		s.Logo = *c.Logo
	}
	if c.Description != nil {
		s.Description = *c.Description
	}
	if c.StoreRating != nil {
		s.StoreRating = *c.StoreRating
	}
	if c.StoreRatingCount != nil {
		s.StoreRatingCount = *c.StoreRatingCount
	}
}
