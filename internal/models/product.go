package models

// Product is a single listing in a vendor's storefront. The id is assigned by
// the document store on creation; a "local-" prefixed id together with
// LocalOnly marks a fallback shell that was never confirmed remotely.
// Image and PreviewVideo hold either a durable remote URL or a transient
// local-file reference still waiting to be uploaded.
type Product struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(64)"`
	StoreID      string  `json:"storeId" gorm:"index;type:varchar(64)"`
	Title        string  `json:"title" gorm:"type:varchar(100)"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty" gorm:"type:varchar(500)"`
	Category     string  `json:"category" gorm:"type:varchar(60)"`
	Image        string  `json:"image,omitempty"`
	PreviewVideo string  `json:"previewVideo,omitempty"`
	Rating       float64 `json:"rating"`
	RatingCount  int     `json:"ratingCount"`
	CreatedAt    string  `json:"createdAt,omitempty" gorm:"type:varchar(40)"`
	UpdatedAt    string  `json:"updatedAt,omitempty" gorm:"type:varchar(40)"`
	LocalOnly    bool    `json:"localOnly,omitempty" gorm:"-"`
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Title        string  `json:"title" validate:"required,min=1,max=100"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Description  string  `json:"description" validate:"omitempty,max=500"`
	Category     string  `json:"category" validate:"omitempty,max=60"`
	Image        string  `json:"image"`
	PreviewVideo string  `json:"previewVideo"`
}

// ProductChanges is a partial update of a Product. Nil fields are untouched.
type ProductChanges struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=60"`
	Image        *string  `json:"image,omitempty"`
	PreviewVideo *string  `json:"previewVideo,omitempty"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	RatingCount  *int     `json:"ratingCount,omitempty" validate:"omitempty,gte=0"`
}

// Apply merges the non-nil fields of c into p.
func (c ProductChanges) Apply(p *Product) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.Image != nil {
		p.Image = *c.Image
	}
	if c.PreviewVideo != nil {
		p.PreviewVideo = *c.PreviewVideo
	}
	if c.Rating != nil {
		p.Rating = *c.Rating
	}
	if c.RatingCount != nil {
		p.RatingCount = *c.RatingCount
	}
}
