package models

// DefaultWarrantyMonths applies when a product does not state its warranty.
const DefaultWarrantyMonths = 12

// Category groups products (gaming, office, workstation ...).
type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Brand is a laptop manufacturer.
type Brand struct {
	BaseModel
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// Product is a catalog item. Prices are whole VND.
type Product struct {
	BaseModel
	Name           string            `json:"name" gorm:"type:varchar(200);not null"`
	Model          string            `json:"model" gorm:"type:varchar(100)"`
	Slug           string            `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	SlugAuto       bool              `json:"slug_auto" gorm:"not null;default:false"`
	CategoryID     *string           `json:"category_id" gorm:"type:varchar(36);index"`
	Category       *Category         `json:"category,omitempty"`
	BrandID        *string           `json:"brand_id" gorm:"type:varchar(36);index"`
	Brand          *Brand            `json:"brand,omitempty"`
	Price          int64             `json:"price"`
	SalePrice      int64             `json:"sale_price"`
	Stock          int               `json:"stock"`
	Specs          map[string]string `json:"specs" gorm:"serializer:json"`
	Images         []string          `json:"images" gorm:"serializer:json"`
	Description    string            `json:"description"`
	WarrantyMonths int               `json:"warranty_months"`
	IsActive       bool              `json:"is_active" gorm:"index"`
	IsFeatured     bool              `json:"is_featured"`
	RatingAverage  float64           `json:"rating_average"`
	RatingCount    int               `json:"rating_count"`
}

// EffectivePrice is the price charged at checkout.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// WarrantyOrDefault returns the warranty length in months, defaulting to 12.
func (p *Product) WarrantyOrDefault() int {
	if p == nil || p.WarrantyMonths <= 0 {
		return DefaultWarrantyMonths
	}
	return p.WarrantyMonths
}
