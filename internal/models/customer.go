package models

// Customer is the ledger entry derived from orders, keyed by phone number.
type Customer struct {
	BaseModel
	Phone      string   `json:"phone" gorm:"uniqueIndex;type:varchar(20);not null"`
	Name       string   `json:"name" gorm:"type:varchar(100)"`
	Email      string   `json:"email" gorm:"type:varchar(255)"`
	Address    string   `json:"address" gorm:"type:varchar(500)"`
	TotalSpent int64    `json:"total_spent" gorm:"not null;default:0"`
	OrderCount int      `json:"order_count" gorm:"not null;default:0"`
	Tags       []string `json:"tags" gorm:"serializer:json"`
	Note       string   `json:"note"`
	Orders     []Order  `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
}

// HasTag reports whether the customer carries tag.
func (c *Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag when missing and reports whether it changed anything.
func (c *Customer) AddTag(tag string) bool {
	if c.HasTag(tag) {
		return false
	}
	c.Tags = append(c.Tags, tag)
	return true
}
