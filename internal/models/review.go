package models

import "time"

// Review moderation statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review is a customer review of a product, or of the shop when ProductID is nil.
type Review struct {
	BaseModel
	ProductID     *string    `json:"product_id" gorm:"type:varchar(36);index"`
	CustomerName  string     `json:"customer_name" gorm:"type:varchar(100)"`
	CustomerPhone string     `json:"-" gorm:"type:varchar(20)"`
	Rating        int        `json:"rating"`
	Content       string     `json:"content"`
	Status        string     `json:"status" gorm:"type:varchar(20);index;default:pending"`
	Reply         string     `json:"reply,omitempty"`
	RepliedAt     *time.Time `json:"replied_at,omitempty"`
}
