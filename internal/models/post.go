package models

import "time"

// Post is a blog article.
type Post struct {
	BaseModel
	Title       string     `json:"title" gorm:"type:varchar(250);not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;type:varchar(270)"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image"`
	Tags        []string   `json:"tags" gorm:"serializer:json"`
	Author      string     `json:"author"`
	Published   bool       `json:"published" gorm:"index"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int64      `json:"views"`
}
