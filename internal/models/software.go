package models

// Software is an entry of the driver/utility download directory.
type Software struct {
	BaseModel
	Name        string `json:"name" gorm:"type:varchar(200);not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	Category    string `json:"category" gorm:"type:varchar(50);index"`
	Version     string `json:"version"`
	Platform    string `json:"platform" gorm:"type:varchar(30)"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url"`
	FileSize    string `json:"file_size"`
	Downloads   int64  `json:"downloads"`
	IsActive    bool   `json:"is_active" gorm:"index"`
}
