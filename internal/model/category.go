package model

type Category struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}
