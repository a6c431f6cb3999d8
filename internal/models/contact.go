package models

import "time"

// Contact is a single address-book entry. Every contact belongs to exactly
// one user and is invisible to everyone else.
type Contact struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FirstName      string    `json:"first_name" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	LastName       string    `json:"last_name" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone          string    `json:"phone" gorm:"index;type:varchar(50)" validate:"required,max=50"`
	Birthday       time.Time `json:"birthday" validate:"required"`
	AdditionalInfo string    `json:"additional_info,omitempty" gorm:"type:varchar(500)"`
	Done           bool      `json:"done" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	UserID uint `json:"-" gorm:"index;not null"`
}

// ContactUpdate carries a partial update. Nil fields are left untouched.
type ContactUpdate struct {
	FirstName      *string    `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string    `json:"last_name" validate:"omitempty,max=100"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Phone          *string    `json:"phone" validate:"omitempty,max=50"`
	Birthday       *time.Time `json:"birthday"`
	AdditionalInfo *string    `json:"additional_info" validate:"omitempty,max=500"`
	Done           *bool      `json:"done"`
}

// Fields returns the set columns as a map usable with gorm Updates.
func (u *ContactUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.FirstName != nil {
		fields["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		fields["last_name"] = *u.LastName
	}
	if u.Email != nil {
		fields["email"] = *u.Email
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.Birthday != nil {
		fields["birthday"] = *u.Birthday
	}
	if u.AdditionalInfo != nil {
		fields["additional_info"] = *u.AdditionalInfo
	}
	if u.Done != nil {
		fields["done"] = *u.Done
	}
	return fields
}
