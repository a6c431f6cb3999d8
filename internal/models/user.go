package models

import "time"

// Role is the access level of a user. Roles form a total order:
// user < moderator < admin.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// AtLeast reports whether the role meets the given minimum role.
// Unknown roles never satisfy any floor.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	minRank, minOK := roleRank[min]
	return ok && minOK && rank >= minRank
}

// User represents a registered account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255)"`
	Confirmed      bool      `json:"confirmed" gorm:"default:false"`
	Role           Role      `json:"role" gorm:"type:varchar(20);default:user"`
	Avatar         string    `json:"avatar,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at"`

	Contacts []Contact `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
