package model

import "time"

type ClubRole string

const (
	ClubRoleLeader ClubRole = "LEADER"
	ClubRoleMember ClubRole = "MEMBER"
)

// Membership 用户与社团的关系，(user_id, club_id) 唯一；退出时直接删除
type Membership struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ClubID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"clubId"`
	Status     Status    `gorm:"type:varchar(10);index;default:PENDING;not null" json:"status"`
	RoleInClub ClubRole  `gorm:"type:varchar(10);default:MEMBER;not null" json:"roleInClub"`
	JoinedAt   time.Time `json:"joinedAt"`
	Notes      string    `gorm:"type:varchar(255)" json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Club       *Club     `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}
