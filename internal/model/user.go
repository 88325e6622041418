package model

type Role string

const (
	RoleUser   Role = "USER"
	RoleLeader Role = "LEADER"
	RoleAdmin  Role = "ADMIN"
)

// Level 角色等级，用于 "至少为某角色" 的判断
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleLeader:
		return 1
	case RoleUser:
		return 0
	default:
		return -1
	}
}

func (r Role) Valid() bool {
	return r.Level() >= 0
}

// AtLeast r 是否不低于 min
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Level() >= min.Level()
}

type User struct {
	Model
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(100)" json:"email,omitempty"`
	RealName string `gorm:"type:varchar(50)" json:"realName"`
	Avatar   string `gorm:"type:varchar(255)" json:"avatar"`
	Role     Role   `gorm:"type:varchar(10);default:USER;not null" json:"role"`
}
