package model

import "time"

type Activity struct {
	Model
	ClubID      uint      `gorm:"index;not null" json:"clubId"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"` // 活动名称
	Description string    `gorm:"type:text" json:"description"`           // 活动描述
	CoverImage  string    `gorm:"type:varchar(255)" json:"coverImage"`    // 活动封面
	Location    string    `gorm:"type:varchar(255)" json:"location"`      // 活动地点
	Date        time.Time `gorm:"not null" json:"date"`                   // 开始时间
	EndAt       time.Time `gorm:"not null" json:"endAt"`                  // 结束时间，必须晚于 Date
	Status      Status    `gorm:"type:varchar(10);index;default:PENDING;not null" json:"status"`
	Club        *Club     `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}
