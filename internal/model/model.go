package model

import (
	"time"

	"gorm.io/gorm"
)

type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Status 社团、活动、入社申请共用的审批状态
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsDecision 审批结果只能是通过或驳回
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Migrations 需要自动迁移的模型，顺序即建表顺序
var Migrations = []any{
	&User{},
	&Club{},
	&Membership{},
	&Activity{},
}
