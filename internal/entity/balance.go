package entity

import (
	"time"

	"gorm.io/gorm"
)

// BalanceAccount holds one user's funds inside one community. Wallet and
// bank never go negative; every mutation is guarded at the repository.
type BalanceAccount struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CommunityID string    `gorm:"primaryKey"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	Wallet int64
	Bank   int64
}
