package entity

import (
	"time"

	"github.com/zetabot-lab/backend/pkg/enum"
	"gorm.io/gorm"
)

type CooldownCategory string

var (
	CooldownWork      = enum.New(CooldownCategory("work"))
	CooldownFish      = enum.New(CooldownCategory("fish"))
	CooldownRob       = enum.New(CooldownCategory("rob"))
	CooldownCrime     = enum.New(CooldownCategory("crime"))
	CooldownBankRob   = enum.New(CooldownCategory("bankrob"))
	CooldownBeg       = enum.New(CooldownCategory("beg"))
	CooldownScratch   = enum.New(CooldownCategory("scratch"))
	CooldownBlackjack = enum.New(CooldownCategory("blackjack"))

	// CooldownRobbed is stamped on the target of a heist, not on the
	// actor, and has a fixed duration instead of a configurable one. It
	// is kept out of the registry so requests cannot name it.
	CooldownRobbed = CooldownCategory("robbed")
)

var CooldownCategories = []CooldownCategory{
	CooldownWork,
	CooldownFish,
	CooldownRob,
	CooldownCrime,
	CooldownBankRob,
	CooldownBeg,
	CooldownScratch,
	CooldownBlackjack,
}

type CooldownRecord struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CommunityID string    `gorm:"primaryKey"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	Category CooldownCategory `gorm:"primaryKey"`

	ExpiresAt time.Time
}

// CooldownSetting stores per-community duration overrides as a map of
// category to seconds. A value of zero disables the category entirely.
type CooldownSetting struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	CommunityID string    `gorm:"primaryKey"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	Cooldowns Map
}
