package entity

import "time"

// CurrentRoundID is the key of the singleton round meta row. The draw is
// process wide; only heists are partitioned by community.
const CurrentRoundID = "current"

type LotteryRound struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Round    int64
	NextDraw time.Time
}

// LotteryTicket serials follow the form GG-SSSSSS (group and suffix).
// Serials are random and deliberately not unique; two owners can hold
// the same serial and both win with it.
type LotteryTicket struct {
	Base

	Round  int64 `gorm:"index"`
	Serial string

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	// CommunityID records where the ticket was bought; prizes are paid
	// into the owner's account in that community.
	CommunityID string
	Community   Community `gorm:"foreignKey:CommunityID"`
}

// LotteryResult is immutable once written and retained for audit.
type LotteryResult struct {
	Base

	Round        int64 `gorm:"uniqueIndex"`
	Tier1Serials Array[string]
	DrawnAt      time.Time
	TicketCount  int
}
