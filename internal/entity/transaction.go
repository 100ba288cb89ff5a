package entity

type Transaction struct {
	SnowFlakeBase

	CommunityID string    `gorm:"index"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	ActorID string `gorm:"index"`
	Actor   User   `gorm:"foreignKey:ActorID"`

	TargetID string
	Target   User `gorm:"foreignKey:TargetID"`

	Amount int64
	Note   string
}
