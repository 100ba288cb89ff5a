package entity

type Community struct {
	Base

	Handle      string `gorm:"unique"`
	DisplayName string

	// NotifyTarget is the channel draw and heist results are fanned out
	// to. Empty disables notifications for this community.
	NotifyTarget string
}
