package model

type Cooldown struct {
	Category  string `json:"category"`
	ExpiresAt string `json:"expires_at"`
}

type SetCooldownRequest struct {
	CommunityHandle string `json:"community_handle"`
	Category        string `json:"category"`
	Seconds         int64  `json:"seconds"`
}

type SetCooldownResponse struct{}

type GetCooldownSettingsRequest struct {
	CommunityHandle string `json:"community_handle"`
}

type GetCooldownSettingsResponse struct {
	Cooldowns map[string]int64 `json:"cooldowns"`
}

type GetMyCooldownsRequest struct {
	CommunityHandle string `json:"community_handle"`
}

type GetMyCooldownsResponse struct {
	Cooldowns []Cooldown `json:"cooldowns"`
}

type ClearCooldownRequest struct {
	CommunityHandle string `json:"community_handle"`
	UserID          string `json:"user_id"`
	Category        string `json:"category"`
}

type ClearCooldownResponse struct{}
