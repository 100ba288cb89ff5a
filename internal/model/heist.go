package model

type StartHeistRequest struct {
	CommunityHandle string `json:"community_handle"`
	TargetUserID    string `json:"target_user_id"`
}

type StartHeistResponse struct {
	EndsAt string `json:"ends_at"`
}

type JoinHeistRequest struct {
	CommunityHandle string `json:"community_handle"`
}

type JoinHeistResponse struct {
	CrewSize int `json:"crew_size"`
}

type ReportHeistRequest struct {
	CommunityHandle string `json:"community_handle"`
}

type ReportHeistResponse struct{}

type GetHeistRequest struct {
	CommunityHandle string `json:"community_handle"`
}

type GetHeistResponse struct {
	Active      bool     `json:"active"`
	InitiatorID string   `json:"initiator_id,omitempty"`
	TargetID    string   `json:"target_id,omitempty"`
	CrewIDs     []string `json:"crew_ids,omitempty"`
	Reported    bool     `json:"reported,omitempty"`
	EndsAt      string   `json:"ends_at,omitempty"`
}
