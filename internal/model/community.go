package model

type Community struct {
	Handle       string `json:"handle"`
	DisplayName  string `json:"display_name"`
	NotifyTarget string `json:"notify_target"`
}

type CreateCommunityRequest struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

type CreateCommunityResponse struct {
	Community Community `json:"community"`
}

type SetNotifyTargetRequest struct {
	CommunityHandle string `json:"community_handle"`
	NotifyTarget    string `json:"notify_target"`
}

type SetNotifyTargetResponse struct{}
