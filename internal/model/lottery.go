package model

type LotteryTicket struct {
	Serial          string `json:"serial"`
	Round           int64  `json:"round"`
	CommunityHandle string `json:"community_handle"`
	BoughtAt        string `json:"bought_at"`
}

type LotteryResult struct {
	Round          int64    `json:"round"`
	WinningSerials []string `json:"winning_serials"`
	DrawnAt        string   `json:"drawn_at"`
	TicketCount    int      `json:"ticket_count"`
}

type BuyLotteryTicketsRequest struct {
	CommunityHandle string `json:"community_handle"`
	NumberTickets   int    `json:"number_tickets"`
}

type BuyLotteryTicketsResponse struct {
	Round   int64    `json:"round"`
	Serials []string `json:"serials"`
	Spent   int64    `json:"spent"`
	Wallet  int64    `json:"wallet"`
}

type GetMyLotteryTicketsRequest struct{}

type GetMyLotteryTicketsResponse struct {
	Round    int64           `json:"round"`
	NextDraw string          `json:"next_draw"`
	Tickets  []LotteryTicket `json:"tickets"`
}

type GetLotteryRoundRequest struct{}

type GetLotteryRoundResponse struct {
	Round    int64  `json:"round"`
	NextDraw string `json:"next_draw"`
}

type DrawLotteryNowRequest struct{}

type DrawLotteryNowResponse struct {
	Round int64 `json:"round"`
}

type GetLotteryResultsRequest struct {
	Limit int `json:"limit"`
}

type GetLotteryResultsResponse struct {
	Results []LotteryResult `json:"results"`
}
