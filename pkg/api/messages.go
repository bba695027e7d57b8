package api

import "github.com/shopspring/decimal"

// Money amounts are decimal strings, e.g. "12.34".

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type ReceiptItem struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	EcoFriendly bool            `json:"eco_friendly"`
	// EcoScore is the classifier confidence in 0..1, when known.
	EcoScore *float64 `json:"eco_score,omitempty"`
}

type Receipt struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Items      []*ReceiptItem  `json:"items"`
	Total      decimal.Decimal `json:"total"`
	GreenScore int             `json:"green_score"`
	CreatedAt  int64           `json:"created_at"`
}

type GreenScore struct {
	UserID    string `json:"user_id"`
	Week      int    `json:"week"`
	Year      int    `json:"year"`
	Score     int    `json:"score"`
	UpdatedAt int64  `json:"updated_at"`
}

type CreateReceiptRequest struct {
	Title string         `json:"title,omitempty"`
	Items []*ReceiptItem `json:"items"`
	// Total defaults to the sum of item prices.
	Total *decimal.Decimal `json:"total,omitempty"`
}

type CreateReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
	// PeriodScore is the caller's score for the week the receipt was stored in.
	PeriodScore *GreenScore `json:"period_score"`
}

type ScanReceiptRequest struct {
	Title string `json:"title,omitempty"`
	// Image is the raw image, base64 encoded in JSON.
	Image    []byte `json:"image"`
	MimeType string `json:"mime_type,omitempty"`
}

type ScanReceiptResponse struct {
	Receipt     *Receipt    `json:"receipt"`
	PeriodScore *GreenScore `json:"period_score"`
}

type ListReceiptsRequest struct{}

type ListReceiptsResponse struct {
	Receipts []*Receipt `json:"receipts"`
}

type GetReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

type GetReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type Participant struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Settled bool            `json:"settled,omitempty"`
}

// SplitMode selects how CalculateSplit assigns amounts.
type SplitMode string

const (
	// SplitModeManual keeps the amounts given in the request.
	SplitModeManual SplitMode = "manual"
	// SplitModeEven divides the total between the participants and the owner.
	SplitModeEven SplitMode = "even"
)

type CalculateSplitRequest struct {
	Total        decimal.Decimal `json:"total"`
	Mode         SplitMode       `json:"mode,omitempty"`
	Participants []*Participant  `json:"participants"`
}

type CalculateSplitResponse struct {
	Participants []*Participant  `json:"participants"`
	Allocated    decimal.Decimal `json:"allocated"`
	Remaining    decimal.Decimal `json:"remaining"`
	OwnerShare   decimal.Decimal `json:"owner_share"`
	// Status is one of "remaining", "overspent" or "allocated".
	Status    string `json:"status"`
	CanSubmit bool   `json:"can_submit"`
}

type Split struct {
	ID           string          `json:"id"`
	ReceiptID    string          `json:"receipt_id,omitempty"`
	Title        string          `json:"title"`
	Total        decimal.Decimal `json:"total"`
	OwnerShare   decimal.Decimal `json:"owner_share"`
	Participants []*Participant  `json:"participants"`
	CreatedAt    int64           `json:"created_at"`
}

type SubmitSplitRequest struct {
	// ReceiptID optionally links the split to one of the caller's receipts. When set,
	// Title and a zero Total default to the receipt's.
	ReceiptID    string          `json:"receipt_id,omitempty"`
	Title        string          `json:"title,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Participants []*Participant  `json:"participants"`
}

type SubmitSplitResponse struct {
	Split *Split `json:"split"`
}

type ListSplitsRequest struct{}

type ListSplitsResponse struct {
	Splits []*Split `json:"splits"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

type GetLeaderboardRequest struct {
	// Week and Year select the period; zero means the current week.
	Week  int `json:"week,omitempty"`
	Year  int `json:"year,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type GetLeaderboardResponse struct {
	Week    int                 `json:"week"`
	Year    int                 `json:"year"`
	Entries []*LeaderboardEntry `json:"entries"`
}

type GetMyScoreRequest struct {
	Week int `json:"week,omitempty"`
	Year int `json:"year,omitempty"`
}

type GetMyScoreResponse struct {
	Week     int  `json:"week"`
	Year     int  `json:"year"`
	HasScore bool `json:"has_score"`
	Score    int  `json:"score"`
	// Rank is 1-based; without a score it is one past the last ranked user.
	Rank             int `json:"rank"`
	PointsToNextRank int `json:"points_to_next_rank"`
	RankedUsers      int `json:"ranked_users"`
}

type GetSuggestionRequest struct {
	// Either ReceiptID or ItemNames must be set.
	ReceiptID string   `json:"receipt_id,omitempty"`
	ItemNames []string `json:"item_names,omitempty"`
}

type GetSuggestionResponse struct {
	Suggestion string `json:"suggestion"`
}
