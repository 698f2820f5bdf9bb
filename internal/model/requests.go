package model

// Request bodies for the HTTP API. Validation tags are enforced at the
// handler boundary; format and referential rules live in the services.

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type CreateEventRequest struct {
	Code        string             `json:"event_code" validate:"required"`
	Name        string             `json:"event_name" validate:"required"`
	Description string             `json:"event_description"`
	StartDate   string             `json:"event_start_date" validate:"required"`
	EndDate     string             `json:"event_end_date" validate:"required"`
	Tasks       []InlineTaskRequest `json:"tasks" validate:"dive"`
}

type InlineTaskRequest struct {
	Name        string `json:"task_name" validate:"required"`
	Description string `json:"task_description"`
	Points      int    `json:"task_points" validate:"min=0"`
}

// UpdateEventRequest carries optional fields; nil means "leave unchanged".
type UpdateEventRequest struct {
	Name        *string `json:"event_name"`
	Description *string `json:"event_description"`
	StartDate   *string `json:"event_start_date"`
	EndDate     *string `json:"event_end_date"`
}

type TaskRequest struct {
	Name        string `json:"task_name" validate:"required"`
	Description string `json:"task_description"`
	Points      int    `json:"task_points" validate:"min=0"`
}

type PrizeRequest struct {
	Name           string `json:"prize_name" validate:"required"`
	PointsRequired int    `json:"points_required" validate:"min=0"`
}

type JoinEventRequest struct {
	GamerID int64 `json:"gamer_id" validate:"required"`
}

type RedeemRequest struct {
	GamerID int64 `json:"gamer_id" validate:"required"`
	PrizeID int   `json:"prize_id" validate:"required"`
}

type BindCardRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
}

type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type GrantPointsRequest struct {
	Points    int    `json:"points" validate:"required"`
	EventCode string `json:"event_code"`
}

type SubmitRequest struct {
	GamerID   int64  `json:"gamer_id" validate:"required"`
	EventCode string `json:"event_code" validate:"required"`
	TaskID    int    `json:"task_id" validate:"required"`
	Filename  string `json:"filename" validate:"required"`
}

type ReviewRequest struct {
	Filename string `json:"filename" validate:"required"`
	TaskID   int    `json:"task_id" validate:"required"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}
