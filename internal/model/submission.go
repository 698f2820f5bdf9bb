package model

// Submission review states. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission is one uploaded proof-of-completion image awaiting moderator
// review. The file itself is relayed by the bot; only metadata is stored.
type Submission struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	GamerID    int64  `json:"gamer_id"`
	EventCode  string `json:"event_code"`
	TaskID     int    `json:"task_id"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
	ReviewedAt string `json:"reviewed_at,omitempty"`
}
