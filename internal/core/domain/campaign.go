package domain

import "time"

// CampaignStatus represents the moderation state of a campaign.
type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "pending"
	CampaignApproved CampaignStatus = "approved"
	CampaignRejected CampaignStatus = "rejected"
)

// validTransitions defines the allowed moderation state machine. The funded
// state is not stored: a campaign whose raised reaches its goal is deleted.
var validTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignPending: {CampaignApproved, CampaignRejected},
}

// DefaultRejectionReason is stored when an admin rejects a campaign without
// giving a reason. A rejected campaign never carries an empty reason.
const DefaultRejectionReason = "Not approved by admin"

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidCampaignStatus reports whether status names a stored moderation state.
func ValidCampaignStatus(status string) bool {
	switch CampaignStatus(status) {
	case CampaignPending, CampaignApproved, CampaignRejected:
		return true
	}
	return false
}

// Campaign is the core fundraising aggregate.
type Campaign struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	Title           string         `json:"title" bson:"title"`
	Description     string         `json:"description" bson:"description"`
	Category        string         `json:"category" bson:"category"`
	Goal            float64        `json:"goal" bson:"goal"`
	Raised          float64        `json:"raised" bson:"raised"`
	Status          CampaignStatus `json:"status" bson:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CreatorID       string         `json:"creator_id" bson:"creator_id"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

// Remaining is the largest contribution the campaign can still accept.
func (c *Campaign) Remaining() float64 {
	if r := c.Goal - c.Raised; r > 0 {
		return r
	}
	return 0
}

// FullyFunded reports whether the campaign has reached its goal.
func (c *Campaign) FullyFunded() bool {
	return c.Raised >= c.Goal
}
