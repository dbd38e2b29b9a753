package handler

type createCampaignRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category"    validate:"required"`
	Goal        float64 `json:"goal"        validate:"required,gt=0"`
}

type rejectCampaignRequest struct {
	// Reason may be empty; a default reason is stored in that case.
	Reason string `json:"reason"`
}

type donateRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
