package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// updateProfileRequest carries the self-editable profile fields. Email and
// password are not bound: any such fields in the payload are silently dropped
// rather than merged.
type updateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Organization *string `json:"organization"`
	Role         *string `json:"role"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
