package dto

// UpdateProfileRequest represents profile update data. Phone is the account
// key and cannot change; role is only granted through admin tooling.
type UpdateProfileRequest struct {
	Name             string `json:"name" binding:"required"`
	StudentClass     string `json:"studentClass" binding:"required"`
	IsContactPrivate *bool  `json:"isContactPrivate" binding:"required"`
}
