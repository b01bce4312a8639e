package request

// UpdateProfileRequest represents a profile update. Omitted fields are left
// unchanged, blank optional fields are cleared.
type UpdateProfileRequest struct {
	Name    *string `json:"name" schema:"name"`
	Phone   *string `json:"phone" schema:"phone"`
	Address *string `json:"address" schema:"address"`
	Gender  *string `json:"gender" schema:"gender"`
	DOB     *string `json:"dob" schema:"dob"`
}
