package dto

// CreatePartnerDTO is parsed from the "data" multipart field (JSON); the logo
// file rides alongside it in the "logo" field. The struct is decoded with
// json.Unmarshal rather than gin binding, so length/URL limits are enforced
// in the controller.
type CreatePartnerDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

type UpdatePartnerDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}
