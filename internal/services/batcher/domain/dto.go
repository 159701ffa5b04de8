package domain

// EmbedRequest is the inbound body for both embedding routes
// an empty inputs array is valid and yields an empty result
type EmbedRequest struct {
	Inputs []string `json:"inputs" validate:"required,dive,maxbytes=1048576" example:"hello,world"`
}
