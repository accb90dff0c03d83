package dto

// ErrorResponse is the uniform error payload of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AddChannelRequest creates or replaces a monitored channel. Only ID is
// required; everything else falls back to the registry defaults.
type AddChannelRequest struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	Keywords           []string `json:"keywords"`
	Inactive           bool     `json:"inactive"`
	MonitoringInterval int      `json:"monitoring_interval_seconds"`
}

// UpdateChannelRequest partially updates a channel; nil fields are left as
// they are.
type UpdateChannelRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Category           *string  `json:"category"`
	Priority           *string  `json:"priority"`
	Keywords           []string `json:"keywords"`
	IsActive           *bool    `json:"is_active"`
	MonitoringInterval *int     `json:"monitoring_interval_seconds"`
}

// ExportResponse wraps a channel list export in the requested format.
type ExportResponse struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}
