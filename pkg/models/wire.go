package models

// CreateSetupRequest is the body accepted by POST /api/setups.
type CreateSetupRequest struct {
	Setup  SetupPayload   `json:"setup"`
	Blocks []BlockPayload `json:"blocks"`
	Edges  []EdgePayload  `json:"edges"`
}

type SetupPayload struct {
	Name                string  `json:"name"`
	UserName            string  `json:"user_name"`
	PasswordHash        string  `json:"password_hash"`
	IsCurrent           bool    `json:"is_current"`
	Comment             string  `json:"comment"`
	ImageURL            *string `json:"image_url,omitempty"`
	DaisyChain          bool    `json:"daisy_chain"`
	BuiltinDisplayUsage *bool   `json:"builtin_display_usage"`
}

// BlockPayload carries the editor's node id so edges can refer to blocks
// before the server has assigned them storage ids.
type BlockPayload struct {
	NodeID       string  `json:"node_id"`
	ProductID    *int    `json:"product_id"`
	CustomName   *string `json:"custom_name"`
	DeviceTypeID int     `json:"device_type_id"`
	PositionX    float64 `json:"position_x"`
	PositionY    float64 `json:"position_y"`
}

type EdgePayload struct {
	SourceBlockID    string `json:"source_block_id"`
	TargetBlockID    string `json:"target_block_id"`
	SourcePortTypeID int    `json:"source_port_type_id"`
	TargetPortTypeID int    `json:"target_port_type_id"`
}

type CreateSetupResponse struct {
	SetupID string `json:"setupId"`
}

type DeleteSetupRequest struct {
	SetupID string `json:"setupId"`
	Pin     string `json:"pin"`
}

type DeleteSetupResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}
