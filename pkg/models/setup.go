package models

import "time"

// Setup is a stored device combination. Deletion is soft: DeletedAt is set
// once the owner proves knowledge of the PIN.
type Setup struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	UserName            string     `db:"user_name" json:"user_name"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	IsCurrent           bool       `db:"is_current" json:"is_current"`
	Comment             *string    `db:"comment" json:"comment,omitempty"`
	ImageURL            *string    `db:"image_url" json:"image_url,omitempty"`
	DaisyChain          bool       `db:"daisy_chain" json:"daisy_chain"`
	BuiltinDisplayUsage *bool      `db:"builtin_display_usage" json:"builtin_display_usage"`
	Created             time.Time  `db:"created_at" json:"created_at"`
	Updated             time.Time  `db:"updated_at" json:"updated_at"`
	Deleted             *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

func (s *Setup) IsDeleted() bool {
	return s.Deleted != nil
}

// SetupBlock is the persisted form of an editor device node.
type SetupBlock struct {
	ID           string  `db:"id" json:"id"`
	SetupID      string  `db:"setup_id" json:"setup_id"`
	ProductID    *int    `db:"product_id" json:"product_id,omitempty"`
	CustomName   *string `db:"custom_name" json:"custom_name,omitempty"`
	DeviceTypeID int     `db:"device_type_id" json:"device_type_id"`
	PositionX    float64 `db:"position_x" json:"position_x"`
	PositionY    float64 `db:"position_y" json:"position_y"`
	// Ordinal is the block's position in the create request.
	Ordinal      int     `db:"ordinal" json:"-"`
}

// SetupEdge is a stored cable between two blocks. Handles are not stored;
// the editor infers them from block positions when loading.
type SetupEdge struct {
	ID               string `db:"id" json:"id"`
	SetupID          string `db:"setup_id" json:"setup_id"`
	SourceBlockID    string `db:"source_block_id" json:"source_block_id"`
	TargetBlockID    string `db:"target_block_id" json:"target_block_id"`
	SourcePortTypeID int    `db:"source_port_type_id" json:"source_port_type_id"`
	TargetPortTypeID int    `db:"target_port_type_id" json:"target_port_type_id"`
	Ordinal          int    `db:"ordinal" json:"-"`
}

// SetupGraph is a setup together with its blocks and edges.
type SetupGraph struct {
	Setup  Setup        `json:"setup"`
	Blocks []SetupBlock `json:"blocks"`
	Edges  []SetupEdge  `json:"edges"`
}
