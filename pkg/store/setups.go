package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/restynation/buythatworks/pkg/models"
)

var (
	ErrSetupNotFound  = errors.New("setup not found")
	ErrAlreadyDeleted = errors.New("setup already deleted")
	// ErrUnknownBlock means an edge referenced a node_id with no block.
	ErrUnknownBlock = errors.New("edge references an unknown block")
)

type SetupStore interface {
	// Create stores the setup with its blocks and edges in one transaction
	// and returns the new setup id.
	Create(ctx context.Context, req models.CreateSetupRequest) (string, error)
	GetByID(ctx context.Context, id string) (*models.Setup, error)
	GetGraph(ctx context.Context, id string) (*models.SetupGraph, error)
	// SoftDelete sets deleted_at. It returns ErrSetupNotFound or ErrAlreadyDeleted.
	SoftDelete(ctx context.Context, id string) error
}

type postgresSetupStore struct {
	db *sqlx.DB
}

func NewSetups(dbconn *sqlx.DB) SetupStore {
	return &postgresSetupStore{db: dbconn}
}

func (b *postgresSetupStore) Create(ctx context.Context, req models.CreateSetupRequest) (string, error) {
	setup, blocks, edges, err := newSetupRecords(req)
	if err != nil {
		return "", err
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	stmt := `
	INSERT INTO setups (id, name, user_name, password_hash, is_current, comment, image_url, daisy_chain, builtin_display_usage)
	VALUES (:id, :name, :user_name, :password_hash, :is_current, :comment, :image_url, :daisy_chain, :builtin_display_usage);
	`
	if _, err := tx.NamedExecContext(ctx, stmt, setup); err != nil {
		return "", fmt.Errorf("inserting setup: %w", err)
	}

	if len(blocks) > 0 {
		stmt = `
		INSERT INTO setup_blocks (id, setup_id, product_id, custom_name, device_type_id, position_x, position_y, ordinal)
		VALUES (:id, :setup_id, :product_id, :custom_name, :device_type_id, :position_x, :position_y, :ordinal)
		`
		if _, err := tx.NamedExecContext(ctx, stmt, blocks); err != nil {
			return "", fmt.Errorf("inserting setup blocks: %w", err)
		}
	}

	if len(edges) > 0 {
		stmt = `
		INSERT INTO setup_edges (id, setup_id, source_block_id, target_block_id, source_port_type_id, target_port_type_id, ordinal)
		VALUES (:id, :setup_id, :source_block_id, :target_block_id, :source_port_type_id, :target_port_type_id, :ordinal)
		`
		if _, err := tx.NamedExecContext(ctx, stmt, edges); err != nil {
			return "", fmt.Errorf("inserting setup edges: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return setup.ID, nil
}

func (b *postgresSetupStore) GetByID(ctx context.Context, id string) (*models.Setup, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var setup models.Setup
	err := b.db.GetContext(ctx, &setup, `SELECT s.* FROM setups s WHERE s.id = $1;`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

func (b *postgresSetupStore) GetGraph(ctx context.Context, id string) (*models.SetupGraph, error) {
	setup, err := b.GetByID(ctx, id)
	if err != nil || setup == nil {
		return nil, err
	}
	graph := &models.SetupGraph{
		Setup:  *setup,
		Blocks: []models.SetupBlock{},
		Edges:  []models.SetupEdge{},
	}
	if err := b.db.SelectContext(ctx, &graph.Blocks, `SELECT * FROM setup_blocks WHERE setup_id = $1 ORDER BY ordinal, id;`, id); err != nil {
		return nil, fmt.Errorf("loading setup blocks: %w", err)
	}
	if err := b.db.SelectContext(ctx, &graph.Edges, `SELECT * FROM setup_edges WHERE setup_id = $1 ORDER BY ordinal, id;`, id); err != nil {
		return nil, fmt.Errorf("loading setup edges: %w", err)
	}
	return graph, nil
}

func (b *postgresSetupStore) SoftDelete(ctx context.Context, id string) error {
	stmt := `
	UPDATE setups
	SET deleted_at = now(), updated_at = now()
	WHERE id = $1 AND deleted_at IS NULL;
	`
	if _, err := uuid.Parse(id); err != nil {
		return ErrSetupNotFound
	}
	res, err := b.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return nil
	}

	setup, err := b.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if setup == nil {
		return ErrSetupNotFound
	}
	return ErrAlreadyDeleted
}

// newSetupRecords assigns stored ids and request-order ordinals, and maps
// edge endpoints from client node ids to block ids.
func newSetupRecords(req models.CreateSetupRequest) (models.Setup, []models.SetupBlock, []models.SetupEdge, error) {
	setup := models.Setup{
		ID:                  uuid.NewString(),
		Name:                req.Setup.Name,
		UserName:            req.Setup.UserName,
		PasswordHash:        req.Setup.PasswordHash,
		IsCurrent:           req.Setup.IsCurrent,
		ImageURL:            req.Setup.ImageURL,
		DaisyChain:          req.Setup.DaisyChain,
		BuiltinDisplayUsage: req.Setup.BuiltinDisplayUsage,
	}
	if req.Setup.Comment != "" {
		comment := req.Setup.Comment
		setup.Comment = &comment
	}

	blocks := make([]models.SetupBlock, 0, len(req.Blocks))
	blockIDs := make(map[string]string, len(req.Blocks))
	for i, bp := range req.Blocks {
		block := models.SetupBlock{
			ID:           uuid.NewString(),
			SetupID:      setup.ID,
			ProductID:    bp.ProductID,
			CustomName:   bp.CustomName,
			DeviceTypeID: bp.DeviceTypeID,
			PositionX:    bp.PositionX,
			PositionY:    bp.PositionY,
			Ordinal:      i,
		}
		if bp.NodeID != "" {
			blockIDs[bp.NodeID] = block.ID
		}
		blocks = append(blocks, block)
	}

	edges := make([]models.SetupEdge, 0, len(req.Edges))
	for i, ep := range req.Edges {
		src, ok := blockIDs[ep.SourceBlockID]
		if !ok {
			return setup, nil, nil, fmt.Errorf("%w: %s", ErrUnknownBlock, ep.SourceBlockID)
		}
		dst, ok := blockIDs[ep.TargetBlockID]
		if !ok {
			return setup, nil, nil, fmt.Errorf("%w: %s", ErrUnknownBlock, ep.TargetBlockID)
		}
		edges = append(edges, models.SetupEdge{
			ID:               uuid.NewString(),
			SetupID:          setup.ID,
			SourceBlockID:    src,
			TargetBlockID:    dst,
			SourcePortTypeID: ep.SourcePortTypeID,
			TargetPortTypeID: ep.TargetPortTypeID,
			Ordinal:          i,
		})
	}

	return setup, blocks, edges, nil
}
