package submission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/restynation/buythatworks/pkg/auth"
	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

// Client is the server side of a submission.
type Client interface {
	CreateSetup(ctx context.Context, req models.CreateSetupRequest) (string, error)
	UploadImage(ctx context.Context, img Image) (string, error)
}

// Result describes an accepted submission.
type Result struct {
	SetupID  string
	ImageURL *string
	Request  models.CreateSetupRequest
}

// Adapter validates, serializes and relays a setup. It never retries and
// never mutates the graph, so a failed submission can be fixed and resent.
type Adapter struct {
	client    Client
	hash      func(pin string) (string, error)
	buildOpts []BuildOption
	log       *slog.Logger
}

type AdapterOption func(*Adapter)

// WithHasher replaces the PIN hash function. Tests use it to skip bcrypt.
func WithHasher(fn func(pin string) (string, error)) AdapterOption {
	return func(a *Adapter) { a.hash = fn }
}

func WithBuildOptions(opts ...BuildOption) AdapterOption {
	return func(a *Adapter) { a.buildOpts = append(a.buildOpts, opts...) }
}

func WithAdapterLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.log = l }
}

func NewAdapter(client Client, opts ...AdapterOption) *Adapter {
	a := &Adapter{client: client, hash: auth.HashPIN, log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "submission")
	return a
}

// Submit checks the form, then the graph, then uploads the image of a
// current setup and sends the create request.
//
// Local problems come back as *ValidationError or *graph.StructuralError;
// a refusal from the server as *RejectedError.
func (a *Adapter) Submit(ctx context.Context, g *graph.Graph, form Form) (Result, error) {
	if err := form.Validate(); err != nil {
		return Result{}, err
	}
	if err := graph.Validate(g).Err(); err != nil {
		return Result{}, err
	}
	// Build once up front so edge problems surface before the upload.
	if _, err := Build(g, form, "", nil, a.buildOpts...); err != nil {
		return Result{}, err
	}

	var imageURL *string
	if form.Image != nil && form.SetupType == Current {
		url, err := a.client.UploadImage(ctx, *form.Image)
		if err != nil {
			a.log.Error("image upload failed", "error", err)
			return Result{}, fmt.Errorf("uploading image: %w", err)
		}
		imageURL = &url
	}

	hash, err := a.hash(form.PIN)
	if err != nil {
		return Result{}, fmt.Errorf("hashing PIN: %w", err)
	}

	req, err := Build(g, form, hash, imageURL, a.buildOpts...)
	if err != nil {
		return Result{}, err
	}

	id, err := a.client.CreateSetup(ctx, req)
	if err != nil {
		a.log.Error("setup submission failed", "error", err)
		return Result{}, err
	}
	a.log.Info("setup submitted", "setup_id", id, "blocks", len(req.Blocks), "edges", len(req.Edges))
	return Result{SetupID: id, ImageURL: imageURL, Request: req}, nil
}
