package submission

import (
	"fmt"
	"strings"

	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

type buildConfig struct {
	allowIncomplete bool
}

type BuildOption func(*buildConfig)

// AllowIncompleteEdges sends edges with a missing port using the lowest
// catalog port type id instead of refusing them.
func AllowIncompleteEdges() BuildOption {
	return func(c *buildConfig) { c.allowIncomplete = true }
}

// Build converts g and form into the create-setup payload. passwordHash must
// already be hashed; imageURL is nil when no image was uploaded.
func Build(g *graph.Graph, form Form, passwordHash string, imageURL *string, opts ...BuildOption) (models.CreateSetupRequest, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	edges := g.Edges()
	if !cfg.allowIncomplete {
		var msgs []string
		for _, e := range g.IncompleteEdges() {
			msgs = append(msgs, fmt.Sprintf("Connection between %q and %q needs both ports",
				nodeName(g, e.Source), nodeName(g, e.Target)))
		}
		if len(msgs) > 0 {
			return models.CreateSetupRequest{}, &ValidationError{Messages: msgs}
		}
	}
	fallback := fallbackPortID(g)

	req := models.CreateSetupRequest{
		Setup: models.SetupPayload{
			Name:                strings.TrimSpace(form.Name),
			UserName:            strings.TrimSpace(form.BuilderName),
			PasswordHash:        passwordHash,
			IsCurrent:           form.SetupType == Current,
			Comment:             form.Comment,
			ImageURL:            imageURL,
			DaisyChain:          graph.DaisyChain(g),
			BuiltinDisplayUsage: builtinDisplayUsage(g, form),
		},
		Blocks: []models.BlockPayload{},
		Edges:  []models.EdgePayload{},
	}

	for _, n := range g.Nodes() {
		b := models.BlockPayload{
			NodeID:       string(n.ID),
			DeviceTypeID: n.DeviceTypeID,
			PositionX:    n.Position.X,
			PositionY:    n.Position.Y,
		}
		switch n.Assignment.Kind() {
		case graph.ProductAssigned:
			id := n.Assignment.ProductID
			b.ProductID = &id
		case graph.CustomNamed:
			name := strings.TrimSpace(n.Assignment.Label)
			b.CustomName = &name
		}
		req.Blocks = append(req.Blocks, b)
	}

	for _, e := range edges {
		src, dst := e.SourcePortTypeID, e.TargetPortTypeID
		if src == 0 {
			src = fallback
		}
		if dst == 0 {
			dst = fallback
		}
		req.Edges = append(req.Edges, models.EdgePayload{
			SourceBlockID:    string(e.Source),
			TargetBlockID:    string(e.Target),
			SourcePortTypeID: src,
			TargetPortTypeID: dst,
		})
	}
	return req, nil
}

func nodeName(g *graph.Graph, id graph.NodeID) string {
	n, ok := g.Node(id)
	if !ok {
		return string(id)
	}
	return g.DisplayName(n)
}

func fallbackPortID(g *graph.Graph) int {
	lowest := 0
	for _, pt := range g.Catalog().PortTypes() {
		if lowest == 0 || pt.ID < lowest {
			lowest = pt.ID
		}
	}
	return lowest
}

func builtinDisplayUsage(g *graph.Graph, form Form) *bool {
	if form.BuiltinDisplayUsable == nil {
		return nil
	}
	computer, ok := g.Computer()
	if !ok || computer.Assignment.Kind() != graph.ProductAssigned {
		return nil
	}
	p, ok := g.Catalog().Product(computer.Assignment.ProductID)
	if !ok || !p.IsBuiltinDisplay {
		return nil
	}
	v := *form.BuiltinDisplayUsable
	return &v
}
