package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/restynation/buythatworks/internal/script"
	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/config"
	"github.com/restynation/buythatworks/pkg/editor"
	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/logging"
	"github.com/restynation/buythatworks/pkg/submission"
)

// session holds what every subcommand needs: a client for the server and
// the catalog it serves.
type session struct {
	client  *submission.HTTPClient
	catalog *catalog.Catalog
	log     *slog.Logger
}

func connect(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Client.Endpoint = endpoint
	}

	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	logger, err := logging.New(w, "debug", cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	client, err := submission.NewHTTPClient(cfg.Client.Endpoint, cfg.Client.Timeout)
	if err != nil {
		return nil, err
	}
	loader := catalog.NewLoader(client, cfg.Catalog.CacheTTL)
	defer loader.Stop()
	cat, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &session{client: client, catalog: cat, log: logger}, nil
}

// replay loads a script and builds it on a fresh canvas.
func (s *session) replay(path string) (*script.Script, *editor.Canvas, error) {
	sc, err := script.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	c, err := editor.NewCanvas(s.catalog, editor.WithLogger(s.log))
	if err != nil {
		return nil, nil, err
	}
	if _, err := script.Replay(c, sc); err != nil {
		return nil, nil, err
	}
	return sc, c, nil
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a setup script without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			sc, c, err := s.replay(args[0])
			if err != nil {
				return err
			}

			ok := reportGraph(c.Graph())
			form, err := sc.Form()
			if err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				ok = false
				reportValidation(err)
			}
			if !ok {
				return errors.New("script is not valid")
			}
			Good.Println("  Setup is valid")
			return nil
		},
	}
}

func submitCmd() *cobra.Command {
	var (
		dryRun          bool
		allowIncomplete bool
	)
	cmd := &cobra.Command{
		Use:   "submit <script>",
		Short: "Replay a setup script and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			sc, c, err := s.replay(args[0])
			if err != nil {
				return err
			}
			form, err := sc.Form()
			if err != nil {
				return err
			}

			var buildOpts []submission.BuildOption
			if allowIncomplete {
				buildOpts = append(buildOpts, submission.AllowIncompleteEdges())
			}

			if dryRun {
				if err := form.Validate(); err != nil {
					reportValidation(err)
					return errors.New("form is not valid")
				}
				if !reportGraph(c.Graph()) {
					return errors.New("setup is not valid")
				}
				req, err := submission.Build(c.Graph(), form, "<hash>", nil, buildOpts...)
				if err != nil {
					reportValidation(err)
					return errors.New("setup cannot be submitted")
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(req)
			}

			adapter := submission.NewAdapter(s.client,
				submission.WithBuildOptions(buildOpts...),
				submission.WithAdapterLogger(s.log))
			res, err := adapter.Submit(cmd.Context(), c.Graph(), form)
			if err != nil {
				var rejected *submission.RejectedError
				if errors.As(err, &rejected) {
					return errors.New(rejected.UserMessage())
				}
				reportValidation(err)
				return errors.New("setup was not submitted")
			}

			Good.Printf("  Setup %q submitted\n", form.Name)
			fmt.Printf("  %s  %s\n", Title.Sprintf("%-10s", "ID"), res.SetupID)
			if res.ImageURL != nil {
				fmt.Printf("  %s  %s\n", Title.Sprintf("%-10s", "Image"), *res.ImageURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the request instead of sending it")
	cmd.Flags().BoolVar(&allowIncomplete, "allow-incomplete", false, "Fill missing cable ports with a default port type")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <setup-id>",
		Short: "Print a stored setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			sg, err := s.client.GetSetup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c, err := editor.NewCanvas(s.catalog, editor.WithLogger(s.log))
			if err != nil {
				return err
			}
			c.Load(sg)
			g := c.Graph()

			Title.Println("  " + sg.Setup.Name)
			kind := "dream"
			if sg.Setup.IsCurrent {
				kind = "current"
			}
			fmt.Printf("  %s  %s, %s\n", Subtle.Sprint("by"), sg.Setup.UserName, kind)
			if sg.Setup.Comment != nil {
				fmt.Printf("  %s\n", *sg.Setup.Comment)
			}
			if sg.Setup.DaisyChain {
				Warn.Println("  Monitors are daisy-chained")
			}
			fmt.Println()

			rows := make([][]string, 0, len(g.Nodes()))
			for _, n := range g.Nodes() {
				rows = append(rows, []string{n.Kind.String(), g.DisplayName(n), strconv.Itoa(g.Degree(n.ID))})
			}
			table([]string{"TYPE", "DEVICE", "CABLES"}, rows)
			fmt.Println()

			rows = rows[:0]
			for _, e := range g.Edges() {
				ee, err := editor.NewEdgeEditor(c, e.ID, editor.ReadOnly())
				if err != nil {
					return err
				}
				src, _ := g.Node(e.Source)
				dst, _ := g.Node(e.Target)
				label := ee.Label()
				if label == "" {
					label = ee.State().String()
				}
				rows = append(rows, []string{g.DisplayName(src), g.DisplayName(dst), label})
			}
			table([]string{"FROM", "TO", "PORTS"}, rows)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var pin string
	cmd := &cobra.Command{
		Use:   "delete <setup-id>",
		Short: "Delete a setup using its PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.client.DeleteSetup(cmd.Context(), args[0], pin); err != nil {
				var rejected *submission.RejectedError
				if errors.As(err, &rejected) {
					return errors.New(rejected.Message)
				}
				return err
			}
			Good.Printf("  Setup %s deleted\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "The setup's 4-digit PIN")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List device types, port types and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context())
			if err != nil {
				return err
			}

			var rows [][]string
			for _, dt := range s.catalog.DeviceTypes() {
				rows = append(rows, []string{strconv.Itoa(dt.ID), dt.Name, strconv.Itoa(len(s.catalog.ProductsFor(dt.ID)))})
			}
			table([]string{"ID", "DEVICE TYPE", "PRODUCTS"}, rows)
			fmt.Println()

			rows = nil
			for _, pt := range s.catalog.SelectablePortTypes() {
				rows = append(rows, []string{strconv.Itoa(pt.ID), string(pt.Normalized)})
			}
			table([]string{"ID", "PORT"}, rows)
			fmt.Println()

			rows = nil
			for _, dt := range s.catalog.DeviceTypes() {
				for _, p := range s.catalog.ProductsFor(dt.ID) {
					rows = append(rows, []string{strconv.Itoa(p.ID), dt.Name, p.GetDisplayName()})
				}
			}
			table([]string{"ID", "TYPE", "PRODUCT"}, rows)
			return nil
		},
	}
}

// reportGraph prints validation problems and reports whether there were none.
func reportGraph(g *graph.Graph) bool {
	res := graph.Validate(g)
	for _, msg := range res.Errors {
		Bad.Printf("  ✗ %s\n", msg)
	}
	for _, e := range g.IncompleteEdges() {
		src, _ := g.Node(e.Source)
		dst, _ := g.Node(e.Target)
		Warn.Printf("  ! cable %s to %s has no port selected\n", g.DisplayName(src), g.DisplayName(dst))
	}
	return res.Valid
}

func reportValidation(err error) {
	var verr *submission.ValidationError
	var serr *graph.StructuralError
	switch {
	case errors.As(err, &verr):
		for _, msg := range verr.Messages {
			Bad.Printf("  ✗ %s\n", msg)
		}
	case errors.As(err, &serr):
		for _, msg := range serr.Violations {
			Bad.Printf("  ✗ %s\n", msg)
		}
	default:
		Bad.Printf("  ✗ %v\n", err)
	}
}
