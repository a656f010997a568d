package routes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/restynation/buythatworks/pkg/auth"
	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/events"
	"github.com/restynation/buythatworks/pkg/models"
	"github.com/restynation/buythatworks/pkg/store"
)

// defaultComputerTypeID is used when the catalog cannot be loaded.
const defaultComputerTypeID = 1

// validateCreateRequest applies the checks the server enforces no matter
// what the client already validated. It returns the first problem found.
func validateCreateRequest(req models.CreateSetupRequest, computerTypeID int) error {
	s := req.Setup
	if s.Name == "" || s.UserName == "" || s.PasswordHash == "" {
		return errors.New("Missing required setup fields")
	}
	if utf8.RuneCountInString(s.Name) > 200 {
		return errors.New("Setup name must be 200 characters or less")
	}
	if utf8.RuneCountInString(s.UserName) > 100 {
		return errors.New("User name must be 100 characters or less")
	}
	if utf8.RuneCountInString(s.Comment) > 500 {
		return errors.New("Comment must be 500 characters or less")
	}
	if !auth.IsHash(s.PasswordHash) {
		return errors.New("Invalid password hash")
	}
	if len(req.Blocks) == 0 {
		return errors.New("Setup must have at least one block")
	}

	computers := 0
	for _, b := range req.Blocks {
		if b.DeviceTypeID == computerTypeID {
			computers++
		}
	}
	if computers != 1 {
		return errors.New("Setup must have exactly one computer")
	}

	for _, b := range req.Blocks {
		if b.DeviceTypeID == computerTypeID && b.ProductID == nil {
			return errors.New("Computer blocks must have a product selected")
		}
		hasName := b.CustomName != nil && strings.TrimSpace(*b.CustomName) != ""
		if b.DeviceTypeID != computerTypeID && b.ProductID == nil && !hasName {
			return errors.New("Monitor, hub, mouse, and keyboard blocks must have either a product selected or a custom name")
		}
	}

	for _, e := range req.Edges {
		if e.SourceBlockID == e.TargetBlockID {
			return errors.New("A device cannot be connected to itself")
		}
	}
	return nil
}

func (wr *WebRouter) computerTypeID(r *http.Request) int {
	cat, err := wr.catalog.Load(r.Context())
	if err != nil {
		slog.Warn("catalog unavailable, assuming default computer type", "error", err)
		return defaultComputerTypeID
	}
	if dt, ok := cat.DeviceTypeByKind(catalog.KindComputer); ok {
		return dt.ID
	}
	return defaultComputerTypeID
}

func (wr *WebRouter) createSetup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := validateCreateRequest(req, wr.computerTypeID(r)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := wr.storage.Setups.Create(r.Context(), req)
	if errors.Is(err, store.ErrUnknownBlock) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid setup edges", Details: err.Error()})
		return
	}
	if err != nil {
		slog.Error("error creating setup", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create setup", Details: err.Error()})
		return
	}

	slog.Info("setup created", "setup_id", id, "blocks", len(req.Blocks), "edges", len(req.Edges))
	wr.events.Publish(events.Event{
		Kind:      events.SetupCreated,
		SetupID:   id,
		Name:      req.Setup.Name,
		IsCurrent: req.Setup.IsCurrent,
		At:        time.Now(),
	})
	writeJSON(w, http.StatusOK, models.CreateSetupResponse{SetupID: id})
}

func (wr *WebRouter) getSetup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	graph, err := wr.storage.Setups.GetGraph(r.Context(), id)
	if err != nil {
		slog.Error("error fetching setup", "setup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if graph == nil || graph.Setup.IsDeleted() {
		writeError(w, http.StatusNotFound, "Setup not found")
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

func (wr *WebRouter) deleteSetup(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.SetupID == "" || req.Pin == "" {
		writeError(w, http.StatusBadRequest, "Missing setupId or pin")
		return
	}
	if err := auth.ValidatePIN(req.Pin); err != nil {
		writeError(w, http.StatusBadRequest, "PIN must be 4 digits")
		return
	}

	setup, err := wr.storage.Setups.GetByID(r.Context(), req.SetupID)
	if err != nil {
		slog.Error("error fetching setup", "setup_id", req.SetupID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if setup == nil {
		writeError(w, http.StatusNotFound, "Setup not found")
		return
	}
	if setup.IsDeleted() {
		writeError(w, http.StatusBadRequest, "Setup already deleted")
		return
	}

	err = auth.VerifyPIN(setup.PasswordHash, req.Pin)
	if errors.Is(err, auth.ErrPINMismatch) {
		slog.Warn("delete refused, PIN mismatch", "setup_id", req.SetupID)
		writeError(w, http.StatusForbidden, "Invalid PIN")
		return
	}
	if err != nil {
		slog.Error("error verifying PIN", "setup_id", req.SetupID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch err := wr.storage.Setups.SoftDelete(r.Context(), req.SetupID); {
	case errors.Is(err, store.ErrAlreadyDeleted):
		writeError(w, http.StatusBadRequest, "Setup already deleted")
		return
	case errors.Is(err, store.ErrSetupNotFound):
		writeError(w, http.StatusNotFound, "Setup not found")
		return
	case err != nil:
		slog.Error("error deleting setup", "setup_id", req.SetupID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete setup")
		return
	}

	slog.Info("setup deleted", "setup_id", req.SetupID)
	wr.events.Publish(events.Event{
		Kind:      events.SetupDeleted,
		SetupID:   req.SetupID,
		Name:      setup.Name,
		IsCurrent: setup.IsCurrent,
		At:        time.Now(),
	})
	writeJSON(w, http.StatusOK, models.DeleteSetupResponse{Success: true})
}
