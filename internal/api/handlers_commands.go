// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/catalog"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/dispatch"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/validation"
)

// commandResponse is the body of POST /button/{commandID}. Clients is only
// present when a frame was broadcast.
type commandResponse struct {
	dispatch.Outcome
	Clients *int `json:"clients,omitempty"`
}

// CommandsResponse lists the catalog.
type CommandsResponse struct {
	Commands []catalog.Command `json:"commands"`
}

// Button executes a direct command. The balance comes from the JSON body,
// else the user_points query parameter, else the configured default.
func (h *Handler) Button(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "commandID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "commandID must be an integer", err)
		return
	}

	body, err := readBody(w, r, h.cfg.MaxBodyBytes)
	if err != nil {
		respondBodyError(w, r, err)
		return
	}

	cmd := dispatch.CommandRequest{Code: code, Balance: h.cfg.DefaultBalance}

	if len(bytes.TrimSpace(body)) > 0 {
		var req ButtonRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", err)
			return
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondValidationError(w, r, verr)
			return
		}
		if req.UserPoints != nil {
			cmd.Balance = *req.UserPoints
		}
		if req.Username != nil {
			cmd.Username = *req.Username
		}
		if req.UserID != nil {
			cmd.UserID = *req.UserID
		}
		cmd.FishIndex = req.FishIndex
	} else if raw := r.URL.Query().Get("user_points"); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "user_points must be an integer", err)
			return
		}
		cmd.Balance = points
	}

	out := h.deps.Router.ExecuteCommand(r.Context(), cmd)

	resp := commandResponse{Outcome: out}
	if out.Delivered() {
		n := out.Recipients()
		resp.Clients = &n
	}
	respondJSON(w, http.StatusOK, resp)
}

// Commands lists the command catalog.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CommandsResponse{Commands: h.deps.Catalog.Commands()})
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}

func respondBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large", err)
		return
	}
	respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", err)
}
