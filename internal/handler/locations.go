package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
)

func (h *Handler) GetLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.repository.GetAllLocations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "locations fetched", locations)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required"`
		MinStaff int32  `json:"minStaff" validate:"gte=0"`
		MaxStaff int32  `json:"maxStaff" validate:"gte=0"`
		Priority int32  `json:"priority"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	loc := &domain.Location{
		Name:     req.Name,
		MinStaff: req.MinStaff,
		MaxStaff: req.MaxStaff,
		Priority: req.Priority,
		IsActive: true,
	}

	if err := loc.Validate(); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateLocation(loc); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "location created", loc)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid location id")
		return
	}

	loc, err := h.repository.GetLocationByID(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "location not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var req struct {
		Name     *string `json:"name"`
		MinStaff *int32  `json:"minStaff" validate:"omitempty,gte=0"`
		MaxStaff *int32  `json:"maxStaff" validate:"omitempty,gte=0"`
		Priority *int32  `json:"priority"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.MinStaff != nil {
		loc.MinStaff = *req.MinStaff
	}
	if req.MaxStaff != nil {
		loc.MaxStaff = *req.MaxStaff
	}
	if req.Priority != nil {
		loc.Priority = *req.Priority
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	if err := loc.Validate(); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.UpdateLocation(loc); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "update conflicted, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "location updated", loc)
}
