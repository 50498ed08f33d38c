package handler

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/interval"
)

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slots, err := h.repository.GetAvailabilityByUser(actor.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability fetched", slots)
}

func (h *Handler) PutMyAvailability(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var req struct {
		Slots []struct {
			DayOfWeek string `json:"dayOfWeek" validate:"required"`
			StartTime string `json:"startTime" validate:"required"`
			EndTime   string `json:"endTime" validate:"required"`
		} `json:"slots" validate:"dive"`
		IsRecurring bool `json:"isRecurring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slots := make([]domain.AvailabilitySlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, domain.AvailabilitySlot{
			UserID:      actor.ID,
			DayOfWeek:   domain.Weekday(s.DayOfWeek),
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsRecurring: req.IsRecurring,
		})
	}

	// Overlapping or adjacent submissions collapse to the canonical form
	// before anything is stored.
	normalized, err := interval.Normalize(actor.ID, slots, req.IsRecurring)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	saved, err := h.repository.ReplaceAvailability(actor.ID, normalized)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability saved", saved)
}

func (h *Handler) GetUserAvailability(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	slots, err := h.repository.GetAvailabilityByUser(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability fetched", slots)
}

// ImportAvailabilityCSV bulk-loads recurring availability from the staffing
// spreadsheet export: Name, Max_Hours, then one column per day-hour cell
// (Monday_8:00 through Friday_17:00). Each named user's week is replaced
// wholesale with the canonical merged form of their marked cells.
func (h *Handler) ImportAvailabilityCSV(w http.ResponseWriter, r *http.Request) {
	reader := csv.NewReader(r.Body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		h.errorResponse(w, r, "empty or malformed csv")
		return
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(header[0]), "name") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "max_hours") {
		h.errorResponse(w, r, "csv header must start with Name, Max_Hours")
		return
	}

	type cell struct {
		day  domain.Weekday
		hour int
	}
	cells := make([]cell, 0, len(header)-2)
	for _, column := range header[2:] {
		day, hour, err := parseCellColumn(column)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		cells = append(cells, cell{day: day, hour: hour})
	}

	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	byName := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byName[strings.ToLower(u.FullName())] = u
	}

	imported := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.errorResponse(w, r, fmt.Sprintf("malformed csv: %v", err))
			return
		}
		line++

		name := strings.TrimSpace(record[0])
		user, ok := byName[strings.ToLower(name)]
		if !ok {
			h.errorResponse(w, r, fmt.Sprintf("row %d: unknown user %q", line, name))
			return
		}

		grid := interval.Grid{}
		for i, value := range record[2:] {
			if markedCell(value) {
				grid[cells[i].day] = append(grid[cells[i].day], cells[i].hour)
			}
		}
		slots, err := interval.SlotsFromGrid(user.ID, grid, true)
		if err != nil {
			h.errorResponse(w, r, fmt.Sprintf("row %d: %v", line, err))
			return
		}
		if _, err := h.repository.ReplaceAvailability(user.ID, slots); err != nil {
			h.internalServerError(w, r, err)
			return
		}

		if maxHours := strings.TrimSpace(record[1]); maxHours != "" {
			parsed, err := strconv.ParseFloat(maxHours, 64)
			if err != nil || parsed < 0 || parsed > 40 {
				h.errorResponse(w, r, fmt.Sprintf("row %d: bad max hours %q", line, maxHours))
				return
			}
			if parsed != user.MaxHoursPerWeek {
				user.MaxHoursPerWeek = parsed
				if err := h.repository.UpdateUser(user); err != nil {
					switch {
					case errors.Is(err, sql.ErrNoRows):
						h.errorResponse(w, r, fmt.Sprintf("row %d: update conflicted, please retry", line))
					default:
						h.internalServerError(w, r, err)
					}
					return
				}
			}
		}
		imported++
	}

	h.successResponse(w, r, fmt.Sprintf("availability imported for %d users", imported), nil)
}

// parseCellColumn splits a "Monday_8:00" style header column into its day and
// starting hour.
func parseCellColumn(column string) (domain.Weekday, int, error) {
	dayPart, hourPart, found := strings.Cut(strings.TrimSpace(column), "_")
	if !found {
		return "", 0, fmt.Errorf("bad availability column %q", column)
	}
	day := domain.Weekday(dayPart)
	if !day.Valid() {
		return "", 0, fmt.Errorf("bad day in column %q", column)
	}
	hourText, _, _ := strings.Cut(hourPart, ":")
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < interval.DayStartHour || hour >= interval.DayEndHour {
		return "", 0, fmt.Errorf("bad hour in column %q", column)
	}
	return day, hour, nil
}

func markedCell(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "x", "yes", "y":
		return true
	default:
		return false
	}
}
