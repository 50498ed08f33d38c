// Package client implements the store's Remote collaborator over the HTTP
// API served by cmd/api. It performs no retries; every failure is categorized
// and handed back to the store unchanged.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/campus-oit/helpdesk-roster/internal/domain"
	"github.com/campus-oit/helpdesk-roster/internal/store"
)

type Client struct {
	baseURL string
	http    *http.Client

	// self is the authenticated user id, learned at login; availability
	// fetches for other users go through the supervisor route.
	self int64
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// envelope is the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, domain.ErrRemoteFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, domain.ErrRemoteFailure)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %v: %w", err, domain.ErrRemoteFailure)
	}
	if !env.Success {
		return fmt.Errorf("%s %s: %s: %w", method, path, env.Message, domain.ErrRemoteFailure)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload: %v: %w", err, domain.ErrRemoteFailure)
		}
	}
	return nil
}

// Login authenticates and stores the session cookie on the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	c.self = user.ID
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

/**********************************************
 * store.Remote implementation
 **********************************************/

var _ store.Remote = (*Client)(nil)

func (c *Client) FetchAvailability(ctx context.Context, ownerID int64) ([]domain.AvailabilitySlot, error) {
	path := "/availability/me"
	if ownerID != c.self {
		path = "/users/" + strconv.FormatInt(ownerID, 10) + "/availability"
	}
	var slots []domain.AvailabilitySlot
	if err := c.do(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) SaveAvailability(ctx context.Context, _ int64, slots []domain.AvailabilitySlot, recurring bool) ([]domain.AvailabilitySlot, error) {
	type slotPayload struct {
		DayOfWeek domain.Weekday `json:"dayOfWeek"`
		StartTime string         `json:"startTime"`
		EndTime   string         `json:"endTime"`
	}
	payload := struct {
		Slots       []slotPayload `json:"slots"`
		IsRecurring bool          `json:"isRecurring"`
	}{IsRecurring: recurring}
	for _, s := range slots {
		payload.Slots = append(payload.Slots, slotPayload{DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime})
	}

	var saved []domain.AvailabilitySlot
	if err := c.do(ctx, http.MethodPut, "/availability/me", payload, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *Client) FetchSchedules(ctx context.Context, filter store.ScheduleFilter) ([]domain.Schedule, error) {
	path := "/schedules"
	if filter.Status != "" {
		path += "?status=" + url.QueryEscape(string(filter.Status))
	}
	var schedules []domain.Schedule
	if err := c.do(ctx, http.MethodGet, path, nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) GenerateSchedule(ctx context.Context, weekStart time.Time, notes string) (*store.GenerateResult, error) {
	payload := struct {
		WeekStartDate string `json:"weekStartDate"`
		Notes         string `json:"notes"`
	}{WeekStartDate: weekStart.Format("2006-01-02"), Notes: notes}

	var result store.GenerateResult
	if err := c.do(ctx, http.MethodPost, "/schedules/generate", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) PublishSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	return c.scheduleAction(ctx, id, "publish")
}

func (c *Client) ArchiveSchedule(ctx context.Context, id int64) (*domain.Schedule, error) {
	return c.scheduleAction(ctx, id, "archive")
}

func (c *Client) scheduleAction(ctx context.Context, id int64, action string) (*domain.Schedule, error) {
	var sched domain.Schedule
	path := fmt.Sprintf("/schedules/%d/%s", id, action)
	if err := c.do(ctx, http.MethodPatch, path, nil, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/schedules/%d", id), nil, nil)
}

func (c *Client) FetchTimeOffRequests(ctx context.Context, scope store.Scope) ([]domain.TimeOffRequest, error) {
	var reqs []domain.TimeOffRequest
	if err := c.do(ctx, http.MethodGet, "/time-off?scope="+url.QueryEscape(string(scope)), nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *Client) CreateTimeOffRequest(ctx context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error) {
	payload := struct {
		Type      domain.TimeOffType `json:"type"`
		StartDate string             `json:"startDate"`
		EndDate   string             `json:"endDate"`
		Reason    string             `json:"reason"`
	}{
		Type:      req.Type,
		StartDate: req.StartDate.Format("2006-01-02"),
		EndDate:   req.EndDate.Format("2006-01-02"),
		Reason:    req.Reason,
	}

	var created domain.TimeOffRequest
	if err := c.do(ctx, http.MethodPost, "/time-off", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ReviewTimeOffRequest(ctx context.Context, id int64, approve bool) (*domain.TimeOffRequest, error) {
	var reviewed domain.TimeOffRequest
	path := fmt.Sprintf("/time-off/%d/review", id)
	if err := c.do(ctx, http.MethodPatch, path, map[string]bool{"approve": approve}, &reviewed); err != nil {
		return nil, err
	}
	return &reviewed, nil
}

func (c *Client) FetchShiftSwaps(ctx context.Context, scope store.Scope) ([]domain.ShiftSwap, error) {
	var swaps []domain.ShiftSwap
	if err := c.do(ctx, http.MethodGet, "/shift-swaps?scope="+url.QueryEscape(string(scope)), nil, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

func (c *Client) ProposeSwap(ctx context.Context, swap *domain.ShiftSwap) (*domain.ShiftSwap, error) {
	payload := struct {
		TargetID         int64  `json:"targetID"`
		RequesterShiftID int64  `json:"requesterShiftID"`
		Reason           string `json:"reason"`
	}{TargetID: swap.TargetID, RequesterShiftID: swap.RequesterShiftID, Reason: swap.Reason}

	var created domain.ShiftSwap
	if err := c.do(ctx, http.MethodPost, "/shift-swaps", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RespondToSwap(ctx context.Context, id int64, accept bool, targetShiftID *int64) (*domain.ShiftSwap, error) {
	payload := struct {
		Accept        bool   `json:"accept"`
		TargetShiftID *int64 `json:"targetShiftID,omitempty"`
	}{Accept: accept, TargetShiftID: targetShiftID}

	var swap domain.ShiftSwap
	path := fmt.Sprintf("/shift-swaps/%d/respond", id)
	if err := c.do(ctx, http.MethodPatch, path, payload, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *Client) CancelSwap(ctx context.Context, id int64) (*domain.ShiftSwap, error) {
	var swap domain.ShiftSwap
	path := fmt.Sprintf("/shift-swaps/%d/cancel", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *Client) ReviewSwap(ctx context.Context, id int64, approve bool) (*domain.ShiftSwap, error) {
	var swap domain.ShiftSwap
	path := fmt.Sprintf("/shift-swaps/%d/review", id)
	if err := c.do(ctx, http.MethodPatch, path, map[string]bool{"approve": approve}, &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *Client) FetchNotifications(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	path := fmt.Sprintf("/notifications/%d/read", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/notifications/read-all", nil, nil)
}
