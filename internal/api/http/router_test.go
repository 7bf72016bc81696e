package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/api/http/handlers"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/auth"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/domain"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/events"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/observability"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/repository"
	"github.com/Kevin-Shelton/inv-timesheet-backend/internal/service"
)

type memTimesheetRepo struct {
	entries map[string]*domain.TimesheetEntry
	nextID  int
}

func (r *memTimesheetRepo) Create(_ context.Context, entry *domain.TimesheetEntry) error {
	r.nextID++
	entry.ID = fmt.Sprintf("ts-%d", r.nextID)
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memTimesheetRepo) Update(_ context.Context, entry *domain.TimesheetEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *memTimesheetRepo) GetByID(_ context.Context, id string) (*domain.TimesheetEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *memTimesheetRepo) ExistsForUserAndDate(_ context.Context, userID, date string) (bool, error) {
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTimesheetRepo) ListWithFilter(_ context.Context, filter repository.TimesheetFilter) ([]domain.TimesheetEntry, error) {
	var result []domain.TimesheetEntry
	for _, entry := range r.entries {
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.CampaignID != nil && entry.CampaignID != *filter.CampaignID {
			continue
		}
		result = append(result, *entry)
	}
	return result, nil
}

func (r *memTimesheetRepo) UpdateStatus(_ context.Context, id string, from, to domain.TimesheetStatus, change repository.StatusChange) (*domain.TimesheetEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if entry.Status != from {
		return nil, repository.ErrStaleStatus
	}
	entry.Status = to
	if change.SubmittedAt != nil {
		entry.SubmittedAt = change.SubmittedAt
	}
	if change.ApproverID != nil {
		entry.ApproverID = change.ApproverID
	}
	if change.Comments != nil {
		entry.ApproverComments = change.Comments
	}
	if change.DecisionAt != nil {
		entry.DecisionAt = change.DecisionAt
	}
	copied := *entry
	return &copied, nil
}

func (r *memTimesheetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.entries, id)
	return nil
}

type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ListWithFilter(_ context.Context, _ repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r *memUserRepo) SetActive(_ context.Context, id string, active bool) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

type capturingRecorder struct {
	records []domain.AuditRecord
}

func (r *capturingRecorder) Record(record domain.AuditRecord) {
	r.records = append(r.records, record)
}

func (r *capturingRecorder) actions() []string {
	var result []string
	for _, record := range r.records {
		result = append(result, record.Action)
	}
	return result
}

type workflowFixture struct {
	app    *fiber.App
	tokens *auth.TokenManager
	audit  *capturingRecorder
}

func campaignPtr(id string) *string { return &id }

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	users := &memUserRepo{users: map[string]*domain.User{
		"member-1": {ID: "member-1", Email: "member@example.com", Role: domain.RoleTeamMember,
			CampaignID: campaignPtr("camp-1"), IsActive: true},
		"lead-1": {ID: "lead-1", Email: "lead@example.com", Role: domain.RoleCampaignLead,
			CampaignID: campaignPtr("camp-1"), IsActive: true},
	}}
	timesheets := &memTimesheetRepo{entries: make(map[string]*domain.TimesheetEntry)}

	timesheetService := service.NewTimesheetService(service.TimesheetDependencies{
		TimesheetRepo: timesheets,
		UserRepo:      users,
		Dispatcher:    events.NewInMemoryDispatcher(),
	})

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authMiddleware := auth.NewMiddleware(tokens, nil)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second)

	recorder := &capturingRecorder{}
	timesheetsHandler := handlers.NewTimesheetsHandler(timesheetService, recorder)
	api := app.Group("/api")
	group := api.Group("/timesheets", authMiddleware.Handle)
	group.Post("/", timesheetsHandler.Create)
	group.Put("/:id/submit", timesheetsHandler.Submit)
	group.Put("/:id/approve", auth.RequireCampaignLead(), timesheetsHandler.Approve)
	group.Put("/:id/reject", auth.RequireCampaignLead(), timesheetsHandler.Reject)

	return &workflowFixture{app: app, tokens: tokens, audit: recorder}
}

func (f *workflowFixture) token(t *testing.T, userID string, role domain.Role, campaignID *string) string {
	t.Helper()
	token, _, err := f.tokens.Issue(userID, role, campaignID)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestWorkflowHappyPath(t *testing.T) {
	f := newWorkflowFixture(t)
	memberToken := f.token(t, "member-1", domain.RoleTeamMember, campaignPtr("camp-1"))
	leadToken := f.token(t, "lead-1", domain.RoleCampaignLead, campaignPtr("camp-1"))

	status, body := doJSON(t, f.app, "POST", "/api/timesheets/", memberToken,
		map[string]any{"date": "2026-03-02"})
	require.Equal(t, fiber.StatusCreated, status)
	entry := body["data"].(map[string]any)
	id := entry["id"].(string)
	assert.Equal(t, "draft", entry["status"])

	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/submit", memberToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "submitted", body["data"].(map[string]any)["status"])

	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/approve", leadToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	approved := body["data"].(map[string]any)
	assert.Equal(t, "approved", approved["status"])
	assert.Equal(t, "lead-1", approved["approver_id"])

	assert.Equal(t, []string{"timesheet_created", "timesheet_submitted", "timesheet_approved"}, f.audit.actions())
}

func TestWorkflowRequiresAuthentication(t *testing.T) {
	f := newWorkflowFixture(t)

	status, body := doJSON(t, f.app, "POST", "/api/timesheets/", "",
		map[string]any{"date": "2026-03-02"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "MISSING_CREDENTIAL", errObj["code"])
	assert.Equal(t, "Authentication token is missing", errObj["message"])
}

func TestWorkflowMemberCannotApprove(t *testing.T) {
	f := newWorkflowFixture(t)
	memberToken := f.token(t, "member-1", domain.RoleTeamMember, campaignPtr("camp-1"))

	status, body := doJSON(t, f.app, "POST", "/api/timesheets/", memberToken,
		map[string]any{"date": "2026-03-02"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["data"].(map[string]any)["id"].(string)

	_, _ = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/submit", memberToken, nil)

	before := len(f.audit.records)
	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/approve", memberToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_ROLE", errObj["code"])
	assert.Equal(t, "Campaign lead privileges required", errObj["message"])
	// the guarded handler never ran, so nothing new was audited
	assert.Len(t, f.audit.records, before)
}

func TestWorkflowInvalidTransitionConflict(t *testing.T) {
	f := newWorkflowFixture(t)
	memberToken := f.token(t, "member-1", domain.RoleTeamMember, campaignPtr("camp-1"))
	leadToken := f.token(t, "lead-1", domain.RoleCampaignLead, campaignPtr("camp-1"))

	status, body := doJSON(t, f.app, "POST", "/api/timesheets/", memberToken,
		map[string]any{"date": "2026-03-02"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["data"].(map[string]any)["id"].(string)

	// approving a draft violates the workflow
	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/approve", leadToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", body["error"].(map[string]any)["code"])
}

func TestWorkflowRejectNeedsComments(t *testing.T) {
	f := newWorkflowFixture(t)
	memberToken := f.token(t, "member-1", domain.RoleTeamMember, campaignPtr("camp-1"))
	leadToken := f.token(t, "lead-1", domain.RoleCampaignLead, campaignPtr("camp-1"))

	status, body := doJSON(t, f.app, "POST", "/api/timesheets/", memberToken,
		map[string]any{"date": "2026-03-02"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["data"].(map[string]any)["id"].(string)
	_, _ = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/submit", memberToken, nil)

	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/reject", leadToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	status, body = doJSON(t, f.app, "PUT", "/api/timesheets/"+id+"/reject", leadToken,
		map[string]any{"comments": "missing clock out"})
	require.Equal(t, fiber.StatusOK, status)
	rejected := body["data"].(map[string]any)
	assert.Equal(t, "rejected", rejected["status"])
	assert.Equal(t, "missing clock out", rejected["approver_comments"])
}
