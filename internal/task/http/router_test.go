package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	"github.com/pmorel/tasklane/internal/common/clock"
	"github.com/pmorel/tasklane/internal/common/config"
	commonhttp "github.com/pmorel/tasklane/internal/common/http"
	"github.com/pmorel/tasklane/internal/common/jwtverify"
	"github.com/pmorel/tasklane/internal/common/logger"
	"github.com/pmorel/tasklane/internal/task/domain"
	taskhttp "github.com/pmorel/tasklane/internal/task/http"
	taskrepo "github.com/pmorel/tasklane/internal/task/repository"
	"github.com/pmorel/tasklane/internal/task/service"
)

const testSecret = "test-secret-value-0123456789abcdef"

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[accountdomain.ID]accountdomain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[accountdomain.ID]accountdomain.Account)}
}

func (r *memAccountRepo) add(id accountdomain.ID, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[id] = accountdomain.Account{ID: id, Email: email}
}

func (r *memAccountRepo) Create(ctx context.Context, account accountdomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) FindByEmail(ctx context.Context, email string) (accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return accountdomain.Account{}, accountrepo.ErrAccountNotFound
}

func (r *memAccountRepo) FindByID(ctx context.Context, id accountdomain.ID) (accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return accountdomain.Account{}, accountrepo.ErrAccountNotFound
	}
	return account, nil
}

type memTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[int64]domain.Task)}
}

func (r *memTaskRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = r.nextID
	r.tasks[task.ID] = task
	return task, nil
}

func (r *memTaskRepo) FindByID(ctx context.Context, id int64) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, taskrepo.ErrTaskNotFound
	}
	return task, nil
}

func (r *memTaskRepo) ListByOwner(ctx context.Context, ownerID accountdomain.ID) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID == ownerID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memTaskRepo) Update(ctx context.Context, id int64, ownerID accountdomain.ID, changes domain.Changes, updatedAt time.Time) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return domain.Task{}, taskrepo.ErrTaskNotFound
	}
	if changes.Title != nil {
		task.Title = *changes.Title
	}
	if changes.Description != nil {
		task.Description = *changes.Description
	}
	if changes.Completed != nil {
		task.Completed = *changes.Completed
	}
	if changes.DueDate != nil {
		task.DueDate = changes.DueDate
	}
	if changes.Priority != nil {
		task.Priority = *changes.Priority
	}
	task.UpdatedAt = updatedAt
	r.tasks[id] = task
	return task, nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id int64, ownerID accountdomain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return taskrepo.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type taskJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	UserID      string `json:"userId"`
}

type fixture struct {
	handler  http.Handler
	accounts *memAccountRepo
	clock    *clock.MockClock
}

func setupTaskServer(t *testing.T) fixture {
	t.Helper()

	log, _ := logger.New("", "test", "error")
	cfg := config.Config{RequestTimeout: 5 * time.Second}

	accounts := newMemAccountRepo()
	accounts.add("alice-id", "alice@example.com")
	accounts.add("bob-id", "bob@example.com")

	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	svc := service.NewTaskService(service.TaskServiceDeps{
		Tasks:    newMemTaskRepo(),
		Accounts: accounts,
		Clock:    mockClock,
		Log:      log,
	})

	handler := jwtverify.Middleware(testSecret, log)(taskhttp.NewHandler(svc, cfg, log))
	return fixture{handler: handler, accounts: accounts, clock: mockClock}
}

func signToken(t *testing.T, accountID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": accountID,
		"eml": email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func do(t *testing.T, handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTaskEndpoints_Lifecycle(t *testing.T) {
	fx := setupTaskServer(t)
	alice := signToken(t, "alice-id", "alice@example.com")

	// Create with defaults.
	rec := do(t, fx.handler, http.MethodPost, "/tasks", alice, `{"title":"buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var first taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if first.Priority != "MEDIUM" || first.Completed || first.UserID != "alice-id" {
		t.Errorf("unexpected created task: %+v", first)
	}

	// Second task created later sorts first.
	fx.clock.Advance(time.Minute)
	rec = do(t, fx.handler, http.MethodPost, "/tasks", alice, `{"title":"walk dog","priority":"HIGH"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = do(t, fx.handler, http.MethodGet, "/tasks", alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list))
	}
	if list[0].Title != "walk dog" || list[1].Title != "buy milk" {
		t.Errorf("expected newest first, got %q then %q", list[0].Title, list[1].Title)
	}

	// Complete the first task; other fields survive.
	rec = do(t, fx.handler, http.MethodPatch, fmt.Sprintf("/tasks/%d", first.ID), alice, `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !updated.Completed || updated.Title != "buy milk" || updated.Priority != "MEDIUM" {
		t.Errorf("unexpected updated task: %+v", updated)
	}

	// Delete it.
	rec = do(t, fx.handler, http.MethodDelete, fmt.Sprintf("/tasks/%d", first.ID), alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var del struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &del); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !del.Success {
		t.Error("expected success true")
	}

	rec = do(t, fx.handler, http.MethodGet, "/tasks", alice, "")
	list = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 remaining task, got %d", len(list))
	}
}

func TestTaskEndpoints_EmptyListIsArray(t *testing.T) {
	fx := setupTaskServer(t)
	alice := signToken(t, "alice-id", "alice@example.com")

	rec := do(t, fx.handler, http.MethodGet, "/tasks", alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestTaskEndpoints_RequireToken(t *testing.T) {
	fx := setupTaskServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodPatch, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
	} {
		rec := do(t, fx.handler, tc.method, tc.path, "", `{}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}

	rec := do(t, fx.handler, http.MethodGet, "/tasks", "garbage-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bad token, got %d", rec.Code)
	}
}

func TestTaskEndpoints_OwnershipCollapsesToNotFound(t *testing.T) {
	fx := setupTaskServer(t)
	alice := signToken(t, "alice-id", "alice@example.com")
	bob := signToken(t, "bob-id", "bob@example.com")

	rec := do(t, fx.handler, http.MethodPost, "/tasks", alice, `{"title":"secret plan"}`)
	var created taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid body: %v", err)
	}

	// Bob sees nothing of Alice's task.
	rec = do(t, fx.handler, http.MethodGet, "/tasks", bob, "")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected bob's list to be empty, got %s", body)
	}

	patch := do(t, fx.handler, http.MethodPatch, fmt.Sprintf("/tasks/%d", created.ID), bob, `{"completed":true}`)
	del := do(t, fx.handler, http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), bob, "")
	missing := do(t, fx.handler, http.MethodPatch, "/tasks/99999", bob, `{"completed":true}`)

	for name, r := range map[string]*httptest.ResponseRecorder{
		"patch foreign":  patch,
		"delete foreign": del,
		"patch missing":  missing,
	} {
		if r.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", name, r.Code)
			continue
		}
		var env commonhttp.ErrorEnvelope
		if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s: invalid error body: %v", name, err)
		}
		if env.Code != "TASK_NOT_FOUND" {
			t.Errorf("%s: expected TASK_NOT_FOUND, got %s", name, env.Code)
		}
	}

	// Alice still owns an untouched task.
	rec = do(t, fx.handler, http.MethodGet, "/tasks", alice, "")
	var list []taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(list) != 1 || list[0].Completed {
		t.Errorf("expected alice's task to be untouched, got %+v", list)
	}
}

func TestTaskEndpoints_AccountGone(t *testing.T) {
	fx := setupTaskServer(t)
	ghost := signToken(t, "ghost-id", "ghost@example.com")

	rec := do(t, fx.handler, http.MethodGet, "/tasks", ghost, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var env commonhttp.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if env.Code != "ACCOUNT_NOT_FOUND" {
		t.Errorf("expected ACCOUNT_NOT_FOUND, got %s", env.Code)
	}
}

func TestTaskEndpoints_BadRequests(t *testing.T) {
	fx := setupTaskServer(t)
	alice := signToken(t, "alice-id", "alice@example.com")

	testCases := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"missing title", http.MethodPost, "/tasks", `{"description":"no title"}`, http.StatusBadRequest},
		{"bad priority", http.MethodPost, "/tasks", `{"title":"t","priority":"urgent"}`, http.StatusBadRequest},
		{"bad due date", http.MethodPost, "/tasks", `{"title":"t","dueDate":"tomorrow"}`, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/tasks", `{oops`, http.StatusBadRequest},
		{"non-numeric id", http.MethodPatch, "/tasks/abc", `{}`, http.StatusBadRequest},
		{"nested path", http.MethodDelete, "/tasks/1/extra", "", http.StatusBadRequest},
		{"put not allowed", http.MethodPut, "/tasks/1", `{}`, http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, fx.handler, tc.method, tc.path, alice, tc.body)
			if rec.Code != tc.wantCode {
				t.Errorf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}
