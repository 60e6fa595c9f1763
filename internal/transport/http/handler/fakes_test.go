package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"metra-backend/internal/core/session"
	"metra-backend/internal/domain"
	"metra-backend/internal/transport/http/handler"
	"metra-backend/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

// testEnv wires the full router against in-memory fakes so tests exercise
// the real middleware chain and handlers end to end.
type testEnv struct {
	engine     *gin.Engine
	sessions   *session.Store
	agents     *fakeAgentRepo
	users      *fakeUserRepo
	properties *fakePropertyRepo
	uploader   *fakeUploader
	notifier   *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	agents := newFakeAgentRepo()
	users := newFakeUserRepo()
	properties := newFakePropertyRepo(users, agents)
	sessions := session.NewStore(time.Hour)
	uploader := &fakeUploader{}
	notifier := &fakeNotifier{enabled: true}

	h := handler.New(handler.Options{
		Log:        zap.NewNop(),
		Agents:     agents,
		Users:      users,
		Properties: properties,
		Sessions:   sessions,
		Uploader:   uploader,
		Notifier:   notifier,
	})
	engine := router.New(router.Options{
		Log:      zap.NewNop(),
		Handler:  h,
		Sessions: sessions,
		Users:    users,
	})

	return &testEnv{
		engine:     engine,
		sessions:   sessions,
		agents:     agents,
		users:      users,
		properties: properties,
		uploader:   uploader,
		notifier:   notifier,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body *strings.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	return e.do(t, method, path, token, strings.NewReader(body), "application/json")
}

func (e *testEnv) doForm(t *testing.T, method, path, token, form string) *httptest.ResponseRecorder {
	return e.do(t, method, path, token, strings.NewReader(form), "application/x-www-form-urlencoded")
}

// seedAgent inserts an agent profile directly into storage.
func (e *testEnv) seedAgent(t *testing.T, email, slug string, premium bool) *domain.Agent {
	t.Helper()
	agent := &domain.Agent{Name: "Test Danışman", Email: email, Slug: slug, IsPremium: premium}
	if err := e.agents.Create(context.Background(), agent); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return agent
}

// registerAndLogin runs the real registration and login endpoints and
// returns the session token plus user id.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) (string, uint) {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/auth/register", "",
		`{"name":"Test Kullanıcı","email":"`+email+`","password":"`+password+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return e.login(t, email, password)
}

func (e *testEnv) login(t *testing.T, email, password string) (string, uint) {
	t.Helper()
	w := e.doForm(t, http.MethodPost, "/auth/login", "", "email="+email+"&password="+password)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, w, &out)
	if out.AccessToken == "" {
		t.Fatal("login: empty access token")
	}
	return out.AccessToken, out.User.ID
}

// --- fake repositories ---

type fakeAgentRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{nextID: 1, byID: make(map[uint]domain.Agent)}
}

func (f *fakeAgentRepo) Create(_ context.Context, a *domain.Agent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.nextID
	f.nextID++
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAgentRepo) List(_ context.Context, offset, limit int) ([]domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agents := make([]domain.Agent, 0, len(f.byID))
	for _, a := range f.byID {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	if offset >= len(agents) {
		return nil, nil
	}
	agents = agents[offset:]
	if limit > 0 && limit < len(agents) {
		agents = agents[:limit]
	}
	return agents, nil
}

func (f *fakeAgentRepo) FindByID(_ context.Context, id uint) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAgentRepo) FindBySlug(_ context.Context, slug string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Slug == slug {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAgentRepo) FindByEmail(_ context.Context, email string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, a := range f.byID {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeAgentRepo) Update(_ context.Context, a *domain.Agent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAgentRepo) Delete(_ context.Context, a *domain.Agent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, a.ID)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byID: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// put stores a user verbatim, for tests that need accounts the public
// surface cannot create (e.g. inactive or unlinked users).
func (f *fakeUserRepo) put(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byID[u.ID] = u
	return u
}

type fakePropertyRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]domain.Property
	users  *fakeUserRepo
	agents *fakeAgentRepo

	listCalls int
}

func newFakePropertyRepo(users *fakeUserRepo, agents *fakeAgentRepo) *fakePropertyRepo {
	return &fakePropertyRepo{nextID: 1, byID: make(map[uint]domain.Property), users: users, agents: agents}
}

func (f *fakePropertyRepo) Create(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now().Add(time.Duration(p.ID) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id uint) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePropertyRepo) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	f.mu.Lock()
	f.listCalls++
	candidates := make([]domain.Property, 0, len(f.byID))
	for _, p := range f.byID {
		candidates = append(candidates, p)
	}
	f.mu.Unlock()

	var out []domain.Property
	for _, p := range candidates {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != strings.ToLower(filter.Status) {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.OwnerID != nil && p.UserID != *filter.OwnerID {
			continue
		}
		if filter.AgentSlug != "" || filter.AgentEmail != "" {
			owner, _ := f.users.FindByID(ctx, p.UserID)
			if owner == nil || owner.AgentID == nil {
				continue
			}
			agent, _ := f.agents.FindByID(ctx, *owner.AgentID)
			if agent == nil {
				continue
			}
			if filter.AgentSlug != "" && agent.Slug != filter.AgentSlug {
				continue
			}
			if filter.AgentEmail != "" && agent.Email != domain.NormalizeEmail(filter.AgentEmail) {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.UpdatedAt = time.Now()
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, p.ID)
	return nil
}

// --- fake collaborators ---

type fakeUploader struct {
	configured bool
	url        string
	err        error
	calls      int
}

func (f *fakeUploader) Configured() bool { return f.configured }

func (f *fakeUploader) Upload(context.Context, io.Reader, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.url == "" {
		return "https://media.example.com/photo.jpg", nil
	}
	return f.url, nil
}

type fakeNotifier struct {
	enabled  bool
	err      error
	payloads []any
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) Notify(_ context.Context, payload any) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
