package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/youngthe/gemini-demo/internal/config"
	"github.com/youngthe/gemini-demo/internal/domain"
	"github.com/youngthe/gemini-demo/internal/logger"
	"github.com/youngthe/gemini-demo/internal/repository"
	"github.com/youngthe/gemini-demo/internal/service"
)

// scriptedGenerator answers every prompt with the same response.
type scriptedGenerator struct {
	response string
	err      error
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, g.err
}

type testEnv struct {
	router   http.Handler
	newsRepo *repository.NewsRepository
	today    *service.TodayService
	gen      *scriptedGenerator
}

func newTestEnv(t *testing.T, kakaoAuthURL, kakaoAPIURL string) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORS.AllowAllOrigins = true

	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	newsRepo := repository.NewNewsRepository(db)

	gen := &scriptedGenerator{}
	log := logger.New(nil)
	today := service.NewTodayService(gen, log, nil)
	chat := service.NewChatService(gen)
	motor := service.NewMotorService(gen)
	kakao := service.NewKakaoService(&service.KakaoConfig{
		RESTAPIKey:  "app-key",
		RedirectURI: "http://localhost:3001/oauth/kakao/callback",
		AuthBaseURL: kakaoAuthURL,
		APIBaseURL:  kakaoAPIURL,
	})

	return &testEnv{
		router:   SetupRouter(today, chat, motor, kakao, newsRepo, cfg, log),
		newsRepo: newsRepo,
		today:    today,
		gen:      gen,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "")
	w := env.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTodayCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "")

	// Empty before any refresh
	w := env.do(t, http.MethodGet, "/today/jokes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var items []domain.ContentItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("body is not an item list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list before refresh, got %d items", len(items))
	}

	// Populated after a successful refresh
	env.gen.response = `[{"title":"setup","content":"punchline"}]`
	env.today.RefreshOne(context.Background(), domain.CategoryJokes)

	w = env.do(t, http.MethodGet, "/today/jokes", "")
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("body is not an item list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "setup" {
		t.Errorf("unexpected items: %v", items)
	}
	if w.Header().Get("X-Refreshed-At") == "" {
		t.Error("expected staleness header after refresh")
	}

	// Unknown category
	w = env.do(t, http.MethodGet, "/today/gossip", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", w.Code)
	}
}

func TestTodayNewsEndpointIsDatabaseBacked(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	articles := []domain.News{{Title: "headline", Content: "body"}}
	if err := env.newsRepo.BulkCreate(ctx, articles); err != nil {
		t.Fatalf("failed to seed articles: %v", err)
	}

	w := env.do(t, http.MethodGet, "/today/news", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var entries []struct {
		ID       uint   `json:"id"`
		Title    string `json:"title"`
		Comments []any  `json:"comments"`
		Command  string `json:"command"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "headline" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if !strings.Contains(entries[0].Command, "/today/news/comments") {
		t.Errorf("command should explain comment submission, got %q", entries[0].Command)
	}
}

func TestPostCommentScenario(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	articles := []domain.News{{Title: "story", Content: "body"}}
	if err := env.newsRepo.BulkCreate(ctx, articles); err != nil {
		t.Fatalf("failed to seed articles: %v", err)
	}
	id := articles[0].ID

	body := fmt.Sprintf(`{"newsId":"%d","text":"hi","nickname":"bob"}`, id)
	w := env.do(t, http.MethodPost, "/today/news/comments", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK      bool `json:"ok"`
		Comment struct {
			ID        uint   `json:"id"`
			NewsID    string `json:"newsId"`
			Text      string `json:"text"`
			CreatedAt string `json:"createdAt"`
		} `json:"comment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok=true")
	}
	if resp.Comment.NewsID != fmt.Sprintf("%d", id) {
		t.Errorf("expected newsId %d, got %q", id, resp.Comment.NewsID)
	}
	if resp.Comment.Text != "bob: hi" {
		t.Errorf("expected nickname-prefixed text, got %q", resp.Comment.Text)
	}
	if resp.Comment.ID == 0 || resp.Comment.CreatedAt == "" {
		t.Errorf("expected generated id and timestamp, got %+v", resp.Comment)
	}
}

func TestPostCommentValidation(t *testing.T) {
	env := newTestEnv(t, "", "")

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "missing text", body: `{"newsId":"1"}`, wantCode: http.StatusBadRequest},
		{name: "blank text", body: `{"newsId":"1","text":"   "}`, wantCode: http.StatusBadRequest},
		{name: "missing newsId", body: `{"text":"hi"}`, wantCode: http.StatusBadRequest},
		{name: "non-numeric newsId", body: `{"newsId":"abc","text":"hi"}`, wantCode: http.StatusBadRequest},
		{name: "unknown article", body: `{"newsId":"999","text":"hi"}`, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/today/news/comments", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}

	// No inserts happened
	articles, err := env.newsRepo.ListWithComments(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range articles {
		if len(a.Comments) != 0 {
			t.Errorf("rejected requests must not insert comments: %+v", a)
		}
	}
}

func TestBulkNewsEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "")

	// Empty entries are dropped; valid ones survive trimming
	body := `[{"title":"  first  ","content":" one "},{"title":"","content":""},{"title":"second","content":"two"}]`
	w := env.do(t, http.MethodPost, "/api/news", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OK      bool `json:"ok"`
		Saved   int  `json:"saved"`
		FirstID uint `json:"firstId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if resp.Saved != 2 {
		t.Errorf("expected 2 saved, got %d", resp.Saved)
	}
	if resp.FirstID == 0 {
		t.Error("expected firstId to be set")
	}

	// All-empty input yields 400 and inserts nothing
	w = env.do(t, http.MethodPost, "/api/news", `[{"title":"","content":"  "}]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for all-empty array, got %d", w.Code)
	}

	// Non-array input yields 400
	w = env.do(t, http.MethodPost, "/api/news", `{"title":"x","content":"y"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-array body, got %d", w.Code)
	}

	count, err := env.newsRepo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows persisted, got %d", count)
	}

	// Trimming applied
	var list []struct {
		Title string `json:"title"`
	}
	w = env.do(t, http.MethodGet, "/api/news", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	for _, e := range list {
		if e.Title != strings.TrimSpace(e.Title) {
			t.Errorf("title not trimmed: %q", e.Title)
		}
	}
}

func TestListNewsLimitCap(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	articles := make([]domain.News, 60)
	for i := range articles {
		articles[i] = domain.News{Title: fmt.Sprintf("t%d", i), Content: "c"}
	}
	if err := env.newsRepo.BulkCreate(ctx, articles); err != nil {
		t.Fatalf("failed to seed articles: %v", err)
	}

	var list []json.RawMessage

	w := env.do(t, http.MethodGet, "/api/news", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(list) != 25 {
		t.Errorf("expected default limit 25, got %d", len(list))
	}

	w = env.do(t, http.MethodGet, "/api/news?limit=500", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(list) != 50 {
		t.Errorf("expected cap of 50, got %d", len(list))
	}
}

func TestChatEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.gen.response = "hello back"

	w := env.do(t, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if resp.Text != "hello back" {
		t.Errorf("expected generated text, got %q", resp.Text)
	}

	// Missing or non-string message
	for _, body := range []string{`{}`, `{"message":42}`, ``} {
		w = env.do(t, http.MethodPost, "/api/chat", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}

	// Generation failure
	env.gen.err = errors.New("upstream down")
	w = env.do(t, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on generation failure, got %d", w.Code)
	}
}

func TestCommandEndpoint(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.gen.response = "```json\n[{\"title\":\"move\",\"angle\":90}]\n```"

	w := env.do(t, http.MethodPost, "/command", `{"message":"turn ninety degrees"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var cmd domain.MotorCommand
	if err := json.Unmarshal(w.Body.Bytes(), &cmd); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if cmd.Title != "move" || cmd.Angle != 90 {
		t.Errorf("unexpected command: %+v", cmd)
	}

	env.gen.response = "no json here"
	w = env.do(t, http.MethodPost, "/command", `{"message":"turn"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on unparseable output, got %d", w.Code)
	}
}

func TestKakaoLoginRedirect(t *testing.T) {
	env := newTestEnv(t, "https://kauth.kakao.com", "https://kapi.kakao.com")

	w := env.do(t, http.MethodGet, "/login/kakao", "")
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "/oauth/authorize") || !strings.Contains(loc, "client_id=app-key") {
		t.Errorf("unexpected redirect target: %q", loc)
	}
}

func TestKakaoCallbackSendsLastReply(t *testing.T) {
	var sentText string
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-xyz"}`))
	}))
	defer authSrv.Close()
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		sentText = r.PostForm.Get("template_object")
		w.Write([]byte(`{"result_code":0}`))
	}))
	defer apiSrv.Close()

	env := newTestEnv(t, authSrv.URL, apiSrv.URL)

	// Produce a chat reply first, then run the callback
	env.gen.response = "the answer is 42"
	if w := env.do(t, http.MethodPost, "/api/chat", `{"message":"q"}`); w.Code != http.StatusOK {
		t.Fatalf("chat setup failed: %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/oauth/kakao/callback?code=abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML confirmation, got content type %q", ct)
	}
	if !strings.Contains(sentText, "the answer is 42") {
		t.Errorf("memo should carry the last chat reply, got %q", sentText)
	}
}

func TestKakaoCallbackErrorRendersHTML(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer authSrv.Close()

	env := newTestEnv(t, authSrv.URL, "")

	w := env.do(t, http.MethodGet, "/oauth/kakao/callback?code=bad", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML error page, got content type %q", ct)
	}
}

func TestAdminPanelServed(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.do(t, http.MethodGet, "/admin", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "control panel") {
		t.Error("expected the admin page body")
	}

	// Clear endpoint used by the panel
	if err := env.newsRepo.BulkCreate(context.Background(), []domain.News{{Title: "x", Content: "y"}}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	w = env.do(t, http.MethodDelete, "/api/news", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	count, _ := env.newsRepo.Count(context.Background())
	if count != 0 {
		t.Errorf("expected cleared store, got %d rows", count)
	}
}
