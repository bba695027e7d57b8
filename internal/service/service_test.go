package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/ecosplit/internal/auth"
	"github.com/mmynk/ecosplit/internal/events"
	"github.com/mmynk/ecosplit/internal/middleware"
	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
	"github.com/mmynk/ecosplit/internal/storage/sqlite"
	"github.com/mmynk/ecosplit/pkg/api"
	"github.com/mmynk/ecosplit/pkg/api/apiconnect"
)

// testEnv is a full server over a temporary SQLite database.
type testEnv struct {
	store       storage.Store
	cache       *mapCache
	publisher   *recordingPublisher
	scanner     *fakeScanner
	advisor     *fakeAdvisor
	auth        apiconnect.AuthServiceClient
	receipts    apiconnect.ReceiptServiceClient
	splits      apiconnect.SplitServiceClient
	scores      apiconnect.GreenScoreServiceClient
	suggestions apiconnect.SuggestionServiceClient
}

type envOptions struct {
	noScanner bool
	noAdvisor bool
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	env := &testEnv{
		store:     store,
		cache:     newMapCache(),
		publisher: &recordingPublisher{},
		scanner:   &fakeScanner{},
		advisor:   &fakeAdvisor{suggestion: "Bring a reusable bag."},
	}

	receiptSvc := NewReceiptService(store, nil, env.cache, env.publisher, logger)
	if !opts.noScanner {
		receiptSvc.scanner = env.scanner
	}
	suggestionSvc := NewSuggestionService(store, nil, logger)
	if !opts.noAdvisor {
		suggestionSvc.advisor = env.advisor
	}

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewReceiptServiceHandler(receiptSvc, interceptors,
		connect.WithReadMaxBytes(MaxReceiptRequestBytes)))
	mux.Handle(apiconnect.NewSplitServiceHandler(NewSplitService(store, logger), interceptors))
	mux.Handle(apiconnect.NewGreenScoreServiceHandler(NewGreenScoreService(store, env.cache, logger), interceptors))
	mux.Handle(apiconnect.NewSuggestionServiceHandler(suggestionSvc, interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.receipts = apiconnect.NewReceiptServiceClient(http.DefaultClient, server.URL)
	env.splits = apiconnect.NewSplitServiceClient(http.DefaultClient, server.URL)
	env.scores = apiconnect.NewGreenScoreServiceClient(http.DefaultClient, server.URL)
	env.suggestions = apiconnect.NewSuggestionServiceClient(http.DefaultClient, server.URL)
	return env
}

// register creates an account and returns its ID and token.
func (e *testEnv) register(t *testing.T, username string) (string, string) {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return resp.Msg.User.ID, resp.Msg.Token
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}

// mapCache is an in-process LeaderboardCache that counts hits.
type mapCache struct {
	mu          sync.Mutex
	entries     map[models.Period][]models.GreenScore
	hits        int
	invalidated []models.Period
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[models.Period][]models.GreenScore)}
}

func (c *mapCache) Get(_ context.Context, period models.Period) ([]models.GreenScore, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	scores, ok := c.entries[period]
	if ok {
		c.hits++
	}
	return scores, ok, nil
}

func (c *mapCache) Set(_ context.Context, period models.Period, scores []models.GreenScore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[period] = scores
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, period models.Period) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, period)
	c.invalidated = append(c.invalidated, period)
	return nil
}

func (c *mapCache) stats() (hits int, invalidated []models.Period) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, slices.Clone(c.invalidated)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []*events.ScoreUpdated
}

func (p *recordingPublisher) PublishScoreUpdated(_ context.Context, msg *events.ScoreUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*events.ScoreUpdated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}

type fakeScanner struct {
	mu    sync.Mutex
	items []models.ReceiptItem
	err   error
}

func (f *fakeScanner) set(items []models.ReceiptItem, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items, f.err = items, err
}

func (f *fakeScanner) Scan(context.Context, []byte, string) ([]models.ReceiptItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.err
}

type fakeAdvisor struct {
	mu         sync.Mutex
	suggestion string
	names      []string
}

func (f *fakeAdvisor) Suggest(_ context.Context, names []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = names
	return f.suggestion, nil
}

func (f *fakeAdvisor) lastNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.names
}
