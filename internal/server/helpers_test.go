package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/review-portal/internal/config"
	"github.com/jonathan/review-portal/internal/server/ratelimit"
	"github.com/jonathan/review-portal/internal/types"
)

// fakeChat records the question it was asked.
type fakeChat struct {
	answer   string
	err      error
	question string
	reviews  int
	closed   bool
}

func (f *fakeChat) Ask(_ context.Context, question string, reviews []types.Review) (string, error) {
	f.question = question
	f.reviews = len(reviews)
	return f.answer, f.err
}

func (f *fakeChat) Close() error {
	f.closed = true
	return nil
}

type testServer struct {
	*Server
	store *mockStore
}

type testOption func(*config.Config, *Options)

func withChat(c ReviewAsker) testOption {
	return func(_ *config.Config, o *Options) { o.Chat = c }
}

func withLimiter(cfg *ratelimit.Config) testOption {
	return func(_ *config.Config, o *Options) { o.Limiter = ratelimit.NewLimiter(cfg) }
}

func withConfig(f func(*config.Config)) testOption {
	return func(c *config.Config, _ *Options) { f(c) }
}

// newTestServer builds a server over an in-memory store with rate limiting off.
func newTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	cfg := config.Defaults()
	cfg.DatabaseURL = "postgres://unused"
	store := newMockStore()
	o := Options{
		Store:     store,
		JWT:       testJWTConfig(24),
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Limiter:   ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
	for _, opt := range opts {
		opt(&cfg, &o)
	}

	s := NewWithOptions(&cfg, o)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, store: store}
}

// do sends a request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns its ID and token.
func (ts *testServer) signup(t *testing.T, username string) (uuid.UUID, string) {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/signup", types.SignupRequest{
		Username:        username,
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp types.LoginResponse
	decode(t, rec, &resp)
	return resp.User.ID, resp.Token
}

func (ts *testServer) createReview(t *testing.T, token string, req types.CreateReviewRequest) types.Review {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/reviews", req, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var review types.Review
	decode(t, rec, &review)
	return review
}

func reviewRequest(title, company, location string, pay float64, rating, rec int) types.CreateReviewRequest {
	return types.CreateReviewRequest{
		Title:          title,
		Company:        company,
		Location:       location,
		Department:     "Engineering",
		Description:    "Build things",
		HourlyPay:      pay,
		Benefits:       "Health",
		Body:           "Good team",
		Rating:         rating,
		Recommendation: rec,
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, rec, &body)
	msg, _ := body["error"].(string)
	return msg
}
