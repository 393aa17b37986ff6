package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-portal/internal/types"
)

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{
			name:       "success",
			body:       types.SignupRequest{Username: "alice", Password: "correct-horse", ConfirmPassword: "correct-horse"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "confirmation mismatch",
			body:       types.SignupRequest{Username: "alice", Password: "correct-horse", ConfirmPassword: "correct-horsE"},
			wantStatus: http.StatusBadRequest,
			wantError:  "ConfirmPassword",
		},
		{
			name:       "short password",
			body:       types.SignupRequest{Username: "alice", Password: "short", ConfirmPassword: "short"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Password",
		},
		{
			name:       "username with symbols",
			body:       types.SignupRequest{Username: "al ice!", Password: "correct-horse", ConfirmPassword: "correct-horse"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Username",
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  "request body is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodPost, "/signup", tt.body, "")

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantError != "" {
				assert.Contains(t, errorMessage(t, rec), tt.wantError)
				return
			}

			var resp types.LoginResponse
			decode(t, rec, &resp)
			assert.Equal(t, "alice", resp.User.Username)
			assert.NotEmpty(t, resp.Token)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPost, "/signup", types.SignupRequest{
		Username: "alice", Password: "another-pass", ConfirmPassword: "another-pass",
	}, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken: alice", errorMessage(t, rec))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	userID, _ := ts.signup(t, "alice")

	tests := []struct {
		name       string
		req        types.LoginRequest
		wantStatus int
	}{
		{"success", types.LoginRequest{Username: "alice", Password: "correct-horse"}, http.StatusOK},
		{"wrong password", types.LoginRequest{Username: "alice", Password: "wrong-horse"}, http.StatusUnauthorized},
		{"unknown user", types.LoginRequest{Username: "mallory", Password: "correct-horse"}, http.StatusUnauthorized},
		{"missing password", types.LoginRequest{Username: "alice"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/login", tt.req, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusOK {
				var resp types.LoginResponse
				decode(t, rec, &resp)
				assert.Equal(t, userID, resp.User.ID)

				claims, err := ts.jwtService.ValidateToken(resp.Token)
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var user types.User
	decode(t, rec, &user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice", user.Username)

	rec = ts.do(t, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	rec = ts.do(t, http.MethodGet, "/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_DeletedUser(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.signup(t, "alice")
	delete(ts.store.users, userID)

	rec := ts.do(t, http.MethodGet, "/me", nil, token)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdatePassword(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signup(t, "alice")

	rec := ts.do(t, http.MethodPut, "/me/password", types.UpdatePasswordRequest{
		CurrentPassword: "wrong-horse", NewPassword: "battery-staple",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "current password is incorrect", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPut, "/me/password", types.UpdatePasswordRequest{
		CurrentPassword: "correct-horse", NewPassword: "short",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/me/password", types.UpdatePasswordRequest{
		CurrentPassword: "correct-horse", NewPassword: "battery-staple",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/login", types.LoginRequest{Username: "alice", Password: "battery-staple"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/me/password", types.UpdatePasswordRequest{
		CurrentPassword: "battery-staple", NewPassword: "something-else",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
