package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAPI_Register(t *testing.T) {
	rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", RegisterRequest{
		Email:    "register_ok@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotContains(t, rr.Body.String(), "password_hash", "the hash never leaves the server")

	rr = postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", RegisterRequest{
		Email:    "register_ok@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", RegisterRequest{
		Email:    "register_short@example.com",
		Password: "short",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_LoginAndRefresh(t *testing.T) {
	rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", RegisterRequest{
		Email:    "login_flow@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, testServer.LoginHandler, "/api/v1/auth/login", LoginRequest{
		Email:    "login_flow@example.com",
		Password: "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, testServer.LoginHandler, "/api/v1/auth/login", LoginRequest{
		Email:    "login_flow@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var rotated TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "refresh rotates the token")

	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code, "a rotated-out refresh token is dead")
}

func TestAPI_Logout(t *testing.T) {
	rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", RegisterRequest{
		Email:    "logout_flow@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, testServer.LoginHandler, "/api/v1/auth/login", LoginRequest{
		Email:    "logout_flow@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))

	rr = postJSON(t, testServer.LogoutHandler, "/api/v1/auth/logout", RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
