package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/auth"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func tokenFor(t *testing.T, user *models.User) string {
	token, err := auth.GenerateJWT(user, testServer.config.JWT.Secret)
	require.NoError(t, err)
	return token
}

// permissionsRouter mirrors the wallet-permissions block of the real
// routing table.
func permissionsRouter() chi.Router {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(testServer.AuthMiddleware)
		r.Get("/wallet-permissions/my-permissions", testServer.MyPermissionsHandler)
		r.Post("/wallet-permissions/{walletId}/users/{granteeId}", testServer.AssignPermissionsHandler)
		r.Get("/wallet-permissions/{walletId}/users/{granteeId}", testServer.ListGranteePermissionsHandler)
		r.Delete("/wallet-permissions/{walletId}/users/{granteeId}/permissions/{capability}", testServer.RevokeCapabilityHandler)
		r.Get("/wallet-permissions/{walletId}/users/{granteeId}/has-permission/{capability}", testServer.HasPermissionHandler)
	})
	return router
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) testEnvelope {
	var env testEnvelope
	err := json.Unmarshal(rr.Body.Bytes(), &env)
	require.NoError(t, err)
	return env
}

func TestAPI_AssignPermissions_Success(t *testing.T) {
	owner := createTestUserAPI(t, "assign_api_owner@example.com")
	grantee := createTestUserAPI(t, "assign_api_grantee@example.com")
	createTestWalletAPI(t, "w_assign_api", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_assign_api", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	payload := AssignPermissionsRequest{Capabilities: []string{"VIEW_WALLET", "EXPORT_DATA"}}
	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d", "w_assign_api", grantee.ID)
	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)

	var grants []models.PermissionGrant
	err = json.Unmarshal(env.Data, &grants)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	has, err := testServer.grants.HasCapability(context.Background(), "w_assign_api", grantee.ID, permission.ExportData)
	require.NoError(t, err)
	require.True(t, has)

	has, err = testServer.grants.HasCapability(context.Background(), "w_assign_api", grantee.ID, permission.ViewBalance)
	require.NoError(t, err)
	require.False(t, has, "VIEW_BALANCE was seeded by the tier but dropped by the replacement")
}

func TestAPI_AssignPermissions_UnknownCapability(t *testing.T) {
	owner := createTestUserAPI(t, "assign_api_bad_owner@example.com")
	grantee := createTestUserAPI(t, "assign_api_bad_grantee@example.com")
	createTestWalletAPI(t, "w_assign_api_bad", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_assign_api_bad", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	payload := AssignPermissionsRequest{Capabilities: []string{"VIEW_WALLET", "RULE_THE_WORLD"}}
	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d", "w_assign_api_bad", grantee.ID)
	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	grants, err := testServer.grants.GetGrantsForShareAndGrantee(context.Background(), "w_assign_api_bad", grantee.ID)
	require.NoError(t, err)
	require.Len(t, grants, 3, "a rejected request must not touch the existing grants")
}

func TestAPI_AssignPermissions_NonOwner(t *testing.T) {
	owner := createTestUserAPI(t, "assign_api_gate_owner@example.com")
	grantee := createTestUserAPI(t, "assign_api_gate_grantee@example.com")
	createTestWalletAPI(t, "w_assign_api_gate", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_assign_api_gate", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	payload := AssignPermissionsRequest{Capabilities: []string{"MANAGE_PERMISSIONS"}}
	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d", "w_assign_api_gate", grantee.ID)
	req := httptest.NewRequest("POST", url, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, grantee))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, rr.Body.String(), "Only the wallet owner can manage permissions")
}

func TestAPI_AssignPermissions_InvalidGranteeID(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/wallet-permissions/w_x/users/not-a-number", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_ListGranteePermissions(t *testing.T) {
	owner := createTestUserAPI(t, "list_api_owner@example.com")
	grantee := createTestUserAPI(t, "list_api_grantee@example.com")
	createTestWalletAPI(t, "w_list_api", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_list_api", grantee.ID, permission.TierEdit, owner.ID)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d", "w_list_api", grantee.ID)
	req := httptest.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)

	var grants []models.PermissionGrant
	err = json.Unmarshal(env.Data, &grants)
	require.NoError(t, err)
	require.Len(t, grants, 8)
	for _, g := range grants {
		require.NotEmpty(t, g.Label)
		require.True(t, g.Granted)
	}
}

func TestAPI_ListGranteePermissions_NoShare(t *testing.T) {
	owner := createTestUserAPI(t, "list_api_empty_owner@example.com")
	stranger := createTestUserAPI(t, "list_api_empty_stranger@example.com")
	createTestWalletAPI(t, "w_list_api_empty", owner.ID)

	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d", "w_list_api_empty", stranger.ID)
	req := httptest.NewRequest("GET", url, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)

	var grants []models.PermissionGrant
	err := json.Unmarshal(env.Data, &grants)
	require.NoError(t, err)
	require.Len(t, grants, 0)
}

func TestAPI_MyPermissions(t *testing.T) {
	owner := createTestUserAPI(t, "my_perms_owner@example.com")
	grantee := createTestUserAPI(t, "my_perms_grantee@example.com")
	createTestWalletAPI(t, "w_my_perms", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_my_perms", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/wallet-permissions/my-permissions", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, grantee))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)

	var access []WalletAccessResponse
	err = json.Unmarshal(env.Data, &access)
	require.NoError(t, err)
	require.Len(t, access, 1)
	require.Equal(t, "w_my_perms", access[0].WalletID)
	require.Equal(t, "my_perms_owner@example.com", access[0].OwnerEmail)
	require.Equal(t, "VIEW", access[0].Tier)
	require.True(t, access[0].Active)
	require.ElementsMatch(t, []string{"VIEW_WALLET", "VIEW_BALANCE", "VIEW_TRANSACTIONS"}, access[0].Capabilities)
}

func TestAPI_RevokeCapability(t *testing.T) {
	owner := createTestUserAPI(t, "revoke_api_owner@example.com")
	grantee := createTestUserAPI(t, "revoke_api_grantee@example.com")
	createTestWalletAPI(t, "w_revoke_api", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_revoke_api", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d/permissions/VIEW_BALANCE", "w_revoke_api", grantee.ID)
	req := httptest.NewRequest("DELETE", url, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr := httptest.NewRecorder()

	permissionsRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	has, err := testServer.grants.HasCapability(context.Background(), "w_revoke_api", grantee.ID, permission.ViewBalance)
	require.NoError(t, err)
	require.False(t, has)

	has, err = testServer.grants.HasCapability(context.Background(), "w_revoke_api", grantee.ID, permission.ViewWallet)
	require.NoError(t, err)
	require.True(t, has, "the other capabilities stay granted")

	req = httptest.NewRequest("DELETE", url, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	rr = httptest.NewRecorder()
	permissionsRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code, "revoking twice reports the capability as not granted")
}

func TestAPI_HasPermission(t *testing.T) {
	owner := createTestUserAPI(t, "has_api_owner@example.com")
	grantee := createTestUserAPI(t, "has_api_grantee@example.com")
	createTestWalletAPI(t, "w_has_api", owner.ID)

	_, _, err := testServer.grants.ShareWallet(context.Background(), "w_has_api", grantee.ID, permission.TierView, owner.ID)
	require.NoError(t, err)

	check := func(capability string) bool {
		url := fmt.Sprintf("/api/v1/wallet-permissions/%s/users/%d/has-permission/%s", "w_has_api", grantee.ID, capability)
		req := httptest.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
		rr := httptest.NewRecorder()
		permissionsRouter().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var has bool
		err := json.Unmarshal(decodeEnvelope(t, rr).Data, &has)
		require.NoError(t, err)
		return has
	}

	require.True(t, check("VIEW_WALLET"))
	require.False(t, check("DELETE_TRANSACTION"))
}
