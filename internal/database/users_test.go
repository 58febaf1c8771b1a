package database

import (
	"context"
	"testing"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"

	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, email string) *models.User {
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "not_a_real_hash",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestCreateUser(t *testing.T) {
	displayName := "Alice"
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        "alice_create@example.com",
		PasswordHash: "hash",
		DisplayName:  &displayName,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "alice_create@example.com", user.Email)
	require.NotNil(t, user.DisplayName)
	require.Equal(t, "Alice", *user.DisplayName)
	require.NotZero(t, user.CreatedAt)

	_, err = testStore.CreateUser(context.Background(), CreateUserParams{
		Email:        "alice_create@example.com",
		PasswordHash: "otherhash",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByEmail(t *testing.T) {
	created := createTestUser(t, "bob_by_email@example.com")

	found, err := testStore.GetUserByEmail(context.Background(), "bob_by_email@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)

	missing, err := testStore.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetUserByID(t *testing.T) {
	created := createTestUser(t, "carol_by_id@example.com")

	found, err := testStore.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.Email, found.Email)

	missing, err := testStore.GetUserByID(context.Background(), 9999999)
	require.NoError(t, err)
	require.Nil(t, missing)
}
