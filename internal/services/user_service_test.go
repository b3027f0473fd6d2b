package services

import (
	"testing"

	"github.com/xylcg/finance4/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "Alice@Example.com", "secret123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %q", user.Email)
		}
		if user.Password == "secret123" {
			t.Error("password should be stored hashed")
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "alice@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("alice", "other@example.com", "secret123")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "alice@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("bob", "ALICE@example.com", "secret123")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "alice@example.com", "secret123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		registered, err := svc.Register("alice", "alice@example.com", "secret123")
		testutil.AssertNoError(t, err)

		user, err := svc.Authenticate("alice", "secret123")
		testutil.AssertNoError(t, err)
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("alice", "alice@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate("alice", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username_same_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Authenticate("nobody", "secret123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.UpdateProfile(user.ID, "newname", "newname@example.com")
		testutil.AssertNoError(t, err)
		if updated.Username != "newname" {
			t.Errorf("expected username newname, got %q", updated.Username)
		}
	})

	t.Run("keeps_own_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		// Re-submitting the user's own username and email must not
		// trip the uniqueness check.
		_, err := svc.UpdateProfile(user.ID, user.Username, user.Email)
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_username_of_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		first := testutil.CreateTestUser(t, db)
		second := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateProfile(second.ID, first.Username, second.Email)
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.UpdateProfile(9999, "ghost", "ghost@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSetAvatar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	updated, err := svc.SetAvatar(user.ID, "uploads/avatar_1.png")
	testutil.AssertNoError(t, err)
	if updated.Avatar != "uploads/avatar_1.png" {
		t.Errorf("expected avatar path to be stored, got %q", updated.Avatar)
	}
}
