package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	profile := &Profile{
		Name:         "main",
		ClientID:     "test_client_id_12345",
		AuthToken:    "test_token_67890",
		LastModified: time.Now(),
	}

	if err := manager.Store(profile); err != nil {
		t.Errorf("Failed to store profile: %v", err)
	}

	retrieved, err := manager.Retrieve("main")
	if err != nil {
		t.Fatalf("Failed to retrieve profile: %v", err)
	}
	if retrieved.ClientID != profile.ClientID {
		t.Errorf("ClientID mismatch: got %s, want %s", retrieved.ClientID, profile.ClientID)
	}
	if retrieved.AuthToken != profile.AuthToken {
		t.Errorf("AuthToken mismatch: got %s, want %s", retrieved.AuthToken, profile.AuthToken)
	}

	profiles, err := manager.List()
	if err != nil {
		t.Errorf("Failed to list profiles: %v", err)
	}
	if len(profiles) == 0 {
		t.Error("Expected at least one profile in list")
	}

	sanitized := SanitizeProfile(profile)
	if sanitized.AuthToken == profile.AuthToken {
		t.Error("AuthToken should be masked")
	}
	if sanitized.ClientID != profile.ClientID {
		t.Error("ClientID should not be masked")
	}

	if err := manager.Delete("main"); err != nil {
		t.Errorf("Failed to delete profile: %v", err)
	}
	if _, err := manager.Retrieve("main"); err == nil {
		t.Error("Expected error retrieving deleted profile")
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 profiles after deletion, got %d", mockStore.Count())
	}
}

func TestManagerValidation(t *testing.T) {
	manager, _ := NewMockManager()

	tests := []struct {
		name    string
		profile *Profile
	}{
		{"missing name", &Profile{ClientID: "id", AuthToken: "tok"}},
		{"missing client ID", &Profile{Name: "p", AuthToken: "tok"}},
		{"missing auth token", &Profile{Name: "p", ClientID: "id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := manager.Store(tt.profile); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestManagerFallback(t *testing.T) {
	// First store always fails, second succeeds
	failing := NewMockStore()
	failing.StoreError = ErrStoreUnavailable
	failing.RetrieveError = ErrStoreUnavailable
	working := NewMockStore()

	manager := NewMockManagerWithStores(failing, working)

	profile := &Profile{Name: "main", ClientID: "id", AuthToken: "tok"}
	if err := manager.Store(profile); err != nil {
		t.Fatalf("Expected fallback store to accept profile: %v", err)
	}
	if working.Count() != 1 {
		t.Errorf("Expected profile in fallback store, count=%d", working.Count())
	}

	retrieved, err := manager.Retrieve("main")
	if err != nil {
		t.Fatalf("Expected retrieval through fallback store: %v", err)
	}
	if retrieved.ClientID != "id" {
		t.Errorf("Unexpected profile: %+v", retrieved)
	}
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv("TWITCHAPI_PASSPHRASE", "test-passphrase")

	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	profile := &Profile{
		Name:         "main",
		ClientID:     "client-id",
		AuthToken:    "secret-token",
		LastModified: time.Now(),
	}

	if err := store.Store(profile); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}

	// A fresh store instance with the same passphrase can read it back
	store2, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}

	retrieved, err := store2.Retrieve("main")
	if err != nil {
		t.Fatalf("Failed to retrieve: %v", err)
	}
	if retrieved.AuthToken != profile.AuthToken {
		t.Errorf("AuthToken mismatch: got %s, want %s", retrieved.AuthToken, profile.AuthToken)
	}

	if !store2.Exists("main") {
		t.Error("Expected profile to exist")
	}

	if err := store2.Delete("main"); err != nil {
		t.Errorf("Failed to delete: %v", err)
	}
	if store2.Exists("main") {
		t.Error("Expected profile to be gone")
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("TWITCHAPI_CLIENT_ID", "env-client-id")
	t.Setenv("TWITCHAPI_AUTH_TOKEN", "env-token")

	store := NewEnvironmentStore()

	profile, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve: %v", err)
	}
	if profile.Name != "default" {
		t.Errorf("Expected default profile name, got %s", profile.Name)
	}
	if profile.ClientID != "env-client-id" {
		t.Errorf("Unexpected client ID: %s", profile.ClientID)
	}

	if err := store.Store(profile); err != ErrStoreUnavailable {
		t.Errorf("Expected ErrStoreUnavailable on store, got %v", err)
	}
	if err := store.Delete("default"); err != ErrStoreUnavailable {
		t.Errorf("Expected ErrStoreUnavailable on delete, got %v", err)
	}
}
