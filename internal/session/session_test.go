package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calnico/clinicbook/internal/api"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	s := &Session{
		Token:  "tok-123",
		UserID: "user-1",
		Name:   "Alice Rivera",
		Email:  "alice@example.com",
		Roles:  []Role{RolePatient},
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "tok-123" {
		t.Errorf("Token = %q, want %q", loaded.Token, "tok-123")
	}
	if loaded.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", loaded.UserID, "user-1")
	}
	if len(loaded.Roles) != 1 || loaded.Roles[0] != RolePatient {
		t.Errorf("Roles = %v, want [%s]", loaded.Roles, RolePatient)
	}
}

func TestLoadNoSession(t *testing.T) {
	useTempConfigDir(t)

	_, err := Load()
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Load with no file: err = %v, want ErrNoSession", err)
	}
}

func TestLoadEmptyToken(t *testing.T) {
	dir := useTempConfigDir(t)

	appDir := filepath.Join(dir, "clinicbook")
	if err := os.MkdirAll(appDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "session.yaml"), []byte("token: \"\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Load with empty token: err = %v, want ErrNoSession", err)
	}
}

func TestClear(t *testing.T) {
	useTempConfigDir(t)

	s := &Session{Token: "tok", UserID: "u"}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load after Clear: err = %v, want ErrNoSession", err)
	}

	// Clearing again is a no-op.
	if err := Clear(); err != nil {
		t.Errorf("Clear on absent session: %v", err)
	}
}

func TestSessionFilePermissions(t *testing.T) {
	dir := useTempConfigDir(t)

	s := &Session{Token: "tok", UserID: "u"}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "clinicbook", "session.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file mode = %o, want 0600", perm)
	}
}

func TestFromLoginNormalizesRoles(t *testing.T) {
	lr := &api.LoginResponse{
		Token:     "tok",
		ID:        "user-7",
		FirstName: "Dana",
		LastName:  "Okafor",
		Email:     "dana@example.com",
		Roles: []api.RoleRef{
			{Authority: "ROLE_DOCTOR"},
			{Name: "ROLE_ADMIN"},
		},
	}

	s := FromLogin(lr)
	if s.Token != "tok" || s.UserID != "user-7" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.Name != "Dana Okafor" {
		t.Errorf("Name = %q, want %q", s.Name, "Dana Okafor")
	}
	if !s.HasRole(RoleDoctor) || !s.HasRole(RoleAdmin) {
		t.Errorf("roles not normalized: %v", s.Roles)
	}
	if !s.IsAdmin() || !s.IsStaff() {
		t.Errorf("IsAdmin/IsStaff should be true for %v", s.Roles)
	}
}

func TestFromLoginLegacyRoleString(t *testing.T) {
	lr := &api.LoginResponse{
		Token: "tok",
		ID:    "user-8",
		Role:  `{"authority":"ROLE_PATIENT"}`,
	}

	s := FromLogin(lr)
	if !s.HasRole(RolePatient) {
		t.Errorf("legacy role not recognized: %v", s.Roles)
	}
	if s.IsStaff() {
		t.Errorf("patient should not be staff")
	}
}
