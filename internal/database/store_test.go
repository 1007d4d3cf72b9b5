package database

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/lildude/rcsync/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.AccountLink{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewStore(db)
}

func TestEnsureUserForToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.EnsureUserForToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if user.RCToken != "tok-1" {
		t.Errorf("token = %q, want tok-1", user.RCToken)
	}

	// Same token returns the same user
	again, err := s.EnsureUserForToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if again.ID != user.ID {
		t.Errorf("expected same user ID %d, got %d", user.ID, again.ID)
	}

	other, err := s.EnsureUserForToken(ctx, "tok-2")
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if other.ID == user.ID {
		t.Error("different tokens must yield different users")
	}
}

func TestCreateOrUpdateLink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	link, err := s.CreateOrUpdateLink(ctx, "runnersconnect", "tok-1", map[string]any{"token": "tok-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if !strings.Contains(string(link.AuthData.Bytes), "tok-1") {
		t.Errorf("auth data = %s", link.AuthData.Bytes)
	}

	// A repeat call updates the existing row rather than creating another
	updated, err := s.CreateOrUpdateLink(ctx, "runnersconnect", "tok-1", map[string]any{"token": "tok-1", "refreshed": true})
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if updated.ID != link.ID {
		t.Errorf("expected same link ID %d, got %d", link.ID, updated.ID)
	}
	if !strings.Contains(string(updated.AuthData.Bytes), "refreshed") {
		t.Errorf("auth data not replaced: %s", updated.AuthData.Bytes)
	}

	var count int64
	s.db.Model(&model.AccountLink{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 link row, got %d", count)
	}
}

func TestAttachAndConnectedServices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.EnsureUserForToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}

	if svcs, err := s.ConnectedServices(ctx, user); err != nil || len(svcs) != 0 {
		t.Errorf("expected no services, got %v (%v)", svcs, err)
	}

	for _, svc := range []string{"runnersconnect", "strava"} {
		link, err := s.CreateOrUpdateLink(ctx, svc, "ext-"+svc, map[string]any{})
		if err != nil {
			t.Fatalf("expected nil error, got %q", err)
		}
		if err := s.AttachLinkToUser(ctx, user, link); err != nil {
			t.Fatalf("expected nil error, got %q", err)
		}
	}

	svcs, err := s.ConnectedServices(ctx, user)
	if err != nil {
		t.Fatalf("expected nil error, got %q", err)
	}
	if !reflect.DeepEqual(svcs, []string{"runnersconnect", "strava"}) {
		t.Errorf("connected services = %v", svcs)
	}
}
