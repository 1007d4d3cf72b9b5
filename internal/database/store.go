package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/lildude/rcsync/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store implements the hub's user directory and account-link store on top of
// the database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// EnsureUserForToken finds the user owning the given RunnersConnect token,
// creating one if none exists.
func (s *Store) EnsureUserForToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).Where(model.User{RCToken: token}).FirstOrCreate(&user)
	if result.Error != nil {
		logrus.Errorf("Failed to find or create user: %v", result.Error)
		return nil, result.Error
	}
	return &user, nil
}

// CreateOrUpdateLink stores the account link for (service, externalID),
// replacing any existing auth data.
func (s *Store) CreateOrUpdateLink(ctx context.Context, service, externalID string, authData map[string]any) (*model.AccountLink, error) {
	var auth pgtype.JSONB
	if err := auth.Set(authData); err != nil {
		return nil, fmt.Errorf("encoding auth data: %w", err)
	}

	var link model.AccountLink
	err := s.db.WithContext(ctx).Where(model.AccountLink{Service: service, ExternalID: externalID}).First(&link).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = model.AccountLink{Service: service, ExternalID: externalID, AuthData: auth}
		if createErr := s.db.WithContext(ctx).Create(&link).Error; createErr != nil {
			logrus.Errorf("Failed to create account link: %v", createErr)
			return nil, createErr
		}
	case err != nil:
		return nil, err
	default:
		link.AuthData = auth
		if saveErr := s.db.WithContext(ctx).Save(&link).Error; saveErr != nil {
			logrus.Errorf("Failed to save account link: %v", saveErr)
			return nil, saveErr
		}
	}
	return &link, nil
}

// AttachLinkToUser associates the link with the user.
func (s *Store) AttachLinkToUser(ctx context.Context, user *model.User, link *model.AccountLink) error {
	result := s.db.WithContext(ctx).Model(link).Update("user_id", user.ID)
	if result.Error != nil {
		logrus.Errorf("Failed to attach link to user: %v", result.Error)
	}
	return result.Error
}

// ConnectedServices lists the service IDs already linked to the user.
func (s *Store) ConnectedServices(ctx context.Context, user *model.User) ([]string, error) {
	var services []string
	result := s.db.WithContext(ctx).
		Model(&model.AccountLink{}).
		Where("user_id = ?", user.ID).
		Order("service").
		Distinct().
		Pluck("service", &services)
	if result.Error != nil {
		return nil, result.Error
	}
	return services, nil
}
