package model

import (
	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

// User represents a hub user in the database. Users created through the
// RunnersConnect auto-link flow are identified by their RC token.
type User struct {
	gorm.Model
	RCToken string `gorm:"uniqueIndex"`
}

// AccountLink associates a user with an external service account
type AccountLink struct {
	gorm.Model
	UserID     *uint
	Service    string       `gorm:"index:idx_service_external,unique"`
	ExternalID string       `gorm:"index:idx_service_external,unique"`
	AuthData   pgtype.JSONB `gorm:"type:jsonb;default:'{}'"`
}
