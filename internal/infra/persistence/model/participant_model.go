package model

import (
	"time"
)

// ParticipantModel mirrors the 'participants' table. The operator-chosen
// participant_id is the primary key; it appears in URLs and artifact paths.
type ParticipantModel struct {
	ParticipantID string `gorm:"type:varchar(64);primaryKey"`
	DisplayName   string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(255)"`
	Notes         string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Credential *CredentialModel `gorm:"foreignKey:ParticipantID;references:ParticipantID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ParticipantModel) TableName() string {
	return "participants"
}

// CredentialModel mirrors the 'fitbit_credentials' table. One row per
// participant. ProviderUserID carries no unique constraint: the same Fitbit
// account may back multiple participants.
type CredentialModel struct {
	ParticipantID  string `gorm:"type:varchar(64);primaryKey"`
	ProviderUserID string `gorm:"type:varchar(64);not null"`
	AccessToken    string `gorm:"type:text;not null"`
	RefreshToken   string `gorm:"type:text;not null"`
	ExpiresAt      time.Time
	Scope          string `gorm:"type:text"`
	TokenType      string `gorm:"type:varchar(32)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "fitbit_credentials"
}
