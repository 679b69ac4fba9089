package model

import (
	"time"

	"gorm.io/gorm"
)

type SyncStatus string

const (
	StatusSuccess SyncStatus = "SUCCESS"
	StatusFailed  SyncStatus = "FAILED"
)

type History struct {
	gorm.Model
	Game      string     `gorm:"not null"`
	Identity  string     `gorm:"not null"`
	Direction string     `gorm:"not null"`
	SrcPath   string     `gorm:"not null"`
	DstPath   string     `gorm:"not null"`
	Status    SyncStatus `gorm:"not null"`
	ErrMsg    string
	SyncedAt  time.Time `gorm:"not null"`
}
