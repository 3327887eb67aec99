package model

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a configurable lookup row (trip types, event types, ...).
// Key is unique within its category.
type Setting struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	Category   string         `gorm:"size:100;not null;uniqueIndex:idx_settings_category_key" json:"category"`
	Key        string         `gorm:"size:100;not null;uniqueIndex:idx_settings_category_key" json:"key"`
	Label      string         `gorm:"size:255;not null" json:"label" validate:"required,max=255"`
	Value      *string        `json:"value"`
	Metadata   datatypes.JSON `json:"metadata"`
	OrderIndex int            `gorm:"not null;default:0" json:"orderIndex"`
	IsActive   bool           `gorm:"not null" json:"isActive"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// AuditLog stores one admin mutation.
type AuditLog struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	Action     string         `gorm:"size:100;index;not null" json:"action"`
	UserID     *uint64        `gorm:"index" json:"userId"`
	Role       string         `gorm:"size:32" json:"role"`
	Method     string         `gorm:"size:10" json:"method"`
	Path       string         `gorm:"size:255" json:"path"`
	Status     int            `json:"status"`
	ResourceID *string        `gorm:"size:64" json:"resourceId"`
	Details    datatypes.JSON `json:"details"`
	At         time.Time      `gorm:"index;not null" json:"at"`
}
