package model

import (
	"errors"
	"time"
)

// CrowdLevel is the reporter's estimate of how crowded the location is
type CrowdLevel string

const (
	CrowdLow    CrowdLevel = "Low"
	CrowdMedium CrowdLevel = "Medium"
	CrowdHigh   CrowdLevel = "High"
)

var ErrInvalidCrowdLevel = errors.New("crowdLevel must be one of: Low, Medium, High")

func ParseCrowdLevel(s string) (CrowdLevel, error) {
	switch CrowdLevel(s) {
	case CrowdLow, CrowdMedium, CrowdHigh:
		return CrowdLevel(s), nil
	}
	return "", ErrInvalidCrowdLevel
}

// Report represents a crowd incident submitted by a user
type Report struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	CrowdLevel  CrowdLevel   `json:"crowdLevel"`
	CrowdCount  *int         `json:"crowdCount"` // Pointer for optional field
	ImageURL    *string      `json:"imageUrl"`   // URL or data URL
	Status      ReportStatus `json:"status"`
	OwnerID     *int64       `json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Owner       *ReportOwner `json:"user,omitempty"`
}

// ReportOwner is the public summary of the user who filed a report
type ReportOwner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateReportRequest is used for creating a new report.
// The owner is always the caller and is never read from the body.
type CreateReportRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	CrowdLevel  string  `json:"crowdLevel" binding:"required"`
	CrowdCount  *int    `json:"crowdCount" binding:"omitempty,min=0"`
	ImageURL    *string `json:"imageUrl"`
}

// UpdateStatusRequest carries the requested status. It is validated by the
// service after the role check, so it has no binding rules.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ImageUpload is the result of an accepted image upload
type ImageUpload struct {
	ImageURL string `json:"imageUrl"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}
