package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crowdsight/internal/authz"
	"crowdsight/internal/model"
	"crowdsight/internal/repository"
)

// ReportService defines the report use cases. Every method takes the caller's
// identity and asks the authorization core before touching the store.
type ReportService interface {
	Create(ctx context.Context, id authz.Identity, req model.CreateReportRequest) (*model.Report, error)
	List(ctx context.Context, id authz.Identity, filters model.ReportFilters) (*model.ReportPage, error)
	Delete(ctx context.Context, id authz.Identity, reportID int64) error
	UpdateStatus(ctx context.Context, id authz.Identity, reportID int64, status string) (*model.Report, error)

	// Admin methods
	AdminList(ctx context.Context, id authz.Identity, filters model.ReportFilters) (*model.ReportPage, error)
	AdminDelete(ctx context.Context, id authz.Identity, reportID int64) error
	AdminUpdateStatus(ctx context.Context, id authz.Identity, reportID int64, status string) (*model.Report, error)
}

type reportService struct {
	repo repository.ReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", authz.ErrValidation, err)
}

func (s *reportService) Create(ctx context.Context, id authz.Identity, req model.CreateReportRequest) (*model.Report, error) {
	if err := authz.Check(id, authz.CreateReport).Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	location := strings.TrimSpace(req.Location)
	if title == "" || description == "" || location == "" {
		return nil, invalid(errors.New("title, description and location are required"))
	}
	level, err := model.ParseCrowdLevel(strings.TrimSpace(req.CrowdLevel))
	if err != nil {
		return nil, invalid(err)
	}
	if req.CrowdCount != nil && *req.CrowdCount < 0 {
		return nil, invalid(errors.New("crowdCount must not be negative"))
	}
	var imageURL *string
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" {
		u := strings.TrimSpace(*req.ImageURL)
		imageURL = &u
	}

	owner := id.ID
	report := &model.Report{
		Title:       title,
		Description: description,
		Location:    location,
		CrowdLevel:  level,
		CrowdCount:  req.CrowdCount,
		ImageURL:    imageURL,
		Status:      model.InitialStatus,
		OwnerID:     &owner,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report in repo: %w", err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, id authz.Identity, filters model.ReportFilters) (*model.ReportPage, error) {
	return s.list(ctx, id, authz.ListReports, filters.Normalize(model.DefaultUserLimit))
}

func (s *reportService) Delete(ctx context.Context, id authz.Identity, reportID int64) error {
	return s.delete(ctx, id, authz.DeleteReport, reportID)
}

func (s *reportService) UpdateStatus(ctx context.Context, id authz.Identity, reportID int64, status string) (*model.Report, error) {
	return s.updateStatus(ctx, id, authz.UpdateStatus, reportID, status)
}

// --- Admin Methods ---

func (s *reportService) AdminList(ctx context.Context, id authz.Identity, filters model.ReportFilters) (*model.ReportPage, error) {
	return s.list(ctx, id, authz.AdminListAll, filters.Normalize(model.DefaultAdminLimit))
}

func (s *reportService) AdminDelete(ctx context.Context, id authz.Identity, reportID int64) error {
	return s.delete(ctx, id, authz.AdminDeleteAny, reportID)
}

func (s *reportService) AdminUpdateStatus(ctx context.Context, id authz.Identity, reportID int64, status string) (*model.Report, error) {
	return s.updateStatus(ctx, id, authz.AdminUpdateStatus, reportID, status)
}

func (s *reportService) list(ctx context.Context, id authz.Identity, op authz.Operation, filters model.ReportFilters) (*model.ReportPage, error) {
	visibility, decision := authz.Scope(id, op)
	if err := decision.Err(); err != nil {
		return nil, err
	}

	reports, total, err := s.repo.FindMany(ctx, visibility.Apply(filters))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports from repo: %w", err)
	}
	return &model.ReportPage{
		Reports:    reports,
		Pagination: model.NewPagination(filters.Page, filters.Limit, total),
	}, nil
}

func (s *reportService) delete(ctx context.Context, id authz.Identity, op authz.Operation, reportID int64) error {
	if err := authz.Check(id, op).Err(); err != nil {
		return err
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("failed to find report for deletion: %w", err)
	}
	if err := authz.CheckTarget(id, op, authz.TargetOf(report)).Err(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, reportID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return authz.ErrNotFound
		}
		return fmt.Errorf("failed to delete report in repo: %w", err)
	}
	return nil
}

// updateStatus checks the role, then the requested value, then existence.
// A rejected request never reaches the store.
func (s *reportService) updateStatus(ctx context.Context, id authz.Identity, op authz.Operation, reportID int64, status string) (*model.Report, error) {
	if err := authz.Check(id, op).Err(); err != nil {
		return nil, err
	}
	if _, err := model.ParseStatus(strings.TrimSpace(status)); err != nil {
		return nil, invalid(err)
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to find report for status update: %w", err)
	}
	if err := authz.CheckTarget(id, op, authz.TargetOf(report)).Err(); err != nil {
		return nil, err
	}

	next, err := model.TransitionStatus(report.Status, strings.TrimSpace(status))
	if err != nil {
		return nil, invalid(err)
	}

	if err := s.repo.UpdateStatus(ctx, reportID, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, authz.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update report status in repo: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload report after status update: %w", err)
	}
	if updated == nil {
		return nil, authz.ErrNotFound
	}
	return updated, nil
}
