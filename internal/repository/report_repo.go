package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crowdsight/internal/model"

	"github.com/jackc/pgx/v5"
)

// ReportRepository defines operations for report data
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id int64) (*model.Report, error)
	FindMany(ctx context.Context, q model.ReportQuery) ([]model.Report, int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error
	Delete(ctx context.Context, id int64) error
}

type reportRepository struct {
	db DBTX
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `r.id, r.title, r.description, r.location, r.crowd_level, r.crowd_count, r.image_url,
            r.status, r.user_id, r.created_at, r.updated_at, u.id, u.name, u.email`

const reportFrom = ` FROM reports r LEFT JOIN users u ON u.id = r.user_id`

// sortColumns maps every allowed sort field to its column; nothing else reaches ORDER BY
var sortColumns = map[model.SortField]string{
	model.SortByCreatedAt:  "r.created_at",
	model.SortByUpdatedAt:  "r.updated_at",
	model.SortByTitle:      "r.title",
	model.SortByLocation:   "r.location",
	model.SortByStatus:     "r.status",
	model.SortByCrowdLevel: "r.crowd_level",
	model.SortByCrowdCount: "r.crowd_count",
	model.SortByID:         "r.id",
}

// Create inserts a new report and fills in its generated fields
func (r *reportRepository) Create(ctx context.Context, rep *model.Report) error {
	sql := `INSERT INTO reports (title, description, location, crowd_level, crowd_count, image_url, status, user_id)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, rep.Title, rep.Description, rep.Location, rep.CrowdLevel, rep.CrowdCount,
		rep.ImageURL, rep.Status, rep.OwnerID).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// FindByID retrieves a report by its ID
func (r *reportRepository) FindByID(ctx context.Context, id int64) (*model.Report, error) {
	sql := `SELECT ` + reportColumns + reportFrom + ` WHERE r.id = $1`
	rep, err := scanReport(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find report by ID: %w", err)
	}
	return rep, nil
}

// FindMany returns one page of reports matching q together with the total match count
func (r *reportRepository) FindMany(ctx context.Context, q model.ReportQuery) ([]model.Report, int64, error) {
	where, args := buildReportWhere(q)

	var total int64
	countSQL := `SELECT COUNT(*) FROM reports r` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + reportColumns + reportFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(orderBy(q.SortBy, q.SortDesc))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *rep)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, total, nil
}

// UpdateStatus sets the status of a single report
func (r *reportRepository) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) error {
	sql := `UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, status, id)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a report from the database
func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM reports WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func buildReportWhere(q model.ReportQuery) (string, []any) {
	var conditions []string
	args := []any{}
	argCount := 1

	if q.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", argCount))
		args = append(args, *q.OwnerID)
		argCount++
	}
	if q.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argCount))
		args = append(args, *q.Status)
		argCount++
	}
	if q.CrowdLevel != nil {
		conditions = append(conditions, fmt.Sprintf("r.crowd_level = $%d", argCount))
		args = append(args, *q.CrowdLevel)
		argCount++
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(r.title ILIKE $%[1]d OR r.description ILIKE $%[1]d OR r.location ILIKE $%[1]d)", argCount))
		args = append(args, "%"+escapeLike(search)+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderBy(field model.SortField, desc bool) string {
	column, ok := sortColumns[field]
	if !ok {
		column = sortColumns[model.SortByCreatedAt]
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	if column == "r.id" {
		return fmt.Sprintf(" ORDER BY r.id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, r.id %s", column, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanReport(row pgx.Row) (*model.Report, error) {
	var (
		rep        model.Report
		ownerID    *int64
		ownerName  *string
		ownerEmail *string
	)
	err := row.Scan(
		&rep.ID, &rep.Title, &rep.Description, &rep.Location, &rep.CrowdLevel, &rep.CrowdCount, &rep.ImageURL,
		&rep.Status, &rep.OwnerID, &rep.CreatedAt, &rep.UpdatedAt, &ownerID, &ownerName, &ownerEmail,
	)
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		rep.Owner = &model.ReportOwner{ID: *ownerID}
		if ownerName != nil {
			rep.Owner.Name = *ownerName
		}
		if ownerEmail != nil {
			rep.Owner.Email = *ownerEmail
		}
	}
	return &rep, nil
}
