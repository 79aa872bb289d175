package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ecopoints/ecopoints/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reports (
			id, user_id, location, waste_type, amount, image_url, verification, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.UserID,
		report.Location,
		report.WasteType,
		report.Amount,
		report.ImageURL,
		report.Verification,
		string(report.Status),
		report.CreatedAt,
		report.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Report, error) {
	var report domain.Report
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, location, waste_type, amount, image_url, verification, status, collector_id, created_at, updated_at
		 FROM reports WHERE id = ?`,
		id,
	).Scan(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == 0 {
		return nil, nil
	}
	return &report, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, limit int) ([]domain.Report, error) {
	var reports []domain.Report
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repo) MarkCollected(ctx context.Context, db *gorm.DB, id, collectorID snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE reports
		 SET status = ?, collector_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		string(domain.ReportStatusCollected),
		collectorID,
		id,
		string(domain.ReportStatusPending),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
