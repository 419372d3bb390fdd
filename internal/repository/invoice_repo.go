package repository

import (
	"errors"
	"time"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	return r.db.Create(inv).Error
}

// GetByID fetches a single invoice scoped to its owning user. A record owned
// by someone else is reported as not found.
func (r *InvoiceRepository) GetByID(userID, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) ListByUser(userID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) ListByUserAndStatus(userID uuid.UUID, status string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("user_id = ? AND status = ?", userID, status).Order("created_at ASC").Find(&invoices).Error
	return invoices, err
}

// UpdateByID applies a partial field merge and returns the updated record.
func (r *InvoiceRepository) UpdateByID(userID, id uuid.UUID, updates map[string]interface{}) (*models.Invoice, error) {
	result := r.db.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apierror.ErrNotFound
	}
	return r.GetByID(userID, id)
}

// DeleteByID removes the invoice and returns the deleted record.
func (r *InvoiceRepository) DeleteByID(userID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := r.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Invoice{}, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// SumTotalByStatus sums invoice totals for one status, 0 when none match.
func (r *InvoiceRepository) SumTotalByStatus(userID uuid.UUID, status string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Invoice{}).
		Where("user_id = ? AND status = ?", userID, status).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

type StatusCount struct {
	Status string
	Count  int64
}

// CountByStatus groups the user's invoices by status.
func (r *InvoiceRepository) CountByStatus(userID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// BackfillPaidAt stamps paid invoices that are missing a payment timestamp.
// The stamp is the backfill run time, an approximation of the true payment
// time, which is unrecoverable.
func (r *InvoiceRepository) BackfillPaidAt(userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.Model(&models.Invoice{}).
		Where("user_id = ? AND status = ? AND paid_at IS NULL", userID, models.InvoiceStatusPaid).
		Update("paid_at", now)
	return result.RowsAffected, result.Error
}
