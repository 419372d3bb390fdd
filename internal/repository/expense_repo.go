package repository

import (
	"errors"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *models.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(userID, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.First(&expense, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *ExpenseRepository) ListByUser(userID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) UpdateByID(userID, id uuid.UUID, updates map[string]interface{}) (*models.Expense, error) {
	result := r.db.Model(&models.Expense{}).
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

func (r *ExpenseRepository) DeleteByID(userID, id uuid.UUID) (*models.Expense, error) {
	expense, err := r.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Expense{}, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// SumAmount totals every expense for the user, 0 when there are none.
func (r *ExpenseRepository) SumAmount(userID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type CategorySum struct {
	Category string
	Total    float64
}

// SumAmountByCategory groups expenses by exact category string, highest
// total first. No normalization: case and spelling variants stay distinct.
func (r *ExpenseRepository) SumAmountByCategory(userID uuid.UUID) ([]CategorySum, error) {
	var rows []CategorySum
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}
