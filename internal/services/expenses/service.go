package expenses

import (
	"time"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.ExpenseRepository
	now  func() time.Time
}

func NewService(repo *repository.ExpenseRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Amount     float64   `json:"amount" binding:"required"`
	Category   string    `json:"category" binding:"required"`
	Date       time.Time `json:"date"`
	ReceiptURL string    `json:"receiptUrl"`
	OCRText    string    `json:"ocrText"`
	AICategory string    `json:"aiCategory"`
}

type UpdateInput struct {
	Amount     *float64   `json:"amount"`
	Category   *string    `json:"category"`
	Date       *time.Time `json:"date"`
	ReceiptURL *string    `json:"receiptUrl"`
	OCRText    *string    `json:"ocrText"`
	AICategory *string    `json:"aiCategory"`
}

func (s *Service) Create(userID uuid.UUID, input CreateInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, apierror.Validation("expense amount must be positive")
	}
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	expense := &models.Expense{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     input.Amount,
		Category:   input.Category,
		Date:       date,
		ReceiptURL: input.ReceiptURL,
		OCRText:    input.OCRText,
		AICategory: input.AICategory,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) Get(userID, id uuid.UUID) (*models.Expense, error) {
	return s.repo.GetByID(userID, id)
}

func (s *Service) List(userID uuid.UUID) ([]models.Expense, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) Update(userID, id uuid.UUID, input UpdateInput) (*models.Expense, error) {
	updates := map[string]interface{}{}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, apierror.Validation("expense amount must be positive")
		}
		updates["amount"] = *input.Amount
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Date != nil {
		updates["date"] = *input.Date
	}
	if input.ReceiptURL != nil {
		updates["receipt_url"] = *input.ReceiptURL
	}
	if input.OCRText != nil {
		updates["ocr_text"] = *input.OCRText
	}
	if input.AICategory != nil {
		updates["ai_category"] = *input.AICategory
	}

	if len(updates) == 0 {
		return s.repo.GetByID(userID, id)
	}
	return s.repo.UpdateByID(userID, id, updates)
}

func (s *Service) Delete(userID, id uuid.UUID) (*models.Expense, error) {
	return s.repo.DeleteByID(userID, id)
}
