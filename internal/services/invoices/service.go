package invoices

import (
	"fmt"
	"time"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Mailer delivers the payment-link notification. Real delivery lives behind
// this interface so the service stays free of SMTP details.
type Mailer interface {
	SendPaymentLink(to, clientName, link string) error
}

// LogMailer only records the notification. Used when no SMTP backend is
// configured.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m *LogMailer) SendPaymentLink(to, clientName, link string) error {
	m.Logger.WithFields(logrus.Fields{
		"to":     to,
		"client": clientName,
		"link":   link,
	}).Info("payment link issued")
	return nil
}

type Service struct {
	repo     *repository.InvoiceRepository
	mailer   Mailer
	logger   *logrus.Logger
	linkBase string
	now      func() time.Time
}

func NewService(repo *repository.InvoiceRepository, mailer Mailer, logger *logrus.Logger, linkBase string) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		logger:   logger,
		linkBase: linkBase,
		now:      time.Now,
	}
}

type CreateInput struct {
	Client    models.Client        `json:"client"`
	Items     []models.InvoiceItem `json:"items"`
	Total     float64              `json:"total"`
	Status    string               `json:"status"`
	DueDate   time.Time            `json:"dueDate"`
	Recurring bool                 `json:"recurring"`
	PdfURL    string               `json:"pdfUrl"`
}

type UpdateInput struct {
	Client    *models.Client        `json:"client"`
	Items     *[]models.InvoiceItem `json:"items"`
	Total     *float64              `json:"total"`
	Status    *string               `json:"status"`
	DueDate   *time.Time            `json:"dueDate"`
	Recurring *bool                 `json:"recurring"`
	PdfURL    *string               `json:"pdfUrl"`
}

// Create stores a new invoice for the user. When line items are present the
// total is recomputed server-side; an item-less invoice keeps the caller's
// total as-is.
func (s *Service) Create(userID uuid.UUID, input CreateInput) (*models.Invoice, error) {
	status := input.Status
	if status == "" {
		status = models.InvoiceStatusUnpaid
	}
	if !validStatus(status) {
		return nil, apierror.Validation("invalid invoice status: " + status)
	}

	total := input.Total
	if len(input.Items) > 0 {
		total = computeTotal(input.Items)
	}

	invoice := &models.Invoice{
		ID:        uuid.New(),
		UserID:    userID,
		Client:    input.Client,
		Items:     input.Items,
		Total:     total,
		Status:    status,
		DueDate:   input.DueDate,
		Recurring: input.Recurring,
		PdfURL:    input.PdfURL,
		CreatedAt: s.now(),
	}
	if status == models.InvoiceStatusPaid {
		paidAt := s.now()
		invoice.PaidAt = &paidAt
	}

	if err := s.repo.Create(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) Get(userID, id uuid.UUID) (*models.Invoice, error) {
	return s.repo.GetByID(userID, id)
}

func (s *Service) List(userID uuid.UUID) ([]models.Invoice, error) {
	return s.repo.ListByUser(userID)
}

// Update applies a partial merge. Transitioning into paid stamps PaidAt with
// the update time, but only once: an existing PaidAt is never overwritten and
// never cleared by a later status change.
func (s *Service) Update(userID, id uuid.UUID, input UpdateInput) (*models.Invoice, error) {
	existing, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Client != nil {
		updates["client_name"] = input.Client.Name
		updates["client_email"] = input.Client.Email
		updates["client_address"] = input.Client.Address
	}
	if input.Items != nil {
		updates["items"] = datatypes.NewJSONSlice(*input.Items)
		if len(*input.Items) > 0 {
			updates["total"] = computeTotal(*input.Items)
		} else if input.Total != nil {
			updates["total"] = *input.Total
		}
	} else if input.Total != nil {
		updates["total"] = *input.Total
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, apierror.Validation("invalid invoice status: " + *input.Status)
		}
		updates["status"] = *input.Status
		if *input.Status == models.InvoiceStatusPaid && existing.PaidAt == nil {
			updates["paid_at"] = s.now()
		}
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}
	if input.Recurring != nil {
		updates["recurring"] = *input.Recurring
	}
	if input.PdfURL != nil {
		updates["pdf_url"] = *input.PdfURL
	}

	if len(updates) == 0 {
		return existing, nil
	}
	return s.repo.UpdateByID(userID, id, updates)
}

func (s *Service) Delete(userID, id uuid.UUID) (*models.Invoice, error) {
	return s.repo.DeleteByID(userID, id)
}

// BackfillPaidAt repairs historical paid invoices that never got a payment
// timestamp, stamping them with the run time. The stamp is approximate; the
// true payment time is gone.
func (s *Service) BackfillPaidAt(userID uuid.UUID) (int64, error) {
	count, err := s.repo.BackfillPaidAt(userID, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.WithFields(logrus.Fields{
			"userId":  userID,
			"stamped": count,
		}).Info("backfilled missing paidAt timestamps")
	}
	return count, nil
}

// RequestPaymentLink generates and stores a payment link for an unpaid or
// overdue invoice and notifies the client. Already-paid invoices are
// rejected.
func (s *Service) RequestPaymentLink(userID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, fmt.Errorf("invoice is already paid: %w", apierror.ErrConflict)
	}

	link := s.linkBase + uuid.New().String()
	updated, err := s.repo.UpdateByID(userID, id, map[string]interface{}{"payment_link": link})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendPaymentLink(invoice.Client.Email, invoice.Client.Name, link); err != nil {
		// delivery failure does not undo the stored link
		s.logger.WithError(err).WithField("invoiceId", id).Warn("payment link mail failed")
	}
	return updated, nil
}

func validStatus(status string) bool {
	switch status {
	case models.InvoiceStatusUnpaid, models.InvoiceStatusPaid, models.InvoiceStatusOverdue:
		return true
	}
	return false
}

// computeTotal sums price*quantity plus percentage tax per line. Decimal
// arithmetic keeps the recompute itself free of float drift.
func computeTotal(items []models.InvoiceItem) float64 {
	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Quantity))
		tax := line.Mul(decimal.NewFromFloat(item.Tax)).Div(hundred)
		total = total.Add(line).Add(tax)
	}
	f, _ := total.Float64()
	return f
}
