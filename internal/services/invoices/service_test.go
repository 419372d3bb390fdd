package invoices

import (
	"errors"
	"io"
	"testing"
	"time"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type captureMailer struct {
	to     string
	client string
	link   string
	calls  int
}

func (m *captureMailer) SendPaymentLink(to, clientName, link string) error {
	m.to = to
	m.client = clientName
	m.link = link
	m.calls++
	return nil
}

type InvoiceServiceTestSuite struct {
	suite.Suite
	repo    *repository.InvoiceRepository
	svc     *Service
	mailer  *captureMailer
	userID  uuid.UUID
	nowTime time.Time
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(suite.T(), err, "failed to open test database")
	require.NoError(suite.T(), db.AutoMigrate(&models.Invoice{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	suite.repo = repository.NewInvoiceRepository(db)
	suite.mailer = &captureMailer{}
	suite.svc = NewService(suite.repo, suite.mailer, logger, "https://pay.test/")
	suite.nowTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.svc.now = func() time.Time { return suite.nowTime }
	suite.userID = uuid.New()
}

func (suite *InvoiceServiceTestSuite) TestCreateDefaultsToUnpaid() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{
		Client: models.Client{Name: "Acme"},
		Total:  1000,
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.InvoiceStatusUnpaid, inv.Status)
	assert.Nil(suite.T(), inv.PaidAt)
	assert.Equal(suite.T(), 1000.0, inv.Total)
}

func (suite *InvoiceServiceTestSuite) TestCreateRejectsUnknownStatus() {
	_, err := suite.svc.Create(suite.userID, CreateInput{Status: "cancelled"})
	var ve *apierror.ValidationError
	assert.True(suite.T(), errors.As(err, &ve))
}

func (suite *InvoiceServiceTestSuite) TestCreateRecomputesTotalFromItems() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{
		Client: models.Client{Name: "Acme"},
		Items: []models.InvoiceItem{
			{Description: "design", Quantity: 2, Price: 100, Tax: 10}, // 200 + 20
			{Description: "hosting", Quantity: 1, Price: 50, Tax: 0},  // 50
		},
		Total: 9999, // caller-supplied total is ignored when items exist
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 270.0, inv.Total)
}

func (suite *InvoiceServiceTestSuite) TestCreateWithoutItemsPassesTotalThrough() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 420})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 420.0, inv.Total)
}

func (suite *InvoiceServiceTestSuite) TestUpdateToPaidStampsPaidAtOnce() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 500})
	require.NoError(suite.T(), err)

	paid := models.InvoiceStatusPaid
	updated, err := suite.svc.Update(suite.userID, inv.ID, UpdateInput{Status: &paid})
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), updated.PaidAt)
	firstStamp := *updated.PaidAt
	assert.True(suite.T(), firstStamp.Equal(suite.nowTime))

	// a later paid update must not move the stamp
	suite.nowTime = suite.nowTime.Add(48 * time.Hour)
	updated, err = suite.svc.Update(suite.userID, inv.ID, UpdateInput{Status: &paid})
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), updated.PaidAt)
	assert.True(suite.T(), updated.PaidAt.Equal(firstStamp))
}

func (suite *InvoiceServiceTestSuite) TestPaidAtSurvivesRevertToUnpaid() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 500, Status: models.InvoiceStatusPaid})
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), inv.PaidAt)

	unpaid := models.InvoiceStatusUnpaid
	updated, err := suite.svc.Update(suite.userID, inv.ID, UpdateInput{Status: &unpaid})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.InvoiceStatusUnpaid, updated.Status)
	assert.NotNil(suite.T(), updated.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestUpdateIsPartialMerge() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{
		Client:  models.Client{Name: "Acme", Email: "acme@example.com"},
		Total:   500,
		DueDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(suite.T(), err)

	newDue := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	updated, err := suite.svc.Update(suite.userID, inv.ID, UpdateInput{DueDate: &newDue})
	require.NoError(suite.T(), err)

	assert.True(suite.T(), updated.DueDate.Equal(newDue))
	assert.Equal(suite.T(), "Acme", updated.Client.Name)
	assert.Equal(suite.T(), 500.0, updated.Total)
	assert.Equal(suite.T(), models.InvoiceStatusUnpaid, updated.Status)
}

func (suite *InvoiceServiceTestSuite) TestUpdateForeignInvoiceIsNotFound() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 500})
	require.NoError(suite.T(), err)

	paid := models.InvoiceStatusPaid
	_, err = suite.svc.Update(uuid.New(), inv.ID, UpdateInput{Status: &paid})
	assert.ErrorIs(suite.T(), err, apierror.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestDeleteReturnsRecordThenNotFound() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 500})
	require.NoError(suite.T(), err)

	deleted, err := suite.svc.Delete(suite.userID, inv.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), inv.ID, deleted.ID)

	_, err = suite.svc.Delete(suite.userID, inv.ID)
	assert.ErrorIs(suite.T(), err, apierror.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestBackfillStampsOnlyPaidWithoutPaidAt() {
	// stored directly so paid invoices can exist without a stamp
	missing := &models.Invoice{
		ID: uuid.New(), UserID: suite.userID,
		Status: models.InvoiceStatusPaid, Total: 100, CreatedAt: suite.nowTime,
	}
	require.NoError(suite.T(), suite.repo.Create(missing))

	already := suite.nowTime.Add(-time.Hour)
	stamped := &models.Invoice{
		ID: uuid.New(), UserID: suite.userID,
		Status: models.InvoiceStatusPaid, PaidAt: &already, Total: 100, CreatedAt: suite.nowTime,
	}
	require.NoError(suite.T(), suite.repo.Create(stamped))

	unpaid := &models.Invoice{
		ID: uuid.New(), UserID: suite.userID,
		Status: models.InvoiceStatusUnpaid, Total: 100, CreatedAt: suite.nowTime,
	}
	require.NoError(suite.T(), suite.repo.Create(unpaid))

	count, err := suite.svc.BackfillPaidAt(suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)

	refetched, err := suite.repo.GetByID(suite.userID, missing.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), refetched.PaidAt)
	assert.True(suite.T(), refetched.PaidAt.Equal(suite.nowTime))

	untouched, err := suite.repo.GetByID(suite.userID, stamped.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), untouched.PaidAt.Equal(already))

	still, err := suite.repo.GetByID(suite.userID, unpaid.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), still.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestPaymentLinkRejectedOnPaidInvoice() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{Total: 500, Status: models.InvoiceStatusPaid})
	require.NoError(suite.T(), err)

	_, err = suite.svc.RequestPaymentLink(suite.userID, inv.ID)
	assert.ErrorIs(suite.T(), err, apierror.ErrConflict)
	assert.Zero(suite.T(), suite.mailer.calls)
}

func (suite *InvoiceServiceTestSuite) TestPaymentLinkIssuedForUnpaidInvoice() {
	inv, err := suite.svc.Create(suite.userID, CreateInput{
		Client: models.Client{Name: "Acme", Email: "acme@example.com"},
		Total:  500,
	})
	require.NoError(suite.T(), err)

	updated, err := suite.svc.RequestPaymentLink(suite.userID, inv.ID)
	require.NoError(suite.T(), err)

	assert.Contains(suite.T(), updated.PaymentLink, "https://pay.test/")
	assert.Equal(suite.T(), 1, suite.mailer.calls)
	assert.Equal(suite.T(), "acme@example.com", suite.mailer.to)
	assert.Equal(suite.T(), updated.PaymentLink, suite.mailer.link)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
