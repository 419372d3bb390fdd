package analytics

import (
	"sort"
	"time"

	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/google/uuid"
)

// unknownClient is the bucket for invoices whose client name is empty.
const unknownClient = "unknown"

type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type MonthlyBucket struct {
	Key   MonthKey `json:"_id"`
	Total float64  `json:"total"`
}

type ClientBucket struct {
	Client string  `json:"_id"`
	Total  float64 `json:"total"`
}

type StatusBucket struct {
	Status string `json:"_id"`
	Count  int64  `json:"count"`
}

type CategoryBucket struct {
	Category string  `json:"_id"`
	Total    float64 `json:"total"`
}

// Snapshot is the full dashboard payload for one user at one point in time.
type Snapshot struct {
	TotalIncome      float64          `json:"totalIncome"`
	TotalExpenses    float64          `json:"totalExpenses"`
	TotalBalance     float64          `json:"totalBalance"`
	MonthlyIncome    []MonthlyBucket  `json:"monthlyIncome"`
	MonthlyExpenses  []MonthlyBucket  `json:"monthlyExpenses"`
	TopClients       []ClientBucket   `json:"topClients"`
	StatusBreakdown  []StatusBucket   `json:"statusBreakdown"`
	CategoryExpenses []CategoryBucket `json:"categoryExpenses"`
}

// Engine recomputes every metric from the stored records on each call.
// Nothing is cached, so reads are always consistent with the last write.
type Engine struct {
	invoices *repository.InvoiceRepository
	expenses *repository.ExpenseRepository
}

func NewEngine(invoices *repository.InvoiceRepository, expenses *repository.ExpenseRepository) *Engine {
	return &Engine{invoices: invoices, expenses: expenses}
}

// TotalIncome sums the totals of paid invoices only.
func (e *Engine) TotalIncome(userID uuid.UUID) (float64, error) {
	return e.invoices.SumTotalByStatus(userID, models.InvoiceStatusPaid)
}

func (e *Engine) TotalExpenses(userID uuid.UUID) (float64, error) {
	return e.expenses.SumAmount(userID)
}

// MonthlyIncome buckets paid invoices by (year, month) of their payment date,
// which is PaidAt when set and CreatedAt otherwise. The series is sparse:
// months with no paid invoice are omitted.
func (e *Engine) MonthlyIncome(userID uuid.UUID) ([]MonthlyBucket, error) {
	invoices, err := e.invoices.ListByUserAndStatus(userID, models.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}

	totals := make(map[MonthKey]float64)
	for _, inv := range invoices {
		paymentDate := inv.CreatedAt
		if inv.PaidAt != nil {
			paymentDate = *inv.PaidAt
		}
		totals[monthOf(paymentDate)] += inv.Total
	}
	return sortMonthly(totals), nil
}

// MonthlyExpenses buckets all expenses by (year, month) of their creation
// time, with the same sparse contract as MonthlyIncome.
func (e *Engine) MonthlyExpenses(userID uuid.UUID) ([]MonthlyBucket, error) {
	expenses, err := e.expenses.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[MonthKey]float64)
	for _, exp := range expenses {
		totals[monthOf(exp.CreatedAt)] += exp.Amount
	}
	return sortMonthly(totals), nil
}

// TopClients groups invoices of any status by exact client name and returns
// the five largest totals. An empty client name groups under "unknown". Ties
// keep insertion order.
func (e *Engine) TopClients(userID uuid.UUID) ([]ClientBucket, error) {
	invoices, err := e.invoices.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	var order []string
	for _, inv := range invoices {
		name := inv.Client.Name
		if name == "" {
			name = unknownClient
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += inv.Total
	}

	buckets := make([]ClientBucket, 0, len(order))
	for _, name := range order {
		buckets = append(buckets, ClientBucket{Client: name, Total: totals[name]})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Total > buckets[j].Total
	})
	if len(buckets) > 5 {
		buckets = buckets[:5]
	}
	return buckets, nil
}

// StatusBreakdown counts invoices per status.
func (e *Engine) StatusBreakdown(userID uuid.UUID) ([]StatusBucket, error) {
	rows, err := e.invoices.CountByStatus(userID)
	if err != nil {
		return nil, err
	}
	buckets := make([]StatusBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, StatusBucket{Status: row.Status, Count: row.Count})
	}
	return buckets, nil
}

// CategoryExpenses sums expenses per category string, largest first.
func (e *Engine) CategoryExpenses(userID uuid.UUID) ([]CategoryBucket, error) {
	rows, err := e.expenses.SumAmountByCategory(userID)
	if err != nil {
		return nil, err
	}
	buckets := make([]CategoryBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, CategoryBucket{Category: row.Category, Total: row.Total})
	}
	return buckets, nil
}

// BuildSnapshot assembles every metric into one payload. Any metric failure
// fails the whole snapshot; partial results are never returned.
func (e *Engine) BuildSnapshot(userID uuid.UUID) (*Snapshot, error) {
	totalIncome, err := e.TotalIncome(userID)
	if err != nil {
		return nil, err
	}
	totalExpenses, err := e.TotalExpenses(userID)
	if err != nil {
		return nil, err
	}
	monthlyIncome, err := e.MonthlyIncome(userID)
	if err != nil {
		return nil, err
	}
	monthlyExpenses, err := e.MonthlyExpenses(userID)
	if err != nil {
		return nil, err
	}
	topClients, err := e.TopClients(userID)
	if err != nil {
		return nil, err
	}
	statusBreakdown, err := e.StatusBreakdown(userID)
	if err != nil {
		return nil, err
	}
	categoryExpenses, err := e.CategoryExpenses(userID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		TotalBalance:     totalIncome - totalExpenses,
		MonthlyIncome:    monthlyIncome,
		MonthlyExpenses:  monthlyExpenses,
		TopClients:       topClients,
		StatusBreakdown:  statusBreakdown,
		CategoryExpenses: categoryExpenses,
	}, nil
}

func monthOf(t time.Time) MonthKey {
	t = t.UTC()
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

func sortMonthly(totals map[MonthKey]float64) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 0, len(totals))
	for key, total := range totals {
		buckets = append(buckets, MonthlyBucket{Key: key, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Key.Year != buckets[j].Key.Year {
			return buckets[i].Key.Year < buckets[j].Key.Year
		}
		return buckets[i].Key.Month < buckets[j].Key.Month
	})
	return buckets
}
