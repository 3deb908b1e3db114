package testutil

import (
	"sort"
	"time"

	"github.com/dgvaldes/rutero/rutero-backend/internal/domain"
	"github.com/dgvaldes/rutero/rutero-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users     map[string]*domain.User
	ByID      map[uuid.UUID]*domain.User
	GetByIDFn func(id uuid.UUID) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:                   uuid.New(),
		Auth0ID:              auth0ID,
		Email:                email,
		Name:                 name,
		CommissionRate:       decimal.NewFromFloat(0.35),
		NotificationsEnabled: true,
	}
	m.AddUser(user)
	return user, nil
}

// UpdateSettings updates the user's profile settings
func (m *MockUserRepository) UpdateSettings(id uuid.UUID, commissionRate, monthlySalary decimal.Decimal, notificationsEnabled bool) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.CommissionRate = commissionRate
	user.MonthlySalary = monthlySalary
	user.NotificationsEnabled = notificationsEnabled
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockFixedExpenseRepository is a mock implementation of domain.FixedExpenseRepository
type MockFixedExpenseRepository struct {
	Expenses map[int32]*domain.FixedExpense
	NextID   int32
	UpdateFn func(fe *domain.FixedExpense) (*domain.FixedExpense, error)
}

// NewMockFixedExpenseRepository creates a new MockFixedExpenseRepository
func NewMockFixedExpenseRepository() *MockFixedExpenseRepository {
	return &MockFixedExpenseRepository{
		Expenses: make(map[int32]*domain.FixedExpense),
		NextID:   1,
	}
}

// Create creates a new fixed expense
func (m *MockFixedExpenseRepository) Create(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	fe.ID = m.NextID
	m.NextID++
	fe.CreatedAt = time.Now()
	fe.UpdatedAt = fe.CreatedAt
	m.Expenses[fe.ID] = fe
	return fe, nil
}

// GetByID retrieves a fixed expense by ID
func (m *MockFixedExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.FixedExpense, error) {
	fe, ok := m.Expenses[id]
	if !ok || fe.UserID != userID {
		return nil, domain.ErrFixedExpenseNotFound
	}
	return fe, nil
}

// ListByUser retrieves all fixed expenses for a user
func (m *MockFixedExpenseRepository) ListByUser(userID uuid.UUID) ([]*domain.FixedExpense, error) {
	var result []*domain.FixedExpense
	for _, fe := range m.Expenses {
		if fe.UserID == userID {
			result = append(result, fe)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListByUserAndStatus retrieves a user's fixed expenses filtered by status
func (m *MockFixedExpenseRepository) ListByUserAndStatus(userID uuid.UUID, status domain.ExpenseStatus) ([]*domain.FixedExpense, error) {
	all, _ := m.ListByUser(userID)
	var result []*domain.FixedExpense
	for _, fe := range all {
		if fe.Status == status {
			result = append(result, fe)
		}
	}
	return result, nil
}

// Update updates a fixed expense
func (m *MockFixedExpenseRepository) Update(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(fe)
	}
	if _, ok := m.Expenses[fe.ID]; !ok {
		return nil, domain.ErrFixedExpenseNotFound
	}
	fe.UpdatedAt = time.Now()
	m.Expenses[fe.ID] = fe
	return fe, nil
}

// Delete removes a fixed expense
func (m *MockFixedExpenseRepository) Delete(userID uuid.UUID, id int32) error {
	fe, ok := m.Expenses[id]
	if !ok || fe.UserID != userID {
		return domain.ErrFixedExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// MockMonthlyEntryRepository is a mock implementation of domain.MonthlyEntryRepository
type MockMonthlyEntryRepository struct {
	Entries []*domain.MonthlyEntry
	NextID  int32
	// AllowDuplicates disables the conditional-insert guard, simulating a
	// store without the uniqueness constraint so the read-side reconciliation
	// path can be exercised.
	AllowDuplicates  bool
	Expenses         *MockFixedExpenseRepository
	CreateIfAbsentFn func(entry *domain.MonthlyEntry) (*domain.MonthlyEntry, error)
}

// NewMockMonthlyEntryRepository creates a new MockMonthlyEntryRepository
func NewMockMonthlyEntryRepository(expenses *MockFixedExpenseRepository) *MockMonthlyEntryRepository {
	return &MockMonthlyEntryRepository{
		NextID:   1,
		Expenses: expenses,
	}
}

// CreateIfAbsent inserts an entry unless the (expense, month) pair exists
func (m *MockMonthlyEntryRepository) CreateIfAbsent(entry *domain.MonthlyEntry) (*domain.MonthlyEntry, error) {
	if m.CreateIfAbsentFn != nil {
		return m.CreateIfAbsentFn(entry)
	}
	if !m.AllowDuplicates {
		exists, _ := m.ExistsForMonth(entry.FixedExpenseID, entry.Month)
		if exists {
			return nil, domain.ErrAlreadyMaterialized
		}
	}
	entry.ID = m.NextID
	m.NextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Month = util.PeriodKey(entry.Month)
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

// ExistsForMonth reports whether an entry exists for the (expense, month) pair
func (m *MockMonthlyEntryRepository) ExistsForMonth(fixedExpenseID int32, month time.Time) (bool, error) {
	key := util.PeriodKey(month)
	for _, e := range m.Entries {
		if e.FixedExpenseID == fixedExpenseID && e.Month.Equal(key) {
			return true, nil
		}
	}
	return false, nil
}

// GetByID retrieves an entry by ID
func (m *MockMonthlyEntryRepository) GetByID(userID uuid.UUID, id int32) (*domain.MonthlyEntry, error) {
	for _, e := range m.Entries {
		if e.ID == id && e.UserID == userID {
			return m.withExpense(e), nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

// ListByUserAndMonth retrieves a user's entries for a month, oldest first
func (m *MockMonthlyEntryRepository) ListByUserAndMonth(userID uuid.UUID, month time.Time) ([]*domain.MonthlyEntry, error) {
	key := util.PeriodKey(month)
	var result []*domain.MonthlyEntry
	for _, e := range m.Entries {
		if e.UserID == userID && e.Month.Equal(key) {
			result = append(result, m.withExpense(e))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// ListPaidByUserAndMonth retrieves a user's paid entries for a month
func (m *MockMonthlyEntryRepository) ListPaidByUserAndMonth(userID uuid.UUID, month time.Time) ([]*domain.MonthlyEntry, error) {
	all, _ := m.ListByUserAndMonth(userID, month)
	var result []*domain.MonthlyEntry
	for _, e := range all {
		if e.Status == domain.EntryStatusPaid {
			result = append(result, e)
		}
	}
	return result, nil
}

// UpdateStatus updates an entry's payment status
func (m *MockMonthlyEntryRepository) UpdateStatus(userID uuid.UUID, id int32, status domain.EntryStatus) (*domain.MonthlyEntry, error) {
	for _, e := range m.Entries {
		if e.ID == id && e.UserID == userID {
			e.Status = status
			return m.withExpense(e), nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockMonthlyEntryRepository) withExpense(e *domain.MonthlyEntry) *domain.MonthlyEntry {
	if e.Expense == nil && m.Expenses != nil {
		if fe, ok := m.Expenses.Expenses[e.FixedExpenseID]; ok {
			e.Expense = fe
		}
	}
	return e
}

// MockBillingRepository is a mock implementation of domain.BillingRepository
type MockBillingRepository struct {
	Entries map[int32]*domain.BillingEntry
	NextID  int32
}

// NewMockBillingRepository creates a new MockBillingRepository
func NewMockBillingRepository() *MockBillingRepository {
	return &MockBillingRepository{
		Entries: make(map[int32]*domain.BillingEntry),
		NextID:  1,
	}
}

// Upsert creates or replaces the entry for (user, billing date)
func (m *MockBillingRepository) Upsert(be *domain.BillingEntry) (*domain.BillingEntry, error) {
	for _, existing := range m.Entries {
		if existing.UserID == be.UserID && sameDay(existing.BillingDate, be.BillingDate) {
			be.ID = existing.ID
			be.CreatedAt = existing.CreatedAt
			be.UpdatedAt = time.Now()
			m.Entries[be.ID] = be
			return be, nil
		}
	}
	be.ID = m.NextID
	m.NextID++
	be.CreatedAt = time.Now()
	be.UpdatedAt = be.CreatedAt
	m.Entries[be.ID] = be
	return be, nil
}

// GetByID retrieves a billing entry by ID
func (m *MockBillingRepository) GetByID(userID uuid.UUID, id int32) (*domain.BillingEntry, error) {
	be, ok := m.Entries[id]
	if !ok || be.UserID != userID {
		return nil, domain.ErrBillingNotFound
	}
	return be, nil
}

// ListByDateRange retrieves a user's entries with billing_date in [from, to]
func (m *MockBillingRepository) ListByDateRange(userID uuid.UUID, from, to time.Time) ([]*domain.BillingEntry, error) {
	var result []*domain.BillingEntry
	for _, be := range m.Entries {
		if be.UserID == userID && !be.BillingDate.Before(from) && !be.BillingDate.After(to) {
			result = append(result, be)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BillingDate.Before(result[j].BillingDate) })
	return result, nil
}

// SumByDateRange aggregates a user's entries with billing_date in [from, to]
func (m *MockBillingRepository) SumByDateRange(userID uuid.UUID, from, to time.Time) (*domain.BillingTotals, error) {
	entries, _ := m.ListByDateRange(userID, from, to)
	totals := &domain.BillingTotals{
		TotalBilled:   decimal.Zero,
		TotalAdvances: decimal.Zero,
		TotalKm:       decimal.Zero,
		TotalHours:    decimal.Zero,
	}
	for _, be := range entries {
		totals.TotalBilled = totals.TotalBilled.Add(be.BilledAmount)
		totals.TotalAdvances = totals.TotalAdvances.Add(be.AdvanceAmount)
		totals.TotalKm = totals.TotalKm.Add(be.Km)
		totals.TotalHours = totals.TotalHours.Add(be.Hours)
	}
	return totals, nil
}

// Delete removes a billing entry
func (m *MockBillingRepository) Delete(userID uuid.UUID, id int32) error {
	be, ok := m.Entries[id]
	if !ok || be.UserID != userID {
		return domain.ErrBillingNotFound
	}
	delete(m.Entries, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MockSavingsRepository is a mock implementation of domain.SavingsRepository
type MockSavingsRepository struct {
	Transfers        []*domain.SavingsTransfer
	Movements        []*domain.ExtraMovement
	Totals           map[uuid.UUID]decimal.Decimal
	NextID           int32
	CreateTransferFn func(userID uuid.UUID, month time.Time, amount decimal.Decimal) (*domain.SavingsTransfer, error)
}

// NewMockSavingsRepository creates a new MockSavingsRepository
func NewMockSavingsRepository() *MockSavingsRepository {
	return &MockSavingsRepository{
		Totals: make(map[uuid.UUID]decimal.Decimal),
		NextID: 1,
	}
}

// CreateTransfer conditionally inserts the period's transfer and bumps the total
func (m *MockSavingsRepository) CreateTransfer(userID uuid.UUID, month time.Time, amount decimal.Decimal) (*domain.SavingsTransfer, error) {
	if m.CreateTransferFn != nil {
		return m.CreateTransferFn(userID, month, amount)
	}
	key := util.PeriodKey(month)
	exists, _ := m.TransferExists(userID, key)
	if exists {
		return nil, domain.ErrAlreadyTransferred
	}
	transfer := &domain.SavingsTransfer{
		ID:        m.NextID,
		UserID:    userID,
		Month:     key,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	m.NextID++
	m.Transfers = append(m.Transfers, transfer)
	m.Totals[userID] = m.Totals[userID].Add(amount)
	return transfer, nil
}

// TransferExists reports whether a transfer exists for the (user, month) pair
func (m *MockSavingsRepository) TransferExists(userID uuid.UUID, month time.Time) (bool, error) {
	key := util.PeriodKey(month)
	for _, tr := range m.Transfers {
		if tr.UserID == userID && tr.Month.Equal(key) {
			return true, nil
		}
	}
	return false, nil
}

// ListTransfersByUser retrieves all transfers for a user, newest first
func (m *MockSavingsRepository) ListTransfersByUser(userID uuid.UUID) ([]*domain.SavingsTransfer, error) {
	var result []*domain.SavingsTransfer
	for _, tr := range m.Transfers {
		if tr.UserID == userID {
			result = append(result, tr)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month.After(result[j].Month) })
	return result, nil
}

// AddExtraMovement inserts the movement and applies it to the total
func (m *MockSavingsRepository) AddExtraMovement(movement *domain.ExtraMovement) (*domain.ExtraMovement, error) {
	movement.ID = m.NextID
	m.NextID++
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	m.Movements = append(m.Movements, movement)
	m.Totals[movement.UserID] = m.Totals[movement.UserID].Add(movement.Amount)
	return movement, nil
}

// ListExtraMovementsByDateRange retrieves movements created in [from, to]
func (m *MockSavingsRepository) ListExtraMovementsByDateRange(userID uuid.UUID, from, to time.Time) ([]*domain.ExtraMovement, error) {
	var result []*domain.ExtraMovement
	for _, mv := range m.Movements {
		if mv.UserID == userID && !mv.CreatedAt.Before(from) && !mv.CreatedAt.After(to) {
			result = append(result, mv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// SavingsTotal returns the user's accumulated savings total
func (m *MockSavingsRepository) SavingsTotal(userID uuid.UUID) (decimal.Decimal, error) {
	return m.Totals[userID], nil
}
