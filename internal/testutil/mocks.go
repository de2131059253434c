package testutil

import (
	"sort"
	"time"

	"github.com/impulsa/impulsa-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users  map[int32]*domain.User
	nextID int32
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int32]*domain.User)}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) *domain.User {
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	m.Users[user.ID] = user
	return user
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	for _, existing := range m.Users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.ID] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id int32) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsernameOrEmail retrieves a user by username or email
func (m *MockUserRepository) GetByUsernameOrEmail(identifier string) (*domain.User, error) {
	for _, user := range m.Users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetAll retrieves all users ordered by ID
func (m *MockUserRepository) GetAll() ([]*domain.User, error) {
	return m.sorted(func(*domain.User) bool { return true }), nil
}

// GetByRole retrieves users with the given role
func (m *MockUserRepository) GetByRole(role domain.Role) ([]*domain.User, error) {
	return m.sorted(func(u *domain.User) bool { return u.Role == role }), nil
}

// GetMentees retrieves the users assigned to a mentor
func (m *MockUserRepository) GetMentees(mentorID int32) ([]*domain.User, error) {
	return m.sorted(func(u *domain.User) bool {
		return u.MentorID != nil && *u.MentorID == mentorID
	}), nil
}

// Update applies a partial profile update
func (m *MockUserRepository) Update(id int32, patch *domain.UserPatch) (*domain.User, error) {
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

// UpdateBusiness updates the business profile fields
func (m *MockUserRepository) UpdateBusiness(id int32, name, category, description *string) (*domain.User, error) {
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if name != nil {
		user.BusinessName = name
	}
	if category != nil {
		user.BusinessCategory = category
	}
	if description != nil {
		user.BusinessDescription = description
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

// SetMentor assigns or clears a user's mentor
func (m *MockUserRepository) SetMentor(id int32, mentorID *int32) error {
	user, ok := m.Users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.MentorID = mentorID
	user.UpdatedAt = time.Now()
	return nil
}

// Delete removes a user
func (m *MockUserRepository) Delete(id int32) error {
	if _, ok := m.Users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// CountByRole counts users with the given role
func (m *MockUserRepository) CountByRole(role domain.Role) (int64, error) {
	var count int64
	for _, user := range m.Users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// CountWithMentor counts users with an assigned mentor
func (m *MockUserRepository) CountWithMentor() (int64, error) {
	var count int64
	for _, user := range m.Users {
		if user.MentorID != nil {
			count++
		}
	}
	return count, nil
}

// CountSignupsByMonth groups user creations per calendar month
func (m *MockUserRepository) CountSignupsByMonth(since time.Time) ([]*domain.MonthlySignupCount, error) {
	buckets := make(map[[2]int]int64)
	for _, user := range m.Users {
		if user.CreatedAt.Before(since) {
			continue
		}
		key := [2]int{user.CreatedAt.Year(), int(user.CreatedAt.Month())}
		buckets[key]++
	}
	counts := make([]*domain.MonthlySignupCount, 0, len(buckets))
	for key, count := range buckets {
		counts = append(counts, &domain.MonthlySignupCount{Year: key[0], Month: key[1], Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Year != counts[j].Year {
			return counts[i].Year < counts[j].Year
		}
		return counts[i].Month < counts[j].Month
	})
	return counts, nil
}

func (m *MockUserRepository) sorted(keep func(*domain.User) bool) []*domain.User {
	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		if keep(user) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// MockSaleRepository is a mock implementation of domain.SaleRepository.
// MentorOf lets tests model the mentor linkage used by the mentor filter
// of CountUsersWithSales.
type MockSaleRepository struct {
	Sales    map[int32]*domain.DailySale
	MentorOf map[int32]int32
	nextID   int32
}

// NewMockSaleRepository creates a new MockSaleRepository
func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{
		Sales:    make(map[int32]*domain.DailySale),
		MentorOf: make(map[int32]int32),
	}
}

// AddSale adds a sale to the mock repository (helper for tests)
func (m *MockSaleRepository) AddSale(sale *domain.DailySale) *domain.DailySale {
	if sale.ID == 0 {
		m.nextID++
		sale.ID = m.nextID
	} else if sale.ID > m.nextID {
		m.nextID = sale.ID
	}
	m.Sales[sale.ID] = sale
	return sale
}

// Upsert inserts or overwrites the row for (UserID, SaleDate)
func (m *MockSaleRepository) Upsert(sale *domain.DailySale) (*domain.DailySale, error) {
	for _, existing := range m.Sales {
		if existing.UserID == sale.UserID && sameDay(existing.SaleDate, sale.SaleDate) {
			existing.UnitsSold = sale.UnitsSold
			existing.PricePerUnit = sale.PricePerUnit
			existing.VariableCostPerUnit = sale.VariableCostPerUnit
			if sale.ProductName != nil {
				existing.ProductName = sale.ProductName
			}
			existing.UpdatedAt = time.Now()
			return existing, nil
		}
	}
	m.nextID++
	sale.ID = m.nextID
	sale.CreatedAt = time.Now()
	sale.UpdatedAt = sale.CreatedAt
	m.Sales[sale.ID] = sale
	return sale, nil
}

// GetByID retrieves one of the user's sales
func (m *MockSaleRepository) GetByID(userID, id int32) (*domain.DailySale, error) {
	sale, ok := m.Sales[id]
	if !ok || sale.UserID != userID {
		return nil, domain.ErrSaleNotFound
	}
	return sale, nil
}

// GetByMonth retrieves the user's sales within [start, end]
func (m *MockSaleRepository) GetByMonth(userID int32, start, end time.Time) ([]*domain.DailySale, error) {
	var sales []*domain.DailySale
	for _, sale := range m.Sales {
		if sale.UserID != userID {
			continue
		}
		if sale.SaleDate.Before(start) || sale.SaleDate.After(end) {
			continue
		}
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].SaleDate.Before(sales[j].SaleDate) })
	return sales, nil
}

// Delete removes one of the user's sales
func (m *MockSaleRepository) Delete(userID, id int32) error {
	sale, ok := m.Sales[id]
	if !ok || sale.UserID != userID {
		return domain.ErrSaleNotFound
	}
	delete(m.Sales, id)
	return nil
}

// CountUsersWithSales counts distinct users with a sale in [start, end]
func (m *MockSaleRepository) CountUsersWithSales(mentorID *int32, start, end time.Time) (int64, error) {
	users := make(map[int32]bool)
	for _, sale := range m.Sales {
		if sale.SaleDate.Before(start) || sale.SaleDate.After(end) {
			continue
		}
		if mentorID != nil && m.MentorOf[sale.UserID] != *mentorID {
			continue
		}
		users[sale.UserID] = true
	}
	return int64(len(users)), nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MockParameterRepository is a mock implementation of domain.ParameterRepository
type MockParameterRepository struct {
	Parameters map[int32]*domain.MonthlyParameters
	nextID     int32
}

// NewMockParameterRepository creates a new MockParameterRepository
func NewMockParameterRepository() *MockParameterRepository {
	return &MockParameterRepository{Parameters: make(map[int32]*domain.MonthlyParameters)}
}

// AddParameters adds a parameter row (helper for tests)
func (m *MockParameterRepository) AddParameters(params *domain.MonthlyParameters) *domain.MonthlyParameters {
	if params.ID == 0 {
		m.nextID++
		params.ID = m.nextID
	} else if params.ID > m.nextID {
		m.nextID = params.ID
	}
	m.Parameters[params.ID] = params
	return params
}

// GetByUserMonth retrieves the row for a (user, month) pair
func (m *MockParameterRepository) GetByUserMonth(userID int32, monthYear string) (*domain.MonthlyParameters, error) {
	for _, params := range m.Parameters {
		if params.UserID == userID && params.MonthYear == monthYear {
			return params, nil
		}
	}
	return nil, domain.ErrParametersNotFound
}

// Create persists a new row for a (user, month) pair
func (m *MockParameterRepository) Create(params *domain.MonthlyParameters) (*domain.MonthlyParameters, error) {
	for _, existing := range m.Parameters {
		if existing.UserID == params.UserID && existing.MonthYear == params.MonthYear {
			return nil, domain.ErrAlreadyExists
		}
	}
	m.nextID++
	params.ID = m.nextID
	params.CreatedAt = time.Now()
	params.UpdatedAt = params.CreatedAt
	m.Parameters[params.ID] = params
	return params, nil
}

// Update applies the supplied patch fields to the existing row
func (m *MockParameterRepository) Update(userID int32, monthYear string, patch *domain.ParameterPatch) (*domain.MonthlyParameters, error) {
	params, err := m.GetByUserMonth(userID, monthYear)
	if err != nil {
		return nil, err
	}
	if patch.TargetMonthlySales != nil {
		params.TargetMonthlySales = *patch.TargetMonthlySales
	}
	if patch.FixedCostsMonthly != nil {
		params.FixedCostsMonthly = *patch.FixedCostsMonthly
	}
	if patch.LoanMonthlyPayment != nil {
		params.LoanMonthlyPayment = *patch.LoanMonthlyPayment
	}
	if patch.WorkingDaysPerMonth != nil {
		params.WorkingDaysPerMonth = *patch.WorkingDaysPerMonth
	}
	if patch.DefaultPricePerUnit != nil {
		params.DefaultPricePerUnit = *patch.DefaultPricePerUnit
	}
	if patch.DefaultVariableCostPerUnit != nil {
		params.DefaultVariableCostPerUnit = *patch.DefaultVariableCostPerUnit
	}
	params.UpdatedAt = time.Now()
	return params, nil
}

// MockInvitationRepository is a mock implementation of domain.MentorInvitationRepository
type MockInvitationRepository struct {
	Invitations map[int32]*domain.MentorInvitation
	nextID      int32
}

// NewMockInvitationRepository creates a new MockInvitationRepository
func NewMockInvitationRepository() *MockInvitationRepository {
	return &MockInvitationRepository{Invitations: make(map[int32]*domain.MentorInvitation)}
}

// AddInvitation adds an invitation (helper for tests)
func (m *MockInvitationRepository) AddInvitation(inv *domain.MentorInvitation) *domain.MentorInvitation {
	if inv.ID == 0 {
		m.nextID++
		inv.ID = m.nextID
	} else if inv.ID > m.nextID {
		m.nextID = inv.ID
	}
	m.Invitations[inv.ID] = inv
	return inv
}

// Create persists a new invitation
func (m *MockInvitationRepository) Create(inv *domain.MentorInvitation) (*domain.MentorInvitation, error) {
	m.nextID++
	inv.ID = m.nextID
	inv.CreatedAt = time.Now()
	m.Invitations[inv.ID] = inv
	return inv, nil
}

// GetByID retrieves an invitation
func (m *MockInvitationRepository) GetByID(id int32) (*domain.MentorInvitation, error) {
	if inv, ok := m.Invitations[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvitationNotFound
}

// GetPending retrieves a pending invitation for the (user, mentor) pair
func (m *MockInvitationRepository) GetPending(userID, mentorID int32) (*domain.MentorInvitation, error) {
	for _, inv := range m.Invitations {
		if inv.UserID == userID && inv.MentorID == mentorID && inv.Status == domain.InvitationPending {
			return inv, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

// GetByUser retrieves all invitations sent by a user
func (m *MockInvitationRepository) GetByUser(userID int32) ([]*domain.MentorInvitation, error) {
	return m.sorted(func(inv *domain.MentorInvitation) bool { return inv.UserID == userID }), nil
}

// GetByMentor retrieves all invitations addressed to a mentor
func (m *MockInvitationRepository) GetByMentor(mentorID int32) ([]*domain.MentorInvitation, error) {
	return m.sorted(func(inv *domain.MentorInvitation) bool { return inv.MentorID == mentorID }), nil
}

// UpdateStatus resolves an invitation
func (m *MockInvitationRepository) UpdateStatus(id int32, status domain.InvitationStatus, respondedAt time.Time) error {
	inv, ok := m.Invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Status = status
	inv.RespondedAt = &respondedAt
	return nil
}

// RejectOtherPending rejects the user's remaining pending invitations
func (m *MockInvitationRepository) RejectOtherPending(userID, exceptID int32, respondedAt time.Time) error {
	for _, inv := range m.Invitations {
		if inv.UserID == userID && inv.ID != exceptID && inv.Status == domain.InvitationPending {
			inv.Status = domain.InvitationRejected
			inv.RespondedAt = &respondedAt
		}
	}
	return nil
}

func (m *MockInvitationRepository) sorted(keep func(*domain.MentorInvitation) bool) []*domain.MentorInvitation {
	invitations := make([]*domain.MentorInvitation, 0, len(m.Invitations))
	for _, inv := range m.Invitations {
		if keep(inv) {
			invitations = append(invitations, inv)
		}
	}
	sort.Slice(invitations, func(i, j int) bool { return invitations[i].ID < invitations[j].ID })
	return invitations
}

// MockMessageRepository is a mock implementation of domain.MentorMessageRepository
type MockMessageRepository struct {
	Messages map[int32]*domain.MentorMessage
	nextID   int32
}

// NewMockMessageRepository creates a new MockMessageRepository
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{Messages: make(map[int32]*domain.MentorMessage)}
}

// AddMessage adds a message (helper for tests)
func (m *MockMessageRepository) AddMessage(msg *domain.MentorMessage) *domain.MentorMessage {
	if msg.ID == 0 {
		m.nextID++
		msg.ID = m.nextID
	} else if msg.ID > m.nextID {
		m.nextID = msg.ID
	}
	m.Messages[msg.ID] = msg
	return msg
}

// Create persists a new message
func (m *MockMessageRepository) Create(msg *domain.MentorMessage) (*domain.MentorMessage, error) {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now()
	m.Messages[msg.ID] = msg
	return msg, nil
}

// GetConversation retrieves all messages between a user and mentor
func (m *MockMessageRepository) GetConversation(userID, mentorID int32) ([]*domain.MentorMessage, error) {
	var messages []*domain.MentorMessage
	for _, msg := range m.Messages {
		if msg.UserID == userID && msg.MentorID == mentorID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}

// MarkRead marks the conversation's incoming messages as read
func (m *MockMessageRepository) MarkRead(userID, mentorID, readerID int32) (int64, error) {
	var updated int64
	for _, msg := range m.Messages {
		if msg.UserID == userID && msg.MentorID == mentorID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			updated++
		}
	}
	return updated, nil
}

// CountUnread counts unread messages per sender for a recipient
func (m *MockMessageRepository) CountUnread(recipientID int32) (map[int32]int64, error) {
	counts := make(map[int32]int64)
	for _, msg := range m.Messages {
		if msg.IsRead || msg.SenderID == recipientID {
			continue
		}
		if msg.UserID == recipientID || msg.MentorID == recipientID {
			counts[msg.SenderID]++
		}
	}
	return counts, nil
}
