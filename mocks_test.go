package sessions_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	sessions "github.com/sessionward/go-sessions"
	"github.com/stretchr/testify/mock"
)

// MockDirectory implements sessions.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByUsername(ctx context.Context, username string) (*sessions.Account, error) {
	args := m.Called(ctx, username)
	acct, _ := args.Get(0).(*sessions.Account)
	return acct, args.Error(1)
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*sessions.Account, error) {
	args := m.Called(ctx, email)
	acct, _ := args.Get(0).(*sessions.Account)
	return acct, args.Error(1)
}

func (m *MockDirectory) FindByID(ctx context.Context, id string) (*sessions.Account, error) {
	args := m.Called(ctx, id)
	acct, _ := args.Get(0).(*sessions.Account)
	return acct, args.Error(1)
}

func (m *MockDirectory) FindByRefreshToken(ctx context.Context, value string) (*sessions.Account, error) {
	args := m.Called(ctx, value)
	acct, _ := args.Get(0).(*sessions.Account)
	return acct, args.Error(1)
}

func (m *MockDirectory) VerifyPassword(ctx context.Context, account *sessions.Account, plaintext string) bool {
	args := m.Called(ctx, account, plaintext)
	return args.Bool(0)
}

func (m *MockDirectory) Create(ctx context.Context, account *sessions.Account, plaintext string) error {
	args := m.Called(ctx, account, plaintext)
	return args.Error(0)
}

func (m *MockDirectory) Update(ctx context.Context, account *sessions.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockDirectory) Delete(ctx context.Context, account *sessions.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockDirectory) Roles(ctx context.Context, account *sessions.Account) ([]string, error) {
	args := m.Called(ctx, account)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *MockDirectory) List(ctx context.Context) ([]*sessions.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]*sessions.Account)
	return accounts, args.Error(1)
}

var _ sessions.Directory = (*MockDirectory)(nil)

// fakeDirectory is an in memory Directory for lifecycle scenarios. Passwords
// are stored as plaintext to keep the suite fast; hashing behavior has its
// own tests.
type fakeDirectory struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*sessions.Account
	passwords map[uuid.UUID]string
	roles     map[uuid.UUID][]string

	createErr error
	updateErr error
	deleteErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts:  map[uuid.UUID]*sessions.Account{},
		passwords: map[uuid.UUID]string{},
		roles:     map[uuid.UUID][]string{},
	}
}

func (f *fakeDirectory) find(match func(*sessions.Account) bool) (*sessions.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.accounts {
		if match(acct) {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, sessions.ErrAccountNotFound
}

func (f *fakeDirectory) FindByUsername(_ context.Context, username string) (*sessions.Account, error) {
	return f.find(func(a *sessions.Account) bool { return a.Username == username })
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (*sessions.Account, error) {
	return f.find(func(a *sessions.Account) bool { return a.Email == email })
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (*sessions.Account, error) {
	return f.find(func(a *sessions.Account) bool { return a.ID.String() == id })
}

func (f *fakeDirectory) FindByRefreshToken(_ context.Context, value string) (*sessions.Account, error) {
	if value == "" {
		return nil, sessions.ErrAccountNotFound
	}
	return f.find(func(a *sessions.Account) bool {
		return a.RefreshToken != nil && *a.RefreshToken == value
	})
}

func (f *fakeDirectory) VerifyPassword(_ context.Context, account *sessions.Account, plaintext string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.passwords[account.ID]
	return ok && stored == plaintext
}

func (f *fakeDirectory) Create(_ context.Context, account *sessions.Account, plaintext string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Role == "" {
		account.Role = sessions.RoleGuest
	}
	clone := *account
	f.accounts[account.ID] = &clone
	f.passwords[account.ID] = plaintext
	f.roles[account.ID] = []string{string(account.Role)}
	return nil
}

func (f *fakeDirectory) Update(_ context.Context, account *sessions.Account) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.accounts[account.ID]
	if !ok {
		return sessions.ErrAccountNotFound
	}
	stored.RefreshToken = account.RefreshToken
	stored.RefreshTokenExpiresAt = account.RefreshTokenExpiresAt
	return nil
}

func (f *fakeDirectory) Delete(_ context.Context, account *sessions.Account) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.ID]; !ok {
		return sessions.ErrAccountNotFound
	}
	delete(f.accounts, account.ID)
	delete(f.passwords, account.ID)
	delete(f.roles, account.ID)
	return nil
}

func (f *fakeDirectory) Roles(_ context.Context, account *sessions.Account) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.roles[account.ID]...), nil
}

func (f *fakeDirectory) List(_ context.Context) ([]*sessions.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*sessions.Account, 0, len(f.accounts))
	for _, acct := range f.accounts {
		clone := *acct
		out = append(out, &clone)
	}
	return out, nil
}

// stored returns the live record, bypassing the defensive copies.
func (f *fakeDirectory) stored(id uuid.UUID) *sessions.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id]
}

var _ sessions.Directory = (*fakeDirectory)(nil)

// capturingSink collects activity events.
type capturingSink struct {
	mu     sync.Mutex
	events []sessions.ActivityEvent
}

func (c *capturingSink) Record(_ context.Context, evt sessions.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}
