package sessions

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Localization keys the Manager resolves through its Localizer.
const (
	MsgUserNotFound          = "UserNotFound"
	MsgEmailAlreadyExists    = "EmailAlreadyExists"
	MsgUsernameAlreadyExists = "UsernameAlreadyExists"
	MsgRegistrationSuccess   = "RegistrationSuccess"
)

// refreshFreshnessWindow is how far in the future the stored expiry must sit
// for RefreshLogin to accept a token. Tokens within the window are treated as
// stale even though their stored expiry has not passed, forcing a re-login
// well before true expiry.
const refreshFreshnessWindow = 4 * time.Hour

// refreshTokenLifetime returns the stored expiry for a newly rotated refresh
// token: one calendar month from now.
func refreshTokenLifetime(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

// Manager orchestrates the authentication and session lifecycle. It holds no
// mutable state of its own and is safe for concurrent use; all session state
// lives on the Account rows owned by the Directory. Concurrent logins for the
// same account are not serialized here: the stored refresh token is last
// writer wins, which is also what keeps each account down to a single live
// session.
type Manager struct {
	directory Directory
	signer    TokenSigner
	localizer Localizer
	logger    Logger
	sink      ActivitySink
	now       func() time.Time
}

// NewManager returns a Manager wired to its three collaborators.
func NewManager(directory Directory, signer TokenSigner, localizer Localizer) *Manager {
	return &Manager{
		directory: directory,
		signer:    signer,
		localizer: localizer,
		logger:    defLogger{},
		sink:      discardSink,
		now:       time.Now,
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	m.logger = logger
	return m
}

// WithActivitySink configures an ActivitySink for emitting lifecycle events.
func (m *Manager) WithActivitySink(sink ActivitySink) *Manager {
	m.sink = normalizeActivitySink(sink)
	return m
}

// WithClock overrides the time source, primarily for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// Login resolves the identifier (username first, then email), verifies the
// password, and on success issues a fresh token pair and rotates the stored
// refresh token. A wrong password reports the same message as a missing
// account so callers cannot probe which identifiers exist.
func (m *Manager) Login(ctx context.Context, identifier, password string) Result[TokenPair] {
	account, err := m.resolveIdentifier(ctx, identifier)
	if err != nil {
		if IsNotFound(err) {
			return Fail[TokenPair](http.StatusNotFound, m.msg(ctx, MsgUserNotFound))
		}
		m.logger.Error("login identifier lookup failed", "identifier", identifier, "error", err)
		return failFromPersistence[TokenPair](err)
	}

	if !m.directory.VerifyPassword(ctx, account, password) {
		m.emit(ctx, EventLoginFailure, account.ID.String(), map[string]any{"identifier": identifier})
		return Fail[TokenPair](http.StatusBadRequest, m.msg(ctx, MsgUserNotFound))
	}

	roles, err := m.directory.Roles(ctx, account)
	if err != nil {
		m.logger.Error("login role lookup failed", "account", account.ID, "error", err)
		return failFromPersistence[TokenPair](err)
	}

	pair, err := m.signer.Issue(ctx, accountIdentity{account: account}, roles)
	if err != nil {
		m.logger.Error("login token issue failed", "account", account.ID, "error", err)
		return Fail[TokenPair](http.StatusBadRequest, err.Error())
	}

	if rotated := m.RotateRefreshToken(ctx, pair.RefreshToken, account); !rotated.Ok() {
		return Fail[TokenPair](rotated.Code, rotated.Message, rotated.Details...)
	}

	m.emit(ctx, EventLoginSuccess, account.ID.String(), map[string]any{"identifier": identifier})

	return OK(pair)
}

// RotateRefreshToken stores a new refresh token on the account with a fresh
// one month expiry and persists it. The nil account branch is a defensive
// contract; call sites always resolve the account first.
func (m *Manager) RotateRefreshToken(ctx context.Context, value string, account *Account) Result[string] {
	if account == nil {
		return Fail[string](http.StatusNotFound, m.msg(ctx, MsgUserNotFound))
	}

	account.SetSession(value, refreshTokenLifetime(m.now()))

	if err := m.directory.Update(ctx, account); err != nil {
		m.logger.Error("refresh token rotation failed", "account", account.ID, "error", err)
		return failFromPersistence[string](err)
	}

	return OK(value)
}

// RefreshLogin exchanges a refresh token for a new access token. The stored
// expiry must be strictly more than four hours in the future; the refresh
// token itself is not rotated, the caller keeps using the same value.
func (m *Manager) RefreshLogin(ctx context.Context, refreshToken string) Result[TokenPair] {
	account, err := m.directory.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if !IsNotFound(err) {
			m.logger.Error("refresh token lookup failed", "error", err)
		}
		return Fail[TokenPair](http.StatusBadRequest, m.msg(ctx, MsgUserNotFound))
	}

	if !m.refreshTokenUsable(account) {
		m.emit(ctx, EventRefreshFailure, account.ID.String(), nil)
		return Fail[TokenPair](http.StatusBadRequest, m.msg(ctx, MsgUserNotFound))
	}

	roles, err := m.directory.Roles(ctx, account)
	if err != nil {
		m.logger.Error("refresh role lookup failed", "account", account.ID, "error", err)
		return Fail[TokenPair](http.StatusBadRequest, m.msg(ctx, MsgUserNotFound))
	}

	pair, err := m.signer.Issue(ctx, accountIdentity{account: account}, roles)
	if err != nil {
		m.logger.Error("refresh token issue failed", "account", account.ID, "error", err)
		return Fail[TokenPair](http.StatusBadRequest, err.Error())
	}

	// keep the stored value; rotation happens only on password login
	pair.RefreshToken = refreshToken

	m.emit(ctx, EventRefreshSuccess, account.ID.String(), nil)

	return OK(pair)
}

// refreshTokenUsable applies the freshness window: the stored expiry must be
// strictly after now + 4h. At exactly the boundary the token is rejected.
func (m *Manager) refreshTokenUsable(account *Account) bool {
	if !account.HasActiveSession() {
		return false
	}
	return account.RefreshTokenExpiresAt.After(m.now().Add(refreshFreshnessWindow))
}

// RegisterInput carries the pre-validated registration fields.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Phone     string `json:"phone_number"`
	Password  string `json:"password"`
}

// Register creates a new account. Email uniqueness is checked before
// username, so a duplicate email always reports EmailAlreadyExists regardless
// of the username. Credential hashing is the Directory's concern.
func (m *Manager) Register(ctx context.Context, input RegisterInput) Result[string] {
	if _, err := m.directory.FindByEmail(ctx, input.Email); err == nil {
		return Fail[string](http.StatusBadRequest, m.msg(ctx, MsgEmailAlreadyExists))
	} else if !IsNotFound(err) {
		m.logger.Error("register email lookup failed", "email", input.Email, "error", err)
		return failFromPersistence[string](err)
	}

	if _, err := m.directory.FindByUsername(ctx, input.Username); err == nil {
		return Fail[string](http.StatusBadRequest, m.msg(ctx, MsgUsernameAlreadyExists))
	} else if !IsNotFound(err) {
		m.logger.Error("register username lookup failed", "username", input.Username, "error", err)
		return failFromPersistence[string](err)
	}

	account := &Account{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Username:  getUsername(input.Username, input.Email),
		Phone:     input.Phone,
	}

	if err := m.directory.Create(ctx, account, input.Password); err != nil {
		m.logger.Error("register create failed", "email", input.Email, "error", err)
		return failFromPersistence[string](err)
	}

	m.emit(ctx, EventRegisterSuccess, account.ID.String(), map[string]any{"username": account.Username})

	return Success(m.msg(ctx, MsgRegistrationSuccess), http.StatusCreated)
}

// Logout clears the stored refresh token state. Calling it when no session is
// set succeeds and leaves the fields cleared, so repeated logouts are safe.
func (m *Manager) Logout(ctx context.Context, id string) Result[struct{}] {
	account, err := m.directory.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return Fail[struct{}](http.StatusNotFound, m.msg(ctx, MsgUserNotFound))
		}
		m.logger.Error("logout lookup failed", "id", id, "error", err)
		return failFromPersistence[struct{}](err)
	}

	account.ClearSession()

	if err := m.directory.Update(ctx, account); err != nil {
		m.logger.Error("logout update failed", "account", account.ID, "error", err)
		return failFromPersistence[struct{}](err)
	}

	m.emit(ctx, EventLogoutSuccess, account.ID.String(), nil)

	return OK(struct{}{})
}

// RemoveAccount deletes the account. Removal is terminal: subsequent Login,
// Logout, or RefreshLogin calls for the id resolve to not found failures.
func (m *Manager) RemoveAccount(ctx context.Context, id string) Result[struct{}] {
	account, err := m.directory.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return Fail[struct{}](http.StatusBadRequest, m.msg(ctx, MsgUserNotFound))
		}
		m.logger.Error("remove lookup failed", "id", id, "error", err)
		return failFromPersistence[struct{}](err)
	}

	if err := m.directory.Delete(ctx, account); err != nil {
		m.logger.Error("remove delete failed", "account", account.ID, "error", err)
		return failFromPersistence[struct{}](err)
	}

	m.emit(ctx, EventAccountRemoved, account.ID.String(), nil)

	return OK(struct{}{})
}

// ListUsers returns every account projected to its public safe shape.
// Directory faults surface as a failure; the read has no business failure
// paths of its own.
func (m *Manager) ListUsers(ctx context.Context) Result[[]PublicAccount] {
	accounts, err := m.directory.List(ctx)
	if err != nil {
		m.logger.Error("list accounts failed", "error", err)
		return failFromPersistence[[]PublicAccount](err)
	}

	out := make([]PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, account.PublicProfile())
	}

	return OK(out)
}

func (m *Manager) resolveIdentifier(ctx context.Context, identifier string) (*Account, error) {
	account, err := m.directory.FindByUsername(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return m.directory.FindByEmail(ctx, identifier)
}

func (m *Manager) msg(ctx context.Context, key string) string {
	return m.localizer.Get(key, LocaleFromContext(ctx))
}

func (m *Manager) emit(ctx context.Context, event ActivityEventType, accountID string, metadata map[string]any) {
	evt := ActivityEvent{
		EventType:  event,
		AccountID:  accountID,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}
	if err := m.sink.Record(ctx, evt); err != nil {
		m.logger.Error("activity sink record error", "error", err)
	}
}

// failFromPersistence converts a directory write failure into a BadRequest
// result carrying the ordered provider descriptions.
func failFromPersistence[T any](err error) Result[T] {
	details := ErrorDescriptions(err)
	return Fail[T](http.StatusBadRequest, strings.Join(details, ". "), details...)
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

type accountIdentity struct {
	account *Account
}

func (a accountIdentity) ID() string       { return a.account.ID.String() }
func (a accountIdentity) Username() string { return a.account.Username }
func (a accountIdentity) Email() string    { return a.account.Email }
func (a accountIdentity) Role() string     { return string(a.account.Role) }

var _ Identity = accountIdentity{}
