package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SetRefreshTokenSQL persists the refresh token pair in one statement. The
// ORM update path skips NULL assignments on nullzero columns, so clearing the
// session has to go through raw SQL.
var SetRefreshTokenSQL = `UPDATE "accounts" AS "acct"
SET
	"refresh_token" = ?,
	"refresh_token_expires_at" = ?,
	"updated_at" = ?
WHERE
	"acct"."deleted_at" IS NULL
AND (
	"acct"."id" = ?
);`

// Accounts is the bun backed Directory implementation. The Directory write
// methods shadow the generic repository surface, which stays embedded on the
// struct for delegation only.
type Accounts interface {
	Directory

	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	GrantRole(ctx context.Context, account *Account, role string) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts  = (*accounts)(nil)
	_ Directory = (*accounts)(nil)
)

// NewAccountsDirectory builds the Directory over a bun database handle.
func NewAccountsDirectory(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return a.findByColumn(ctx, "username", username)
}

func (a *accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.findByColumn(ctx, "email", email)
}

func (a *accounts) FindByRefreshToken(ctx context.Context, value string) (*Account, error) {
	if value == "" {
		return nil, newRecordNotFound(nil)
	}
	return a.findByColumn(ctx, "refresh_token", value)
}

func (a *accounts) FindByID(ctx context.Context, id string) (*Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, newRecordNotFound(map[string]any{"id": id})
	}
	return a.findByColumn(ctx, "id", id)
}

func (a *accounts) findByColumn(ctx context.Context, column, value string) (*Account, error) {
	record := &Account{}

	err := a.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newRecordNotFound(map[string]any{column: value})
		}
		return nil, NewPersistenceError("accounts.find", err)
	}

	return record, nil
}

// VerifyPassword compares the plaintext against the stored hash. It tracks no
// attempt counters and triggers no lockout.
func (a *accounts) VerifyPassword(ctx context.Context, account *Account, plaintext string) bool {
	if account == nil || account.PasswordHash == "" {
		return false
	}
	return ComparePasswordAndHash(plaintext, account.PasswordHash) == nil
}

// Create hashes the credential and persists the account together with its
// primary role grant in one transaction.
func (a *accounts) Create(ctx context.Context, account *Account, plaintext string) error {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return NewPersistenceError("accounts.create", err)
	}
	account.PasswordHash = hash

	err = a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := a.CreateTx(ctx, tx, account); err != nil {
			return err
		}

		grant := &AccountRole{
			ID:        uuid.New(),
			AccountID: account.ID,
			Role:      string(account.Role),
		}
		if _, err := tx.NewInsert().Model(grant).Exec(ctx); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return NewPersistenceError("accounts.create", err)
	}

	return nil
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// Update persists the account's refresh token state.
func (a *accounts) Update(ctx context.Context, account *Account) error {
	if account == nil || account.ID == uuid.Nil {
		return newRecordNotFound(nil)
	}

	res, err := a.db.NewRaw(
		SetRefreshTokenSQL,
		account.RefreshToken,
		account.RefreshTokenExpiresAt,
		time.Now(),
		account.ID,
	).Exec(ctx)

	if err != nil {
		return NewPersistenceError("accounts.update", err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return newRecordNotFound(map[string]any{"id": account.ID.String()})
	}

	return nil
}

func (a *accounts) Delete(ctx context.Context, account *Account) error {
	if account == nil || account.ID == uuid.Nil {
		return newRecordNotFound(nil)
	}

	if _, err := a.db.NewDelete().Model(account).WherePK().Exec(ctx); err != nil {
		return NewPersistenceError("accounts.delete", err)
	}

	return nil
}

func (a *accounts) Roles(ctx context.Context, account *Account) ([]string, error) {
	if account == nil {
		return nil, newRecordNotFound(nil)
	}

	var grants []AccountRole
	err := a.db.NewSelect().
		Model(&grants).
		Where("?TableAlias.account_id = ?", account.ID).
		Order("role_name ASC").
		Scan(ctx)

	if err != nil {
		return nil, NewPersistenceError("accounts.roles", err)
	}

	roles := make([]string, 0, len(grants)+1)
	seen := map[string]bool{}
	for _, grant := range grants {
		if !seen[grant.Role] {
			roles = append(roles, grant.Role)
			seen[grant.Role] = true
		}
	}

	if primary := string(account.Role); primary != "" && !seen[primary] {
		roles = append(roles, primary)
	}

	return roles, nil
}

// GrantRole adds a role grant for the account.
func (a *accounts) GrantRole(ctx context.Context, account *Account, role string) error {
	if account == nil || account.ID == uuid.Nil {
		return newRecordNotFound(nil)
	}

	grant := &AccountRole{
		ID:        uuid.New(),
		AccountID: account.ID,
		Role:      role,
	}

	if _, err := a.db.NewInsert().Model(grant).Exec(ctx); err != nil {
		return NewPersistenceError("accounts.grant_role", err)
	}

	return nil
}

func (a *accounts) List(ctx context.Context) ([]*Account, error) {
	var records []*Account

	err := a.db.NewSelect().
		Model(&records).
		Order("username ASC").
		Scan(ctx)

	if err != nil {
		return nil, NewPersistenceError("accounts.list", err)
	}

	return records, nil
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleGuest
	}

	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}
