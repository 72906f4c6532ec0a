package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sajjaddev-web/desk/internal/auth"
	"github.com/sajjaddev-web/desk/internal/models"
	"github.com/sajjaddev-web/desk/pkg/crypto"
	apperrors "github.com/sajjaddev-web/desk/pkg/errors"
	"github.com/sajjaddev-web/desk/pkg/logger"
)

// RegisterInput describes the fields accepted when registering an account.
// Shape validation (name pattern, email syntax, password policy) happens at
// the transport boundary before the service is called.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput enumerates the mutable account attributes. Nil fields are
// left untouched.
type UpdateInput struct {
	Name     *string
	Password *string
}

// AccountView is the client-facing account representation. The password
// hash never appears in any returned payload.
type AccountView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisteredAccount mirrors the registration response shape, which omits
// the store-assigned identifier as well as the password.
type RegisteredAccount struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterResult is returned on successful registration. ActivationToken is
// exposed to callers inside the process (it travels to the account owner by
// email); the HTTP layer does not serialise it.
type RegisterResult struct {
	Token           string
	ActivationToken string
	Account         RegisteredAccount
}

// SessionResult is returned by login and update: a fresh session token plus
// the current account state.
type SessionResult struct {
	Token   string
	Account AccountView
}

// AccountService houses the register/activate/login/update/delete business
// rules. It owns no state beyond its collaborators; persisted account state
// lives exclusively in the database.
type AccountService struct {
	db     *gorm.DB
	tokens *auth.TokenService
	sender *ActivationSender
	log    *zap.Logger
}

// NewAccountService constructs an AccountService. The sender may be nil, in
// which case no activation emails are dispatched.
func NewAccountService(db *gorm.DB, tokens *auth.TokenService, sender *ActivationSender) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("account service: token service is required")
	}

	return &AccountService{
		db:     db,
		tokens: tokens,
		sender: sender,
		log:    logger.WithModule("accounts"),
	}, nil
}

// Register creates an unverified account, issues its session and activation
// tokens and dispatches the activation email without waiting on it. An
// account whose email or name is already taken yields ErrAccountConflict.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	email := normaliseEmail(input.Email)

	var existing models.Account
	err := s.db.WithContext(ctx).
		Where("email = ? OR name = ?", email, name).
		First(&existing).Error
	switch {
	case err == nil:
		return nil, ErrAccountConflict
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(fmt.Errorf("account service: conflict check: %w", err), "Service error")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: hash password: %w", err), "Service error")
	}

	account := models.Account{
		Name:     name,
		Email:    email,
		Password: hashed,
	}

	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		// The unique indexes are the authoritative check; racing
		// registrations surface here rather than in the lookup above.
		if isUniqueConstraintError(err) {
			return nil, ErrAccountConflict
		}
		return nil, apperrors.Wrap(fmt.Errorf("account service: create account: %w", err), "Service error")
	}

	token, err := s.tokens.IssueSessionToken(account.ID, account.Name, account.Email)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: issue session token: %w", err), "Service error")
	}

	activationToken, err := s.tokens.IssueActivationToken(account.ID)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: issue activation token: %w", err), "Service error")
	}

	if s.sender != nil {
		s.sender.Dispatch(account.Email, activationToken)
	}

	return &RegisterResult{
		Token:           token,
		ActivationToken: activationToken,
		Account: RegisteredAccount{
			Name:      account.Name,
			Email:     account.Email,
			Verified:  account.Verified,
			CreatedAt: account.CreatedAt,
			UpdatedAt: account.UpdatedAt,
		},
	}, nil
}

// Activate flips the verified flag exactly once. Verification is a one-way
// transition: re-activating a verified account is an explicit error, not a
// no-op, and a token for a deleted account yields ErrAccountNotFound.
func (s *AccountService) Activate(ctx context.Context, token string) (*AccountView, error) {
	ctx = ensureContext(ctx)

	claims, err := s.tokens.VerifyActivationToken(token)
	if err != nil {
		return nil, ErrInvalidActivationToken
	}

	var account models.Account
	err = s.db.WithContext(ctx).First(&account, claims.AccountID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, apperrors.Wrap(fmt.Errorf("account service: load account: %w", err), "Service error")
	}

	if account.Verified {
		return nil, ErrAlreadyActivated
	}

	if err := s.db.WithContext(ctx).
		Model(&account).
		Update("verified", true).Error; err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: mark verified: %w", err), "Service error")
	}

	view := newAccountView(&account)
	return &view, nil
}

// Login authenticates by email or name. Unknown identifiers and wrong
// passwords are indistinguishable to the caller. An unverified account
// still logs in; a fresh activation email is dispatched on the side.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (*SessionResult, error) {
	ctx = ensureContext(ctx)

	identifier = strings.TrimSpace(identifier)

	var account models.Account
	err := s.db.WithContext(ctx).
		Where("email = ? OR name = ?", strings.ToLower(identifier), identifier).
		First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrInvalidCredentials
	case err != nil:
		return nil, apperrors.Wrap(fmt.Errorf("account service: lookup account: %w", err), "Service error")
	}

	if !crypto.VerifyPassword(account.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueSessionToken(account.ID, account.Name, account.Email)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: issue session token: %w", err), "Service error")
	}

	if !account.Verified && s.sender != nil {
		// Access is still granted; the resend is best effort.
		if activationToken, issueErr := s.tokens.IssueActivationToken(account.ID); issueErr != nil {
			s.log.Warn("activation token resend failed", zap.Uint("account_id", account.ID), zap.Error(issueErr))
		} else {
			s.sender.Dispatch(account.Email, activationToken)
		}
	}

	return &SessionResult{Token: token, Account: newAccountView(&account)}, nil
}

// Update applies the supplied fields to an existing account and returns a
// fresh session token reflecting the new state. Renaming an account to its
// current name is not a conflict.
func (s *AccountService) Update(ctx context.Context, accountID uint, input UpdateInput) (*SessionResult, error) {
	ctx = ensureContext(ctx)

	var account models.Account
	err := s.db.WithContext(ctx).First(&account, accountID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, apperrors.Wrap(fmt.Errorf("account service: load account: %w", err), "Service error")
	}

	if input.Name == nil && input.Password == nil {
		return nil, ErrNoChanges
	}

	updates := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)

		var holder models.Account
		err := s.db.WithContext(ctx).
			Where("name = ? AND id <> ?", name, account.ID).
			First(&holder).Error
		switch {
		case err == nil:
			return nil, ErrNameConflict
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.Wrap(fmt.Errorf("account service: name conflict check: %w", err), "Service error")
		}

		updates["name"] = name
	}

	if input.Password != nil {
		hashed, err := crypto.HashPassword(*input.Password)
		if err != nil {
			return nil, apperrors.Wrap(fmt.Errorf("account service: hash password: %w", err), "Service error")
		}
		updates["password"] = hashed
	}

	if err := s.db.WithContext(ctx).
		Model(&account).
		Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrNameConflict
		}
		return nil, apperrors.Wrap(fmt.Errorf("account service: update account: %w", err), "Service error")
	}

	if name, ok := updates["name"].(string); ok {
		account.Name = name
	}

	token, err := s.tokens.IssueSessionToken(account.ID, account.Name, account.Email)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("account service: issue session token: %w", err), "Service error")
	}

	return &SessionResult{Token: token, Account: newAccountView(&account)}, nil
}

// Delete hard-deletes an account. A second delete of the same identifier
// fails with ErrAccountNotFound.
func (s *AccountService) Delete(ctx context.Context, accountID uint) error {
	ctx = ensureContext(ctx)

	var account models.Account
	err := s.db.WithContext(ctx).First(&account, accountID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrAccountNotFound
	case err != nil:
		return apperrors.Wrap(fmt.Errorf("account service: load account: %w", err), "Service error")
	}

	if err := s.db.WithContext(ctx).Delete(&account).Error; err != nil {
		return apperrors.Wrap(fmt.Errorf("account service: delete account: %w", err), "Service error")
	}

	return nil
}

// GetByID loads an account by identifier, mainly for the auth middleware.
func (s *AccountService) GetByID(ctx context.Context, accountID uint) (*models.Account, error) {
	ctx = ensureContext(ctx)

	var account models.Account
	err := s.db.WithContext(ctx).First(&account, accountID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrAccountNotFound
	case err != nil:
		return nil, apperrors.Wrap(fmt.Errorf("account service: load account: %w", err), "Service error")
	}

	return &account, nil
}

func newAccountView(account *models.Account) AccountView {
	return AccountView{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Verified:  account.Verified,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
