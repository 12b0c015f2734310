package service

import (
	"context"
	"errors"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/campushq/account-service/internal/adapters/transport/http/dto"
	"github.com/campushq/account-service/internal/app/password"
	customErrors "github.com/campushq/account-service/internal/domain/account/errors"
	"github.com/campushq/account-service/internal/domain/account/model"
	"github.com/campushq/account-service/internal/domain/account/repo"
	domtoken "github.com/campushq/account-service/internal/domain/account/token"
	"github.com/campushq/account-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type accountService struct {
	accountRepo repo.AccountRepo
	codec       domtoken.Codec
	hasher      password.Hasher
	cfg         *config.Config
	v           *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.Account, error)
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (model.Account, error)
	UpdateProfile(context.Context, model.Account, dto.UpdateProfileDTO) (model.Account, error)
	ChangePassword(context.Context, model.Account, dto.ChangePasswordDTO) error
	DeleteAccount(context.Context, model.Account) error
}

func New(
	ar repo.AccountRepo,
	codec domtoken.Codec,
	hasher password.Hasher,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &accountService{
		accountRepo: ar, codec: codec, hasher: hasher, cfg: cfg, v: v,
	}
}

// NewValidator builds the request validator with the strongpwd rule:
// at least 8 runes, an upper-case letter and a digit.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return utf8.RuneCountInString(pwd) >= 8 && hasUpper && hasDigit
	})
	return v
}

// Register creates the account with token_version=1 and issues nothing:
// obtaining tokens is an explicit login.
func (a *accountService) Register(ctx context.Context, in dto.RegisterDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(in.Password + a.cfg.PasswordPepper)
	if err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "Register")
	}

	acct := model.Account{
		ID:           uuid.New(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: passwordHash,
		TokenVersion: 1,
	}
	if _, err = a.accountRepo.Create(ctx, acct); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Account{}, customErrors.ErrAlreadyExists
		}
		return model.Account{}, customErrors.WrapInternal(err, "Register")
	}

	return acct, nil
}

// Login fails with the same error whether the email is unknown or the
// password is wrong, so the response shape never identifies which.
func (a *accountService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	acct, err := a.accountRepo.GetByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(in.Password+a.cfg.PasswordPepper, acct.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	return a.issuePair(acct)
}

// Refresh validates the presented refresh token against the account's
// current token version read fresh from the repository, then issues a new
// access token stamped with that fresh version. The refresh token itself is
// echoed back unrotated.
func (a *accountService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.codec.Decode(in.RefreshToken, domtoken.KindRefresh)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	acct, err := a.resolveSubject(ctx, claims)
	if err != nil {
		return model.TokenPair{}, err
	}

	at, atExp, err := a.codec.Issue(acct.ID, acct.TokenVersion, domtoken.KindAccess)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: in.RefreshToken,
		TokenType:    "bearer",
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   claims.ExpiresAt.Time.Sub(now),
		AccountID:    acct.ID,
	}, nil
}

// Authenticate resolves a bearer access token to its account. All failure
// modes collapse to ErrInvalidToken; the revocation case carries a detail
// suffix for logging but stays the same error kind externally.
func (a *accountService) Authenticate(ctx context.Context, accessToken string) (model.Account, error) {
	claims, err := a.codec.Decode(accessToken, domtoken.KindAccess)
	if err != nil {
		return model.Account{}, customErrors.ErrInvalidToken
	}

	return a.resolveSubject(ctx, claims)
}

func (a *accountService) UpdateProfile(ctx context.Context, acct model.Account, in dto.UpdateProfileDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}

	if in.FirstName != nil {
		acct.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		acct.LastName = *in.LastName
	}
	if in.Email != nil {
		acct.Email = *in.Email
	}
	if in.Affiliation != nil {
		acct.Affiliation = in.Affiliation
	}

	if err := a.accountRepo.Update(ctx, acct); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Account{}, customErrors.ErrAlreadyExists
		}
		return model.Account{}, customErrors.WrapInternal(err, "UpdateProfile")
	}

	return acct, nil
}

// ChangePassword swaps the hash and bumps token_version in one repository
// write; every token issued before this call dies on its next decode.
func (a *accountService) ChangePassword(ctx context.Context, acct model.Account, in dto.ChangePasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	ok, err := a.hasher.Verify(in.CurrentPassword+a.cfg.PasswordPepper, acct.PasswordHash)
	if err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	if !ok {
		return customErrors.ErrInvalidPassword
	}

	newHash, err := a.hasher.Hash(in.NewPassword + a.cfg.PasswordPepper)
	if err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}

	if err := a.accountRepo.UpdateCredentials(ctx, acct.ID, newHash, acct.TokenVersion+1); err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	return nil
}

func (a *accountService) DeleteAccount(ctx context.Context, acct model.Account) error {
	if err := a.accountRepo.Delete(ctx, acct.ID); err != nil {
		return customErrors.WrapInternal(err, "DeleteAccount")
	}
	return nil
}

func (a *accountService) issuePair(acct model.Account) (model.TokenPair, error) {
	at, atExp, err := a.codec.Issue(acct.ID, acct.TokenVersion, domtoken.KindAccess)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "issue access token")
	}
	rt, rtExp, err := a.codec.Issue(acct.ID, acct.TokenVersion, domtoken.KindRefresh)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "issue refresh token")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		TokenType:    "bearer",
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		AccountID:    acct.ID,
	}, nil
}

// resolveSubject loads the account named by the claims and enforces the
// token_version match. Not-found and version-mismatch both come back as
// ErrInvalidToken so the caller cannot tell them apart.
func (a *accountService) resolveSubject(ctx context.Context, claims domtoken.Claims) (model.Account, error) {
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Account{}, customErrors.ErrInvalidToken
	}

	acct, err := a.accountRepo.GetByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Account{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.Account{}, customErrors.WrapInternal(err, "resolve subject")
	}

	if claims.TokenVersion != acct.TokenVersion {
		return model.Account{}, customErrors.ErrTokenRevoked
	}

	return acct, nil
}
