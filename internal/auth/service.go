package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/internal/auth/entity"
	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database"
)

var (
	ErrEmailAlreadyExists       = apperror.New(apperror.Conflict, "Email ja cadastrado")
	ErrInvalidCredentials       = apperror.New(apperror.InvalidCredential, "Credenciais invalidas")
	ErrAccountDisabled          = apperror.New(apperror.InvalidCredential, "Usuario desativado")
	ErrUserNotFound             = apperror.New(apperror.NotFound, "Usuario nao encontrado")
	ErrCurrentPasswordRequired  = apperror.New(apperror.BadRequest, "Senha atual e obrigatoria")
	ErrCurrentPasswordIncorrect = apperror.New(apperror.BadRequest, "Senha atual incorreta")
)

// UserStore is the credential store the service depends on. *repo.UserRepo
// satisfies it.
type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	List(ctx context.Context) ([]entity.User, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput carries a partial update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

type LoginResult struct {
	User  entity.UserView `json:"usuario"`
	Token string          `json:"token"`
}

// AuthService orchestrates registration, login and profile flows.
type AuthService struct {
	store  UserStore
	hasher PasswordHasher
	tokens *TokenIssuer
}

func NewAuthService(store UserStore, hasher PasswordHasher, tokens *TokenIssuer) *AuthService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultBcryptCost}
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (entity.UserView, error) {
	email := normalizeEmail(in.Email)
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return entity.UserView{}, err
	}
	if existing != nil {
		return entity.UserView{}, ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return entity.UserView{}, apperror.InternalErr(err)
	}
	u := &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return entity.UserView{}, ErrEmailAlreadyExists.Wrap(err)
		}
		return entity.UserView{}, err
	}
	return u.View(), nil
}

// Login checks the password before the active flag so a disabled account is
// only revealed to a caller who already knows its password.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.Active {
		return LoginResult{}, ErrAccountDisabled
	}

	token, err := s.tokens.Issue(Identity{ID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		return LoginResult{}, apperror.InternalErr(err)
	}
	return LoginResult{User: u.View(), Token: token}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (entity.UserView, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return entity.UserView{}, err
	}
	if u == nil {
		return entity.UserView{}, ErrUserNotFound
	}

	if in.NewPassword != nil {
		if in.CurrentPassword == nil || *in.CurrentPassword == "" {
			return entity.UserView{}, ErrCurrentPasswordRequired
		}
		if !s.hasher.Verify(u.PasswordHash, *in.CurrentPassword) {
			return entity.UserView{}, ErrCurrentPasswordIncorrect
		}
		hash, err := s.hasher.Hash(*in.NewPassword)
		if err != nil {
			return entity.UserView{}, apperror.InternalErr(err)
		}
		u.PasswordHash = hash
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != u.Email {
			other, err := s.store.GetByEmail(ctx, email)
			if err != nil {
				return entity.UserView{}, err
			}
			if other != nil {
				return entity.UserView{}, ErrEmailAlreadyExists
			}
			u.Email = email
		}
	}

	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return entity.UserView{}, ErrEmailAlreadyExists.Wrap(err)
		}
		return entity.UserView{}, err
	}
	return u.View(), nil
}

// FindByID returns nil when no user has the id.
func (s *AuthService) FindByID(ctx context.Context, id int64) (*entity.UserView, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	v := u.View()
	return &v, nil
}

func (s *AuthService) ListAll(ctx context.Context) ([]entity.UserView, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.UserView, 0, len(users))
	for i := range users {
		out = append(out, users[i].View())
	}
	return out, nil
}

func (s *AuthService) VerifyToken(token string) (Identity, error) {
	return s.tokens.Verify(token)
}
