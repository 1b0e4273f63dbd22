package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/yukikurage/task-habit-api/internal/auth"
	"github.com/yukikurage/task-habit-api/internal/constants"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/models"
	"github.com/yukikurage/task-habit-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = apierrors.New(apierrors.KindConflict, "user with this email or username already exists")
	ErrInvalidCredentials = apierrors.New(apierrors.KindUnauthorized, "incorrect username or password")
	ErrInvalidToken       = apierrors.New(apierrors.KindUnauthorized, "could not validate credentials")
	ErrInactiveUser       = apierrors.New(apierrors.KindUnauthorized, "inactive user")
	ErrUserNotFound       = apierrors.New(apierrors.KindNotFound, "user not found")
	ErrPasswordTooLong    = apierrors.Validation("Invalid input", map[string]string{"password": fmt.Sprintf("must be at most %d bytes", constants.MaxPasswordLength)})
)

// AuthService handles authentication related business logic.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenIssuer
	hashCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Username string `json:"username" validate:"required,min=3,max=50,excludes=@"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a user and issues its first token. Values are stored as
// given. Uniqueness of email and username is left to the unique indexes;
// usernames never contain '@', so a login identifier cannot match both.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *auth.IssuedToken, error) {
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}
	// bcrypt limits bytes, the max rule counts runes
	if len(input.Password) > constants.MaxPasswordLength {
		return nil, nil, ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          input.Email,
		Username:       input.Username,
		HashedPassword: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, storageError(err, nil, ErrUserExists)
	}

	token, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Identifier string
	Password   string
}

// Authenticate matches the identifier against email or username and checks
// the password with bcrypt.
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*models.User, *auth.IssuedToken, error) {
	user, err := s.users.FindByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrUserNotFound, nil)
	}
	return user, nil
}

// ResolveToken verifies a bearer token and loads the active user it names.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, ErrInvalidToken, nil)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// DeactivateUser clears is_active; tokens already issued stop resolving.
func (s *AuthService) DeactivateUser(ctx context.Context, id uint64) error {
	return storageError(s.users.SetActive(ctx, id, false), ErrUserNotFound, nil)
}

// DeleteUser removes the account together with everything it owns.
func (s *AuthService) DeleteUser(ctx context.Context, id uint64) error {
	return storageError(s.users.Delete(ctx, id), ErrUserNotFound, nil)
}

func (s *AuthService) issueFor(user *models.User) (*auth.IssuedToken, error) {
	token, err := s.tokens.Issue(strconv.FormatUint(user.ID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
