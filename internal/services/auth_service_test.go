package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-habit-api/internal/auth"
	apierrors "github.com/yukikurage/task-habit-api/internal/errors"
	"github.com/yukikurage/task-habit-api/internal/testutil"
)

type AuthServiceTestSuite struct {
	serviceSuite
}

func (s *AuthServiceTestSuite) TestRegisterAndAuthenticate_Scenario() {
	user, token, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    "alice@x.com",
		Username: "alice",
		Password: "password123",
	})
	s.Require().NoError(err)
	s.NotZero(user.ID)
	s.True(user.IsActive)
	s.NotEqual("password123", user.HashedPassword)
	s.NotEmpty(token.Token)

	_, _, err = s.authService.Register(s.ctx, RegisterInput{
		Email:    "alice@x.com",
		Username: "alice2",
		Password: "password123",
	})
	s.ErrorIs(err, ErrUserExists)
	s.requireKind(err, apierrors.KindConflict)

	loggedIn, token, err := s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice", Password: "password123"})
	s.Require().NoError(err)
	s.Equal(user.ID, loggedIn.ID)
	s.NotEmpty(token.Token)

	_, _, err = s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)
	s.requireKind(err, apierrors.KindUnauthorized)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateUsername() {
	s.register("alice")

	_, _, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    "other@example.com",
		Username: "alice",
		Password: "password123",
	})
	s.ErrorIs(err, ErrUserExists)
}

func (s *AuthServiceTestSuite) TestRegister_Validation() {
	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Username: "alice", Password: "password123"}, "email"},
		{"short username", RegisterInput{Email: "a@example.com", Username: "al", Password: "password123"}, "username"},
		{"short password", RegisterInput{Email: "a@example.com", Username: "alice", Password: "short"}, "password"},
		{"long password", RegisterInput{Email: "a@example.com", Username: "alice", Password: strings.Repeat("p", 73)}, "password"},
		{"multibyte password over 72 bytes", RegisterInput{Email: "a@example.com", Username: "alice", Password: strings.Repeat("é", 40)}, "password"},
		{"username with @", RegisterInput{Email: "a@example.com", Username: "bob@example.com", Password: "password123"}, "username"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, _, err := s.authService.Register(s.ctx, tt.input)
			s.requireKind(err, apierrors.KindValidation)

			var apiErr *apierrors.Error
			s.Require().ErrorAs(err, &apiErr)
			details, ok := apiErr.Details.(map[string]string)
			s.Require().True(ok)
			s.Contains(details, tt.field)
		})
	}
}

func (s *AuthServiceTestSuite) TestAuthenticate_ByEmail() {
	user := s.register("alice")

	found, _, err := s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	_, _, err = s.authService.Authenticate(s.ctx, LoginInput{Identifier: "nobody", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestAuthenticate_EmailCannotBeShadowedByUsername() {
	_, _, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    "m@x.com",
		Username: "alice@x.com",
		Password: "password123",
	})
	s.requireKind(err, apierrors.KindValidation)

	alice, _, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    "alice@x.com",
		Username: "alice",
		Password: "password123",
	})
	s.Require().NoError(err)

	found, _, err := s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice@x.com", Password: "password123"})
	s.Require().NoError(err)
	s.Equal(alice.ID, found.ID)
}

func (s *AuthServiceTestSuite) TestRegister_StoresValuesAsGiven() {
	user, _, err := s.authService.Register(s.ctx, RegisterInput{
		Email:    "Alice@Example.com",
		Username: "Alice",
		Password: "password123",
	})
	s.Require().NoError(err)
	s.Equal("Alice@Example.com", user.Email)
	s.Equal("Alice", user.Username)

	_, _, err = s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestResolveToken() {
	user := s.register("alice")
	_, token, err := s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice", Password: "password123"})
	s.Require().NoError(err)

	resolved, err := s.authService.ResolveToken(s.ctx, token.Token)
	s.Require().NoError(err)
	s.Equal(user.ID, resolved.ID)

	_, err = s.authService.ResolveToken(s.ctx, "garbage")
	s.ErrorIs(err, ErrInvalidToken)

	s.Require().NoError(s.authService.DeactivateUser(s.ctx, user.ID))
	_, err = s.authService.ResolveToken(s.ctx, token.Token)
	s.ErrorIs(err, ErrInactiveUser)
	s.requireKind(err, apierrors.KindUnauthorized)
}

func (s *AuthServiceTestSuite) TestResolveToken_Expired() {
	user := s.register("alice")

	past := time.Now().Add(-2 * time.Hour)
	expired, err := auth.NewTokenIssuer(testutil.NewConfig())
	s.Require().NoError(err)
	token, err := expired.WithClock(testutil.FixedClock(past)).Issue("1")
	s.Require().NoError(err)
	s.Equal(uint64(1), user.ID)

	_, err = s.authService.ResolveToken(s.ctx, token.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestResolveToken_DeletedUser() {
	user := s.register("alice")
	_, token, err := s.authService.Authenticate(s.ctx, LoginInput{Identifier: "alice", Password: "password123"})
	s.Require().NoError(err)

	s.Require().NoError(s.authService.DeleteUser(s.ctx, user.ID))

	_, err = s.authService.ResolveToken(s.ctx, token.Token)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.authService.GetUser(s.ctx, user.ID)
	s.ErrorIs(err, ErrUserNotFound)
	s.ErrorIs(s.authService.DeleteUser(s.ctx, user.ID), ErrUserNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
