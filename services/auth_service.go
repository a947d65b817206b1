package services

import (
	"fmt"
	"log/slog"

	"github.com/AlexandreSaynov/tp1ADC/auth"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
)

type IAuthService interface {
	Register(username, email, password, role string) (repositories.User, error)
	Bootstrap(username, email, password string) (repositories.User, error)
	CanBootstrap() (bool, error)
	Login(username, password string) (Session, error)
	Validate(session Session) (Session, error)
}

// Session is an authenticated console user.
type Session struct {
	UserID   string
	Username string
	Role     string
	Token    string
}

type AuthService struct {
	log            *slog.Logger
	userRepository repositories.IUserRepository
	issuer         *auth.TokenIssuer
}

func NewAuthService(log *slog.Logger, repo repositories.IUserRepository, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{log: log, userRepository: repo, issuer: issuer}
}

// Register validates the request before any hashing, then stores the account.
func (s *AuthService) Register(username, email, password, role string) (repositories.User, error) {
	valReq := auth.RegisterRequest{Username: username, Email: email, Password: password, Role: role}
	if err := auth.ValidateRegister(valReq); err != nil {
		return repositories.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return repositories.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(username, email, hashedPassword, role)
	if err != nil {
		return repositories.User{}, err
	}
	s.log.Info("User registered", "user", username, "role", role)
	return user, nil
}

func (s *AuthService) CanBootstrap() (bool, error) {
	count, err := s.userRepository.CountUsers()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Bootstrap registers the first account as root. It is refused once any account exists.
func (s *AuthService) Bootstrap(username, email, password string) (repositories.User, error) {
	open, err := s.CanBootstrap()
	if err != nil {
		return repositories.User{}, err
	}
	if !open {
		return repositories.User{}, errors.ErrBootstrapClosed
	}
	return s.Register(username, email, password, auth.RootRole)
}

// Login never tells an unknown user from a wrong password.
func (s *AuthService) Login(username, password string) (Session, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return Session{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Session{}, errors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return Session{}, errors.ErrTokenGeneration
	}
	s.log.Info("User logged in", "user", user.Username)
	return Session{UserID: user.ID, Username: user.Username, Role: user.Role, Token: token}, nil
}

// Validate re-reads the token claims so a tampered or expired session is rejected.
func (s *AuthService) Validate(session Session) (Session, error) {
	claims, err := s.issuer.Validate(session.Token)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: claims.UserID, Username: claims.Username, Role: claims.Role, Token: session.Token}, nil
}
