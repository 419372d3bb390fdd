package users

import (
	"errors"
	"time"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

type Service struct {
	repo      *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewService(repo *repository.UserRepository, jwtSecret []byte) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Service) Register(input RegisterInput) (*models.User, error) {
	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, apierror.Validation("email already registered")
	} else if !errors.Is(err, apierror.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credential and issues a signed token. Bad email and bad
// password are indistinguishable to the caller.
func (s *Service) Login(input LoginInput) (string, *models.User, error) {
	user, err := s.repo.GetByEmail(input.Email)
	if errors.Is(err, apierror.ErrNotFound) {
		return "", nil, apierror.ErrUnauthorized
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return "", nil, apierror.ErrUnauthorized
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: user.ID.String(),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  s.now().Unix(),
			ExpiresAt: s.now().Add(s.tokenTTL).Unix(),
		},
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

func (s *Service) Get(id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(id)
}
