package services

import (
	"errors"
	"log"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/models"
)

const bcryptCost = 10

// UserService handles registration, credential checks and profile changes.
// Account deletion composes with the set service's cascade.
type UserService struct {
	db   *gorm.DB
	sets *SetService
}

func NewUserService(db *gorm.DB, sets *SetService) *UserService {
	return &UserService{db: db, sets: sets}
}

// Register creates a new account. The email must not already be registered;
// no session is started.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperror.NewValidationError("Username, email and password are required")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperror.NewConflictError("Email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewInternalError("Failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to hash password", err)
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, apperror.NewInternalError("Failed to generate user ID", err)
	}

	user := models.User{
		PublicID:     publicID,
		Username:     username,
		Email:        email,
		Password:     string(hash),
		LastEditedAt: time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to create user", err)
	}

	log.Printf("Register: created user %s", user.PublicID)
	return &user, nil
}

// Login verifies credentials. An unknown email and a wrong password fail
// differently: "User not found" (404) versus "Invalid password" (401).
func (s *UserService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("User not found")
		}
		return nil, apperror.NewInternalError("Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.NewAuthError("Invalid password")
	}

	return &user, nil
}

func (s *UserService) GetByPublicID(publicID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("public_id = ?", publicID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("User not found")
		}
		return nil, apperror.NewInternalError("Failed to load user", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("User not found")
		}
		return nil, apperror.NewInternalError("Failed to load user", err)
	}
	return &user, nil
}

// UpdateProfile edits the user identified by email. Username is updated
// unconditionally, password only when a new one is supplied, the picture URL
// only when an upload produced one. LastEditedAt always refreshes.
func (s *UserService) UpdateProfile(email, username, newPassword, pictureURL string) (*models.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(username) == "" {
		return nil, apperror.NewValidationError("Username is required")
	}
	user.Username = username

	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("Failed to hash password", err)
		}
		user.Password = string(hash)
	}
	if pictureURL != "" {
		user.ProfilePicture = pictureURL
	}
	user.LastEditedAt = time.Now()

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to update profile", err)
	}

	log.Printf("UpdateProfile: updated user %s", user.PublicID)
	return user, nil
}

// DeleteAccount removes the user and cascades to every owned set.
func (s *UserService) DeleteAccount(userPublicID string) error {
	user, err := s.GetByPublicID(userPublicID)
	if err != nil {
		return err
	}
	return s.sets.DeleteUserCascade(user)
}
