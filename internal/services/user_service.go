package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spesecasa/internal/errors"
	"spesecasa/internal/models"
	"spesecasa/internal/pagination"
	"spesecasa/internal/validator"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user, optionally inside a family.
func (s *userService) CreateUser(in CreateUserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}
	if email != nil {
		if err := s.db.Model(&models.User{}).Where("email = ?", *email).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateEmail
		}
	}
	if in.FamilyID != nil {
		if err := s.db.Model(&models.Family{}).Where("id = ?", *in.FamilyID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrFamilyNotFound
		}
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    in.Username,
		Email:       email,
		Password:    hashed,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    true,
		IsSuperuser: in.IsSuperuser,
		FamilyID:    in.FamilyID,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	return s.findUser("id = ?", id)
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	return s.findUser("username = ?", username)
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ListUsers returns a page of users, optionally restricted to one family.
func (s *userService) ListUsers(familyID *string, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})
	if familyID != nil {
		base = base.Where("family_id = ?", *familyID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := base.Order("username ASC").Scopes(pagination.Paginate(page)).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// AttemptLogin checks the credentials of an active user and stamps the login
// time. Unknown users and wrong passwords get the same error.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Family").Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLoginAt = &now
	return &user, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *userService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return apperrors.ErrWrongPassword
	}
	return s.SetPassword(userID, newPassword)
}

// SetPassword validates and stores a new password.
func (s *userService) SetPassword(userID, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	res := s.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashed)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// EnsureSuperuser creates the first superuser inside the named family, which
// is created on demand. It does nothing when a superuser already exists or
// when no credentials are given. The boolean reports whether a user was
// created.
func (s *userService) EnsureSuperuser(username, password, email, familyName string) (*models.User, bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 || username == "" || password == "" {
		return nil, false, nil
	}

	mail, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user := &models.User{
		Username:    username,
		Email:       mail,
		Password:    hashed,
		FirstName:   "Admin",
		IsActive:    true,
		IsSuperuser: true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		family := models.Family{Name: familyName}
		if err := tx.Where("name = ?", familyName).FirstOrCreate(&family).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.FamilyID = &family.ID
		if err := tx.Create(user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *userService) findUser(query string, arg string) (*models.User, error) {
	var user models.User
	if err := s.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func checkPassword(password string) error {
	if problems := validator.ValidatePassword(password); len(problems) > 0 {
		return apperrors.WithMessage(apperrors.ErrWeakPassword, strings.Join(problems, "; "))
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hashed), nil
}

// normalizeEmail lowercases an optional address; empty means none.
func normalizeEmail(email string) (*string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	if !validator.ValidEmail(email) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid email address")
	}
	return &email, nil
}
