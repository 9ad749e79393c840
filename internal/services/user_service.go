package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	validate *validation.Validator
}

func NewUserService(db *gorm.DB, v *validation.Validator) *UserService {
	return &UserService{db: db, validate: v}
}

// ActiveByID loads the user behind a token. Unknown users map to
// ErrUnauthorized, deactivated ones to ErrAccountDisabled.
func (s *UserService) ActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, actor policy.Subject) ([]models.User, error) {
	if err := authorize(actor, policy.ActionList, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *UserService) Get(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.User, error) {
	if err := authorize(actor, policy.ActionView, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (s *UserService) Create(ctx context.Context, actor policy.Subject, req *dto.CreateUserRequest) (*models.User, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureUnique(ctx, "email", email, uuid.Nil); err != nil {
		return nil, err
	}

	user := models.User{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		Role:        req.Role,
		Departments: req.Departments,
		IsActive:    true,
		BirthPlace:  req.BirthPlace,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Departments == nil {
		user.Departments = []string{}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.BirthDate != "" {
		d, err := ParseDate(req.BirthDate)
		if err != nil {
			return nil, validation.Fail("birth_date", "birth_date must be a date (YYYY-MM-DD)")
		}
		user.BirthDate = &d
	}
	if req.NationalID != "" {
		if err := s.ensureUnique(ctx, "national_id", req.NationalID, uuid.Nil); err != nil {
			return nil, err
		}
		user.NationalID = &req.NationalID
	}
	if req.IBAN != "" {
		iban := validation.NormalizeIBAN(req.IBAN)
		if err := s.ensureUnique(ctx, "iban", iban, uuid.Nil); err != nil {
			return nil, err
		}
		user.IBAN = &iban
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if err := s.ensureUnique(ctx, "email", email, id); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.NationalID != nil {
		if *req.NationalID == "" {
			user.NationalID = nil
		} else if user.NationalID == nil || *user.NationalID != *req.NationalID {
			if err := s.ensureUnique(ctx, "national_id", *req.NationalID, id); err != nil {
				return nil, err
			}
			user.NationalID = req.NationalID
		}
	}
	if req.IBAN != nil {
		iban := validation.NormalizeIBAN(*req.IBAN)
		if iban == "" {
			user.IBAN = nil
		} else if user.IBAN == nil || *user.IBAN != iban {
			if err := s.ensureUnique(ctx, "iban", iban, id); err != nil {
				return nil, err
			}
			user.IBAN = &iban
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Departments != nil {
		user.Departments = *req.Departments
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.BirthPlace != nil {
		user.BirthPlace = *req.BirthPlace
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			user.BirthDate = nil
		} else {
			d, err := ParseDate(*req.BirthDate)
			if err != nil {
				return nil, validation.Fail("birth_date", "birth_date must be a date (YYYY-MM-DD)")
			}
			user.BirthDate = &d
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes a user together with rows that only make sense while the
// user exists. Reports and messages are kept for history.
func (s *UserService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindUser, OwnerID: id}); err != nil {
		return err
	}
	if id == actor.UserID {
		return validation.Fail("id", "you cannot delete your own account")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM meeting_participants WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM work_report_shares WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.MeetingAttendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ActivityPoint{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

var uniqueFieldLabel = map[string]string{
	"email":       "email is already in use",
	"national_id": "national_id is already registered",
	"iban":        "iban is already registered",
}

func (s *UserService) ensureUnique(ctx context.Context, column, value string, exclude uuid.UUID) error {
	q := s.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return validation.Fail(column, uniqueFieldLabel[column])
	}
	return nil
}

// activeUsers lists active users ordered by name.
func activeUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("first_name, last_name").Find(&users).Error
	return users, err
}

func nowUTC() time.Time { return time.Now().UTC() }
