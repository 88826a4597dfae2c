package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	phoneSeps    = strings.NewReplacer(" ", "", "-", "")
)

// UserService fronts the account collection. Credentials are compared as
// stored; hashing is owned by whoever replaces this collaborator.
type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	stg storage.IUserStorage
	log logger.ILogger
	now func() time.Time
}

func NewUserService(stg storage.IStorage, log logger.ILogger, now func() time.Time) UserService {
	return &userService{
		stg: stg.User(),
		log: log,
		now: now,
	}
}

func (s *userService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.StudentID = strings.TrimSpace(req.StudentID)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, ValidationError{Field: "email", Msg: "is invalid"}
	}
	if !phonePattern.MatchString(phoneSeps.Replace(req.Phone)) {
		return nil, ValidationError{Field: "phone", Msg: "must have 10 digits"}
	}

	existing, err := s.stg.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	domainQualified := strings.HasSuffix(strings.ToLower(req.Email), models.StudentDomain)
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		StudentID: req.StudentID,
		IsStudent: req.StudentID != "" || domainQualified,
		Password:  req.Password,
		CreatedAt: s.now(),
	}
	if domainQualified {
		user.StudentDomain = models.StudentDomain
	}

	created, err := s.stg.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed up", logger.String("user_id", created.ID), logger.Bool("student", created.IsStudent))
	return created, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if !emailPattern.MatchString(email) {
		return nil, ValidationError{Field: "email", Msg: "is invalid"}
	}
	if password == "" {
		return nil, ValidationError{Field: "password", Msg: "is required"}
	}

	user, err := s.stg.GetByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.stg.GetByID(ctx, id)
}
