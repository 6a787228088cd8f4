package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/observability"
	"github.com/noah-isme/accomnote/internal/store"
)

// RegisterInput carries the registration form fields. Validation is presence
// checks only; anything deeper is the identity provider's problem.
type RegisterInput struct {
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	Role            string `validate:"required,oneof=teacher counselor"`
	AssignedClass   string
	AssignedSection string
}

// RegistrationService creates identities and their metadata records.
type RegistrationService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
}

type registrationService struct {
	identity IdentityProvider
	db       firebase.Database
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(identity IdentityProvider, db firebase.Database, validate *validator.Validate, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		identity: identity,
		db:       db,
		validate: validate,
		logger:   logger.With().Str("component", "registration_service").Logger(),
	}
}

// Register creates the account with the identity provider, then writes the
// metadata record the app resolves roles from at login. The two writes are
// not transactional: if the metadata write fails the identity exists without
// a record and logins are rejected until registration is repeated.
func (s *registrationService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if err := s.validate.Struct(input); err != nil {
		return "", err
	}

	uid, err := s.identity.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		observability.IdentityCalls().WithLabelValues("sign_up", "rejected").Inc()
		return "", err
	}
	observability.IdentityCalls().WithLabelValues("sign_up", "success").Inc()

	role := models.ParseRole(input.Role)

	assignedClass := input.AssignedClass
	assignedSection := input.AssignedSection
	if role != models.RoleTeacher {
		// Counselors are not scoped to a class.
		assignedClass = ""
		assignedSection = ""
	}

	record := models.UserRecord{
		Username:        input.Username,
		Email:           input.Email,
		Password:        input.Password,
		Role:            role.String(),
		AssignedClass:   assignedClass,
		AssignedSection: assignedSection,
	}

	userPath, err := store.UserPath(uid)
	if err != nil {
		return "", fmt.Errorf("build user path: %w", err)
	}

	if err := s.db.Set(ctx, userPath, record); err != nil {
		return "", err
	}

	observability.StoreWrites().WithLabelValues("user").Inc()
	s.logger.Info().Str("uid", uid).Str("role", role.String()).Msg("user registered")

	return uid, nil
}
