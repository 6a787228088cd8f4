package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/observability"
	"github.com/noah-isme/accomnote/internal/session"
	"github.com/noah-isme/accomnote/internal/store"
)

// ErrNameRequired is returned when the student name is blank after trimming.
var ErrNameRequired = errors.New("student name is required")

// AddStudentInput carries the add/edit form fields. Class and Section are
// only honored for non-teacher roles; a teacher's target always comes from
// their session assignment.
type AddStudentInput struct {
	Class          string
	Section        string
	Name           string
	SpecialNeeds   string
	Progress       string
	Accommodations string
	Notes          string
}

// AddResult reports where the record was written.
type AddResult struct {
	Class   string
	Section string
	Key     string
}

// StudentService reads and upserts accommodation records.
type StudentService interface {
	Add(ctx context.Context, sess session.Session, input AddStudentInput) (AddResult, error)
	ListSection(ctx context.Context, class, section string) (map[string]models.StudentRecord, error)
	ListAll(ctx context.Context) (map[string]map[string]map[string]models.StudentRecord, error)
}

type studentService struct {
	db     firebase.Database
	policy *bluemonday.Policy
	now    func() time.Time
	logger zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(db firebase.Database, logger zerolog.Logger) StudentService {
	return &studentService{
		db:     db,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
		logger: logger.With().Str("component", "student_service").Logger(),
	}
}

// Add writes one student record. The write replaces whatever is at the
// derived key; two names that sanitize to the same key share one record and
// the later write wins.
func (s *studentService) Add(ctx context.Context, sess session.Session, input AddStudentInput) (AddResult, error) {
	class := strings.TrimSpace(input.Class)
	section := strings.TrimSpace(input.Section)
	if sess.Role == models.RoleTeacher {
		// Teachers are scoped to their assignment; form values are ignored.
		class = sess.AssignedClass
		section = sess.AssignedSection
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return AddResult{}, ErrNameRequired
	}

	key := store.StudentKeyFromName(name)
	path, err := store.StudentPath(class, section, key)
	if err != nil {
		return AddResult{}, err
	}

	record := models.StudentRecord{
		Name:           name,
		SpecialNeeds:   s.sanitize(input.SpecialNeeds),
		Progress:       s.sanitize(input.Progress),
		Accommodations: s.sanitize(input.Accommodations),
		Notes:          s.sanitize(input.Notes),
		CreatedBy:      sess.UID,
		LastUpdated:    s.now().UnixMilli(),
	}

	if err := s.db.Set(ctx, path, record); err != nil {
		return AddResult{}, err
	}

	observability.StoreWrites().WithLabelValues("student").Inc()
	s.logger.Info().
		Str("class", class).
		Str("section", section).
		Str("key", key).
		Str("created_by", sess.UID).
		Msg("student record written")

	return AddResult{Class: class, Section: section, Key: key}, nil
}

// ListSection returns every student record in one class section.
func (s *studentService) ListSection(ctx context.Context, class, section string) (map[string]models.StudentRecord, error) {
	path, err := store.SectionPath(class, section)
	if err != nil {
		return nil, err
	}

	students := map[string]models.StudentRecord{}
	if err := s.db.Get(ctx, path, &students); err != nil {
		return nil, err
	}

	return students, nil
}

// ListAll returns the whole Classes tree: class -> section -> key -> record.
func (s *studentService) ListAll(ctx context.Context) (map[string]map[string]map[string]models.StudentRecord, error) {
	classes := map[string]map[string]map[string]models.StudentRecord{}
	if err := s.db.Get(ctx, store.ClassesPath(), &classes); err != nil {
		return nil, err
	}

	return classes, nil
}

func (s *studentService) sanitize(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(value))
}
