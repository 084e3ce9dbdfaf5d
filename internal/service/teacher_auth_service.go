package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

type teacherDirectory interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, id string, fn func(*models.Teacher) error) (*models.Teacher, error)
	AppendUpload(ctx context.Context, teacherID, uploadID string) error
}

type verificationStore interface {
	Put(ctx context.Context, entry models.VerificationEntry) error
	Find(ctx context.Context, email string) (*models.VerificationEntry, error)
	Delete(ctx context.Context, email string) (bool, error)
}

type sessionStore interface {
	Current(ctx context.Context) (*models.SessionTeacher, error)
	Save(ctx context.Context, teacher models.SessionTeacher) error
	Clear(ctx context.Context) error
}

// TeacherAuthConfig tunes the verification flow.
type TeacherAuthConfig struct {
	CodeTTL           time.Duration
	MinPasswordLength int
}

// TeacherAuthService owns the teacher directory, verification codes and the session snapshot.
type TeacherAuthService struct {
	teachers      teacherDirectory
	verifications verificationStore
	sessions      sessionStore
	hasher        PasswordHasher
	mailer        Mailer
	validator     *validator.Validate
	logger        *zap.Logger
	metrics       workflowRecorder
	config        TeacherAuthConfig
	generateCode  CodeGenerator
	now           func() time.Time
}

// NewTeacherAuthService constructs the service.
func NewTeacherAuthService(
	teachers teacherDirectory,
	verifications verificationStore,
	sessions sessionStore,
	hasher PasswordHasher,
	mailer Mailer,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics workflowRecorder,
	cfg TeacherAuthConfig,
) *TeacherAuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 15 * time.Minute
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	svc := &TeacherAuthService{
		teachers:      teachers,
		verifications: verifications,
		sessions:      sessions,
		hasher:        hasher,
		mailer:        mailer,
		validator:     validate,
		logger:        logger,
		metrics:       recorderOrNoop(metrics),
		config:        cfg,
		generateCode:  SixDigitCode,
		now:           func() time.Time { return time.Now().UTC() },
	}
	registerBasicEmail(svc.validator)
	return svc
}

// Register validates the request and issues a registration code. The account is
// only created once the code is verified.
func (s *TeacherAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.CodeIssuedResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if !validEmail(req.Email) {
		return nil, appErrors.ErrInvalidEmail
	}
	if err := s.checkPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "name and school are required")
	}

	if _, err := s.teachers.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, appErrors.Internal(err, "failed to check email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	payload := &models.RegistrationPayload{
		Email:        req.Email,
		Name:         req.Name,
		School:       req.School,
		PasswordHash: hash,
	}
	res, err := s.issueCode(ctx, req.Email, req.Name, models.PurposeRegistration, payload)
	if err != nil {
		return nil, err
	}
	res.Message = "Verification code sent to your email"
	s.metrics.RecordWorkflow("registration", "code_issued")
	return res, nil
}

// VerifyEmail consumes a registration code, creates the teacher and signs them in.
func (s *TeacherAuthService) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (*models.SessionTeacher, error) {
	email := normalizeEmail(req.Email)
	entry, err := s.consumableEntry(ctx, email, models.PurposeRegistration)
	if err != nil {
		return nil, err
	}
	if entry.Payload == nil {
		return nil, appErrors.ErrNoPendingVerification
	}
	if err := s.checkCode(ctx, entry, req.Code, "verification"); err != nil {
		return nil, err
	}

	if _, err := s.teachers.FindByEmail(ctx, email); err == nil {
		s.discardEntry(ctx, email)
		return nil, appErrors.ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, appErrors.Internal(err, "failed to check email")
	}

	teacher := &models.Teacher{
		ID:           "teacher_" + uuid.NewString(),
		Email:        entry.Payload.Email,
		Name:         entry.Payload.Name,
		School:       entry.Payload.School,
		PasswordHash: entry.Payload.PasswordHash,
		CreatedAt:    s.now(),
		Status:       models.TeacherStatusActive,
		Uploads:      []string{},
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Internal(err, "failed to create teacher")
	}
	s.discardEntry(ctx, email)
	s.metrics.RecordWorkflow("verification", "success")

	return s.startSession(ctx, teacher.ID)
}

// Login checks credentials and writes the session snapshot.
func (s *TeacherAuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.SessionTeacher, error) {
	teacher, err := s.teachers.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, appErrors.Internal(err, "failed to load teacher")
	}
	if !s.hasher.Compare(teacher.PasswordHash, req.Password) {
		s.metrics.RecordWorkflow("login", "invalid_password")
		return nil, appErrors.ErrInvalidPassword
	}
	if !teacher.Active() {
		return nil, appErrors.ErrAccountInactive
	}
	s.metrics.RecordWorkflow("login", "success")
	return s.startSession(ctx, teacher.ID)
}

// Logout clears the session snapshot. The directory is untouched.
func (s *TeacherAuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return appErrors.Internal(err, "failed to clear session")
	}
	return nil
}

// CurrentTeacher returns the signed-in teacher or nil.
func (s *TeacherAuthService) CurrentTeacher(ctx context.Context) (*models.SessionTeacher, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read session")
	}
	return current, nil
}

// IsLoggedIn reports whether a session snapshot exists.
func (s *TeacherAuthService) IsLoggedIn(ctx context.Context) (bool, error) {
	current, err := s.CurrentTeacher(ctx)
	if err != nil {
		return false, err
	}
	return current != nil, nil
}

// RequestPasswordReset issues a reset code for a registered teacher.
func (s *TeacherAuthService) RequestPasswordReset(ctx context.Context, req dto.ForgotPasswordRequest) (*dto.CodeIssuedResponse, error) {
	email := normalizeEmail(req.Email)
	teacher, err := s.teachers.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, appErrors.Internal(err, "failed to load teacher")
	}

	res, err := s.issueCode(ctx, email, teacher.Name, models.PurposePasswordReset, nil)
	if err != nil {
		return nil, err
	}
	res.Message = "Password reset code sent to your email"
	s.metrics.RecordWorkflow("password_reset", "code_issued")
	return res, nil
}

// ResetPassword consumes a reset code and stores the new password.
func (s *TeacherAuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	entry, err := s.consumableEntry(ctx, email, models.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := s.checkCode(ctx, entry, req.Code, "reset"); err != nil {
		return err
	}
	if err := s.checkPassword(req.NewPassword); err != nil {
		return err
	}

	teacher, err := s.teachers.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return appErrors.ErrTeacherNotFound
		}
		return appErrors.Internal(err, "failed to load teacher")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if _, err := s.teachers.Update(ctx, teacher.ID, func(t *models.Teacher) error {
		t.PasswordHash = hash
		return nil
	}); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	s.discardEntry(ctx, email)
	s.metrics.RecordWorkflow("password_reset", "success")
	return nil
}

// UpdateProfile shallow-merges the update into the teacher and refreshes the
// session snapshot when it belongs to the same teacher.
func (s *TeacherAuthService) UpdateProfile(ctx context.Context, teacherID string, update models.ProfileUpdate) (*models.SessionTeacher, error) {
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if !validEmail(email) {
			return nil, appErrors.ErrInvalidEmail
		}
		if other, err := s.teachers.FindByEmail(ctx, email); err == nil && other.ID != teacherID {
			return nil, appErrors.ErrEmailTaken
		} else if err != nil && !isNotFound(err) {
			return nil, appErrors.Internal(err, "failed to check email")
		}
		update.Email = &email
	}
	if update.Status != nil && *update.Status != models.TeacherStatusActive && *update.Status != models.TeacherStatusSuspended {
		return nil, validationError(nil, "unknown account status")
	}
	if update.Name != nil && *update.Name == "" {
		return nil, validationError(nil, "name cannot be empty")
	}

	updated, err := s.teachers.Update(ctx, teacherID, func(t *models.Teacher) error {
		update.Apply(t)
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, appErrors.Internal(err, "failed to update teacher")
	}

	session := updated.Session()
	if err := s.refreshSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetTeacher returns a teacher without credentials.
func (s *TeacherAuthService) GetTeacher(ctx context.Context, id string) (*models.SessionTeacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, appErrors.Internal(err, "failed to load teacher")
	}
	session := teacher.Session()
	return &session, nil
}

// ListTeachers returns every teacher without credentials.
func (s *TeacherAuthService) ListTeachers(ctx context.Context) ([]models.SessionTeacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	out := make([]models.SessionTeacher, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, t.Session())
	}
	return out, nil
}

// AttachUpload records an upload id on its owner.
func (s *TeacherAuthService) AttachUpload(ctx context.Context, teacherID, uploadID string) error {
	if err := s.teachers.AppendUpload(ctx, teacherID, uploadID); err != nil {
		if isNotFound(err) {
			return appErrors.ErrTeacherNotFound
		}
		return appErrors.Internal(err, "failed to attach upload")
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return appErrors.Internal(err, "failed to reload teacher")
	}
	return s.refreshSession(ctx, teacher.Session())
}

func (s *TeacherAuthService) checkPassword(password string) error {
	if len(password) < s.config.MinPasswordLength {
		return appErrors.Clone(appErrors.ErrWeakPassword, "")
	}
	return nil
}

func (s *TeacherAuthService) issueCode(ctx context.Context, email, name string, purpose models.VerificationPurpose, payload *models.RegistrationPayload) (*dto.CodeIssuedResponse, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate code")
	}
	now := s.now()
	entry := models.VerificationEntry{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(s.config.CodeTTL),
		CreatedAt: now,
		Payload:   payload,
	}
	if err := s.verifications.Put(ctx, entry); err != nil {
		return nil, appErrors.Internal(err, "failed to store verification code")
	}

	res := &dto.CodeIssuedResponse{Email: email, ExpiresAt: entry.ExpiresAt}
	msg := models.VerificationMessage{
		Recipient:     email,
		RecipientName: name,
		Code:          code,
		Purpose:       purpose,
		ExpiresAt:     entry.ExpiresAt,
	}
	if err := s.mailer.SendVerification(ctx, msg); err != nil {
		s.logger.Warn("verification email not delivered",
			zap.String("email", email),
			zap.String("purpose", string(purpose)),
			zap.Error(appErrors.Wrap(err, appErrors.ErrEmailSendFailed.Code, appErrors.ErrEmailSendFailed.Status, appErrors.ErrEmailSendFailed.Message)),
		)
		s.metrics.RecordWorkflow("mail", "failed")
		res.DeliveryFailed = true
	}
	return res, nil
}

func (s *TeacherAuthService) consumableEntry(ctx context.Context, email string, purpose models.VerificationPurpose) (*models.VerificationEntry, error) {
	entry, err := s.verifications.Find(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.ErrNoPendingVerification
		}
		return nil, appErrors.Internal(err, "failed to load verification")
	}
	if entry.Purpose != purpose {
		return nil, appErrors.ErrNoPendingVerification
	}
	return entry, nil
}

func (s *TeacherAuthService) checkCode(ctx context.Context, entry *models.VerificationEntry, code, label string) error {
	if entry.Expired(s.now()) {
		s.discardEntry(ctx, entry.Email)
		s.metrics.RecordWorkflow(string(entry.Purpose), "expired")
		return appErrors.Clone(appErrors.ErrCodeExpired, label+" code expired")
	}
	if !codesEqual(entry.Code, code) {
		s.metrics.RecordWorkflow(string(entry.Purpose), "mismatch")
		return appErrors.Clone(appErrors.ErrCodeMismatch, "invalid "+label+" code")
	}
	return nil
}

func (s *TeacherAuthService) discardEntry(ctx context.Context, email string) {
	if _, err := s.verifications.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to discard verification entry", zap.String("email", email), zap.Error(err))
	}
}

func (s *TeacherAuthService) startSession(ctx context.Context, teacherID string) (*models.SessionTeacher, error) {
	now := s.now()
	teacher, err := s.teachers.Update(ctx, teacherID, func(t *models.Teacher) error {
		t.LastLogin = &now
		return nil
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to stamp last login")
	}
	session := teacher.Session()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Internal(err, "failed to write session")
	}
	return &session, nil
}

func (s *TeacherAuthService) refreshSession(ctx context.Context, session models.SessionTeacher) error {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return appErrors.Internal(err, "failed to read session")
	}
	if current == nil || current.ID != session.ID {
		return nil
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return appErrors.Internal(err, "failed to refresh session")
	}
	return nil
}
