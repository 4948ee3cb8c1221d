package invite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/codes"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// maxCodeAttempts bounds regeneration when a generated code collides with
// an existing active invitation.
const maxCodeAttempts = 5

// maxProgressSessions caps the session history in a student progress report.
const maxProgressSessions = 20

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db              *sql.DB
	invitationStore store.InvitationStore
	accessStore     store.AccessStore
	deckStore       store.DeckStore
	userStore       store.UserStore
	studyStore      store.StudyStore
	logger          *slog.Logger
	timeFunc        func() time.Time
	runTx           func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new invitation Service implementation.
func NewService(
	db *sql.DB,
	invitationStore store.InvitationStore,
	accessStore store.AccessStore,
	deckStore store.DeckStore,
	userStore store.UserStore,
	studyStore store.StudyStore,
	logger *slog.Logger,
) Service {
	if invitationStore == nil || accessStore == nil || deckStore == nil ||
		userStore == nil || studyStore == nil {
		panic("invite service stores cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:              db,
		invitationStore: invitationStore,
		accessStore:     accessStore,
		deckStore:       deckStore,
		userStore:       userStore,
		studyStore:      studyStore,
		logger:          logger.With(slog.String("component", "invite_service")),
		timeFunc:        time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// CreateOrGet implements Service.CreateOrGet.
func (s *serviceImpl) CreateOrGet(ctx context.Context, teacherID, deckID uuid.UUID, maxUses, expiresInDays *int) (*InvitationSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.requireOwnedDeck(ctx, teacherID, deckID)
	if err != nil {
		return nil, err
	}

	existing, err := s.invitationStore.GetActiveByDeckAndTeacher(ctx, deckID, teacherID)
	if err == nil {
		return s.summary(existing, deck.Name), nil
	}
	if !errors.Is(err, store.ErrInvitationNotFound) {
		return nil, err
	}

	var expiresAt *time.Time
	if expiresInDays != nil {
		t := s.timeFunc().UTC().AddDate(0, 0, *expiresInDays)
		expiresAt = &t
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := codes.Numeric(domain.InvitationCodeLength)
		if err != nil {
			return nil, err
		}

		inv, err := domain.NewInvitation(deckID, teacherID, code, maxUses, expiresAt)
		if err != nil {
			return nil, err
		}

		err = s.invitationStore.Create(ctx, inv)
		if err == nil {
			log.Info("invitation created",
				slog.String("invitation_id", inv.ID.String()),
				slog.String("deck_id", deckID.String()),
				slog.String("teacher_id", teacherID.String()))
			return s.summary(inv, deck.Name), nil
		}
		if !errors.Is(err, store.ErrCodeExists) {
			return nil, err
		}

		log.Warn("invitation code collision, regenerating",
			slog.Int("attempt", attempt))
	}

	return nil, ErrCodeGeneration
}

// Redeem implements Service.Redeem.
func (s *serviceImpl) Redeem(ctx context.Context, studentID uuid.UUID, code string) (*RedemptionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inv, err := s.invitationStore.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if inv.IsExpired(s.timeFunc().UTC()) {
		return nil, ErrInvitationExpired
	}

	if inv.LimitReached() {
		return nil, ErrInvitationLimitReached
	}

	// Redeeming a code you already redeemed is not an error; nothing is
	// counted twice.
	existing, err := s.accessStore.Get(ctx, studentID, inv.DeckID)
	if err == nil {
		result, buildErr := s.redemptionResult(ctx, inv, existing, true)
		if buildErr != nil {
			return nil, buildErr
		}
		return result, nil
	}
	if !errors.Is(err, store.ErrAccessNotFound) {
		return nil, err
	}

	access, err := domain.NewStudentDeckAccess(studentID, inv.DeckID, inv.TeacherID, code)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.accessStore.WithTx(tx).Create(ctx, access); err != nil {
			return fmt.Errorf("failed to create deck access: %w", err)
		}

		inv.RecordRedemption(studentID)
		if err := s.invitationStore.WithTx(tx).Update(ctx, inv); err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("invitation redeemed",
		slog.String("invitation_id", inv.ID.String()),
		slog.String("student_id", studentID.String()),
		slog.String("deck_id", inv.DeckID.String()),
		slog.Int("uses_count", inv.UsesCount))

	return s.redemptionResult(ctx, inv, access, false)
}

// Deactivate implements Service.Deactivate.
func (s *serviceImpl) Deactivate(ctx context.Context, teacherID, invitationID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inv, err := s.invitationStore.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}

	// A foreign invitation reads as missing so IDs cannot be probed.
	if inv.TeacherID != teacherID {
		return store.ErrInvitationNotFound
	}

	if err := s.invitationStore.Deactivate(ctx, invitationID); err != nil {
		return err
	}

	log.Info("invitation deactivated",
		slog.String("invitation_id", invitationID.String()),
		slog.String("teacher_id", teacherID.String()))
	return nil
}

// ListMine implements Service.ListMine.
func (s *serviceImpl) ListMine(ctx context.Context, teacherID uuid.UUID) ([]*InvitationSummary, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	invitations, err := s.invitationStore.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*InvitationSummary, 0, len(invitations))
	for _, inv := range invitations {
		deckName := ""
		if deck, err := s.deckStore.GetByID(ctx, inv.DeckID); err == nil {
			deckName = deck.Name
		}
		summaries = append(summaries, s.summary(inv, deckName))
	}

	return summaries, nil
}

// ListStudents implements Service.ListStudents.
func (s *serviceImpl) ListStudents(ctx context.Context, teacherID uuid.UUID, deckID *uuid.UUID) ([]*StudentSummary, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	accesses, err := s.accessStore.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	result := make([]*StudentSummary, 0, len(accesses))
	for _, access := range accesses {
		if deckID != nil && access.DeckID != *deckID {
			continue
		}

		summary := &StudentSummary{
			StudentID:    access.StudentID,
			DeckID:       access.DeckID,
			Progress:     access.Progress,
			CardsStudied: access.CardsStudied,
			LastStudied:  access.LastStudied,
			JoinedAt:     access.JoinedAt,
			IsActive:     access.IsActive,
		}

		if student, err := s.userStore.GetByID(ctx, access.StudentID); err == nil {
			summary.StudentName = student.Username
			summary.StudentEmail = student.Email
		}
		if deck, err := s.deckStore.GetByID(ctx, access.DeckID); err == nil {
			summary.DeckName = deck.Name
		}

		sessions, err := s.studyStore.ListByUser(ctx, access.StudentID, &access.DeckID)
		if err != nil {
			return nil, err
		}
		if len(sessions) > 0 {
			accuracy := sessions[0].Accuracy
			summary.LastSessionAccuracy = &accuracy
		}

		result = append(result, summary)
	}

	return result, nil
}

// StudentProgress implements Service.StudentProgress.
func (s *serviceImpl) StudentProgress(ctx context.Context, teacherID, studentID, deckID uuid.UUID) (*StudentProgressReport, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	access, err := s.accessStore.Get(ctx, studentID, deckID)
	if err != nil {
		return nil, err
	}

	// Only the teacher who invited the student may inspect them.
	if access.TeacherID != teacherID {
		return nil, store.ErrAccessNotFound
	}

	student, err := s.userStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.studyStore.ListByUser(ctx, studentID, &deckID)
	if err != nil {
		return nil, err
	}
	if len(sessions) > maxProgressSessions {
		sessions = sessions[:maxProgressSessions]
	}

	return &StudentProgressReport{
		Student:  student,
		Deck:     deck,
		Access:   access,
		Sessions: sessions,
	}, nil
}

// requireTeacher verifies the user exists and holds the teacher role.
func (s *serviceImpl) requireTeacher(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsTeacher() {
		return ErrNotTeacher
	}
	return nil
}

// requireOwnedDeck verifies teacher role plus deck ownership.
func (s *serviceImpl) requireOwnedDeck(ctx context.Context, teacherID, deckID uuid.UUID) (*domain.Deck, error) {
	if err := s.requireTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != teacherID {
		return nil, ErrNotDeckOwner
	}
	return deck, nil
}

func (s *serviceImpl) summary(inv *domain.Invitation, deckName string) *InvitationSummary {
	return &InvitationSummary{
		Invitation:    inv,
		DeckName:      deckName,
		StudentsCount: len(inv.JoinedStudents),
	}
}

// redemptionResult resolves display names best-effort; a deleted deck or
// teacher does not fail the redemption.
func (s *serviceImpl) redemptionResult(ctx context.Context, inv *domain.Invitation, access *domain.StudentDeckAccess, alreadyJoined bool) (*RedemptionResult, error) {
	result := &RedemptionResult{
		Access:        access,
		AlreadyJoined: alreadyJoined,
	}

	if deck, err := s.deckStore.GetByID(ctx, inv.DeckID); err == nil {
		result.DeckName = deck.Name
	}
	if teacher, err := s.userStore.GetByID(ctx, inv.TeacherID); err == nil {
		result.TeacherName = teacher.Username
	}

	return result, nil
}
