// Package service is the board mutation coordinator.
//
// Every command runs the same pipeline: validate the input, resolve the target
// and its board, authorize the caller's role, apply the change, append one
// Activity row, and commit all of it in a single transaction. Failures are
// returned once; nothing is retried.
package service

import (
	"context"
	"fmt"
	"time"

	"collabkanban/internal/apperror"
	"collabkanban/internal/invitation"
	"collabkanban/internal/logger"
	"collabkanban/internal/model"
	"collabkanban/internal/permission"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Options struct {
	InvitationTTL     time.Duration
	CommentEditWindow time.Duration
	DefaultColumnName string
	ActivityPageSize  int
	Now               func() time.Time
}

type Service struct {
	store     Store
	log       *logger.Logger
	metrics   *Metrics
	validate  *validator.Validate
	sanitize  *sanitizer
	lifecycle invitation.Lifecycle

	commentWindow     time.Duration
	defaultColumnName string
	activityPageSize  int
	now               func() time.Time
}

func New(store Store, log *logger.Logger, metrics *Metrics, opts Options) *Service {
	if opts.CommentEditWindow <= 0 {
		opts.CommentEditWindow = 15 * time.Minute
	}
	if opts.DefaultColumnName == "" {
		opts.DefaultColumnName = "Maybe"
	}
	if opts.ActivityPageSize <= 0 {
		opts.ActivityPageSize = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &Service{
		store:             store,
		log:               log,
		metrics:           metrics,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		sanitize:          newSanitizer(),
		lifecycle:         invitation.New(opts.InvitationTTL),
		commentWindow:     opts.CommentEditWindow,
		defaultColumnName: opts.DefaultColumnName,
		activityPageSize:  opts.ActivityPageSize,
		now:               opts.Now,
	}
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// run validates cmd and executes fn in one transaction, recording the outcome.
func (s *Service) run(ctx context.Context, intent string, accountID uuid.UUID, cmd any, fn func(repos Repositories) error) error {
	start := time.Now()
	err := s.check(cmd)
	if err == nil {
		err = s.store.WithinTx(ctx, fn)
	}
	s.observe(ctx, intent, accountID, start, err)
	return err
}

func (s *Service) check(cmd any) error {
	if cmd == nil {
		return nil
	}
	if n, ok := cmd.(normalizer); ok {
		n.normalize(s.sanitize)
	}
	if err := s.validate.Struct(cmd); err != nil {
		return validationError(err)
	}
	if v, ok := cmd.(selfValidator); ok {
		return v.selfValidate()
	}
	return nil
}

func (s *Service) observe(ctx context.Context, intent string, accountID uuid.UUID, start time.Time, err error) {
	log := logger.FromContext(ctx, s.log).With("intent", intent, "account_id", accountID)
	outcome := "ok"
	switch {
	case err == nil:
		log.Debugw("intent applied", "duration", time.Since(start))
	case apperror.KindOf(err) != "":
		outcome = string(apperror.KindOf(err))
		log.Warnw("intent refused", "kind", outcome, "error", err)
	default:
		outcome = "error"
		log.Errorw("intent failed", "error", err)
	}
	s.metrics.observe(intent, outcome, time.Since(start))
}

// access loads the board and the caller's role. A caller without a role gets
// NotFound so board existence is not revealed.
func access(ctx context.Context, repos Repositories, boardID, accountID uuid.UUID) (*model.Board, permission.Role, error) {
	board, err := repos.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, permission.None, fmt.Errorf("get board: %w", err)
	}
	if board == nil {
		return nil, permission.None, apperror.NotFound("board")
	}
	member, err := repos.Members().Get(ctx, boardID, accountID)
	if err != nil {
		return nil, permission.None, fmt.Errorf("get member: %w", err)
	}
	role := permission.RoleOf(board, member, accountID)
	if role == permission.None {
		return nil, permission.None, apperror.NotFound("board")
	}
	return board, role, nil
}

func authorize(role permission.Role, action permission.Action) error {
	if !permission.Can(role, action) {
		return apperror.Forbidden("role %s is not allowed to %s", role, action)
	}
	return nil
}

// record appends the audit row for the change being committed.
func (s *Service) record(ctx context.Context, repos Repositories, boardID uuid.UUID, typ model.ActivityType, accountID uuid.UUID, itemID *uuid.UUID, format string, args ...any) error {
	userID := accountID
	activity := &model.Activity{
		ID:        uuid.New(),
		BoardID:   boardID,
		Type:      typ,
		ItemID:    itemID,
		UserID:    &userID,
		Content:   fmt.Sprintf(format, args...),
		CreatedAt: s.clock(),
	}
	if err := repos.Activities().Create(ctx, activity); err != nil {
		return fmt.Errorf("record %s activity: %w", typ, err)
	}
	return nil
}
