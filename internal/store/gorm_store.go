package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms_backend/internal/model"
)

const DefaultCommentAuthor = "Admin"

var (
	_ LeadStore = (*GormStore)(nil)
	_ Reader    = (*GormStore)(nil)
)

// GormStore implements LeadStore on a gorm database.
type GormStore struct {
	db       *gorm.DB
	notifier Notifier
	log      *zap.Logger
	author   string
	now      func() time.Time

	leads    *Hub[model.Lead]
	comments *Hub[model.Comment]

	refreshMu sync.Mutex
}

type Option func(*GormStore)

func WithLogger(log *zap.Logger) Option {
	return func(s *GormStore) { s.log = log }
}

func WithNotifier(n Notifier) Option {
	return func(s *GormStore) { s.notifier = n }
}

// WithCommentAuthor sets the label stamped on every new comment.
func WithCommentAuthor(author string) Option {
	return func(s *GormStore) { s.author = author }
}

func WithClock(now func() time.Time) Option {
	return func(s *GormStore) { s.now = now }
}

func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	s := &GormStore{
		db:       db,
		log:      zap.NewNop(),
		author:   DefaultCommentAuthor,
		now:      time.Now,
		leads:    NewHub[model.Lead](),
		comments: NewHub[model.Comment](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLocalNotifier()
	}
	return s
}

// Start loads the initial snapshots and begins listening for change signals.
// Subscriptions are served only after Start succeeds.
func (s *GormStore) Start(ctx context.Context) error {
	if err := s.refresh(ctx, TopicLeads); err != nil {
		return err
	}
	if err := s.refresh(ctx, TopicComments); err != nil {
		return err
	}
	return s.notifier.Listen(ctx, func(topic Topic) {
		if err := s.refresh(context.Background(), topic); err != nil {
			s.log.Error("Could not refresh snapshot", zap.String("topic", string(topic)), zap.Error(err))
		}
	})
}

// Close drops every subscriber.
func (s *GormStore) Close() {
	s.leads.Close()
	s.comments.Close()
}

func (s *GormStore) refresh(ctx context.Context, topic Topic) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	switch topic {
	case TopicLeads:
		leads, err := s.ListLeads(ctx)
		if err != nil {
			return err
		}
		s.leads.Publish(leads)
	case TopicComments:
		comments, err := s.ListComments(ctx, "")
		if err != nil {
			return err
		}
		s.comments.Publish(comments)
	default:
		return fmt.Errorf("unknown topic %q", topic)
	}
	return nil
}

// changed signals a committed write. The write already succeeded, so a
// failed broadcast is logged and the local snapshot refreshed directly.
func (s *GormStore) changed(ctx context.Context, topic Topic) {
	if err := s.notifier.Notify(ctx, topic); err != nil {
		s.log.Warn("Change notification failed, refreshing locally",
			zap.String("topic", string(topic)), zap.Error(err))
		if err := s.refresh(ctx, topic); err != nil {
			s.log.Error("Could not refresh snapshot", zap.String("topic", string(topic)), zap.Error(err))
		}
	}
}

func (s *GormStore) SubscribeLeads(fn func([]model.Lead)) (Unsubscribe, error) {
	return s.leads.Subscribe(fn)
}

func (s *GormStore) SubscribeComments(fn func([]model.Comment)) (Unsubscribe, error) {
	return s.comments.Subscribe(fn)
}

func (s *GormStore) CreateLead(ctx context.Context, in model.LeadInput) (model.Lead, error) {
	now := s.now()
	in.Normalize(now)
	if err := in.Validate(); err != nil {
		return model.Lead{}, fmt.Errorf("%w: %v", ErrInvalidLead, err)
	}

	lead := model.Lead{
		ID:           uuid.NewString(),
		LeadDate:     in.LeadDate,
		LeadName:     in.LeadName,
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		ServiceType:  in.ServiceType,
		PropertyType: in.PropertyType,
		Status:       in.Status,
		CreatedAt:    now.UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&lead).Error; err != nil {
		s.log.Error("Error adding lead", zap.String("lead_name", lead.LeadName), zap.Error(err))
		return model.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	s.changed(ctx, TopicLeads)
	return lead, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res := s.db.WithContext(ctx).
		Model(&model.Lead{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		s.log.Error("Error updating status", zap.String("lead_id", id), zap.Error(res.Error))
		return fmt.Errorf("update lead status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}

	s.changed(ctx, TopicLeads)
	return nil
}

func (s *GormStore) AddComment(ctx context.Context, leadID, text string) (model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return model.Comment{}, ErrEmptyComment
	}

	comment := model.Comment{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		CommentText: text,
		Timestamp:   s.now().UTC(),
		User:        s.author,
	}

	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		s.log.Error("Error adding comment", zap.String("lead_id", leadID), zap.Error(err))
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	s.changed(ctx, TopicComments)
	return comment, nil
}

func (s *GormStore) ListLeads(ctx context.Context) ([]model.Lead, error) {
	leads := []model.Lead{}
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *GormStore) GetLead(ctx context.Context, id string) (model.Lead, error) {
	var lead model.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Lead{}, ErrLeadNotFound
	}
	if err != nil {
		return model.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// ListComments returns comments oldest first; an empty leadID lists all of them.
func (s *GormStore) ListComments(ctx context.Context, leadID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	query := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}})
	if leadID != "" {
		query = query.Where("lead_id = ?", leadID)
	}
	if err := query.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
