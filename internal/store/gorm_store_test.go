package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms_backend/internal/model"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Lead{}, &model.Comment{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestStore(t *testing.T, opts ...Option) *GormStore {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	s := NewGormStore(newTestDB(t), opts...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func input(name string) model.LeadInput {
	return model.LeadInput{
		LeadDate:     "2024-03-01",
		LeadName:     name,
		PhoneNumber:  "9998887777",
		Email:        "lead@example.com",
		ServiceType:  model.ServiceTypeRent,
		PropertyType: model.PropertyTypeApartment,
		Status:       model.LeadStatusNew,
	}
}

func TestGormStore_CreateLeadAssignsIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lead, err := s.CreateLead(ctx, input("Jane Doe"))
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.LeadName)
	assert.Equal(t, model.LeadStatusNew, got.Status)
	assert.True(t, lead.CreatedAt.Equal(got.CreatedAt))
}

func TestGormStore_CreateLeadRejectsMissingFields(t *testing.T) {
	s := newTestStore(t)

	in := input("")
	_, err := s.CreateLead(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidLead)

	in = input("John")
	in.PhoneNumber = "  "
	_, err = s.CreateLead(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidLead)

	leads, err := s.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestGormStore_CreateLeadPropagatesWriteFailure(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	require.NoError(t, db.Migrator().DropTable(&model.Lead{}))

	_, err := s.CreateLead(context.Background(), input("Jane"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidLead))
}

func TestGormStore_ListLeadsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.CreateLead(ctx, input(name))
		require.NoError(t, err)
	}

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "third", leads[0].LeadName)
	assert.Equal(t, "first", leads[2].LeadName)
}

func TestGormStore_UpdateStatusTouchesOnlyStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lead, err := s.CreateLead(ctx, input("Jane"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, lead.ID, model.LeadStatusInterested))

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusInterested, got.Status)
	assert.Equal(t, lead.LeadName, got.LeadName)
	assert.True(t, lead.CreatedAt.Equal(got.CreatedAt))
}

func TestGormStore_UpdateStatusErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateStatus(ctx, "missing", model.LeadStatusContacted), ErrLeadNotFound)

	lead, err := s.CreateLead(ctx, input("Jane"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.UpdateStatus(ctx, lead.ID, "Won"), ErrInvalidStatus)
}

func TestGormStore_Comments(t *testing.T) {
	s := newTestStore(t, WithCommentAuthor("Desk"))
	ctx := context.Background()

	lead, err := s.CreateLead(ctx, input("Jane"))
	require.NoError(t, err)

	_, err = s.AddComment(ctx, lead.ID, "called, no answer")
	require.NoError(t, err)
	c2, err := s.AddComment(ctx, lead.ID, "site visit on friday")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, "dangling-lead", "orphan note")
	require.NoError(t, err)

	assert.Equal(t, "Desk", c2.User)

	_, err = s.AddComment(ctx, lead.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	comments, err := s.ListComments(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "called, no answer", comments[0].CommentText)
	assert.Equal(t, "site visit on friday", comments[1].CommentText)

	all, err := s.ListComments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGormStore_SubscriptionsFanOut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	leadSnaps := &recorder[model.Lead]{}
	unsubLeads, err := s.SubscribeLeads(leadSnaps.add)
	require.NoError(t, err)
	defer unsubLeads()

	commentSnaps := &recorder[model.Comment]{}
	unsubComments, err := s.SubscribeComments(commentSnaps.add)
	require.NoError(t, err)
	defer unsubComments()

	// initial empty snapshots
	require.Eventually(t, func() bool {
		_, n1 := leadSnaps.last()
		_, n2 := commentSnaps.last()
		return n1 >= 1 && n2 >= 1
	}, time.Second, 5*time.Millisecond)

	a, err := s.CreateLead(ctx, input("A"))
	require.NoError(t, err)
	_, err = s.CreateLead(ctx, input("B"))
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(ctx, a.ID, model.LeadStatusClosedWon))
	_, err = s.AddComment(ctx, a.ID, "won it")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, _ := leadSnaps.last()
		return len(got) == 2 && got[1].Status == model.LeadStatusClosedWon
	}, time.Second, 5*time.Millisecond)

	leads, _ := leadSnaps.last()
	assert.Equal(t, "B", leads[0].LeadName)

	require.Eventually(t, func() bool {
		got, _ := commentSnaps.last()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
}

type failingNotifier struct {
	LocalNotifier
}

func (f *failingNotifier) Notify(context.Context, Topic) error {
	return errors.New("broker down")
}

func TestGormStore_NotifyFailureStillRefreshes(t *testing.T) {
	s := newTestStore(t, WithNotifier(&failingNotifier{}))

	rec := &recorder[model.Lead]{}
	unsub, err := s.SubscribeLeads(rec.add)
	require.NoError(t, err)
	defer unsub()

	_, err = s.CreateLead(context.Background(), input("Jane"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, _ := rec.last()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
}
