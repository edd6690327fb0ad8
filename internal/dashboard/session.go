// Package dashboard holds the state behind one open dashboard: the lead and
// comment caches fed by live subscriptions, the current filter, the selected
// lead and the AI panel results.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"lms_backend/internal/ai"
	"lms_backend/internal/model"
	"lms_backend/internal/store"
)

var (
	ErrSessionOpen   = errors.New("session already open")
	ErrSessionClosed = errors.New("session not open")
	ErrNoSelection   = errors.New("no lead selected")
	// ErrStaleResult means an AI result arrived after the session closed or
	// the selection moved on; the result was discarded.
	ErrStaleResult = errors.New("stale result discarded")
)

// Assistant is the AI surface the session needs.
type Assistant interface {
	DraftMessage(ctx context.Context, lead model.Lead, tone ai.Tone) string
	AnalyzeLead(ctx context.Context, lead model.Lead, comments []string) string
}

// AIPanel carries the latest AI output for the selected lead.
type AIPanel struct {
	Draft    string `json:"draft"`
	Analysis string `json:"analysis"`
}

type Session struct {
	leads     store.LeadStore
	assistant Assistant
	log       *zap.Logger

	mu       sync.Mutex
	open     bool
	unsubs   []store.Unsubscribe
	allLeads []model.Lead
	comments []model.Comment
	filter   model.FilterState
	selected string
	// generation changes on every selection change and on Close so late AI
	// results can be recognised.
	generation uint64
	panel      AIPanel
	onChange   func()
}

func NewSession(leads store.LeadStore, assistant Assistant, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{leads: leads, assistant: assistant, log: log}
}

// OnChange registers a hook run after every snapshot replacement.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Open registers exactly one leads and one comments subscription.
func (s *Session) Open() error {
	s.mu.Lock()
	if s.open {
		s.mu.Unlock()
		return ErrSessionOpen
	}
	s.open = true
	gen := s.generation
	s.mu.Unlock()

	unsubLeads, err := s.leads.SubscribeLeads(s.replaceLeads)
	if err != nil {
		s.abortOpen()
		return fmt.Errorf("subscribe leads: %w", err)
	}

	unsubComments, err := s.leads.SubscribeComments(s.replaceComments)
	if err != nil {
		unsubLeads()
		s.abortOpen()
		return fmt.Errorf("subscribe comments: %w", err)
	}

	s.mu.Lock()
	if !s.open || s.generation != gen {
		// Close ran while the subscriptions were being set up.
		s.mu.Unlock()
		unsubComments()
		unsubLeads()
		return ErrSessionClosed
	}
	s.unsubs = []store.Unsubscribe{unsubLeads, unsubComments}
	s.mu.Unlock()
	return nil
}

func (s *Session) abortOpen() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// Close releases both subscriptions. Calling it on a closed session is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.open = false
	s.generation++
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) replaceLeads(leads []model.Lead) {
	s.mu.Lock()
	s.allLeads = leads
	hook := s.onChange
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *Session) replaceComments(comments []model.Comment) {
	s.mu.Lock()
	s.comments = comments
	hook := s.onChange
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *Session) SetFilter(f model.FilterState) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

func (s *Session) Filter() model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Leads returns the full cached lead list, newest first.
func (s *Session) Leads() []model.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Lead(nil), s.allLeads...)
}

// VisibleLeads applies the current filter to the cached leads.
func (s *Session) VisibleLeads() []model.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.FilterLeads(s.allLeads, s.filter)
}

// Stats aggregates over all cached leads, independent of the filter.
func (s *Session) Stats() model.PipelineStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Aggregate(s.allLeads)
}

func (s *Session) Board() []model.BoardColumn {
	return model.GroupByStatus(s.VisibleLeads())
}

// CommentsFor returns the comments of one lead, oldest first.
func (s *Session) CommentsFor(leadID string) []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return commentsFor(s.comments, leadID)
}

func commentsFor(all []model.Comment, leadID string) []model.Comment {
	out := []model.Comment{}
	for _, c := range all {
		if c.LeadID == leadID {
			out = append(out, c)
		}
	}
	return out
}

// Select makes leadID the current lead and clears the AI panel. An empty id
// clears the selection.
func (s *Session) Select(leadID string) {
	s.mu.Lock()
	s.selected = leadID
	s.generation++
	s.panel = AIPanel{}
	s.mu.Unlock()
}

// SelectedLead looks the selection up in the current snapshot, so a status
// change pushed by the store is reflected immediately.
func (s *Session) SelectedLead() (model.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *Session) selectedLocked() (model.Lead, bool) {
	if s.selected == "" {
		return model.Lead{}, false
	}
	for _, l := range s.allLeads {
		if l.ID == s.selected {
			return l, true
		}
	}
	return model.Lead{}, false
}

func (s *Session) Panel() AIPanel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel
}

func (s *Session) UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error {
	if !s.IsOpen() {
		return ErrSessionClosed
	}
	return s.leads.UpdateStatus(ctx, id, status)
}

func (s *Session) AddComment(ctx context.Context, leadID, text string) (model.Comment, error) {
	if !s.IsOpen() {
		return model.Comment{}, ErrSessionClosed
	}
	return s.leads.AddComment(ctx, leadID, text)
}

func (s *Session) CreateLead(ctx context.Context, in model.LeadInput) (model.Lead, error) {
	if !s.IsOpen() {
		return model.Lead{}, ErrSessionClosed
	}
	return s.leads.CreateLead(ctx, in)
}

// beginAI captures the selected lead and the generation the result belongs to.
func (s *Session) beginAI() (model.Lead, []string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return model.Lead{}, nil, 0, ErrSessionClosed
	}
	lead, ok := s.selectedLocked()
	if !ok {
		return model.Lead{}, nil, 0, ErrNoSelection
	}
	var texts []string
	for _, c := range commentsFor(s.comments, lead.ID) {
		texts = append(texts, c.CommentText)
	}
	return lead, texts, s.generation, nil
}

// applyAI stores a result only if nothing changed since beginAI.
func (s *Session) applyAI(gen uint64, set func(*AIPanel)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || gen != s.generation {
		return ErrStaleResult
	}
	set(&s.panel)
	return nil
}

// Draft asks the assistant for a message to the selected lead.
func (s *Session) Draft(ctx context.Context, tone ai.Tone) (string, error) {
	lead, _, gen, err := s.beginAI()
	if err != nil {
		return "", err
	}

	text := s.assistant.DraftMessage(ctx, lead, tone)
	if err := s.applyAI(gen, func(p *AIPanel) { p.Draft = text }); err != nil {
		s.log.Debug("Discarding draft", zap.String("lead_id", lead.ID))
		return "", err
	}
	return text, nil
}

// Analyze asks the assistant to assess the selected lead and its comment history.
func (s *Session) Analyze(ctx context.Context) (string, error) {
	lead, comments, gen, err := s.beginAI()
	if err != nil {
		return "", err
	}

	text := s.assistant.AnalyzeLead(ctx, lead, comments)
	if err := s.applyAI(gen, func(p *AIPanel) { p.Analysis = text }); err != nil {
		s.log.Debug("Discarding analysis", zap.String("lead_id", lead.ID))
		return "", err
	}
	return text, nil
}
