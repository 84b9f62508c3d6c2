// Package registry applies workflow transitions to stored entries. It owns
// the process-wide item cache, persists every accepted snapshot and tells
// connected sessions that the registry changed.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
	"github.com/osmakqa/riskandopportunitiesregistry-sub000/workflow"
)

var (
	// ErrConfirmation is a wrong confirmation password. It is an
	// authorization failure, reported apart from validation errors.
	ErrConfirmation = errors.New("confirmation password is incorrect")

	// ErrPersistence wraps every store failure. The attempted change is
	// not committed.
	ErrPersistence = errors.New("registry store unavailable")
)

// Store is the persistence and change-notification collaborator.
type Store interface {
	ListAll(ctx context.Context) ([]models.RegistryItem, error)
	Insert(ctx context.Context, item models.RegistryItem) error
	Update(ctx context.Context, item models.RegistryItem) error
	Delete(ctx context.Context, id string) error
	Subscribe(fn func()) func()
}

// Credentials confirms an acting user's password.
type Credentials interface {
	Verify(name, password string) (models.User, error)
}

// Publisher pushes notices to connected sessions.
type Publisher interface {
	RegistryChanged()
	ActionPlanRequested(item models.RegistryItem, by models.Actor)
}

type Service struct {
	store       Store
	engine      *workflow.Engine
	creds       Credentials
	pub         Publisher
	cache       Cache
	unsubscribe func()
}

type Option func(*Service)

func WithCredentials(c Credentials) Option {
	return func(s *Service) { s.creds = c }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// NewService subscribes to the store; Close releases the subscription.
func NewService(store Store, engine *workflow.Engine, opts ...Option) *Service {
	s := &Service{store: store, engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = store.Subscribe(s.onStoreChange)
	return s
}

func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Service) Engine() *workflow.Engine {
	return s.engine
}

func (s *Service) onStoreChange() {
	s.cache.Invalidate()
	if s.pub != nil {
		s.pub.RegistryChanged()
	}
}

func (s *Service) load(ctx context.Context) ([]models.RegistryItem, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w: %w", ErrPersistence, err)
	}
	for i := range items {
		items[i] = workflow.Reconcile(items[i])
	}
	return items, nil
}

// Items returns every stored entry, newest first.
func (s *Service) Items(ctx context.Context) ([]models.RegistryItem, error) {
	return s.cache.Items(ctx, s.load)
}

func (s *Service) item(ctx context.Context, op, id string) (models.RegistryItem, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return models.RegistryItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.RegistryItem{}, workflow.NotFound(op, id)
}

func (s *Service) List(ctx context.Context, actor models.Actor, f Filter) ([]ItemView, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	today := s.engine.Today()
	out := []ItemView{}
	for _, item := range items {
		if f.match(item) {
			out = append(out, newItemView(actor, item, today))
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (ItemView, error) {
	item, err := s.item(ctx, "get entry", id)
	if err != nil {
		return ItemView{}, err
	}
	return newItemView(actor, item, s.engine.Today()), nil
}

// AuditTrail returns the entry's events newest first.
func (s *Service) AuditTrail(ctx context.Context, id string) ([]models.AuditEvent, error) {
	item, err := s.item(ctx, "audit trail", id)
	if err != nil {
		return nil, err
	}
	return workflow.DisplayOrder(item.AuditTrail), nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items, s.engine.Today()), nil
}

func (s *Service) Overdue(ctx context.Context) ([]OverduePlan, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	return Overdue(items, s.engine.Today()), nil
}

func (s *Service) Create(ctx context.Context, actor models.Actor, d workflow.Draft) (models.RegistryItem, error) {
	item, err := s.engine.Create(actor, d)
	if err != nil {
		return models.RegistryItem{}, err
	}
	err = s.store.Insert(ctx, item)
	s.cache.Invalidate()
	if err != nil {
		log.Printf("registry: insert %s failed: %v", item.ID, err)
		return models.RegistryItem{}, fmt.Errorf("save entry: %w: %w", ErrPersistence, err)
	}
	return item, nil
}

// apply runs one transition against the current snapshot and replaces the
// stored entry with the result.
func (s *Service) apply(ctx context.Context, op, id string, fn func(models.RegistryItem) (models.RegistryItem, error)) (models.RegistryItem, error) {
	item, err := s.item(ctx, op, id)
	if err != nil {
		return models.RegistryItem{}, err
	}
	next, err := fn(item)
	if err != nil {
		return models.RegistryItem{}, err
	}
	err = s.store.Update(ctx, next)
	s.cache.Invalidate()
	if err != nil {
		log.Printf("registry: %s on %s failed: %v", op, id, err)
		return models.RegistryItem{}, fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	return next, nil
}

func (s *Service) EditDetails(ctx context.Context, actor models.Actor, id string, d workflow.DetailsEdit) (models.RegistryItem, error) {
	return s.apply(ctx, "edit details", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.EditDetails(actor, item, d)
	})
}

func (s *Service) AddPlan(ctx context.Context, actor models.Actor, id string, d models.PlanDraft) (models.RegistryItem, error) {
	return s.apply(ctx, "add action plan", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.AddPlan(actor, item, d)
	})
}

func (s *Service) RemovePlan(ctx context.Context, actor models.Actor, id, planID string) (models.RegistryItem, error) {
	return s.apply(ctx, "remove action plan", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.RemovePlan(actor, item, planID)
	})
}

func (s *Service) SubmitPlan(ctx context.Context, actor models.Actor, id, planID string, sub workflow.Submission) (models.RegistryItem, error) {
	return s.apply(ctx, "submit action plan", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.SubmitPlan(actor, item, planID, sub)
	})
}

func (s *Service) ReviewPlan(ctx context.Context, actor models.Actor, id, planID string, outcome models.PlanStatus, remarks string) (models.RegistryItem, error) {
	return s.apply(ctx, "review action plan", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.ReviewPlan(actor, item, planID, outcome, remarks)
	})
}

func (s *Service) FinalVerify(ctx context.Context, actor models.Actor, id string, v workflow.Verdict) (models.RegistryItem, error) {
	return s.apply(ctx, "final verification", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		return s.engine.FinalVerify(actor, item, v)
	})
}

// Reopen requires the acting IQA user to re-enter their password.
func (s *Service) Reopen(ctx context.Context, actor models.Actor, id, password string) (models.RegistryItem, error) {
	return s.apply(ctx, "reopen entry", id, func(item models.RegistryItem) (models.RegistryItem, error) {
		next, err := s.engine.Reopen(actor, item)
		if err != nil {
			return models.RegistryItem{}, err
		}
		if err := s.confirm(actor, password); err != nil {
			return models.RegistryItem{}, err
		}
		return next, nil
	})
}

// Delete removes the entry and its audit trail after password confirmation.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id, password string) error {
	const op = "delete entry"
	item, err := s.item(ctx, op, id)
	if err != nil {
		return err
	}
	if err := workflow.CanDelete(actor, item); err != nil {
		return err
	}
	if err := s.confirm(actor, password); err != nil {
		return err
	}
	err = s.store.Delete(ctx, id)
	s.cache.Invalidate()
	if err != nil {
		log.Printf("registry: delete %s failed: %v", id, err)
		return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
	}
	return nil
}

func (s *Service) confirm(actor models.Actor, password string) error {
	if s.creds == nil || password == "" {
		return ErrConfirmation
	}
	if _, err := s.creds.Verify(actor.Name, password); err != nil {
		return ErrConfirmation
	}
	return nil
}

// RequestActionPlan notifies the owning section that IQA wants an action
// plan for a risk that has none. The entry is not changed.
func (s *Service) RequestActionPlan(ctx context.Context, actor models.Actor, id string) error {
	const op = "request action plan"
	item, err := s.item(ctx, op, id)
	if err != nil {
		return err
	}
	if !actor.IQA {
		return &workflow.Error{Op: op, Kind: workflow.ErrForbidden, Msg: "only IQA may request action plans"}
	}
	if !workflow.NeedsActionPlan(actor, item) {
		return &workflow.Error{Op: op, Kind: workflow.ErrPrecondition, Msg: "entry does not need an action plan"}
	}
	if s.pub != nil {
		s.pub.ActionPlanRequested(item, actor)
	}
	log.Printf("registry: %s requested an action plan for %s (%s)", actor.Name, item.ID, item.Section)
	return nil
}
