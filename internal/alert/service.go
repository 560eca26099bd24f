package alert

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/store"
)

// ErrNotFound is returned when an alert id has no stored entry.
var ErrNotFound = errors.New("alert not found")

// CreateRequest is the validated shape of an alert creation. An
// unrecognized combinator, parameter or operator is a configuration error
// rejected here, at creation time, rather than silently defaulting later.
type CreateRequest struct {
	Conditions []ConditionRequest `json:"conditions" validate:"required,min=1,dive"`
	Combinator string             `json:"combinator" validate:"required,oneof=AND OR"`
}

type ConditionRequest struct {
	Parameter string  `json:"parameter" validate:"required,oneof=temperature precipitation wind humidity"`
	Operator  string  `json:"operator" validate:"required,oneof=> < ="`
	Threshold float64 `json:"threshold"`
}

// Service owns the alert lifecycle: created once, mutated only by toggling
// active, never deleted except by a full cache clear.
type Service struct {
	store    *store.Store
	validate *validator.Validate
	clock    clockwork.Clock
}

func NewService(st *store.Store, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		store:    st,
		validate: validator.New(),
		clock:    clock,
	}
}

func (s *Service) Create(req CreateRequest) (models.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Alert{}, fmt.Errorf("invalid alert: %w", err)
	}

	conditions := make([]models.Condition, len(req.Conditions))
	for i, c := range req.Conditions {
		conditions[i] = models.Condition{
			Parameter: c.Parameter,
			Operator:  c.Operator,
			Threshold: c.Threshold,
		}
	}

	alert := models.Alert{
		ID:         uuid.NewString(),
		Active:     true,
		Conditions: conditions,
		Combinator: req.Combinator,
		Created:    s.clock.Now().UTC(),
	}

	if err := s.store.PutAlert(alert); err != nil {
		return models.Alert{}, err
	}
	return alert, nil
}

// SetActive toggles an alert's active flag. Returns ErrNotFound when no
// alert with that id exists.
func (s *Service) SetActive(id string, active bool) (models.Alert, error) {
	alert, err := s.store.GetAlert(id)
	if err != nil {
		return models.Alert{}, err
	}
	if alert == nil {
		return models.Alert{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	alert.Active = active
	if err := s.store.PutAlert(*alert); err != nil {
		return models.Alert{}, err
	}
	return *alert, nil
}

func (s *Service) List() ([]models.Alert, error) {
	return s.store.ListAlerts()
}

func (s *Service) ListActive() ([]models.Alert, error) {
	return s.store.ListActiveAlerts()
}
