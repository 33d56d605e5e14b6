package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coms4156/tars-client/internal/core/domain"
	"github.com/coms4156/tars-client/internal/core/ports"
)

// ClientRegistrar creates clients on the backend.
type ClientRegistrar interface {
	CreateClient(ctx context.Context, name, email string) (*domain.Client, error)
}

// IdentityService hands out the installation's client id, registering a
// new client the first time one is needed.
type IdentityService struct {
	store     ports.ClientIDStore
	registrar ClientRegistrar
	recorder  ports.Recorder
	logger    zerolog.Logger
	now       func() time.Time

	mu sync.Mutex
}

func NewIdentityService(store ports.ClientIDStore, registrar ClientRegistrar, recorder ports.Recorder, logger zerolog.Logger) *IdentityService {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &IdentityService{
		store:     store,
		registrar: registrar,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *IdentityService) ClientID(ctx context.Context) (domain.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load client id: %w", err)
	}
	if ok {
		return id, nil
	}

	stamp := s.now().UnixMilli()
	name := fmt.Sprintf("Client-%d", stamp)
	email := fmt.Sprintf("client-%d@tars.local", stamp)

	created, err := s.registrar.CreateClient(ctx, name, email)
	if err != nil {
		return 0, err
	}
	if created == nil || created.ClientID == 0 {
		return 0, domain.ErrClientIDNotAssigned
	}

	stored, err := s.store.SaveIfAbsent(ctx, created.ClientID)
	if err != nil {
		return 0, fmt.Errorf("save client id: %w", err)
	}
	if stored != created.ClientID {
		s.logger.Warn().
			Stringer("kept", stored).
			Stringer("orphaned", created.ClientID).
			Msg("another process stored a client id first")
	} else {
		s.recorder.ClientIDCreated()
		s.logger.Info().Stringer("client_id", stored).Str("name", name).Msg("registered new client")
	}
	return stored, nil
}
