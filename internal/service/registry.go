package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

// AddressRegistry resolves the registered-agent address for a state.
type AddressRegistry interface {
	// GetOrCreate returns the durable address for the state, creating it from the seed on first use.
	// Accepts a full state name or USPS code in any case.
	GetOrCreate(ctx context.Context, state string) (*model.AgentAddress, error)

	// SetActive activates or deactivates the state's address and returns the updated row.
	SetActive(ctx context.Context, state string, active bool) (*model.AgentAddress, error)
}

type addressRegistry struct {
	repo repository.AddressRepository
	seed AddressSeed
	log  *zap.Logger
	now  func() time.Time
}

// NewAddressRegistry constructs an AddressRegistry over repo backed by seed.
func NewAddressRegistry(repo repository.AddressRepository, seed AddressSeed, log *zap.Logger) AddressRegistry {
	return &addressRegistry{
		repo: repo,
		seed: seed,
		log:  logger.OrNop(log).With(zap.String("component", "address_registry")),
		now:  time.Now,
	}
}

func (r *addressRegistry) resolve(input string) (string, SeedAddress, error) {
	if strings.TrimSpace(input) == "" {
		return "", SeedAddress{}, ErrStateRequired
	}
	state, _ := NormalizeState(input)
	entry, ok := r.seed[state]
	if state == "" || !ok {
		return "", SeedAddress{}, &UnsupportedStateError{Input: input, State: state}
	}
	return state, entry, nil
}

func (r *addressRegistry) find(ctx context.Context, state string) (*model.AgentAddress, error) {
	addr, err := r.repo.FindByState(ctx, state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return addr, err
}

func (r *addressRegistry) GetOrCreate(ctx context.Context, input string) (*model.AgentAddress, error) {
	ctx, span := tracer.Start(ctx, "AddressRegistry.GetOrCreate", trace.WithAttributes(attribute.String("state.input", input)))
	defer span.End()

	state, entry, err := r.resolve(input)
	if err != nil {
		return nil, err
	}

	addr, err := r.find(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("find address for %s: %w", state, err)
	}

	if addr == nil {
		now := r.now().UTC()
		created, err := r.repo.InsertIfAbsent(ctx, &model.AgentAddress{
			ID:            uuid.NewString(),
			State:         state,
			StreetAddress: entry.StreetAddress,
			City:          entry.City,
			ZipCode:       entry.ZipCode,
			PhoneNumber:   entry.PhoneNumber,
			BusinessHours: entry.BusinessHours,
			IsActive:      true,
			VerifiedDate:  now,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return nil, fmt.Errorf("insert address for %s: %w", state, err)
		}
		if created {
			r.log.Info("registered agent address created", zap.String("state", state))
		}

		// Re-read so a concurrent winner's row is what every caller returns.
		addr, err = r.find(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("find address for %s: %w", state, err)
		}
		if addr == nil {
			return nil, fmt.Errorf("address for %s missing after insert", state)
		}
	}

	if !addr.IsActive {
		return nil, ErrAddressInactive
	}
	return addr, nil
}

func (r *addressRegistry) SetActive(ctx context.Context, input string, active bool) (*model.AgentAddress, error) {
	state, _, err := r.resolve(input)
	if err != nil {
		return nil, err
	}
	if err := r.repo.SetActive(ctx, state, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set address active for %s: %w", state, err)
	}
	r.log.Info("registered agent address updated", zap.String("state", state), zap.Bool("is_active", active))

	addr, err := r.repo.FindByState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("find address for %s: %w", state, err)
	}
	return addr, nil
}
