package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/repository"
)

// AddressTypeRegisteredAgent is the mailbox address type requested on activation.
const AddressTypeRegisteredAgent = "registered_agent"

// MailboxConfigurer provisions a virtual mailbox address for an entity.
type MailboxConfigurer interface {
	SetupAddress(ctx context.Context, entityID, state, addressType string) (*model.MailboxAddress, error)
}

// ActivationResult is what activating the registered-agent service produced.
type ActivationResult struct {
	Consent *model.AgentConsent   `json:"consent"`
	Mailbox *model.MailboxAddress `json:"mailbox"`
}

// AgentActivation enables the registered-agent service for a business entity.
type AgentActivation interface {
	Activate(ctx context.Context, entityID string) (*ActivationResult, error)
}

type agentActivation struct {
	entities repository.EntityRepository
	registry AddressRegistry
	consents ConsentService
	mailbox  MailboxConfigurer
	log      *zap.Logger
}

// NewAgentActivation constructs an AgentActivation.
func NewAgentActivation(
	entities repository.EntityRepository,
	registry AddressRegistry,
	consents ConsentService,
	mailbox MailboxConfigurer,
	log *zap.Logger,
) AgentActivation {
	return &agentActivation{
		entities: entities,
		registry: registry,
		consents: consents,
		mailbox:  mailbox,
		log:      logger.OrNop(log).With(zap.String("component", "activation")),
	}
}

func (a *agentActivation) Activate(ctx context.Context, entityID string) (*ActivationResult, error) {
	ctx, span := tracer.Start(ctx, "AgentActivation.Activate", trace.WithAttributes(attribute.String("entity.id", entityID)))
	defer span.End()

	if entityID == "" {
		return nil, ErrIDRequired
	}
	entity, err := a.entities.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}

	// Resolve up front so an unsupported state fails before any provider call.
	addr, err := a.registry.GetOrCreate(ctx, entity.State)
	if err != nil {
		return nil, err
	}

	var res ActivationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := a.consents.CreateConsent(gctx, entity.ID, addr.State)
		if err != nil {
			return fmt.Errorf("create consent: %w", err)
		}
		res.Consent = c
		return nil
	})
	g.Go(func() error {
		mb, err := a.mailbox.SetupAddress(gctx, entity.ID, addr.State, AddressTypeRegisteredAgent)
		if err != nil {
			return fmt.Errorf("setup mailbox address: %w", err)
		}
		res.Mailbox = mb
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := a.entities.SetMailboxAddress(ctx, entity.ID, *res.Mailbox); err != nil {
		return nil, fmt.Errorf("store mailbox address: %w", err)
	}

	a.log.Info("registered agent service activated",
		zap.String("entity_id", entity.ID),
		zap.String("state", addr.State),
		zap.String("consent_id", res.Consent.ID),
		zap.String("mailbox_address_id", res.Mailbox.AddressID),
		zap.Bool("mailbox_simulated", res.Mailbox.Simulated),
	)
	return &res, nil
}
