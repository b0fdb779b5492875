package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agentmail/internal/database"
	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/repository"
	"agentmail/internal/storage"
)

// ConsentService records the registered agent's consent to act for an entity.
type ConsentService interface {
	// CreateConsent resolves the address for state and records a new active consent,
	// superseding any earlier one.
	CreateConsent(ctx context.Context, entityID, state string) (*model.AgentConsent, error)

	// ListConsents returns the entity's consents, newest first.
	ListConsents(ctx context.Context, entityID string) ([]model.AgentConsent, error)

	// ConsentDocument streams the archived consent document.
	ConsentDocument(ctx context.Context, consentID string) (io.ReadCloser, storage.ObjectInfo, error)
}

type consentService struct {
	entities  repository.EntityRepository
	consents  repository.ConsentRepository
	registry  AddressRegistry
	store     storage.Storage
	tx        database.Transactor
	agentName string
	log       *zap.Logger
	now       func() time.Time
}

// NewConsentService constructs a ConsentService. store may be nil, in which case consent
// documents are not archived.
func NewConsentService(
	entities repository.EntityRepository,
	consents repository.ConsentRepository,
	registry AddressRegistry,
	store storage.Storage,
	tx database.Transactor,
	agentName string,
	log *zap.Logger,
) ConsentService {
	return &consentService{
		entities:  entities,
		consents:  consents,
		registry:  registry,
		store:     store,
		tx:        tx,
		agentName: agentName,
		log:       logger.OrNop(log).With(zap.String("component", "consent")),
		now:       time.Now,
	}
}

func (s *consentService) CreateConsent(ctx context.Context, entityID, state string) (*model.AgentConsent, error) {
	ctx, span := tracer.Start(ctx, "ConsentService.CreateConsent")
	defer span.End()

	if entityID == "" {
		return nil, ErrIDRequired
	}
	entity, err := s.entities.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}

	addr, err := s.registry.GetOrCreate(ctx, state)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	consent := &model.AgentConsent{
		ID:               uuid.NewString(),
		BusinessEntityID: entity.ID,
		AgentName:        s.agentName,
		AgentAddressID:   addr.ID,
		ConsentMethod:    model.ConsentMethodElectronic,
		IsActive:         true,
		ConsentDate:      now,
		CreatedAt:        now,
	}

	if s.store != nil {
		key := storage.ConsentKey(entity.ID, consent.ID)
		body := GenerateConsentDocument(s.agentName, entity, addr, now)
		if _, err := s.store.Put(ctx, key, strings.NewReader(body), storage.PutObjectOptions{
			Size:        int64(len(body)),
			ContentType: "text/plain; charset=utf-8",
			Metadata: map[string]string{
				"entity-id":  entity.ID,
				"consent-id": consent.ID,
			},
		}); err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		consent.DocumentPath = key
	}

	var stored *model.AgentConsent
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.consents.Create(ctx, consent)
		return err
	})
	if err != nil {
		if consent.DocumentPath != "" {
			if delErr := s.store.Delete(ctx, consent.DocumentPath); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("registered agent consent recorded",
		zap.String("entity_id", entity.ID),
		zap.String("consent_id", stored.ID),
		zap.String("state", addr.State),
	)
	return stored, nil
}

func (s *consentService) ListConsents(ctx context.Context, entityID string) ([]model.AgentConsent, error) {
	if entityID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.entities.FindByID(ctx, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("find entity: %w", err)
	}
	return s.consents.ListByEntity(ctx, entityID)
}

func (s *consentService) ConsentDocument(ctx context.Context, consentID string) (io.ReadCloser, storage.ObjectInfo, error) {
	if consentID == "" {
		return nil, storage.ObjectInfo{}, ErrIDRequired
	}
	c, err := s.consents.FindByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	if c.DocumentPath == "" || s.store == nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("consent %s has no archived document: %w", c.ID, ErrNotFound)
	}
	rc, info, err := s.store.Get(ctx, c.DocumentPath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

// GenerateConsentDocument renders the consent-to-serve text. The output depends only on its
// arguments; asOf is printed as the effective date.
func GenerateConsentDocument(agentName string, entity *model.BusinessEntity, addr *model.AgentAddress, asOf time.Time) string {
	cityLine := fmt.Sprintf("%s, %s %s", addr.City, stateCode(addr.State), addr.ZipCode)

	var b strings.Builder
	b.WriteString("CONSENT TO APPOINTMENT AS REGISTERED AGENT\n\n")
	fmt.Fprintf(&b, "%s hereby consents to serve as the registered agent in %s for %s, a %s %s.\n\n",
		agentName, addr.State, entity.Name, entity.State, entity.EntityType)
	fmt.Fprintf(&b, "Registered agent address (%s):\n", addr.State)
	fmt.Fprintf(&b, "  %s\n", addr.StreetAddress)
	fmt.Fprintf(&b, "  %s\n", cityLine)
	fmt.Fprintf(&b, "  Phone: %s\n", addr.PhoneNumber)
	fmt.Fprintf(&b, "  Business hours: %s\n\n", addr.BusinessHours)
	fmt.Fprintf(&b, "The registered agent will accept service of process and official correspondence on behalf of %s "+
		"at the address above and forward it to the entity without delay.\n\n", entity.Name)
	fmt.Fprintf(&b, "Entity state of formation: %s\n", entity.State)
	fmt.Fprintf(&b, "Consent method: %s\n", model.ConsentMethodElectronic)
	fmt.Fprintf(&b, "This consent is effective as of %s.\n", asOf.Format("January 2, 2006"))
	return b.String()
}

func stateCode(state string) string {
	if code := Abbreviation(state); code != "" {
		return code
	}
	return state
}
