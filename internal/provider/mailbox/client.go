// Package mailbox is the client for the virtual-mailbox provider that scans physical mail
// and configures mailbox addresses.
package mailbox

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"agentmail/internal/config"
	"agentmail/internal/logger"
	"agentmail/internal/model"
	"agentmail/internal/provider"
)

const providerName = "virtual_mailbox"

type scanRequest struct {
	ScanQuality       string `json:"scanQuality"`
	OCREnabled        bool   `json:"ocrEnabled"`
	GenerateThumbnail bool   `json:"generateThumbnail"`
}

type addressRequest struct {
	EntityID    string `json:"entityId"`
	State       string `json:"state"`
	AddressType string `json:"addressType"`
}

// Client calls the virtual-mailbox API. Every failure is absorbed and replaced by
// simulated data, so callers always get a usable result.
type Client struct {
	http   *resty.Client
	apiKey string
	log    *zap.Logger
	now    func() time.Time
}

// New builds a client from configuration. An empty API key puts it in simulation mode.
func New(cfg config.MailboxConfig, timeout time.Duration, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		log:    logger.OrNop(log).With(zap.String("provider", providerName)),
		now:    time.Now,
	}
}

// Simulated reports whether the client runs without credentials.
func (c *Client) Simulated() bool {
	return c.apiKey == ""
}

// RequestScan asks the provider for a high-quality scan with OCR and a thumbnail.
// The returned error is always nil; provider failures yield a simulated result.
func (c *Client) RequestScan(ctx context.Context, mailID string) (*model.MailScanResult, error) {
	if c.Simulated() {
		c.log.Debug("mailbox simulation mode, returning simulated scan", zap.String("mail_id", mailID))
		return provider.SimulatedScan(mailID, c.now()), nil
	}

	result, err := c.requestScan(ctx, mailID)
	if err != nil {
		c.log.Warn("scan request failed, using simulated scan",
			zap.String("mail_id", mailID),
			zap.String("category", string(provider.CategoryOf(err))),
			zap.Error(err),
		)
		return provider.SimulatedScan(mailID, c.now()), nil
	}
	return result, nil
}

func (c *Client) requestScan(ctx context.Context, mailID string) (*model.MailScanResult, error) {
	var out model.MailScanResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("mailId", mailID).
		SetBody(scanRequest{ScanQuality: "high", OCREnabled: true, GenerateThumbnail: true}).
		SetResult(&out).
		Post("/mail/{mailId}/scan")
	if err != nil {
		return nil, provider.TransportError(providerName, err)
	}
	if resp.IsError() {
		return nil, provider.NewError(provider.CategoryBadStatus, providerName,
			fmt.Sprintf("unexpected status %d", resp.StatusCode()), nil)
	}
	if out.ScanID == "" || out.DocumentURL == "" {
		return nil, provider.NewError(provider.CategoryMalformed, providerName, "scan response missing scanId or documentUrl", nil)
	}
	out.Simulated = false
	return &out, nil
}

// SetupAddress configures a mailbox address for the entity. Failures yield a simulated address.
func (c *Client) SetupAddress(ctx context.Context, entityID, state, addressType string) (*model.MailboxAddress, error) {
	if c.Simulated() {
		return simulatedAddress(entityID, state), nil
	}

	var out model.MailboxAddress
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(addressRequest{EntityID: entityID, State: state, AddressType: addressType}).
		SetResult(&out).
		Post("/addresses")

	var perr *provider.Error
	switch {
	case err != nil:
		perr = provider.TransportError(providerName, err)
	case resp.IsError():
		perr = provider.NewError(provider.CategoryBadStatus, providerName,
			fmt.Sprintf("unexpected status %d", resp.StatusCode()), nil)
	case out.AddressID == "" || out.PhysicalAddress == "":
		perr = provider.NewError(provider.CategoryMalformed, providerName, "address response missing addressId or physicalAddress", nil)
	}
	if perr != nil {
		c.log.Warn("mailbox address setup failed, using simulated address",
			zap.String("entity_id", entityID),
			zap.String("state", state),
			zap.String("category", string(perr.Category)),
			zap.Error(perr),
		)
		return simulatedAddress(entityID, state), nil
	}
	out.Simulated = false
	return &out, nil
}

func simulatedAddress(entityID, state string) *model.MailboxAddress {
	suite := entityID
	if len(suite) > 8 {
		suite = suite[:8]
	}
	return &model.MailboxAddress{
		AddressID:       "sim_addr_" + entityID,
		PhysicalAddress: fmt.Sprintf("PMB %s, Registered Agent Mailbox, %s", suite, state),
		SetupComplete:   true,
		Simulated:       true,
	}
}
