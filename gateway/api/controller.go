package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

const (
	healthStatus    = "Server is running"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	jsonContentType = "application/json; charset=utf-8"
)

type Summarizer interface {
	Summarize(ctx context.Context) (string, error)
}

type Config struct {
	ListLimit              int
	DealContactAssociation contractx.AssociationType
}

type Controller struct {
	crm       contractx.CRM
	summaries Summarizer
	cfg       Config

	now func() time.Time
}

type CreateContactRequest struct {
	Properties contractx.Properties `json:"properties"`
}

type CreateDealRequest struct {
	DealProperties contractx.Properties `json:"dealProperties"`
	ContactID      contractx.ObjectID   `json:"contactId"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func NewController(crm contractx.CRM, summaries Summarizer, cfg Config) (*Controller, error) {
	if crm == nil {
		return nil, errors.New("crm client is required")
	}
	if summaries == nil {
		return nil, errors.New("summary service is required")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 50
	}
	return &Controller{
		crm:       crm,
		summaries: summaries,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (ctl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    healthStatus,
		Timestamp: ctl.now().UTC().Format(timestampLayout),
	})
}

func (ctl *Controller) ListContacts(c *gin.Context) {
	raw, err := ctl.crm.ListObjects(c.Request.Context(), contractx.ObjectContacts, ctl.cfg.ListLimit, contractx.ContactProperties)
	if err != nil {
		writeError(c, msgFetchContacts, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

func (ctl *Controller) CreateContact(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := req.Properties.Validate(); err != nil {
		writeBadRequest(c, err)
		return
	}

	raw, err := ctl.crm.CreateObject(c.Request.Context(), contractx.ObjectContacts, contractx.CreateObjectInput{
		Properties: req.Properties,
	})
	if err != nil {
		writeError(c, msgCreateContact, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

func (ctl *Controller) ListDeals(c *gin.Context) {
	raw, err := ctl.crm.ListObjects(c.Request.Context(), contractx.ObjectDeals, ctl.cfg.ListLimit, contractx.DealProperties)
	if err != nil {
		writeError(c, msgFetchDeals, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

// CreateDeal attaches the configured deal→contact association when contactId is present.
func (ctl *Controller) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := req.DealProperties.Validate(); err != nil {
		writeBadRequest(c, err)
		return
	}

	in := contractx.CreateObjectInput{Properties: req.DealProperties}
	if req.ContactID != "" {
		in.Associations = []contractx.AssociationInput{{
			To:    contractx.AssociationTarget{ID: string(req.ContactID)},
			Types: []contractx.AssociationType{ctl.cfg.DealContactAssociation},
		}}
	}

	raw, err := ctl.crm.CreateObject(c.Request.Context(), contractx.ObjectDeals, in)
	if err != nil {
		writeError(c, msgCreateDeal, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

// ContactDeals resolves the contact's deal associations and batch-reads them.
// With no associations the batch read is skipped.
func (ctl *Controller) ContactDeals(c *gin.Context) {
	contactID := strings.TrimSpace(c.Param("contactId"))
	if contactID == "" {
		writeBadRequest(c, fmt.Errorf("%w: contactId is required", contractx.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	ids, err := ctl.crm.AssociatedIDs(ctx, contractx.ObjectContacts, contactID, contractx.ObjectDeals)
	if err != nil {
		writeError(c, msgFetchContactDeals, err)
		return
	}

	link := contractx.AssociationLink{ContactID: contactID, DealIDs: ids}
	if link.Empty() {
		c.JSON(http.StatusOK, gin.H{"results": []any{}})
		return
	}

	raw, err := ctl.crm.BatchRead(ctx, contractx.ObjectDeals, link.DealIDs, contractx.DealProperties)
	if err != nil {
		writeError(c, msgFetchContactDeals, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

func (ctl *Controller) Summary(c *gin.Context) {
	text, err := ctl.summaries.Summarize(c.Request.Context())
	if err != nil {
		writeError(c, msgSummary, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{Summary: text})
}
