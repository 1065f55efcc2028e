package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
)

const (
	msgFetchContacts     = "Failed to fetch contacts"
	msgCreateContact     = "Failed to create contact"
	msgFetchDeals        = "Failed to fetch deals"
	msgCreateDeal        = "Failed to create deal"
	msgFetchContactDeals = "Failed to fetch deals for contact"
	msgSummary           = "Failed to generate AI summary"
	msgInvalidBody       = "Invalid request body"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeError maps err onto the HTTP envelope. Provider status codes are passed through unchanged.
func writeError(c *gin.Context, message string, err error) {
	logger := log.Ctx(c.Request.Context())

	var upstream *contractx.UpstreamError
	var cfgErr *contractx.ConfigurationError
	switch {
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		logger.Error().Int("status", status).RawJSON("details", upstream.Body).Msg(message)
		c.JSON(status, errorEnvelope{Error: message, Details: upstream.Body})
	case errors.As(err, &cfgErr):
		logger.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: cfgErr.Error()})
	case errors.Is(err, contractx.ErrSummaryGeneration):
		logger.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: message})
	case errors.Is(err, contractx.ErrValidation):
		logger.Warn().Err(err).Msg(message)
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: message, Details: err.Error()})
	default:
		logger.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: message, Details: err.Error()})
	}
}

func writeBadRequest(c *gin.Context, err error) {
	log.Ctx(c.Request.Context()).Warn().Err(err).Msg(msgInvalidBody)
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: msgInvalidBody, Details: err.Error()})
}
