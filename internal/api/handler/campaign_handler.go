package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/funderr/crowdfund-api/internal/api/metrics"
	"github.com/funderr/crowdfund-api/internal/core/domain"
	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// CampaignHandler handles HTTP requests for campaign operations.
type CampaignHandler struct {
	service ports.CampaignService
}

func NewCampaignHandler(service ports.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// Create handles POST /v1/campaigns.
//
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCampaignRequest  true  "Campaign details"
// @Success      201   {object}  domain.Campaign
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.service.Create(c.Request().Context(), actor, ports.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Goal:        req.Goal,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

// Get handles GET /v1/campaigns/:id.
//
// @Summary      Get a campaign by id
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign id"
// @Success      200  {object}  domain.Campaign
// @Failure      404  {object}  errorResponse
// @Router       /v1/campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	campaign, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// List handles GET /v1/campaigns with optional status and creator filters.
//
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Filter by status (pending|approved|rejected)"
// @Param        creator  query     string  false  "Filter by creator id"
// @Success      200      {array}   domain.Campaign
// @Failure      400      {object}  errorResponse
// @Router       /v1/campaigns [get]
func (h *CampaignHandler) List(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	campaigns, err := h.service.List(c.Request().Context(), actor, ports.CampaignListInput{
		Status:    c.QueryParam("status"),
		CreatorID: c.QueryParam("creator"),
	})
	if err != nil {
		return err
	}
	if campaigns == nil {
		campaigns = []*domain.Campaign{}
	}
	return c.JSON(http.StatusOK, campaigns)
}

// Approve handles POST /v1/campaigns/:id/approve (admin only).
//
// @Summary      Approve a pending campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign id"
// @Success      200  {object}  domain.Campaign
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/campaigns/{id}/approve [post]
func (h *CampaignHandler) Approve(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	campaign, err := h.service.Approve(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.CampaignsModeratedTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusOK, campaign)
}

// Reject handles POST /v1/campaigns/:id/reject (admin only).
//
// @Summary      Reject a pending campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Campaign id"
// @Param        body  body      rejectCampaignRequest  true  "Rejection reason (optional)"
// @Success      200   {object}  domain.Campaign
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/campaigns/{id}/reject [post]
func (h *CampaignHandler) Reject(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req rejectCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	campaign, err := h.service.Reject(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}

	metrics.CampaignsModeratedTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusOK, campaign)
}

// Donate handles POST /v1/campaigns/:id/donate.
//
// @Summary      Donate to an approved campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Key making retries of this contribution safe"
// @Param        id               path      string         true  "Campaign id"
// @Param        body             body      donateRequest  true  "Contribution amount"
// @Success      200              {object}  ports.DonationResult
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/campaigns/{id}/donate [post]
func (h *CampaignHandler) Donate(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req donateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.DonationsRejectedTotal.WithLabelValues("invalid_amount").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Donate(c.Request().Context(), actor, ports.DonateInput{
		CampaignID:     c.Param("id"),
		Amount:         req.Amount,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		metrics.DonationsRejectedTotal.WithLabelValues(donateFailureReason(err)).Inc()
		return err
	}

	if !result.Replayed {
		metrics.DonationsAppliedTotal.Inc()
		metrics.DonationAmount.Observe(req.Amount)
		if result.Funded {
			metrics.CampaignsFundedTotal.Inc()
		}
	}

	return c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /v1/campaigns/:id (admin only).
//
// @Summary      Delete a campaign
// @Tags         campaigns
// @Security     BearerAuth
// @Param        id  path  string  true  "Campaign id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func donateFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_amount"
	case errors.Is(err, domain.ErrNotApproved):
		return "not_approved"
	case errors.Is(err, domain.ErrAlreadyFunded):
		return "already_funded"
	case errors.Is(err, domain.ErrExceedsRemaining):
		return "exceeds_remaining"
	case errors.Is(err, domain.ErrCampaignNotFound):
		return "not_found"
	default:
		return "error"
	}
}
