package markets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/joefazee/betsolana/app/api"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/internal/validator"
	"github.com/joefazee/betsolana/models"
)

// Handler handles HTTP requests for markets
type Handler struct {
	service   Service
	config    *Config
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new market handler
func NewHandler(service Service, config *Config, sanitizer sanitizer.HTMLStripperer, log logger.Logger) *Handler {
	return &Handler{
		service:   service,
		config:    config,
		sanitizer: sanitizer,
		logger:    log,
	}
}

// parseAddressFromParam extracts and validates a market address from the path
func (h *Handler) parseAddressFromParam(c *gin.Context, paramName string) (solana.PublicKey, bool) {
	address, err := solana.PublicKeyFromBase58(c.Param(paramName))
	if err != nil || address.IsZero() {
		api.BadRequestResponse(c, "Invalid "+paramName+" format")
		return solana.PublicKey{}, false
	}
	return address, true
}

// handleServiceError maps service errors onto responses
func (h *Handler) handleServiceError(c *gin.Context, err error, entityName, operation string) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, entityName)
	case errors.Is(err, models.ErrMalformedMarket):
		api.UnprocessableResponse(c, "MALFORMED_MARKET", err.Error())
	case errors.Is(err, models.ErrLedgerUnavailable):
		h.logger.Error(err, map[string]interface{}{"operation": operation})
		api.ServiceUnavailableResponse(c, "LEDGER_UNAVAILABLE", "Market data is temporarily unavailable")
	case errors.Is(err, models.ErrAlreadyClaimed):
		api.ConflictResponse(c, err.Error())
	case h.isValidationError(err):
		api.BadRequestResponse(c, err.Error())
	default:
		h.logger.Error(err, map[string]interface{}{"operation": operation})
		api.InternalErrorResponse(c, "Failed to "+operation)
	}
}

func (h *Handler) isValidationError(err error) bool {
	return errors.Is(err, models.ErrInvalidPublicKey) ||
		errors.Is(err, models.ErrInvalidMarketAddress) ||
		errors.Is(err, models.ErrInvalidBetAmount) ||
		errors.Is(err, models.ErrInvalidBetSide) ||
		errors.Is(err, models.ErrAmountOverflow) ||
		errors.Is(err, models.ErrMarketResolved) ||
		errors.Is(err, models.ErrMarketNotResolved) ||
		errors.Is(err, models.ErrNotAWinner) ||
		errors.Is(err, models.ErrInvalidClaimAmount) ||
		errors.Is(err, models.ErrInvalidSignature) ||
		errors.Is(err, models.ErrViewerRequired)
}

// GetMarkets godoc
// @Summary List prediction markets
// @Description Get a paginated list of markets with odds, and the viewer's position when a wallet is supplied
// @Tags markets
// @Produce json
// @Param X-Wallet-Address header string false "Viewer wallet address"
// @Param status query string false "Filter by market status" Enums(open,resolved,all) default(all)
// @Param creator query string false "Filter by creator wallet"
// @Param search query string false "Search in the question"
// @Param sort_by query string false "Sort order" Enums(newest,liquidity) default(newest)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} api.Response{data=[]MarketResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets [get]
func (h *Handler) GetMarkets(c *gin.Context) {
	var filters MarketFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !filters.Validate(v, h.config.SearchMaxRunes, h.sanitizer) {
		api.BadRequestResponse(c, v.Errors)
		return
	}

	result, err := h.service.ListMarkets(c.Request.Context(), api.GetViewer(c), &filters)
	if err != nil {
		h.handleServiceError(c, err, "Markets", "fetch markets")
		return
	}

	if result.Skipped > 0 {
		c.Header("X-Skipped-Markets", strconv.Itoa(result.Skipped))
	}

	api.PaginatedResponse(c, "Markets retrieved successfully", result.Markets,
		api.NewPaginationMeta(result.Page, result.PerPage, result.Total))
}

// GetMarket godoc
// @Summary Get market details
// @Description Get a single market with odds, bettor counts and the viewer's position
// @Tags markets
// @Produce json
// @Param address path string true "Market account address"
// @Param X-Wallet-Address header string false "Viewer wallet address"
// @Success 200 {object} api.Response{data=MarketDetailResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{address} [get]
func (h *Handler) GetMarket(c *gin.Context) {
	address, ok := h.parseAddressFromParam(c, "address")
	if !ok {
		return
	}

	market, err := h.service.GetMarket(c.Request.Context(), address, api.GetViewer(c))
	if err != nil {
		h.handleServiceError(c, err, "Market", "fetch market")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Market retrieved successfully", market)
}

// QuoteBet godoc
// @Summary Quote a bet
// @Description Project the profit and odds shift of a prospective bet
// @Tags markets
// @Produce json
// @Param address path string true "Market account address"
// @Param side query string true "Bet side" Enums(yes,no)
// @Param amount query int true "Stake in lamports"
// @Success 200 {object} api.Response{data=QuoteResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{address}/quote [get]
func (h *Handler) QuoteBet(c *gin.Context) {
	address, ok := h.parseAddressFromParam(c, "address")
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.BadRequestResponse(c, v.Errors)
		return
	}

	quote, err := h.service.QuoteBet(c.Request.Context(), address, &req)
	if err != nil {
		h.handleServiceError(c, err, "Market", "quote bet")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Quote computed successfully", quote)
}

// RecordClaim godoc
// @Summary Record a claim
// @Description Record a confirmed WinningsClaimed transaction for a resolved market
// @Tags claims
// @Accept json
// @Produce json
// @Param address path string true "Market account address"
// @Param request body RecordClaimRequest true "Claim details"
// @Success 201 {object} api.Response{data=ClaimResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{address}/claims [post]
func (h *Handler) RecordClaim(c *gin.Context) {
	address, ok := h.parseAddressFromParam(c, "address")
	if !ok {
		return
	}

	var req RecordClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v) {
		api.BadRequestResponse(c, v.Errors)
		return
	}

	claim, err := h.service.RecordClaim(c.Request.Context(), address, &req)
	if err != nil {
		h.handleServiceError(c, err, "Market", "record claim")
		return
	}

	api.CreatedResponse(c, "Claim recorded successfully", claim)
}

// GetClaims godoc
// @Summary List claims
// @Description List recorded claims for a market, oldest first
// @Tags claims
// @Produce json
// @Param address path string true "Market account address"
// @Success 200 {object} api.Response{data=[]ClaimResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{address}/claims [get]
func (h *Handler) GetClaims(c *gin.Context) {
	address, ok := h.parseAddressFromParam(c, "address")
	if !ok {
		return
	}

	claims, err := h.service.GetClaims(c.Request.Context(), address)
	if err != nil {
		h.handleServiceError(c, err, "Claims", "fetch claims")
		return
	}

	api.ListResponse(c, "Claims retrieved successfully", claims, len(claims))
}

// GetDashboard godoc
// @Summary Viewer dashboard
// @Description Markets created by the viewer, the viewer's positions and claimable totals
// @Tags dashboard
// @Produce json
// @Param X-Wallet-Address header string true "Viewer wallet address"
// @Success 200 {object} api.Response{data=DashboardResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), api.GetViewer(c))
	if err != nil {
		h.handleServiceError(c, err, "Dashboard", "fetch dashboard")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// RefreshSnapshot godoc
// @Summary Refresh market snapshot
// @Description Drop the cached market snapshot and reload it from the ledger
// @Tags markets
// @Produce json
// @Success 200 {object} api.Response{data=RefreshResponse}
// @Failure 503 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/refresh [post]
func (h *Handler) RefreshSnapshot(c *gin.Context) {
	result, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Markets", "refresh markets")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Markets refreshed successfully", result)
}
