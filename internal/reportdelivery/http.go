// Package reportdelivery manages delivery layer of the read-only reports.
package reportdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/pkg/errorspkg"
	"github.com/go-petr/akahu-finance/pkg/web"
)

// Service provides service layer interface needed by report delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package reportdelivery
type Service interface {
	Accounts(ctx context.Context) ([]domain.AccountView, error)
	AccountBalances(ctx context.Context, accountID string) ([]domain.DailyBalance, error)
	MortgageOverTime(ctx context.Context) ([]domain.DailyAggregate, error)
	LoanKPIs(ctx context.Context) (domain.LoanKPIs, error)
	Settings(ctx context.Context) domain.Settings
	Health(ctx context.Context) domain.Health
}

// Handler facilitates report delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns report handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// Register adds the report routes to r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/akahu")

	api.GET("/accounts", h.Accounts)
	api.GET("/account_balances/:account_id", h.AccountBalances)
	api.GET("/mortgage_over_time", h.MortgageOverTime)
	api.GET("/loan_kpis", h.LoanKPIs)
	api.GET("/settings", h.Settings)

	r.GET("/health", h.Health)
}

// fail writes the error response matching err.
func fail(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		l.Warn().Err(err).Send()
		gctx.JSON(http.StatusServiceUnavailable, web.Error(domain.ErrStoreUnavailable))
	case errors.Is(err, domain.ErrQueryFailed):
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(domain.ErrQueryFailed))
	default:
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// Accounts handles http request to list accounts.
func (h *Handler) Accounts(gctx *gin.Context) {
	items, err := h.service.Accounts(gctx.Request.Context())
	if err != nil {
		fail(gctx, err)
		return
	}

	if items == nil {
		items = []domain.AccountView{}
	}

	gctx.JSON(http.StatusOK, items)
}

type accountBalancesRequest struct {
	AccountID string `uri:"account_id" binding:"required,max=128,accountid"`
}

// AccountBalances handles http request to get the daily balances of an account.
func (h *Handler) AccountBalances(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req accountBalancesRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		errMsg := domain.ErrInvalidAccountID.Error()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Message(errMsg))

		return
	}

	items, err := h.service.AccountBalances(ctx, req.AccountID)
	if err != nil {
		fail(gctx, err)
		return
	}

	if items == nil {
		items = []domain.DailyBalance{}
	}

	gctx.JSON(http.StatusOK, items)
}

// MortgageOverTime handles http request to get the per-date totals.
func (h *Handler) MortgageOverTime(gctx *gin.Context) {
	items, err := h.service.MortgageOverTime(gctx.Request.Context())
	if err != nil {
		fail(gctx, err)
		return
	}

	if items == nil {
		items = []domain.DailyAggregate{}
	}

	gctx.JSON(http.StatusOK, items)
}

// LoanKPIs handles http request to get the loan summary.
func (h *Handler) LoanKPIs(gctx *gin.Context) {
	kpis, err := h.service.LoanKPIs(gctx.Request.Context())
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, kpis)
}

// Settings handles http request to get the display settings.
func (h *Handler) Settings(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, h.service.Settings(gctx.Request.Context()))
}

// Health handles http request to check the store. It always responds with 200.
func (h *Handler) Health(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, h.service.Health(gctx.Request.Context()))
}
