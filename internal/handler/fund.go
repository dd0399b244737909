package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/fund"
)

type fundService interface {
	ListFunds(ctx context.Context, filter domain.FundFilter) ([]domain.Fund, error)
	GetFundDetail(ctx context.Context, fundID uuid.UUID) (*fund.Detail, error)
	Compare(ctx context.Context, fundIDs []uuid.UUID) ([]fund.Detail, error)
	CreateFund(ctx context.Context, f *domain.Fund) (*domain.Fund, error)
	UpdateFund(ctx context.Context, fundID uuid.UUID, f *domain.Fund) (*domain.Fund, error)
	DeleteFund(ctx context.Context, fundID uuid.UUID) error
	RecordPrice(ctx context.Context, fundID uuid.UUID, date time.Time, price decimal.Decimal) error
}

type FundHandler struct {
	funds fundService
}

func NewFundHandler(funds fundService) *FundHandler {
	return &FundHandler{funds: funds}
}

func (h *FundHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		filter domain.FundFilter
		fields []FieldError
	)
	q := r.URL.Query()
	if v := q.Get("category"); v != "" {
		c, ok := domain.ParseFundCategory(v)
		if !ok {
			fields = append(fields, FieldError{Field: "category", Message: "must be EQUITY, DEBT, HYBRID, or ELSS"})
		}
		filter.Category = &c
	}
	if v := q.Get("max_risk"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			fields = append(fields, FieldError{Field: "max_risk", Message: "must be an integer from 1 to 5"})
		}
		filter.MaxRisk = &n
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	funds, err := h.funds.ListFunds(r.Context(), filter)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	dtos := make([]fundDTO, len(funds))
	for i := range funds {
		dtos[i] = toFundDTO(&funds[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *FundHandler) Get(w http.ResponseWriter, r *http.Request) {
	fundID, appErr := fundFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	d, err := h.funds.GetFundDetail(r.Context(), fundID)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toFundDetailDTO(d, true))
}

func (h *FundHandler) Compare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		RespondValidationError(w, []FieldError{{Field: "ids", Message: "required"}})
		return
	}

	parts := strings.Split(raw, ",")
	if len(parts) > fund.MaxCompare {
		RespondValidationError(w, []FieldError{{Field: "ids", Message: "at most " + strconv.Itoa(fund.MaxCompare) + " funds"}})
		return
	}
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			RespondValidationError(w, []FieldError{{Field: "ids", Message: "must be comma-separated UUIDs"}})
			return
		}
		ids = append(ids, id)
	}

	details, err := h.funds.Compare(r.Context(), ids)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	dtos := make([]fundDetailDTO, len(details))
	for i := range details {
		dtos[i] = toFundDetailDTO(&details[i], false)
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type fundRequest struct {
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	Category      string          `json:"category"`
	RiskRating    int             `json:"risk_rating"`
	ExpenseRatio  decimal.Decimal `json:"expense_ratio"`
	CurrentNav    decimal.Decimal `json:"current_nav"`
	FundManager   string          `json:"fund_manager"`
	Description   string          `json:"description"`
	MinInvestment decimal.Decimal `json:"min_investment"`
}

func (r fundRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if t := strings.TrimSpace(r.Ticker); t == "" || len(t) > 10 {
		errs = append(errs, FieldError{Field: "ticker", Message: "must be 1 to 10 characters"})
	}
	if _, ok := domain.ParseFundCategory(r.Category); !ok {
		errs = append(errs, FieldError{Field: "category", Message: "must be EQUITY, DEBT, HYBRID, or ELSS"})
	}
	if r.RiskRating < 1 || r.RiskRating > 5 {
		errs = append(errs, FieldError{Field: "risk_rating", Message: "must be from 1 to 5"})
	}
	if !domain.ValidAmount(r.CurrentNav) {
		errs = append(errs, FieldError{Field: "current_nav", Message: "must be greater than 0 with at most 4 decimal places"})
	}
	if !domain.ValidExpenseRatio(r.ExpenseRatio) {
		errs = append(errs, FieldError{Field: "expense_ratio", Message: "must be from 0 to 999.99 with at most 2 decimal places"})
	}
	if r.MinInvestment.IsNegative() {
		errs = append(errs, FieldError{Field: "min_investment", Message: "must not be negative"})
	}
	return errs
}

func (r fundRequest) toDomain() *domain.Fund {
	category, _ := domain.ParseFundCategory(r.Category)
	return &domain.Fund{
		Name:          r.Name,
		Ticker:        r.Ticker,
		Category:      category,
		RiskRating:    r.RiskRating,
		ExpenseRatio:  r.ExpenseRatio,
		CurrentNav:    r.CurrentNav,
		FundManager:   r.FundManager,
		Description:   r.Description,
		MinInvestment: r.MinInvestment,
	}
}

type priceRequest struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

func (r priceRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if !domain.ValidAmount(r.Price) {
		errs = append(errs, FieldError{Field: "price", Message: "must be greater than 0 with at most 4 decimal places"})
	}
	return errs
}

func (h *FundHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f, err := h.funds.CreateFund(r.Context(), req.toDomain())
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toFundDTO(f))
}

func (h *FundHandler) Update(w http.ResponseWriter, r *http.Request) {
	fundID, appErr := fundFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req fundRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f, err := h.funds.UpdateFund(r.Context(), fundID, req.toDomain())
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toFundDTO(f))
}

func (h *FundHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fundID, appErr := fundFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.funds.DeleteFund(r.Context(), fundID); err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FundHandler) RecordPrice(w http.ResponseWriter, r *http.Request) {
	fundID, appErr := fundFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req priceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date, _ := time.Parse(time.DateOnly, req.Date)

	if err := h.funds.RecordPrice(r.Context(), fundID, date, req.Price); err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, pricePointDTO{Date: req.Date, Price: fixed(req.Price)})
}
