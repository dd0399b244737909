package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/ledger"
	"github.com/josh-kwaku/fund-ledger/internal/logging"
)

type ledgerService interface {
	OpenAccount(ctx context.Context, investorID uuid.UUID) (*domain.Account, error)
	GetAccount(ctx context.Context, investorID uuid.UUID) (*domain.Account, error)
	SubmitRiskProfile(ctx context.Context, investorID uuid.UUID, answers []int, horizon string) (*domain.Account, error)
	Deposit(ctx context.Context, investorID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	ChargeFee(ctx context.Context, investorID uuid.UUID, amount decimal.Decimal, description string) (*domain.LedgerTransaction, error)
	Buy(ctx context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	Sell(ctx context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	Portfolio(ctx context.Context, investorID uuid.UUID) (*ledger.Portfolio, error)
	History(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]domain.LedgerTransaction, int, error)
}

type LedgerHandler struct {
	ledger ledgerService
}

func NewLedgerHandler(svc ledgerService) *LedgerHandler {
	return &LedgerHandler{ledger: svc}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r amountRequest) Validate() []FieldError {
	var errs []FieldError
	if !domain.ValidAmount(r.Amount) {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0 with at most 4 decimal places"})
	}
	return errs
}

type tradeRequest struct {
	FundID string          `json:"fund_id"`
	Amount decimal.Decimal `json:"amount"`
}

func (r tradeRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FundID == "" {
		errs = append(errs, FieldError{Field: "fund_id", Message: "required"})
	} else if _, err := uuid.Parse(r.FundID); err != nil {
		errs = append(errs, FieldError{Field: "fund_id", Message: "must be a UUID"})
	}
	if !domain.ValidAmount(r.Amount) {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0 with at most 4 decimal places"})
	}
	return errs
}

type feeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r feeRequest) Validate() []FieldError {
	errs := amountRequest{Amount: r.Amount}.Validate()
	if len(r.Description) > 255 {
		errs = append(errs, FieldError{Field: "description", Message: "must be at most 255 characters"})
	}
	return errs
}

type riskProfileRequest struct {
	Answers           []int  `json:"answers"`
	InvestmentHorizon string `json:"investment_horizon"`
}

func (r riskProfileRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Answers) == 0 || len(r.Answers) > domain.MaxRiskAnswers {
		errs = append(errs, FieldError{Field: "answers", Message: fmt.Sprintf("must hold 1 to %d answers", domain.MaxRiskAnswers)})
	}
	for i, a := range r.Answers {
		if a < domain.MinRiskAnswer || a > domain.MaxRiskAnswer {
			errs = append(errs, FieldError{Field: fmt.Sprintf("answers[%d]", i), Message: "must be from 1 to 5"})
		}
	}
	if len(r.InvestmentHorizon) > 50 {
		errs = append(errs, FieldError{Field: "investment_horizon", Message: "must be at most 50 characters"})
	}
	return errs
}

type historyDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Total        int              `json:"total"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

func (h *LedgerHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.ledger.OpenAccount(r.Context(), investorID)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), investorID)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

// RiskProfile scores the investor's questionnaire and returns the updated account.
func (h *LedgerHandler) RiskProfile(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req riskProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.ledger.SubmitRiskProfile(r.Context(), investorID, req.Answers, req.InvestmentHorizon)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req amountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.ledger.Deposit(r.Context(), investorID, req.Amount)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

func (h *LedgerHandler) ChargeFee(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req feeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := h.ledger.ChargeFee(r.Context(), investorID, req.Amount, req.Description)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

func (h *LedgerHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.ledger.Buy)
}

func (h *LedgerHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.ledger.Sell)
}

type tradeFunc func(ctx context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)

func (h *LedgerHandler) trade(w http.ResponseWriter, r *http.Request, do tradeFunc) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req tradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	fundID := uuid.MustParse(req.FundID)

	ctx := logging.With(r.Context(), "fund_id", fundID)
	t, err := do(ctx, investorID, fundID, req.Amount)
	if err != nil {
		RespondDomainError(ctx, w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

func (h *LedgerHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	p, err := h.ledger.Portfolio(r.Context(), investorID)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPortfolioDTO(p))
}

func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	investorID, appErr := investorFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit, offset, fields := pageParams(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txns, total, err := h.ledger.History(r.Context(), investorID, limit, offset)
	if err != nil {
		RespondDomainError(r.Context(), w, err)
		return
	}

	dtos := make([]transactionDTO, len(txns))
	for i := range txns {
		dtos[i] = toTransactionDTO(&txns[i])
	}

	if limit <= 0 {
		limit = ledger.DefaultHistoryLimit
	}
	RespondSuccess(w, http.StatusOK, historyDTO{
		Transactions: dtos,
		Total:        total,
		Limit:        min(limit, ledger.MaxHistoryLimit),
		Offset:       offset,
	})
}

func pageParams(r *http.Request) (limit, offset int, errs []FieldError) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, FieldError{Field: "limit", Message: "must be a positive integer"})
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "offset", Message: "must be a non-negative integer"})
		}
		offset = n
	}
	return limit, offset, errs
}

type validatable interface {
	Validate() []FieldError
}

// decodeAndValidate reads the JSON body into req and writes the error
// response itself when it returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req validatable) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return false
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return false
	}
	return true
}
