package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/fund-ledger/internal/analytics"
	"github.com/josh-kwaku/fund-ledger/internal/auth"
	"github.com/josh-kwaku/fund-ledger/internal/domain"
	"github.com/josh-kwaku/fund-ledger/internal/fund"
	"github.com/josh-kwaku/fund-ledger/internal/ledger"
)

type fakeLedger struct {
	err         error
	lastAmount  decimal.Decimal
	lastFund    uuid.UUID
	lastDesc    string
	lastLimit   int
	lastOffset  int
	lastAnswers []int
}

func (f *fakeLedger) txn(investorID uuid.UUID, typ domain.TransactionType, amount decimal.Decimal) *domain.LedgerTransaction {
	return &domain.LedgerTransaction{
		ID:         uuid.New(),
		InvestorID: investorID,
		Type:       typ,
		Amount:     amount,
		Units:      decimal.Zero,
		Status:     domain.TransactionStatusSuccess,
		CreatedAt:  time.Now(),
	}
}

func (f *fakeLedger) OpenAccount(_ context.Context, investorID uuid.UUID) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Account{ID: uuid.New(), InvestorID: investorID, WalletBalance: decimal.Zero}, nil
}

func (f *fakeLedger) GetAccount(_ context.Context, investorID uuid.UUID) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Account{ID: uuid.New(), InvestorID: investorID, WalletBalance: decimal.RequireFromString("1234.5"), RiskCategory: domain.RiskCategoryModerate}, nil
}

func (f *fakeLedger) SubmitRiskProfile(_ context.Context, investorID uuid.UUID, answers []int, horizon string) (*domain.Account, error) {
	f.lastAnswers = answers
	if f.err != nil {
		return nil, f.err
	}
	score, category, err := domain.ScoreRiskAnswers(answers)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:                uuid.New(),
		InvestorID:        investorID,
		WalletBalance:     decimal.Zero,
		RiskScore:         score,
		RiskCategory:      category,
		InvestmentHorizon: horizon,
	}, nil
}

func (f *fakeLedger) Deposit(_ context.Context, investorID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	f.lastAmount = amount
	if f.err != nil {
		return nil, f.err
	}
	return f.txn(investorID, domain.TransactionTypeDeposit, amount), nil
}

func (f *fakeLedger) ChargeFee(_ context.Context, investorID uuid.UUID, amount decimal.Decimal, desc string) (*domain.LedgerTransaction, error) {
	f.lastAmount, f.lastDesc = amount, desc
	if f.err != nil {
		return nil, f.err
	}
	return f.txn(investorID, domain.TransactionTypeFee, amount), nil
}

func (f *fakeLedger) Buy(_ context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	f.lastAmount, f.lastFund = amount, fundID
	if f.err != nil {
		return nil, f.err
	}
	t := f.txn(investorID, domain.TransactionTypeBuy, amount)
	t.FundID = &fundID
	t.Units = decimal.RequireFromString("9.8765")
	return t, nil
}

func (f *fakeLedger) Sell(_ context.Context, investorID, fundID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	f.lastAmount, f.lastFund = amount, fundID
	if f.err != nil {
		return nil, f.err
	}
	t := f.txn(investorID, domain.TransactionTypeSell, amount)
	t.FundID = &fundID
	return t, nil
}

func (f *fakeLedger) Portfolio(_ context.Context, investorID uuid.UUID) (*ledger.Portfolio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ledger.Portfolio{
		InvestorID:    investorID,
		WalletBalance: decimal.RequireFromString("10"),
		Holdings: []domain.HoldingValuation{{
			Holding:        domain.Holding{FundID: uuid.New(), UnitsOwned: decimal.RequireFromString("2"), AverageBuyPrice: decimal.RequireFromString("50")},
			FundName:       "Bluechip",
			Ticker:         "BLU",
			CurrentNav:     decimal.RequireFromString("55"),
			CostBasis:      decimal.RequireFromString("100"),
			MarketValue:    decimal.RequireFromString("110"),
			UnrealizedGain: decimal.RequireFromString("10"),
		}},
		TotalCost:      decimal.RequireFromString("100"),
		TotalValue:     decimal.RequireFromString("110"),
		UnrealizedGain: decimal.RequireFromString("10"),
	}, nil
}

func (f *fakeLedger) History(_ context.Context, investorID uuid.UUID, limit, offset int) ([]domain.LedgerTransaction, int, error) {
	f.lastLimit, f.lastOffset = limit, offset
	if f.err != nil {
		return nil, 0, f.err
	}
	return []domain.LedgerTransaction{*f.txn(investorID, domain.TransactionTypeDeposit, decimal.NewFromInt(5))}, 7, nil
}

func investorRequest(t *testing.T, method, target, body string, investorID, pathID uuid.UUID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.SetPathValue("id", pathID.String())
	return req.WithContext(auth.ContextWithInvestorID(req.Context(), investorID))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (APIResponse, map[string]any) {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestLedgerHandler_Buy(t *testing.T) {
	investorID := uuid.New()
	fundID := uuid.New()

	t.Run("success renders decimals as strings", func(t *testing.T) {
		svc := &fakeLedger{}
		h := NewLedgerHandler(svc)
		rec := httptest.NewRecorder()
		h.Buy(rec, investorRequest(t, http.MethodPost, "/", `{"fund_id":"`+fundID.String()+`","amount":"250.5"}`, investorID, investorID))

		require.Equal(t, http.StatusCreated, rec.Code)
		_, data := decode(t, rec)
		assert.Equal(t, "BUY", data["type"])
		assert.Equal(t, "250.5000", data["amount"])
		assert.Equal(t, "9.8765", data["units"])
		assert.Equal(t, fundID, svc.lastFund)
		assert.True(t, decimal.RequireFromString("250.5").Equal(svc.lastAmount))
	})

	t.Run("numeric amount accepted", func(t *testing.T) {
		svc := &fakeLedger{}
		rec := httptest.NewRecorder()
		NewLedgerHandler(svc).Buy(rec, investorRequest(t, http.MethodPost, "/", `{"fund_id":"`+fundID.String()+`","amount":100}`, investorID, investorID))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	tests := []struct {
		name       string
		body       string
		pathID     uuid.UUID
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "other investor", body: `{}`, pathID: uuid.New(), wantStatus: http.StatusNotFound, wantCode: "RESOURCE_NOT_FOUND"},
		{name: "malformed json", body: `{`, pathID: investorID, wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{name: "unknown field", body: `{"fund_id":"` + fundID.String() + `","amount":"1","units":"3"}`, pathID: investorID, wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{name: "five decimals", body: `{"fund_id":"` + fundID.String() + `","amount":"1.00001"}`, pathID: investorID, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "negative", body: `{"fund_id":"` + fundID.String() + `","amount":"-5"}`, pathID: investorID, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "bad fund id", body: `{"fund_id":"abc","amount":"5"}`, pathID: investorID, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "insufficient funds", body: `{"fund_id":"` + fundID.String() + `","amount":"5"}`, pathID: investorID, svcErr: fmtErr(domain.ErrInsufficientFunds), wantStatus: http.StatusUnprocessableEntity, wantCode: "INSUFFICIENT_FUNDS"},
		{name: "unknown fund", body: `{"fund_id":"` + fundID.String() + `","amount":"5"}`, pathID: investorID, svcErr: fmtErr(domain.ErrFundNotFound), wantStatus: http.StatusNotFound, wantCode: "FUND_NOT_FOUND"},
		{name: "corrupt nav", body: `{"fund_id":"` + fundID.String() + `","amount":"5"}`, pathID: investorID, svcErr: fmtErr(domain.ErrDataIntegrity), wantStatus: http.StatusInternalServerError, wantCode: "DATA_INTEGRITY"},
		{name: "concurrent write", body: `{"fund_id":"` + fundID.String() + `","amount":"5"}`, pathID: investorID, svcErr: fmtErr(domain.ErrVersionConflict), wantStatus: http.StatusConflict, wantCode: "VERSION_CONFLICT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLedgerHandler(&fakeLedger{err: tc.svcErr}).Buy(rec, investorRequest(t, http.MethodPost, "/", tc.body, investorID, tc.pathID))

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp, _ := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestLedgerHandler_Sell_InsufficientUnits(t *testing.T) {
	investorID := uuid.New()
	rec := httptest.NewRecorder()
	svc := &fakeLedger{err: fmtErr(domain.ErrInsufficientUnits)}
	NewLedgerHandler(svc).Sell(rec, investorRequest(t, http.MethodPost, "/", `{"fund_id":"`+uuid.NewString()+`","amount":"5"}`, investorID, investorID))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, "INSUFFICIENT_UNITS", resp.Error.Code)
}

func TestLedgerHandler_DepositAndFee(t *testing.T) {
	investorID := uuid.New()
	svc := &fakeLedger{}
	h := NewLedgerHandler(svc)

	rec := httptest.NewRecorder()
	h.Deposit(rec, investorRequest(t, http.MethodPost, "/", `{"amount":"1000"}`, investorID, investorID))
	require.Equal(t, http.StatusCreated, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, "DEPOSIT", data["type"])
	assert.Equal(t, "1000.0000", data["amount"])

	rec = httptest.NewRecorder()
	h.ChargeFee(rec, investorRequest(t, http.MethodPost, "/", `{"amount":"49.99","description":"Portfolio review"}`, investorID, investorID))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Portfolio review", svc.lastDesc)

	rec = httptest.NewRecorder()
	h.Deposit(rec, investorRequest(t, http.MethodPost, "/", `{"amount":"0"}`, investorID, investorID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerHandler_Account(t *testing.T) {
	investorID := uuid.New()

	rec := httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{}).GetAccount(rec, investorRequest(t, http.MethodGet, "/", "", investorID, investorID))
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, "1234.5000", data["wallet_balance"])

	rec = httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{err: fmtErr(domain.ErrAccountExists)}).OpenAccount(rec, investorRequest(t, http.MethodPost, "/", "", investorID, investorID))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{err: fmtErr(domain.ErrAccountNotFound)}).GetAccount(rec, investorRequest(t, http.MethodGet, "/", "", investorID, investorID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", resp.Error.Code)
}

func TestLedgerHandler_RiskProfile(t *testing.T) {
	investorID := uuid.New()

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantCategory string
		wantMaxRisk  float64
	}{
		{"conservative", `{"answers":[1,1,2,1,1],"investment_horizon":"1-3 years"}`, http.StatusOK, "CONSERVATIVE", 2},
		{"moderate", `{"answers":[3,3,3]}`, http.StatusOK, "MODERATE", 3},
		{"aggressive", `{"answers":[5,4,5,5]}`, http.StatusOK, "AGGRESSIVE", 5},
		{"empty answers", `{"answers":[]}`, http.StatusBadRequest, "", 0},
		{"answer out of range", `{"answers":[3,6]}`, http.StatusBadRequest, "", 0},
		{"unknown field", `{"answers":[3],"score":99}`, http.StatusBadRequest, "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLedgerHandler(&fakeLedger{}).RiskProfile(rec, investorRequest(t, http.MethodPost, "/", tc.body, investorID, investorID))
			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus != http.StatusOK {
				return
			}
			_, data := decode(t, rec)
			assert.Equal(t, tc.wantCategory, data["risk_category"])
			assert.Equal(t, tc.wantMaxRisk, data["max_fund_risk"])
		})
	}

	rec := httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{err: fmtErr(domain.ErrAccountNotFound)}).RiskProfile(rec, investorRequest(t, http.MethodPost, "/", `{"answers":[3]}`, investorID, investorID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{}).RiskProfile(rec, investorRequest(t, http.MethodPost, "/", `{"answers":[3]}`, investorID, uuid.New()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLedgerHandler_Holdings(t *testing.T) {
	investorID := uuid.New()
	rec := httptest.NewRecorder()
	NewLedgerHandler(&fakeLedger{}).Holdings(rec, investorRequest(t, http.MethodGet, "/", "", investorID, investorID))

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, "110.0000", data["total_value"])
	holdings := data["holdings"].([]any)
	require.Len(t, holdings, 1)
	assert.Equal(t, "BLU", holdings[0].(map[string]any)["ticker"])
}

func TestLedgerHandler_Transactions(t *testing.T) {
	investorID := uuid.New()

	svc := &fakeLedger{}
	rec := httptest.NewRecorder()
	NewLedgerHandler(svc).Transactions(rec, investorRequest(t, http.MethodGet, "/?limit=500&offset=3", "", investorID, investorID))
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.EqualValues(t, 7, data["total"])
	assert.EqualValues(t, ledger.MaxHistoryLimit, data["limit"])
	assert.Equal(t, 500, svc.lastLimit)
	assert.Equal(t, 3, svc.lastOffset)

	rec = httptest.NewRecorder()
	NewLedgerHandler(svc).Transactions(rec, investorRequest(t, http.MethodGet, "/?limit=abc", "", investorID, investorID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeFunds struct {
	err      error
	compared []uuid.UUID
	filter   domain.FundFilter
	created  *domain.Fund
	priced   decimal.Decimal
}

func sampleFund(id uuid.UUID) domain.Fund {
	return domain.Fund{
		ID:            id,
		Name:          "Growth Fund",
		Ticker:        "GRW",
		Category:      domain.FundCategoryEquity,
		RiskRating:    4,
		ExpenseRatio:  decimal.RequireFromString("1.1"),
		CurrentNav:    decimal.RequireFromString("123.4567"),
		MinInvestment: decimal.RequireFromString("500"),
	}
}

func (f *fakeFunds) ListFunds(_ context.Context, filter domain.FundFilter) ([]domain.Fund, error) {
	f.filter = filter
	return []domain.Fund{sampleFund(uuid.New())}, f.err
}

func (f *fakeFunds) GetFundDetail(_ context.Context, id uuid.UUID) (*fund.Detail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fund.Detail{
		Fund: sampleFund(id),
		History: []domain.PricePoint{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(100)},
			{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(110)},
		},
		Analytics: analytics.Report{CAGR: decimal.RequireFromString("0.1"), PointCount: 2},
	}, nil
}

func (f *fakeFunds) Compare(ctx context.Context, ids []uuid.UUID) ([]fund.Detail, error) {
	f.compared = ids
	if f.err != nil {
		return nil, f.err
	}
	out := make([]fund.Detail, len(ids))
	for i, id := range ids {
		d, _ := f.GetFundDetail(ctx, id)
		out[i] = *d
	}
	return out, nil
}

func (f *fakeFunds) CreateFund(_ context.Context, fd *domain.Fund) (*domain.Fund, error) {
	f.created = fd
	if f.err != nil {
		return nil, f.err
	}
	fd.ID = uuid.New()
	return fd, nil
}

func (f *fakeFunds) UpdateFund(_ context.Context, id uuid.UUID, fd *domain.Fund) (*domain.Fund, error) {
	if f.err != nil {
		return nil, f.err
	}
	fd.ID = id
	return fd, nil
}

func (f *fakeFunds) DeleteFund(context.Context, uuid.UUID) error { return f.err }

func (f *fakeFunds) RecordPrice(_ context.Context, _ uuid.UUID, _ time.Time, price decimal.Decimal) error {
	f.priced = price
	return f.err
}

func TestFundHandler_List(t *testing.T) {
	svc := &fakeFunds{}
	rec := httptest.NewRecorder()
	NewFundHandler(svc).List(rec, httptest.NewRequest(http.MethodGet, "/?category=equity&max_risk=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Category)
	assert.Equal(t, domain.FundCategoryEquity, *svc.filter.Category)
	assert.Equal(t, 3, *svc.filter.MaxRisk)

	rec = httptest.NewRecorder()
	NewFundHandler(svc).List(rec, httptest.NewRequest(http.MethodGet, "/?category=crypto&max_risk=9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decode(t, rec)
	assert.Len(t, resp.Error.Details, 2)
}

func TestFundHandler_Get(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("fundID", id.String())
	rec := httptest.NewRecorder()
	NewFundHandler(&fakeFunds{}).Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decode(t, rec)
	assert.Equal(t, "123.4567", data["current_nav"])
	assert.Equal(t, "0.100000", data["analytics"].(map[string]any)["cagr"])
	assert.Len(t, data["price_history"], 2)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("fundID", "nope")
	rec = httptest.NewRecorder()
	NewFundHandler(&fakeFunds{}).Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFundHandler_Compare(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := &fakeFunds{}
	rec := httptest.NewRecorder()
	NewFundHandler(svc).Compare(rec, httptest.NewRequest(http.MethodGet, "/?ids="+a.String()+","+b.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{a, b}, svc.compared)
	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.NotContains(t, resp.Data[0], "price_history")

	ids := make([]string, fund.MaxCompare+1)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	for _, q := range []string{"", "?ids=abc", "?ids=" + strings.Join(ids, ",")} {
		rec := httptest.NewRecorder()
		NewFundHandler(svc).Compare(rec, httptest.NewRequest(http.MethodGet, "/"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestFundHandler_Admin(t *testing.T) {
	body := `{"name":"Income Plus","ticker":"inc","category":"debt","risk_rating":2,
		"expense_ratio":"0.45","current_nav":"10.5","fund_manager":"A. Rao","min_investment":"100"}`

	svc := &fakeFunds{}
	rec := httptest.NewRecorder()
	NewFundHandler(svc).Create(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.FundCategoryDebt, svc.created.Category)

	rec = httptest.NewRecorder()
	NewFundHandler(&fakeFunds{err: fmtErr(domain.ErrFundExists)}).Create(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	NewFundHandler(svc).Create(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","ticker":"x","category":"debt","risk_rating":9,"current_nav":"0"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, ratio := range []string{"0.125", "1000", "-1"} {
		bad := strings.Replace(body, `"0.45"`, `"`+ratio+`"`, 1)
		rec = httptest.NewRecorder()
		NewFundHandler(svc).Create(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(bad)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, ratio)
		assert.Contains(t, rec.Body.String(), "expense_ratio", ratio)
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("fundID", uuid.NewString())
	rec = httptest.NewRecorder()
	NewFundHandler(&fakeFunds{err: fmtErr(domain.ErrFundHasHoldings)}).Delete(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2025-03-01","price":"101.25"}`))
	req.SetPathValue("fundID", uuid.NewString())
	rec = httptest.NewRecorder()
	NewFundHandler(svc).RecordPrice(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decimal.RequireFromString("101.25").Equal(svc.priced))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"03/01/2025","price":"101.25"}`))
	req.SetPathValue("fundID", uuid.NewString())
	rec = httptest.NewRecorder()
	NewFundHandler(svc).RecordPrice(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapDomainError_Unknown(t *testing.T) {
	assert.Equal(t, ErrInternalError, mapDomainError(errors.New("driver: bad connection")))
	assert.Equal(t, ErrResourceNotFound, mapDomainError(fmtErr(domain.ErrNotFound)))
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}, "test").Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}, "test").Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func fmtErr(err error) error {
	return errors.Join(errors.New("Op"), err)
}
