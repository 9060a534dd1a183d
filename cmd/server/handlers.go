package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"trading-journal/internal/csvimport"
	"trading-journal/internal/demo"
	"trading-journal/internal/derive"
	"trading-journal/internal/domain"
	"trading-journal/internal/filter"
	"trading-journal/internal/observability"
	"trading-journal/internal/storage"
	syncer "trading-journal/internal/sync"
	"trading-journal/internal/wallet"
)

// maxImportBody caps CSV and JSON request bodies.
const maxImportBody = 10 << 20

const dateLayout = "2006-01-02"

// instrument wraps a handler with request duration metrics keyed by
// route pattern.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		observability.DefaultMetrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Write response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps storage and wallet sentinel errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrInvalidInput),
		errors.Is(err, wallet.ErrBadAddress):
		status = http.StatusBadRequest
	case errors.Is(err, wallet.ErrUnknownNonce),
		errors.Is(err, wallet.ErrExpired),
		errors.Is(err, wallet.ErrBadSignature):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		s.logger.Printf("Request error: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxImportBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseFilterState reads the dashboard filter query parameters. Dates
// are calendar days, inclusive on both ends.
func parseFilterState(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	state := domain.FilterState{
		Symbol:     q.Get("symbol"),
		MarketType: q.Get("marketType"),
		Side:       q.Get("side"),
		Search:     q.Get("search"),
	}
	if v := q.Get("startDate"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid startDate %q", v)
		}
		state.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return state, fmt.Errorf("invalid endDate %q", v)
		}
		state.EndDate = &t
	}
	return state, nil
}

// loadFills resolves the filter query and loads the matching fills. The
// free-text search dimension has no SQL translation, so it is applied
// in memory over the backend's result.
func (s *Server) loadFills(r *http.Request, state domain.FilterState) ([]domain.Fill, error) {
	q := filter.ToFillFilter(state, r.URL.Query().Get("accountId"))
	if v := r.URL.Query().Get("orderType"); v != "" {
		q.OrderType = domain.OrderType(v)
	}
	fills, err := s.stores.fills.GetByFilter(r.Context(), q)
	if err != nil {
		return nil, err
	}
	if state.Search != "" {
		fills = filter.Fills(fills, state)
	}
	return fills, nil
}

func (s *Server) handleListFills(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	fills, err := s.loadFills(r, state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if fills == nil {
		fills = []domain.Fill{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"fills": fills,
		"count": len(fills),
	})
}

// fillInput is the manual-entry request shape; EventID is derived by
// the storage layer, never supplied.
type fillInput struct {
	Time       time.Time         `json:"ts"`
	Symbol     string            `json:"symbol"`
	MarketType domain.MarketType `json:"marketType"`
	Side       domain.Side       `json:"side"`
	Quantity   float64           `json:"qty"`
	Price      float64           `json:"price"`
	Fee        float64           `json:"fee"`
	FeeType    domain.FeeType    `json:"feeType"`
	OrderType  domain.OrderType  `json:"orderType"`
	TxRef      string            `json:"txRef"`
	Tags       []string          `json:"tags"`
}

type insertFillsRequest struct {
	AccountID string      `json:"accountId,omitempty"`
	Label     string      `json:"label,omitempty"`
	Fills     []fillInput `json:"fills"`
}

func (s *Server) handleInsertFills(w http.ResponseWriter, r *http.Request) {
	var req insertFillsRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if len(req.Fills) == 0 {
		s.badRequest(w, "no fills in request")
		return
	}

	importRow := &domain.ImportRecord{
		SourceType:  domain.ImportManual,
		SourceLabel: req.Label,
		AccountID:   req.AccountID,
	}
	if err := s.stores.imports.Create(r.Context(), importRow); err != nil {
		s.writeError(w, err)
		return
	}

	inserts := make([]domain.FillInsert, len(req.Fills))
	for i, f := range req.Fills {
		if f.FeeType == "" {
			f.FeeType = domain.FeeOther
		}
		if f.OrderType == "" {
			f.OrderType = domain.OrderOther
		}
		inserts[i] = domain.FillInsert{
			Time:       f.Time,
			Symbol:     f.Symbol,
			MarketType: f.MarketType,
			Side:       f.Side,
			Quantity:   f.Quantity,
			Price:      f.Price,
			Fee:        f.Fee,
			FeeType:    f.FeeType,
			OrderType:  f.OrderType,
			TxRef:      f.TxRef,
			Tags:       f.Tags,
			AccountID:  req.AccountID,
			ImportID:   importRow.ID,
		}
	}

	res, err := s.stores.fills.InsertIdempotent(r.Context(), inserts)
	if err != nil {
		_ = s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportFailed)
		observability.RecordImportBatch(string(domain.ImportManual), "failed")
		s.writeError(w, err)
		return
	}
	if err := s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportProcessed); err != nil {
		s.writeError(w, err)
		return
	}
	observability.RecordImport(string(domain.ImportManual), res.Inserted, res.Skipped)
	observability.RecordImportBatch(string(domain.ImportManual), "processed")

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"importId": importRow.ID,
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	})
}

func (s *Server) handleDeleteFills(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	deleted, err := s.stores.fills.DeleteByAccount(r.Context(), accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Printf("Deleted %d fills (account %q)", deleted, accountID)
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleGetAnnotation(w http.ResponseWriter, r *http.Request) {
	ann, err := s.stores.annotations.GetByFillID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ann)
}

type annotationRequest struct {
	Note string   `json:"note"`
	Tags []string `json:"tags"`
}

func (s *Server) handleUpsertAnnotation(w http.ResponseWriter, r *http.Request) {
	var req annotationRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	ann, err := s.stores.annotations.Upsert(r.Context(), r.PathValue("id"), req.Note, req.Tags)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ann)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	fills, err := s.loadFills(r, state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	trades := filter.Trades(derive.Trades(fills), state)
	if trades == nil {
		trades = []domain.DerivedTrade{}
	}
	observability.RecordTradesDerived(len(trades))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"trades": trades,
		"count":  len(trades),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	state, err := parseFilterState(r)
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	report, err := s.generator.Generate(r.Context(), state, r.URL.Query().Get("accountId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	observability.RecordAnalytics("full")
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDailyPnL(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		s.badRequest(w, "accountId is required")
		return
	}
	points, err := s.stores.dailyPnL.GetByAccount(r.Context(), accountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if points == nil {
		points = []domain.DailyPnLPoint{}
	}
	observability.RecordAnalytics("daily")
	s.writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		s.badRequest(w, "read request body")
		return
	}

	result, err := csvimport.Parse(bytes.NewReader(body))
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}

	accountID := r.URL.Query().Get("accountId")
	importRow := &domain.ImportRecord{
		SourceType:  domain.ImportCSV,
		SourceLabel: r.URL.Query().Get("label"),
		FileHash:    csvimport.FileHash(body),
		AccountID:   accountID,
	}
	if err := s.stores.imports.Create(r.Context(), importRow); err != nil {
		s.writeError(w, err)
		return
	}

	for i := range result.Fills {
		result.Fills[i].AccountID = accountID
		result.Fills[i].ImportID = importRow.ID
	}

	res, err := s.stores.fills.InsertIdempotent(r.Context(), result.Fills)
	if err != nil {
		_ = s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportFailed)
		observability.RecordImportBatch(string(domain.ImportCSV), "failed")
		s.writeError(w, err)
		return
	}
	if err := s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportProcessed); err != nil {
		s.writeError(w, err)
		return
	}
	observability.RecordImport(string(domain.ImportCSV), res.Inserted, res.Skipped)
	observability.RecordImportBatch(string(domain.ImportCSV), "processed")
	observability.RecordRowErrors(len(result.RowErrors))

	s.logger.Printf("CSV import %s: %d inserted, %d skipped, %d row errors",
		importRow.ID, res.Inserted, res.Skipped, len(result.RowErrors))

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"importId":  importRow.ID,
		"inserted":  res.Inserted,
		"skipped":   res.Skipped,
		"rowErrors": result.RowErrors,
	})
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fills-template.csv"`)
	io.WriteString(w, csvimport.Template())
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := s.stores.imports.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if imports == nil {
		imports = []domain.ImportRecord{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"imports": imports})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.stores.accounts.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

type createAccountRequest struct {
	Chain         string `json:"chain,omitempty"`
	WalletAddress string `json:"walletAddress"`
	Label         string `json:"label,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	account, err := s.createAccount(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, account)
}

func (s *Server) createAccount(r *http.Request, req createAccountRequest) (*domain.Account, error) {
	if _, err := wallet.DecodeAddress(req.WalletAddress); err != nil {
		return nil, err
	}
	chain := req.Chain
	if chain == "" {
		chain = "solana"
	}
	account := &domain.Account{
		Chain:         chain,
		WalletAddress: req.WalletAddress,
		Label:         req.Label,
	}
	if err := s.stores.accounts.Insert(r.Context(), account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Server) handleSyncAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.stores.accounts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	result, err := syncer.RunAccountSync(r.Context(), *account, s.provider, syncer.Stores{
		Fills:    s.stores.fills,
		Accounts: s.stores.accounts,
		Imports:  s.stores.imports,
	})
	if err != nil {
		observability.RecordSyncRun("error", time.Since(start).Seconds())
		s.writeError(w, err)
		return
	}
	observability.RecordSyncRun("ok", time.Since(start).Seconds())
	observability.RecordImport(string(s.provider.Source()), result.Inserted, result.Skipped)

	refreshed, err := s.stores.accounts.GetByID(r.Context(), account.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Printf("Synced account %s: %d inserted, %d skipped", account.ID, result.Inserted, result.Skipped)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
		"account":  refreshed,
	})
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.stores.journal.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	entry, err := s.stores.journal.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpsertJournal(w http.ResponseWriter, r *http.Request) {
	var req domain.JournalEntryUpsert
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	entry, err := s.stores.journal.Upsert(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, entry)
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := s.stores.journal.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type challengeRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (s *Server) handleWalletChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	challenge, err := s.challenger.Issue(req.WalletAddress)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, challenge)
}

type verifyRequest struct {
	WalletAddress string `json:"walletAddress"`
	Nonce         string `json:"nonce"`
	Signature     string `json:"signature"` // base64
	Chain         string `json:"chain,omitempty"`
	Label         string `json:"label,omitempty"`
}

// handleWalletVerify checks the signed challenge and, on success, links
// the wallet as a new account.
func (s *Server) handleWalletVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	sig, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		s.badRequest(w, "signature is not valid base64")
		return
	}
	if err := s.challenger.Verify(req.WalletAddress, req.Nonce, sig); err != nil {
		s.writeError(w, err)
		return
	}
	account, err := s.createAccount(r, createAccountRequest{
		Chain:         req.Chain,
		WalletAddress: req.WalletAddress,
		Label:         req.Label,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Printf("Linked wallet %s as account %s", req.WalletAddress, account.ID)
	s.writeJSON(w, http.StatusCreated, account)
}

type demoSeedRequest struct {
	Trades    int    `json:"trades,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	AccountID string `json:"accountId,omitempty"`
}

// handleDemoSeed loads a deterministic demo fill history so the
// dashboard has data to show before any real import.
func (s *Server) handleDemoSeed(w http.ResponseWriter, r *http.Request) {
	var req demoSeedRequest
	// An empty body seeds the defaults.
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(w, err.Error())
		return
	}
	if req.Trades <= 0 {
		req.Trades = 20
	}
	if req.Seed == 0 {
		req.Seed = 1
	}

	importRow := &domain.ImportRecord{
		SourceType:  domain.ImportMock,
		SourceLabel: "demo seed",
		AccountID:   req.AccountID,
	}
	if err := s.stores.imports.Create(r.Context(), importRow); err != nil {
		s.writeError(w, err)
		return
	}

	fills := demo.Fills(req.Trades, req.Seed, time.Now().UTC())
	for i := range fills {
		fills[i].AccountID = req.AccountID
		fills[i].ImportID = importRow.ID
	}

	res, err := s.stores.fills.InsertIdempotent(r.Context(), fills)
	if err != nil {
		_ = s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportFailed)
		s.writeError(w, err)
		return
	}
	if err := s.stores.imports.MarkStatus(r.Context(), importRow.ID, domain.ImportProcessed); err != nil {
		s.writeError(w, err)
		return
	}
	observability.RecordImport(string(domain.ImportMock), res.Inserted, res.Skipped)

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"importId": importRow.ID,
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	})
}
