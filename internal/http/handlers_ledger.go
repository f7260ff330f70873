package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/uson1004/SwanBudget/internal/core"
	"github.com/uson1004/SwanBudget/internal/finance"
	applog "github.com/uson1004/SwanBudget/internal/log"
	"github.com/uson1004/SwanBudget/internal/middleware/trace"
)

// transactionsFor applies a parsed period to the store.
func (s *Server) transactionsFor(p Period) []core.Transaction {
	switch p.Kind {
	case PeriodDay:
		return s.store.DailyTransactions(p.Day)
	case PeriodMonth:
		return s.store.MonthlyTransactions(p.Year, p.Month)
	case PeriodYear:
		return s.store.YearlyTransactions(p.Year)
	default:
		return s.store.Transactions()
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query(), s.store.Location())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	txs := s.transactionsFor(period)
	NewJSONResponse().JSON(map[string]any{
		"transactions": newTransactionViews(txs, s.store.CardByID),
		"count":        len(txs),
	}).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query(), s.store.Location())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	txs := s.transactionsFor(period)
	NewJSONResponse().JSON(struct {
		finance.Totals
		Count int `json:"count"`
	}{finance.Summarize(txs), len(txs)}).Write(w)
}

// readTransaction decodes and validates a ledger transaction body. It writes
// the error response itself and reports whether the caller may continue.
// A create without a date is dated now; a replace must carry its date, or
// the entry would silently move to today.
func (s *Server) readTransaction(w http.ResponseWriter, r *http.Request, requireDate bool) (core.TransactionInput, bool) {
	var p transactionPayload
	if err := decodeJSON(w, r, &p); err != nil {
		BadRequestError(err.Error()).Write(w)
		return core.TransactionInput{}, false
	}
	if requireDate && strings.TrimSpace(p.Date) == "" {
		BadRequestError("date is required").Write(w)
		return core.TransactionInput{}, false
	}
	in, err := p.toInput(s.now(), s.store.Location())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return core.TransactionInput{}, false
	}
	if err := in.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return core.TransactionInput{}, false
	}
	return in, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.readTransaction(w, r, false)
	if !ok {
		return
	}
	tx, err := s.store.AddTransaction(r.Context(), in)
	if err != nil {
		s.storeError(w, r, err, applog.OpCreate, finance.KeyTransactions)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().WithTransaction(tx.ID, tx.Type.String(), tx.Amount, tx.Category).ToSlice()...)
	NewJSONResponse().Status(http.StatusCreated).JSON(tx).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	in, ok := s.readTransaction(w, r, true)
	if !ok {
		return
	}
	if err := s.store.UpdateTransaction(r.Context(), id, in); err != nil {
		s.storeError(w, r, err, applog.OpUpdate, finance.KeyTransactions)
		return
	}
	s.mutated(r, applog.OpUpdate, finance.KeyTransactions, id)
	NoContent().Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		s.storeError(w, r, err, applog.OpDelete, finance.KeyTransactions)
		return
	}
	s.mutated(r, applog.OpDelete, finance.KeyTransactions, id)
	NoContent().Write(w)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(map[string]any{"cards": newCardViews(s.store.Cards())}).Write(w)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var in core.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in.CardholderName = sanitizeInput(in.CardholderName)
	if err := in.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	c, err := s.store.AddCard(r.Context(), in.Complete())
	if err != nil {
		s.storeError(w, r, err, applog.OpCreate, finance.KeyCards)
		return
	}
	s.mutated(r, applog.OpCreate, finance.KeyCards, c.ID)
	NewJSONResponse().Status(http.StatusCreated).JSON(newCardView(c)).Write(w)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteCard(r.Context(), id); err != nil {
		s.storeError(w, r, err, applog.OpDelete, finance.KeyCards)
		return
	}
	s.mutated(r, applog.OpDelete, finance.KeyCards, id)
	NoContent().Write(w)
}

// handleListCategories lists categories, optionally only one ?type=.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.store.Categories()
	if t := core.TransactionType(strings.TrimSpace(r.URL.Query().Get("type"))); t != "" {
		if !t.IsValid() {
			BadRequestError(core.ErrInvalidType.Error()).Write(w)
			return
		}
		filtered := cats[:0]
		for _, c := range cats {
			if c.Type == t {
				filtered = append(filtered, c)
			}
		}
		cats = filtered
	}
	NewJSONResponse().JSON(map[string]any{"categories": cats}).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in core.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in.Name = sanitizeInput(in.Name)
	if err := in.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if s.store.HasCategory(in.Name, in.Type) {
		ConflictError("category already exists").Write(w)
		return
	}
	c, err := s.store.AddCategory(r.Context(), in)
	if err != nil {
		s.storeError(w, r, err, applog.OpCreate, finance.KeyCategories)
		return
	}
	s.mutated(r, applog.OpCreate, finance.KeyCategories, c.ID)
	NewJSONResponse().Status(http.StatusCreated).JSON(c).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		s.storeError(w, r, err, applog.OpDelete, finance.KeyCategories)
		return
	}
	s.mutated(r, applog.OpDelete, finance.KeyCategories, id)
	NoContent().Write(w)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.store.UserSettings()).Write(w)
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch core.SettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := patch.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	settings, err := s.store.UpdateUserSettings(r.Context(), patch)
	if err != nil {
		s.storeError(w, r, err, applog.OpUpdate, finance.KeyUserSettings)
		return
	}
	s.mutated(r, applog.OpUpdate, finance.KeyUserSettings, "")
	NewJSONResponse().JSON(settings).Write(w)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	data, err := finance.EncodeSnapshot(s.store.Backup())
	if err != nil {
		s.storeError(w, r, err, applog.OpBackup, "")
		return
	}
	NewJSONResponse().Attachment(s.store.BackupFilename(s.backupPrefix), data).Write(w)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.store.Restore(r.Context(), body); err != nil {
		if errors.Is(err, finance.ErrMalformedBackup) {
			BadRequestError(err.Error()).Write(w)
			return
		}
		s.storeError(w, r, err, applog.OpRestore, "")
		return
	}
	s.mutated(r, applog.OpRestore, "", "")
	NewJSONResponse().JSON(map[string]any{
		"success":      true,
		"transactions": len(s.store.Transactions()),
		"cards":        len(s.store.Cards()),
		"categories":   len(s.store.Categories()),
	}).Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetAllData(r.Context()); err != nil {
		s.storeError(w, r, err, applog.OpReset, "")
		return
	}
	s.mutated(r, applog.OpReset, "", "")
	NoContent().Write(w)
}

func (s *Server) mutated(r *http.Request, op, collection, id string) {
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogMutation(r.Context(), op, collection, id)
}

// storeError logs a failed store call and answers 500. The in-memory change
// may already be applied; only persisting it failed.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error, op, collection string) {
	fields := applog.NewFields().WithCollection(collection, "")
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(), "Ledger operation failed", err, op, fields)
	internalError(r, "failed to save changes").Write(w)
}

// internalError is a 500 carrying the request id, so a client can quote it
// when reporting the failure.
func internalError(r *http.Request, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusInternalServerError).JSON(errorBody{
		Error:     message,
		RequestID: trace.GetRequestID(r.Context()),
	})
}
