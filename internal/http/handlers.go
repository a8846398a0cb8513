package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"finadvisor/internal/core"
	"finadvisor/internal/ingest"
	"finadvisor/internal/log"
	"finadvisor/internal/services"
)

type debtPlanRequest struct {
	Debts        []core.Debt       `json:"debts"`
	ExtraPayment float64           `json:"extra_payment"`
	Strategy     string            `json:"strategy"`
	UserContext  *core.UserContext `json:"user_context,omitempty"`
}

type goalPlanRequest struct {
	Goals           []core.Goal       `json:"goals"`
	MonthlyIncome   float64           `json:"monthly_income"`
	MonthlyExpenses float64           `json:"monthly_expenses"`
	UserContext     *core.UserContext `json:"user_context,omitempty"`
}

type budgetAnalyzeRequest struct {
	Transactions []transactionPayload `json:"transactions"`
	UserContext  *core.UserContext    `json:"user_context,omitempty"`
}

// transactionPayload is the wire form of a transaction. Dates arrive as
// strings; rows with unparseable dates are dropped by the cleaning pass
// and reported in the result's skipped records.
type transactionPayload struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (s *Server) handleDebtPlan(w http.ResponseWriter, r *http.Request) {
	var req debtPlanRequest
	if err := decodeJSON(w, r, s.maxRequestBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	strategy, err := core.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, cacheHit, err := s.planner.DebtPlan(r.Context(), services.DebtPlanInput{
		Debts:        req.Debts,
		ExtraPayment: req.ExtraPayment,
		Strategy:     strategy,
		UserContext:  req.UserContext,
	})
	if err != nil {
		s.writePlanError(w, r, log.OpDebtPlan, err)
		return
	}

	writeRawJSON(w, http.StatusOK, result, cacheHit)
}

func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request) {
	var req goalPlanRequest
	if err := decodeJSON(w, r, s.maxRequestBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, cacheHit, err := s.planner.GoalPlan(r.Context(), services.GoalPlanInput{
		Goals:           req.Goals,
		MonthlyIncome:   req.MonthlyIncome,
		MonthlyExpenses: req.MonthlyExpenses,
		UserContext:     req.UserContext,
	})
	if err != nil {
		s.writePlanError(w, r, log.OpGoalPlan, err)
		return
	}

	writeRawJSON(w, http.StatusOK, result, cacheHit)
}

func (s *Server) handleBudgetAnalyze(w http.ResponseWriter, r *http.Request) {
	var req budgetAnalyzeRequest
	if err := decodeJSON(w, r, s.maxRequestBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txns := make([]core.Transaction, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		var date time.Time
		if parsed, err := ingest.ParseDate(t.Date); err == nil {
			date = parsed
		}
		txns = append(txns, core.Transaction{
			Date:        date,
			Description: t.Description,
			Amount:      t.Amount,
		})
	}

	result, cacheHit, err := s.planner.AnalyzeBudget(r.Context(), services.BudgetInput{
		Transactions: txns,
		UserContext:  req.UserContext,
	})
	if err != nil {
		s.writePlanError(w, r, log.OpBudget, err)
		return
	}

	writeRawJSON(w, http.StatusOK, result, cacheHit)
}

func (s *Server) handleUploadTransactions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		if maxBytesExceeded(err) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing form file \"file\"")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		writeError(w, r, http.StatusBadRequest, "only CSV files are supported")
		return
	}

	parsed, err := ingest.ParseTransactionsCSV(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.InfoContext(r.Context(), "transactions file parsed",
		log.FieldOperation, log.OpUpload,
		log.FieldTxnCount, len(parsed.Transactions),
		log.FieldSkippedCount, len(parsed.Skipped))

	result, cacheHit, err := s.planner.AnalyzeBudget(r.Context(), services.BudgetInput{
		Transactions: parsed.Transactions,
	})
	if err != nil {
		s.writePlanError(w, r, log.OpUpload, err)
		return
	}

	writeRawJSON(w, http.StatusOK, result, cacheHit)
}

// writePlanError maps planner errors to HTTP statuses. Domain errors are
// the caller's problem (422); anything else is ours (500).
func (s *Server) writePlanError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownStrategy):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidIncome):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "plan computation failed",
			log.FieldOperation, operation,
			log.FieldError, err.Error())
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
