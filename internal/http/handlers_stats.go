package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/uson1004/SwanBudget/internal/calc"
	"github.com/uson1004/SwanBudget/internal/stats"
)

// handleMonthStatistics returns the month report for ?date=YYYY-MM-DD,
// defaulting to today.
func (s *Server) handleMonthStatistics(w http.ResponseWriter, r *http.Request) {
	loc := s.store.Location()
	day := s.now().In(loc)
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		d, err := parseDate(v, loc)
		if err != nil {
			BadRequestError("invalid date, expected YYYY-MM-DD").Write(w)
			return
		}
		day = d
	}
	key := fmt.Sprintf("%d|month|%s", s.store.Revision(), day.Format("2006-01-02"))
	report := s.reports.GetOrCompute(key, func() any {
		return stats.BuildMonthReport(s.store.Transactions(), day, loc)
	})
	NewJSONResponse().JSON(report).Write(w)
}

func (s *Server) handleYearStatistics(w http.ResponseWriter, r *http.Request) {
	loc := s.store.Location()
	year := s.now().In(loc).Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			BadRequestError("invalid year").Write(w)
			return
		}
		year = y
	}
	key := fmt.Sprintf("%d|year|%d", s.store.Revision(), year)
	report := s.reports.GetOrCompute(key, func() any {
		return stats.BuildYearReport(s.store.Transactions(), year, loc)
	})
	NewJSONResponse().JSON(report).Write(w)
}

type calculatorRequest struct {
	Expression string `json:"expression"`
}

func (s *Server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	var req calculatorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	result, err := calc.Evaluate(req.Expression)
	if err != nil {
		switch {
		case errors.Is(err, calc.ErrEmptyExpression),
			errors.Is(err, calc.ErrInvalidCharacter),
			errors.Is(err, calc.ErrSyntax),
			errors.Is(err, calc.ErrDivisionByZero):
			UnprocessableEntityError(err.Error()).Write(w)
		default:
			InternalServerError("calculation failed").Write(w)
		}
		return
	}
	NewJSONResponse().JSON(map[string]string{"result": result.String()}).Write(w)
}
