// This file implements request decoding: bounded JSON bodies and the
// period filters shared by the ledger and summary endpoints.

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/uson1004/SwanBudget/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	errEmptyBody    = errors.New("request body is empty")
	errBodyTooLarge = errors.New("request body too large")
)

// readBody reads at most maxBodyBytes from r.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// decodeJSON decodes a bounded request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// PeriodKind says which filter a Period applies.
type PeriodKind int

const (
	PeriodAll PeriodKind = iota
	PeriodYear
	PeriodMonth
	PeriodDay
)

// Period is a parsed ?year=&month= or ?day= filter.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month time.Month
	Day   time.Time
}

// ParsePeriod reads the period filter from query. day (YYYY-MM-DD) wins over
// year and month; a month needs a year.
func ParsePeriod(query url.Values, loc *time.Location) (Period, error) {
	if v := strings.TrimSpace(query.Get("day")); v != "" {
		day, err := parseDate(v, loc)
		if err != nil {
			return Period{}, fmt.Errorf("invalid day %q", v)
		}
		return Period{Kind: PeriodDay, Day: day}, nil
	}

	yearStr := strings.TrimSpace(query.Get("year"))
	monthStr := strings.TrimSpace(query.Get("month"))
	if yearStr == "" {
		if monthStr != "" {
			return Period{}, errors.New("month requires year")
		}
		return Period{Kind: PeriodAll}, nil
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("invalid year %q", yearStr)
	}
	if monthStr == "" {
		return Period{Kind: PeriodYear, Year: year}, nil
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month %q", monthStr)
	}
	return Period{Kind: PeriodMonth, Year: year, Month: time.Month(month)}, nil
}

// parseDate parses YYYY-MM-DD as midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

// transactionPayload is the ledger transaction body. date accepts RFC 3339
// or YYYY-MM-DD; empty means now. Replacing a transaction requires a date, see
// readTransaction.
type transactionPayload struct {
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Amount      float64              `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
	CardID      string               `json:"cardId"`
}

func (p transactionPayload) toInput(now time.Time, loc *time.Location) (core.TransactionInput, error) {
	date := now
	if s := strings.TrimSpace(p.Date); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = parseDate(s, loc)
			if err != nil {
				return core.TransactionInput{}, fmt.Errorf("invalid date %q", s)
			}
		}
		date = t
	}
	in := core.TransactionInput{
		Date:        date,
		Description: sanitizeInput(p.Description),
		Amount:      p.Amount,
		Type:        p.Type,
		Category:    sanitizeInput(p.Category),
		CardID:      strings.TrimSpace(p.CardID),
	}
	return in.Normalize(), nil
}
