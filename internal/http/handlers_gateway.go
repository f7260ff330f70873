package http

import (
	"errors"
	"net/http"

	"github.com/uson1004/SwanBudget/internal/gateway"
	applog "github.com/uson1004/SwanBudget/internal/log"
)

// The processor stand-ins keep the contract the entry forms expect: 400 {"error"} for
// missing fields, 200 {"success", "message", ...} otherwise. A body that is
// not JSON gets the endpoint's failure message with 400.

func (s *Server) handleGatewayRegisterCard(w http.ResponseWriter, r *http.Request) {
	var req gateway.CardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(gateway.MsgCardLinkFailed).Write(w)
		return
	}
	rec, err := s.processor.RegisterCard(r.Context(), req)
	if err != nil {
		s.gatewayError(w, r, err, gateway.MsgCardLinkFailed)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"success": true,
		"message": gateway.MsgCardLinked,
		"card":    rec,
	}).Write(w)
}

func (s *Server) handleGatewayRemoveCard(w http.ResponseWriter, r *http.Request) {
	if err := s.processor.RemoveCard(r.Context(), r.URL.Query().Get("id")); err != nil {
		s.gatewayError(w, r, err, gateway.MsgCardDelFailed)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"success": true,
		"message": gateway.MsgCardRemoved,
	}).Write(w)
}

func (s *Server) handleGatewayCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req gateway.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(gateway.MsgTxAddFailed).Write(w)
		return
	}
	tx, err := s.processor.CreateTransaction(r.Context(), req)
	if err != nil {
		s.gatewayError(w, r, err, gateway.MsgTxAddFailed)
		return
	}
	NewJSONResponse().JSON(map[string]any{
		"success":     true,
		"message":     gateway.MsgTxAdded,
		"transaction": tx,
	}).Write(w)
}

func (s *Server) gatewayError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	if errors.Is(err, gateway.ErrMissingFields) || errors.Is(err, gateway.ErrMissingCardID) {
		BadRequestError(err.Error()).Write(w)
		return
	}
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Gateway request failed",
		applog.FieldError, err,
		applog.FieldPath, r.URL.Path)
	internalError(r, failure).Write(w)
}
