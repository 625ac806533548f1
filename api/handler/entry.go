package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mywallet/backend/api/transport"
	"github.com/mywallet/backend/domain"
	"github.com/mywallet/backend/pkg/httpcontext"
	"github.com/mywallet/backend/repository"
	ledgerUC "github.com/mywallet/backend/usecase/ledger"
)

type EntryHandler struct {
	baseHandler
	uc *ledgerUC.UseCase
}

func NewEntryHandler(uc *ledgerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List a user's ledger entries
// @Tags values
// @Router /api/v1/values/{id} [get]
func (h *EntryHandler) GetValues(ctx *fasthttp.RequestCtx) {
	userID := h.resolvedUserID(ctx)
	if userID == "" {
		return
	}

	claimed, _ := ctx.UserValue("id").(string)
	if claimed != userID {
		h.respondError(ctx, domain.ErrUnauthorized)
		return
	}

	filter := repository.EntryFilter{
		UserID: userID,
		Kind:   string(ctx.QueryArgs().Peek("kind")),
		Limit:  parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset: parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.Entries(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Record a ledger entry
// @Tags values
// @Router /api/v1/values [post]
func (h *EntryHandler) CreateValue(ctx *fasthttp.RequestCtx) {
	userID := h.resolvedUserID(ctx)
	if userID == "" {
		return
	}

	var req transport.EntryRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if problems := req.Validate(); len(problems) > 0 {
		h.respondValidation(ctx, problems)
		return
	}
	if req.UserID != userID {
		h.respondError(ctx, domain.ErrUnauthorized)
		return
	}

	entry := &domain.Entry{
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Append(stdCtx, entry)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// resolvedUserID returns the identity the middleware derived from the bearer
// token. Empty means the response has already been written.
func (h *EntryHandler) resolvedUserID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
	}
	return userID
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
