package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"inputdash/internal/auth"
	dom "inputdash/internal/domain"
	"inputdash/internal/dto"
	"inputdash/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InputHandler struct {
	svc *service.InputService
	log *zap.Logger
}

func NewInputHandler(svc *service.InputService, log *zap.Logger) *InputHandler {
	return &InputHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Submit an input for classification
// @Tags         inputs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateInputRequest  true  "Input text"
// @Success      200   {object}  dto.InputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /inputs [post]
func (h *InputHandler) Create(c *gin.Context) {
	var req dto.CreateInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inputToResponse(in))
}

// List godoc
// @Summary      List inputs
// @Tags         inputs
// @Produce      json
// @Security     BearerAuth
// @Param        order  query     string  false  "dashboard (default), category or created_at"
// @Success      200    {array}   dto.InputResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Router       /inputs [get]
func (h *InputHandler) List(c *gin.Context) {
	order := dom.ListOrder(c.DefaultQuery("order", string(dom.OrderDashboard)))
	h.list(c, order)
}

// Dashboard godoc
// @Summary      List inputs in dashboard order
// @Tags         inputs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.InputResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /inputs/dashboard [get]
func (h *InputHandler) Dashboard(c *gin.Context) {
	h.list(c, dom.OrderDashboard)
}

func (h *InputHandler) list(c *gin.Context, order dom.ListOrder) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), order)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inputsToResponses(list))
}

// GetByID godoc
// @Summary      Get an input by ID
// @Tags         inputs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Input ID"
// @Success      200  {object}  dto.InputResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inputs/{id} [get]
func (h *InputHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	in, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inputToResponse(in))
}

// Update godoc
// @Summary      Update an input
// @Description  Changing text re-classifies; explicitly sent fields win over the classifier.
// @Tags         inputs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Input ID"
// @Param        body  body      dto.UpdateInputRequest  true  "Partial update"
// @Success      200   {object}  dto.InputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /inputs/{id} [patch]
func (h *InputHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := patchFromRequest(req)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	in, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inputToResponse(in))
}

// Delete godoc
// @Summary      Delete an input
// @Tags         inputs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Input ID"
// @Success      200  {object}  dto.DeleteInputResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inputs/{id} [delete]
func (h *InputHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteInputResponse{Status: "deleted"})
}

func (h *InputHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		abort(c, http.StatusNotFound, "Input not found")
	case errors.Is(err, service.ErrInvalidOrder):
		abort(c, http.StatusBadRequest, "Invalid order")
	case errors.Is(err, service.ErrEmptyText):
		abort(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("input request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abort(c, http.StatusInternalServerError, "internal error")
	}
}

func patchFromRequest(req dto.UpdateInputRequest) (dom.InputPatch, error) {
	patch := dom.InputPatch{Text: req.Text}
	var err error
	if req.Category != nil {
		var v dom.Category
		if v, err = dom.ParseCategory(*req.Category); err != nil {
			return patch, err
		}
		patch.Category = &v
	}
	if req.Intent != nil {
		var v dom.Intent
		if v, err = dom.ParseIntent(*req.Intent); err != nil {
			return patch, err
		}
		patch.Intent = &v
	}
	if req.Severity != nil {
		var v dom.Severity
		if v, err = dom.ParseSeverity(*req.Severity); err != nil {
			return patch, err
		}
		patch.Severity = &v
	}
	if req.Source != nil {
		var v dom.Source
		if v, err = dom.ParseSource(*req.Source); err != nil {
			return patch, err
		}
		patch.Source = &v
	}
	if req.Status != nil {
		var v dom.Status
		if v, err = dom.ParseStatus(*req.Status); err != nil {
			return patch, err
		}
		patch.Status = &v
	}
	return patch, nil
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func inputToResponse(in dom.Input) dto.InputResponse {
	return dto.InputResponse{
		ID:        in.ID,
		Text:      in.Text,
		Category:  string(in.Category),
		Intent:    string(in.Intent),
		Severity:  string(in.Severity),
		Source:    string(in.Source),
		Status:    string(in.Status),
		CreatedAt: in.CreatedAt,
	}
}

func inputsToResponses(list []dom.Input) []dto.InputResponse {
	out := make([]dto.InputResponse, len(list))
	for i := range list {
		out[i] = inputToResponse(list[i])
	}
	return out
}
