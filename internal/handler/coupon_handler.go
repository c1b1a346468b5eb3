package handler

import (
	"net/http"
	"strconv"
	"time"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cuponsのHTTP
type CouponHandler struct {
	uc *usecase.CouponUsecase
}

// DI
func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

type CouponCreateRequest struct {
	Codigo             string  `json:"codigo" validate:"required"`
	DescontoPercentual float64 `json:"descontoPercentual" validate:"required,gt=0,lte=100"`
	DataValidade       string  `json:"dataValidade" validate:"required"`
	UsoUnico           *bool   `json:"usoUnico"`
}

type CouponValidateRequest struct {
	Codigo string `json:"codigo"`
}

type CouponUpdateRequest struct {
	Codigo             *string  `json:"codigo"`
	DescontoPercentual *float64 `json:"descontoPercentual"`
	DataValidade       *string  `json:"dataValidade"`
	UsoUnico           *bool    `json:"usoUnico"`
	Ativo              *bool    `json:"ativo"`
}

func (h *CouponHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cupons")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/ativos", h.listActive)
	g.GET("/expirados", h.listExpired)
	g.GET("/estatisticas", h.stats)
	g.POST("/validar", h.validate)
	g.GET("/codigo/:codigo", h.byCode)
	g.GET("/:id", h.detail)
	g.PUT("/:id", h.update)
	g.PATCH("/:id/ativar", h.activate)
	g.PATCH("/:id/desativar", h.deactivate)
	g.DELETE("/:id", h.delete)
}

// dataValidadeはISOか日付だけの形式を受ける
func parseValidade(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (h *CouponHandler) create(c echo.Context) error {
	var req CouponCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "código, desconto percentual e data de validade são obrigatórios"})
	}

	validade, ok := parseValidade(req.DataValidade)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "data de validade inválida"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateCouponInput{
		Codigo:             req.Codigo,
		DescontoPercentual: req.DescontoPercentual,
		DataValidade:       validade,
		UsoUnico:           req.UsoUnico,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "cupom criado com sucesso",
		"cupom":   out,
	})
}

func (h *CouponHandler) update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req CouponUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	in := usecase.UpdateCouponInput{
		Codigo:             req.Codigo,
		DescontoPercentual: req.DescontoPercentual,
		UsoUnico:           req.UsoUnico,
		Ativo:              req.Ativo,
	}
	if req.DataValidade != nil {
		validade, ok := parseValidade(*req.DataValidade)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "data de validade inválida"})
		}
		in.DataValidade = &validade
	}

	out, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "cupom atualizado com sucesso",
		"cupom":   out,
	})
}

func (h *CouponHandler) activate(c echo.Context) error {
	return h.setAtivo(c, true, "cupom ativado com sucesso")
}

func (h *CouponHandler) deactivate(c echo.Context) error {
	return h.setAtivo(c, false, "cupom desativado com sucesso")
}

func (h *CouponHandler) setAtivo(c echo.Context, ativo bool, message string) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.SetAtivo(c.Request().Context(), id, ativo)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": message,
		"cupom":   out,
	})
}

func (h *CouponHandler) delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "cupom removido com sucesso",
	})
}

func (h *CouponHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) validate(c echo.Context) error {
	var req CouponValidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.ValidateByCode(c.Request().Context(), req.Codigo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) byCode(c echo.Context) error {
	out, err := h.uc.GetByCode(c.Request().Context(), c.Param("codigo"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) list(c echo.Context) error {
	page, limit := parsePageLimit(c)

	var ativo *bool
	if v := c.QueryParam("ativo"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "filtro ativo inválido"})
		}
		ativo = &b
	}

	out, err := h.uc.List(c.Request().Context(), page, limit, ativo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) listActive(c echo.Context) error {
	out, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) listExpired(c echo.Context) error {
	page, limit := parsePageLimit(c)

	out, err := h.uc.ListExpired(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CouponHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
