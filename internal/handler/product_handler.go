package handler

import (
	"net/http"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /produtosのHTTP
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type ProductCreateRequest struct {
	Nome      string   `json:"nome" validate:"required"`
	Descricao string   `json:"descricao"`
	Preco     float64  `json:"preco" validate:"required,gt=0"`
	Promocao  *float64 `json:"promocao"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	// 一覧と詳細は公開
	e.GET("/produtos", h.list)
	e.GET("/produtos/:id", h.detail)

	g := e.Group("/produtos")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("", h.create)
	g.PATCH("/:id/ativar", h.activate)
	g.PATCH("/:id/desativar", h.deactivate)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "nome e preço são obrigatórios"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateProductInput{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Preco:     req.Preco,
		Promocao:  req.Promocao,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "produto criado com sucesso",
		"produto": out,
	})
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
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

func (h *ProductHandler) activate(c echo.Context) error {
	return h.setAtivo(c, true, "produto ativado com sucesso")
}

func (h *ProductHandler) deactivate(c echo.Context) error {
	return h.setAtivo(c, false, "produto desativado com sucesso")
}

func (h *ProductHandler) setAtivo(c echo.Context, ativo bool, message string) error {
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
		"produto": out,
	})
}
