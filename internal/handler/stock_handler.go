package handler

import (
	"net/http"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /estoqueのHTTP。台帳の読み書きだけを仲介する
type StockHandler struct {
	uc *usecase.StockUsecase
}

// DI
func NewStockHandler(uc *usecase.StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

type StockMovementRequest struct {
	IDProduto    int64  `json:"idProduto" validate:"required,gt=0"`
	Quantidade   int64  `json:"quantidade" validate:"required"`
	Movimentacao string `json:"movimentacao" validate:"required"`
}

type StockAdjustRequest struct {
	IDProduto      int64  `json:"idProduto" validate:"required,gt=0"`
	NovaQuantidade int64  `json:"novaQuantidade"`
	Motivo         string `json:"motivo" validate:"required"`
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/estoque")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.entry)
	g.GET("", h.listAll)
	g.GET("/baixo", h.listLow)
	g.GET("/historico", h.history)
	g.GET("/periodo", h.listByPeriod)
	g.POST("/saida", h.exit)
	g.POST("/ajustar", h.adjust)
	g.GET("/produto/:idProduto", h.byProduct)
	g.GET("/consultar/:idProduto", h.consult)
	g.GET("/quantidade/:idProduto", h.quantity)
}

func (h *StockHandler) entry(c echo.Context) error {
	var req StockMovementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do produto, quantidade e movimentação são obrigatórios"})
	}

	out, err := h.uc.AddEntry(c.Request().Context(), usecase.MovementInput{
		IDProduto:    req.IDProduto,
		Quantidade:   req.Quantidade,
		Movimentacao: req.Movimentacao,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "entrada de estoque registrada com sucesso",
		"movimentacao": out,
	})
}

func (h *StockHandler) exit(c echo.Context) error {
	var req StockMovementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do produto, quantidade e movimentação são obrigatórios"})
	}

	out, err := h.uc.RegisterExit(c.Request().Context(), usecase.MovementInput{
		IDProduto:    req.IDProduto,
		Quantidade:   req.Quantidade,
		Movimentacao: req.Movimentacao,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "saída de estoque registrada com sucesso",
		"movimentacao": out.Movimentacao,
		"estoqueAtual": out.EstoqueAtual,
	})
}

func (h *StockHandler) adjust(c echo.Context) error {
	var req StockAdjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do produto e motivo são obrigatórios"})
	}

	out, err := h.uc.AdjustTo(c.Request().Context(), usecase.AdjustInput{
		IDProduto:      req.IDProduto,
		NovaQuantidade: req.NovaQuantidade,
		Motivo:         req.Motivo,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "ajuste de estoque realizado com sucesso",
		"ajuste":  out,
	})
}

func (h *StockHandler) quantity(c echo.Context) error {
	id, ok := parseIDParam(c, "idProduto")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.CurrentQuantity(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) consult(c echo.Context) error {
	id, ok := parseIDParam(c, "idProduto")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.Consult(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) byProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "idProduto")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) history(c echo.Context) error {
	out, err := h.uc.ListHistory(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) listByPeriod(c echo.Context) error {
	out, err := h.uc.ListByPeriod(c.Request().Context(), c.QueryParam("dataInicio"), c.QueryParam("dataFim"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) listAll(c echo.Context) error {
	out, err := h.uc.ListAllStocks(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) listLow(c echo.Context) error {
	out, err := h.uc.ListLowStock(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
