package handler

import (
	"net/http"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /carrinhoのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartAddRequest struct {
	IDUsuario  int64 `json:"idUsuario" validate:"required,gt=0"`
	IDProduto  int64 `json:"idProduto" validate:"required,gt=0"`
	Quantidade int64 `json:"quantidade"`
}

type CartQuantityRequest struct {
	Quantidade int64 `json:"quantidade" validate:"required,gte=1"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/carrinho")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/adicionar", h.addItem)
	g.POST("/moverParaPedido", h.moveToOrder)
	g.GET("/quantidade/:idUsuario", h.total)
	g.GET("/verificar/:idUsuario", h.checkAvailability)
	g.GET("/:idUsuario", h.list)
	g.PUT("/:id", h.updateQuantity)
	g.DELETE("/:id", h.removeItem)

	// 全削除だけはルート直下
	limpar := e.Group("/limpar")
	limpar.Use(middleware.AuthJWT(cfg))
	limpar.DELETE("/:idUsuario", h.clear)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req CartAddRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do usuário e id do produto são obrigatórios"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), usecase.AddCartItemInput{
		IDUsuario:  req.IDUsuario,
		IDProduto:  req.IDProduto,
		Quantidade: req.Quantidade,
	})
	if err != nil {
		return writeError(c, err)
	}

	// 既存行への加算は200、新規は201
	status := http.StatusCreated
	message := "item adicionado ao carrinho"
	if out.Merged {
		status = http.StatusOK
		message = "quantidade do item atualizada no carrinho"
	}

	return c.JSON(status, map[string]interface{}{
		"message": message,
		"item":    out.Item,
	})
}

type CartMoveRequest struct {
	IDUsuario int64 `json:"idUsuario" validate:"required,gt=0"`
}

func (h *CartHandler) moveToOrder(c echo.Context) error {
	var req CartMoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do usuário é obrigatório"})
	}

	out, err := h.uc.MoveToOrder(c.Request().Context(), req.IDUsuario)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":          "itens do carrinho movidos para pedido com sucesso",
		"itensProcessados": out.ItensProcessados,
	})
}

func (h *CartHandler) checkAvailability(c echo.Context) error {
	userID, ok := parseIDParam(c, "idUsuario")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.CheckAvailability(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) list(c echo.Context) error {
	userID, ok := parseIDParam(c, "idUsuario")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.ListItems(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateQuantity(c echo.Context) error {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), itemID, req.Quantidade)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "quantidade atualizada com sucesso",
		"item":    out,
	})
}

func (h *CartHandler) removeItem(c echo.Context) error {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	if err := h.uc.RemoveItem(c.Request().Context(), itemID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "item removido do carrinho",
	})
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := parseIDParam(c, "idUsuario")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "carrinho esvaziado com sucesso",
	})
}

func (h *CartHandler) total(c echo.Context) error {
	userID, ok := parseIDParam(c, "idUsuario")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.TotalQuantity(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
