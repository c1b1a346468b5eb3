package handler

import (
	"net/http"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /pedidosのHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderItemRequest struct {
	IDProduto  int64 `json:"idProduto" validate:"required,gt=0"`
	Quantidade int64 `json:"quantidade" validate:"required,gte=1"`
}

type OrderCreateRequest struct {
	IDUsuario       int64              `json:"idUsuario" validate:"required,gt=0"`
	IDCupom         *int64             `json:"idCupom"`
	ValorTotal      float64            `json:"valorTotal" validate:"required,gt=0"`
	EnderecoEntrega string             `json:"enderecoEntrega" validate:"required"`
	Itens           []OrderItemRequest `json:"itens" validate:"required,min=1,dive"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderCancelRequest struct {
	Motivo string `json:"motivo"`
}

type OrderCouponRequest struct {
	IDCupom int64 `json:"idCupom" validate:"required,gt=0"`
}

type OrderAddressRequest struct {
	EnderecoEntrega string `json:"enderecoEntrega" validate:"required"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/pedidos")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/periodo", h.listByPeriod)
	g.GET("/estatisticas/geral", h.stats)
	g.GET("/usuario/:idUsuario", h.listByUser)
	g.GET("/status/:status", h.listByStatus)
	g.GET("/:id", h.detail)
	g.PUT("/:id/status", h.updateStatus)
	g.PATCH("/:id/cancelar", h.cancel)
	g.PUT("/:id/cupom", h.applyCoupon)
	g.PUT("/:id/endereco", h.updateAddress)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "usuário, valor total, endereço e itens são obrigatórios"})
	}

	itens := make([]usecase.OrderItemInput, 0, len(req.Itens))
	for _, it := range req.Itens {
		itens = append(itens, usecase.OrderItemInput{IDProduto: it.IDProduto, Quantidade: it.Quantidade})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateOrderInput{
		IDUsuario:       req.IDUsuario,
		IDCupom:         req.IDCupom,
		ValorTotal:      req.ValorTotal,
		EnderecoEntrega: req.EnderecoEntrega,
		Itens:           itens,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "pedido criado com sucesso",
		"numeroPedido": out.Pedido.ID,
		"pedido":       out.Pedido,
		"itens":        out.Itens,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
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

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "status do pedido atualizado com sucesso",
		"pedido":  out,
	})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req OrderCancelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.Cancel(c.Request().Context(), id, req.Motivo)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "pedido cancelado com sucesso",
		"motivo":  out.Motivo,
		"pedido":  out.Pedido,
	})
}

func (h *OrderHandler) applyCoupon(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req OrderCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do cupom é obrigatório"})
	}

	out, err := h.uc.ApplyCoupon(c.Request().Context(), id, req.IDCupom)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":          "cupom aplicado com sucesso",
		"desconto":         out.Desconto,
		"valorOriginal":    out.ValorOriginal,
		"valorComDesconto": out.ValorComDesconto,
		"pedido":           out.Pedido,
	})
}

func (h *OrderHandler) updateAddress(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req OrderAddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.UpdateAddress(c.Request().Context(), id, req.EnderecoEntrega)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "endereço de entrega atualizado com sucesso",
		"pedido":  out,
	})
}

func (h *OrderHandler) listByUser(c echo.Context) error {
	userID, ok := parseIDParam(c, "idUsuario")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByStatus(c echo.Context) error {
	out, err := h.uc.ListByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByPeriod(c echo.Context) error {
	out, err := h.uc.ListByPeriod(c.Request().Context(), c.QueryParam("dataInicio"), c.QueryParam("dataFim"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
