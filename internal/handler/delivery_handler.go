package handler

import (
	"net/http"
	"time"

	"loja/internal/config"
	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /entregasのHTTP
type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

// DI
func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

type DeliveryCreateRequest struct {
	IDPedido           int64  `json:"idPedido" validate:"required,gt=0"`
	Transportadora     string `json:"transportadora" validate:"required"`
	CodigoRastreamento string `json:"codigoRastreamento" validate:"required"`
	DataEnvio          string `json:"dataEnvio"`
}

type DeliveryStatusRequest struct {
	StatusEntrega string `json:"statusEntrega" validate:"required"`
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/entregas")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/rastreamento/:codigo", h.byTracking)
	g.GET("/pedido/:idPedido", h.byOrder)
	g.GET("/:id", h.detail)
	g.PUT("/:id/status", h.updateStatus)
}

func (h *DeliveryHandler) create(c echo.Context) error {
	var req DeliveryCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id do pedido, transportadora e código de rastreamento são obrigatórios"})
	}

	in := usecase.CreateDeliveryInput{
		IDPedido:           req.IDPedido,
		Transportadora:     req.Transportadora,
		CodigoRastreamento: req.CodigoRastreamento,
	}
	if req.DataEnvio != "" {
		t, err := time.Parse(time.RFC3339, req.DataEnvio)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "data de envio inválida"})
		}
		in.DataEnvio = &t
	}

	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "entrega registrada com sucesso",
		"entrega": out,
	})
}

func (h *DeliveryHandler) updateStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	var req DeliveryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "corpo da requisição inválido"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), id, req.StatusEntrega)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "status da entrega atualizado com sucesso",
		"entrega": out,
	})
}

func (h *DeliveryHandler) detail(c echo.Context) error {
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

func (h *DeliveryHandler) byOrder(c echo.Context) error {
	orderID, ok := parseIDParam(c, "idPedido")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id inválido"})
	}

	out, err := h.uc.GetByOrderID(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) byTracking(c echo.Context) error {
	out, err := h.uc.GetByTracking(c.Request().Context(), c.Param("codigo"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) list(c echo.Context) error {
	page, limit := parsePageLimit(c)

	out, err := h.uc.List(c.Request().Context(), page, limit, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
