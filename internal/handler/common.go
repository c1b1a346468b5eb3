package handler

import (
	"net/http"
	"strconv"

	"loja/internal/middleware"
	"loja/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// 在庫不足は現在庫と要求数を本文に載せる
type insufficientStockResponse struct {
	Error                string `json:"error"`
	Produto              string `json:"produto,omitempty"`
	EstoqueDisponivel    int64  `json:"estoqueDisponivel"`
	QuantidadeSolicitada int64  `json:"quantidadeSolicitada"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := usecase.AsInsufficientStock(err); ok {
		return c.JSON(http.StatusBadRequest, insufficientStockResponse{
			Error:                "estoque insuficiente",
			Produto:              se.Produto,
			EstoqueDisponivel:    se.EstoqueDisponivel,
			QuantidadeSolicitada: se.QuantidadeSolicitada,
		})
	}
	if atual, solicitada, ok := usecase.AsInsufficientExit(err); ok {
		return c.JSON(http.StatusBadRequest, insufficientStockResponse{
			Error:                "quantidade insuficiente em estoque",
			EstoqueDisponivel:    atual,
			QuantidadeSolicitada: solicitada,
		})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		// 500系は原因付きでサーバ側に残す
		if he.Status >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "erro interno do servidor"})
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// page/limitのクエリを読む（不正値はゼロ扱いでusecase側のdefaultに任せる）
func parsePageLimit(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
