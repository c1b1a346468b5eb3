package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type HTTPError struct {
	Status  int
	Message string
	Cause   error // 500のときサーバ側ログに出す元エラー
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// NewInternalError は原因を握りつぶさずに500へ変換する
func NewInternalError(message string, cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// InsufficientStockError は在庫不足。
// レスポンスに現在庫と要求数を載せるため専用の型にする
type InsufficientStockError struct {
	Produto              string
	EstoqueDisponivel    int64
	QuantidadeSolicitada int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente para o produto %s: disponível %d, solicitado %d",
		e.Produto, e.EstoqueDisponivel, e.QuantidadeSolicitada)
}

func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var se *InsufficientStockError
	ok := errors.As(err, &se)
	return se, ok
}
