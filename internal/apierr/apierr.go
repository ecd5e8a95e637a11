// Package apierr 定义带 HTTP 语义的错误
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error 业务错误，携带 HTTP 状态码和错误码
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建业务错误
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// NotConfigured 缺少凭据或配置（503）
func NotConfigured(code, msg string) *Error {
	return New(http.StatusServiceUnavailable, code, errors.New(msg))
}

// Upstream 第三方接口失败（502）
func Upstream(code string, err error) *Error {
	return New(http.StatusBadGateway, code, err)
}

// NotFound 资源不存在（404）
func NotFound(code, msg string) *Error {
	return New(http.StatusNotFound, code, errors.New(msg))
}

// BadRequest 参数错误（400）
func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Unauthorized 认证失败（401）
func Unauthorized(code, msg string) *Error {
	return New(http.StatusUnauthorized, code, errors.New(msg))
}

// Forbidden 无权限（403）
func Forbidden(code, msg string) *Error {
	return New(http.StatusForbidden, code, errors.New(msg))
}

// As 提取错误链上的 *Error
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf 返回错误对应的 HTTP 状态码，未知错误为 500
func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// CodeOf 返回错误码，未知错误为 INTERNAL_ERROR
func CodeOf(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return "INTERNAL_ERROR"
}

// Response 错误响应体
type Response struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
	Timestamp string `json:"timestamp"`
}

// ResponseOf 构造错误响应体，未知错误不暴露内部信息
func ResponseOf(err error, now time.Time) Response {
	msg := "Internal server error"
	if e, ok := As(err); ok {
		if e.Err != nil {
			msg = e.Err.Error()
		} else if e.Status != 0 {
			msg = http.StatusText(e.Status)
		}
	}
	return Response{
		Message:   msg,
		ErrorCode: CodeOf(err),
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}
