package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType 错误类别
type ErrorType string

const (
	ErrorTypeDocumentLoad ErrorType = "document_load"
	ErrorTypeUsage        ErrorType = "usage"
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeLaunch       ErrorType = "launch"
	ErrorTypeRender       ErrorType = "render"
)

// ErrHelpRequested 用户显式请求帮助时返回，退出码为 0
var ErrHelpRequested = stderrors.New("help requested")

// AppError 结构化的应用错误
type AppError struct {
	Type    ErrorType
	Message string
	Details string
	Cause   error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewDocumentLoadError 文档缺失、不可读或不是有效 PDF
func NewDocumentLoadError(path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDocumentLoad,
		Message: "cannot open document",
		Details: path,
		Cause:   cause,
	}
}

// NewUsageError 命令行参数错误
func NewUsageError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUsage,
		Message: message,
	}
}

// NewNetworkError 网页加载等网络失败，非致命
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Cause:   cause,
	}
}

// NewLaunchError 外部进程或系统打开失败
func NewLaunchError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeLaunch,
		Message: message,
		Cause:   cause,
	}
}

// NewRenderError 绘制或编码帧失败
func NewRenderError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeRender,
		Message: message,
		Cause:   cause,
	}
}

// IsType 检查错误链中是否存在指定类别的 AppError
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// ExitCode 返回错误对应的进程退出码：无错误或用户请求帮助为 0，其余错误（含用法错误）均为 1
func ExitCode(err error) int {
	if err == nil || stderrors.Is(err, ErrHelpRequested) {
		return 0
	}
	return 1
}
