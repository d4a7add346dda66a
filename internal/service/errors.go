package service

import (
	"errors"
	"fmt"

	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/validation"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError 表单校验失败，携带按字段分组的消息
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Errors.Error() }

func invalid(errs validation.Errors) error {
	if errs.OK() {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// notFound 把仓储层的 ErrNotFound 转成服务层错误
func notFound(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
