// Package pagination 把有序集合切成固定大小的页。
package pagination

import (
	"context"
	"strconv"
)

// DefaultPageSize 所有列表共享的每页条数
const DefaultPageSize = 10

// Page 一页数据及翻页所需的元信息
type Page[T any] struct {
	Items        []T   `json:"items"`
	Number       int   `json:"number"`
	PageSize     int   `json:"page_size"`
	Count        int64 `json:"count"`
	NumPages     int   `json:"num_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page,omitempty"`
	PreviousPage int   `json:"previous_page,omitempty"`
}

// Len 当前页条数
func (p *Page[T]) Len() int { return len(p.Items) }

// CountFunc 返回集合总数
type CountFunc func(ctx context.Context) (int64, error)

// ListFunc 按 offset/limit 取出一段
type ListFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// NumPages 总页数；空集合也有一页
func NumPages(count int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// Clamp 把页码收敛到 [1, numPages]
func Clamp(number, numPages int) int {
	if number < 1 {
		return 1
	}
	if number > numPages {
		return numPages
	}
	return number
}

// ParseNumber 解析 ?page=；非整数按第一页处理
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// Paginate 先计数再取页，越界页码收敛到首页或末页而不是报错
func Paginate[T any](ctx context.Context, number, size int, count CountFunc, list ListFunc[T]) (*Page[T], error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	numPages := NumPages(total, size)
	number = Clamp(number, numPages)

	items := []T{}
	if total > 0 {
		items, err = list(ctx, (number-1)*size, size)
		if err != nil {
			return nil, err
		}
	}
	return newPage(items, number, size, total, numPages), nil
}

// Empty 空集合的第一页
func Empty[T any](size int) *Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return newPage([]T{}, 1, size, 0, 1)
}

func newPage[T any](items []T, number, size int, total int64, numPages int) *Page[T] {
	p := &Page[T]{
		Items:       items,
		Number:      number,
		PageSize:    size,
		Count:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if p.HasNext {
		p.NextPage = number + 1
	}
	if p.HasPrevious {
		p.PreviousPage = number - 1
	}
	return p
}
