package utils

import "math"

// Offset 页码从 1 开始，换算为零起始的偏移量。调用方需先确认 page 不超过总页数。
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return (page - 1) * limit
}

// TotalPages 向上取整，total 为 0 时返回 0
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NormalizePage 把页码和每页数量收敛到合法区间
func NormalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
