package handler

import (
	"github.com/JakubPluta/emp-worklog/internal/model"
	"github.com/gin-gonic/gin"
)

func bindPage(c *gin.Context) (model.PageQuery, bool) {
	var q model.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return q, false
	}
	return q, true
}

func newPage[E, R any](items []E, total int64, q model.PageQuery, view func(*E) R) model.Page[R] {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i]))
	}
	return model.Page[R]{Items: out, Total: total, Offset: q.Offset, Limit: q.Limit}
}
