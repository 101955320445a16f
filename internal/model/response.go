package model

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Message string `json:"message"`
}

type PageQuery struct {
	Offset int `form:"offset,default=0" binding:"min=0"`
	Limit  int `form:"limit,default=10" binding:"min=1"`
}

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}
