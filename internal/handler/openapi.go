package handler

import (
	"net/http"

	"github.com/JakubPluta/emp-worklog/docs"
	"github.com/gin-gonic/gin"
)

// OpenAPIDoc returns the OpenAPI document.
func OpenAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
}
