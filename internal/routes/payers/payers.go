// Package payers serves the supported insurance payers list.
package payers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propsignal/leadmarket/internal/routes"
)

// Payer is a supported insurance payer.
type Payer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var payers = []Payer{
	{ID: "acme", Name: "Acme Health"},
}

func init() {
	routes.Register("payers", func(r gin.IRouter) {
		r.GET("/api/payers", list)
	})
}

func list(c *gin.Context) {
	c.JSON(http.StatusOK, payers)
}
