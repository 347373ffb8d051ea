// Package states serves the supported US states list.
package states

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propsignal/leadmarket/internal/routes"
)

// State is a supported US state.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var states = []State{
	{Code: "AL", Name: "Alabama"},
	{Code: "GA", Name: "Georgia"},
}

func init() {
	routes.Register("states", func(r gin.IRouter) {
		r.GET("/api/states", list)
	})
}

func list(c *gin.Context) {
	c.JSON(http.StatusOK, states)
}
