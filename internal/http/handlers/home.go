package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	pages *Pages
}

func NewHomeHandler(pages *Pages) *HomeHandler {
	return &HomeHandler{pages: pages}
}

// Home shows the caller's own submissions when signed in and everyone's always.
func (h *HomeHandler) Home(ctx *gin.Context) {
	h.pages.Home(ctx, http.StatusOK, "")
}
