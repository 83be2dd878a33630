// Package currencies отдаёт справочник поддерживаемых валют.
package currencies

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/currency"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Список валют
// @Tags Currencies
// @Produce  json
// @Success 200 {object} response.Response{data=[]currency.Currency}
// @Router /currencies [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(currency.All()))
}
