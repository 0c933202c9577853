package health

import (
	"net/http"

	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
)

type statusResponse struct {
	Status string `json:"status"`
}

// Status reports liveness. It touches no state.
func Status(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
