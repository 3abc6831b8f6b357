package health

import (
	"net/http"

	"github.com/indieinfra/mediaprep/server/resp"
)

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.WriteOK(w, map[string]string{"status": "ok"})
	}
}
