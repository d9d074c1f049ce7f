package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/collectgame/server/internal/app"
)

// errorBody is the {code,message} shape spec.md §7 requires for every
// non-2xx JSON response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a façade error to its HTTP status and JSON body
// (spec.md §6 status table, §7 error kinds).
func writeError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *app.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalidArgument", Message: e.Error()})
	case *app.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorBody{Code: "mapNotFound", Message: e.Error()})
	case *app.AuthError:
		code := "invalidToken"
		if e.Kind == app.AuthUnknown {
			code = "unknownToken"
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: code, Message: e.Error()})
	case *app.MethodNotAllowedError:
		w.Header().Set("Allow", strings.Join(e.Allowed, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "invalidMethod", Message: e.Error()})
	case *app.ManualTickDisabledError:
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalidArgument", Message: e.Error()})
	case *app.StorageError:
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "storageError", Message: "internal error"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internalError", Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
