package error

import (
	"encoding/json"
	"net/http"
)

type ErrorMessage struct {
	Error interface{} `json:"error"`
}

func ReturnJSONError(rw http.ResponseWriter, errorMessage interface{}, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)

	errorResponse := ErrorMessage{Error: errorMessage}
	jsonResponse, err := json.Marshal(errorResponse)
	if err != nil {
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rw.Write(jsonResponse)
}
