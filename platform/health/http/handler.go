package http

import (
	"encoding/json"
	"net/http"
)

// Handler возвращает HTTP handler для health check endpoint.
// Возвращает 200 OK с JSON телом {"status":"ok"} если readiness функция не указана
// или если readiness функция возвращает true.
// Возвращает 503 Service Unavailable если readiness функция указана и возвращает false.
func Handler(readiness func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readiness != nil && !readiness() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// CheckHandler возвращает HTTP handler для health check отдельного компонента
// (например, брокера). Проверка не влияет на основной request path: это
// независимый endpoint для внешнего мониторинга.
// Возвращает {"status":"ok","<name>":"connected"} или 503 с "disconnected".
func CheckHandler(name string, check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if check == nil || !check() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "error", name: "disconnected"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok", name: "connected"})
	}
}
