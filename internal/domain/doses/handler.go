package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dailydose/internal/domain/medications"
	"dailydose/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/doses", func(dr chi.Router) {
		dr.Get("/today", todayDosesHandler(svc))
		dr.Get("/day", dayDosesHandler(svc))

		dr.Post("/taken", markTakenHandler(svc, medsSvc))
		dr.Post("/{doseID}/status", updateDoseStatusHandler(svc))
	})

	// Historial de logs por medicamento
	r.Get("/medications/{medicationID}/doses", listMedicationDosesHandler(svc, medsSvc))
}

// doseResponse representa una toma (calculada o logueada) devuelta por la API.
type doseResponse struct {
	ID           string `json:"id,omitempty"`
	MedicationID string `json:"medication_id"`
	UserID       string `json:"user_id"`

	DoseTime      time.Time `json:"dose_time"`
	ScheduledTime string    `json:"scheduled_time"`
	Status        Status    `json:"status"`

	TakenAt *time.Time `json:"taken_at,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// enrichedDoseResponse agrega los datos de presentación del medicamento.
type enrichedDoseResponse struct {
	doseResponse

	MedicationName     string                  `json:"medication_name"`
	MedicationStrength string                  `json:"medication_strength"`
	MedicationForm     string                  `json:"medication_form"`
	MedicationDosage   string                  `json:"medication_dosage"`
	MealTiming         *medications.MealTiming `json:"meal_timing,omitempty"`
}

// dayViewResponse es la vista completa de un día: tomas + contadores.
type dayViewResponse struct {
	Date  string                 `json:"date"`
	Doses []enrichedDoseResponse `json:"doses"`

	TakenCount   int `json:"taken_count"`
	PendingCount int `json:"pending_count"`
	MissedCount  int `json:"missed_count"`
}

// todayDosesHandler godoc
// @Summary Tomas de hoy
// @Description Devuelve las tomas esperadas de hoy para el usuario autenticado, cruzadas contra los logs reales. Sin log, el estado sale de la hora: DUE dentro de ±30 minutos del horario, UPCOMING antes, MISSED después.
// @Tags doses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} dayViewResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /doses/today [get]
func todayDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		view, err := svc.TodayView(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDayViewResponse(view))
	}
}

// dayDosesHandler godoc
// @Summary Tomas de una fecha
// @Description Vista de historial: tomas esperadas de la fecha dada cruzadas con los logs. En días distintos a hoy, toda toma sin log figura MISSED.
// @Tags doses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param date query string true "Fecha YYYY-MM-DD"
// @Success 200 {object} dayViewResponse
// @Failure 400 {string} string "date inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /doses/day [get]
func dayDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(r.URL.Query().Get("date")), time.Local)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		view, err := svc.DayView(r.Context(), claims.UserID, date)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDayViewResponse(view))
	}
}

// markTakenRequest es el cuerpo para registrar una toma como tomada.
type markTakenRequest struct {
	MedicationID  string `json:"medication_id"`
	DoseTime      string `json:"dose_time"` // RFC3339
	ScheduledTime string `json:"scheduled_time"`
	Notes         string `json:"notes,omitempty"`
}

// markTakenHandler godoc
// @Summary Marcar toma como tomada
// @Description Crea el log TAKEN de una toma del usuario autenticado. El medicamento debe pertenecerle. Marcar dos veces el mismo slot genera logs duplicados; la reconciliación elige uno de forma determinista.
// @Tags doses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body markTakenRequest true "Toma a registrar; dose_time en RFC3339"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "invalid json / dose_time inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /doses/taken [post]
func markTakenHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req markTakenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		owner, err := medsSvc.OwnerOf(r.Context(), req.MedicationID)
		if err != nil || owner != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		doseTime, err := time.Parse(time.RFC3339, req.DoseTime)
		if err != nil {
			http.Error(w, "dose_time must be RFC3339", http.StatusBadRequest)
			return
		}

		entry, err := svc.MarkTaken(r.Context(), claims.UserID, MarkTakenInput{
			MedicationID:  req.MedicationID,
			DoseTime:      doseTime,
			ScheduledTime: req.ScheduledTime,
			Notes:         req.Notes,
		})
		if err != nil {
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toDoseResponse(entry))
	}
}

type updateStatusRequest struct {
	Status string `json:"status" enums:"TAKEN,MISSED,SKIPPED"`
}

// updateDoseStatusHandler godoc
// @Summary Cambiar estado de un log
// @Description Actualiza el estado de un log existente (ej: SKIPPED explícito). Solo sobre logs propios y solo a estados persistibles (TAKEN/MISSED/SKIPPED); UPCOMING y DUE se derivan en cada consulta.
// @Tags doses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param doseID path string true "ID del log"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} doseResponse
// @Failure 400 {string} string "estado desconocido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dose not found"
// @Router /doses/{doseID}/status [post]
func updateDoseStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		doseID := chi.URLParam(r, "doseID")
		d, err := svc.GetByID(r.Context(), doseID)
		if err != nil || d.UserID != claims.UserID {
			http.Error(w, "dose not found", http.StatusNotFound)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		status, err := ParseStatus(strings.TrimSpace(req.Status))
		if err != nil {
			http.Error(w, "status must be TAKEN, MISSED or SKIPPED", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), doseID, status)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "status must be TAKEN, MISSED or SKIPPED", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDoseResponse(updated))
	}
}

// listMedicationDosesHandler godoc
// @Summary Historial de logs de un medicamento
// @Description Lista los logs persistidos de un medicamento del usuario autenticado, más reciente primero.
// @Tags doses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {array} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Failure 500 {string} string "internal error"
// @Router /medications/{medicationID}/doses [get]
func listMedicationDosesHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		owner, err := medsSvc.OwnerOf(r.Context(), medicationID)
		if err != nil || owner != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByMedication(r.Context(), medicationID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDoseResponse(d))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toDoseResponse(d Dose) doseResponse {
	return doseResponse{
		ID:            d.ID,
		MedicationID:  d.MedicationID,
		UserID:        d.UserID,
		DoseTime:      d.DoseTime,
		ScheduledTime: d.ScheduledTime,
		Status:        d.Status,
		TakenAt:       d.TakenAt,
		Notes:         d.Notes,
	}
}

func toDayViewResponse(v DayView) dayViewResponse {
	out := dayViewResponse{
		Date:         v.Date.Format(dateLayout),
		Doses:        make([]enrichedDoseResponse, 0, len(v.Doses)),
		TakenCount:   v.TakenCount,
		PendingCount: v.PendingCount,
		MissedCount:  v.MissedCount,
	}

	for _, d := range v.Doses {
		out.Doses = append(out.Doses, enrichedDoseResponse{
			doseResponse:       toDoseResponse(d.Dose),
			MedicationName:     d.MedicationName,
			MedicationStrength: d.MedicationStrength,
			MedicationForm:     d.MedicationForm,
			MedicationDosage:   d.MedicationDosage,
			MealTiming:         d.MealTiming,
		})
	}

	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
