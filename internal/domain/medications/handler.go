package medications

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dailydose/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Patch("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})
}

// createMedicationRequest es el cuerpo para registrar un medicamento.
type createMedicationRequest struct {
	Name     string `json:"name"`
	Form     string `json:"form" enums:"TABLET,CAPSULE,SYRUP,INJECTION,CREAM,DROPS,PATCH,OTHER"`
	Strength string `json:"strength"`
	Dosage   string `json:"dosage"`

	StartDate string `json:"start_date"`         // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"` // YYYY-MM-DD opcional
	IsOngoing bool   `json:"is_ongoing"`

	SpecificTimes []string `json:"specific_times"` // ["08:00", "20:00"]

	MealTiming   string `json:"meal_timing,omitempty" enums:"BEFORE_MEAL,AFTER_MEAL,WITH_MEAL,ON_EMPTY_STOMACH,ANYTIME"`
	Reminders    bool   `json:"reminders_enabled"`
	ReminderType string `json:"reminder_type,omitempty" enums:"DEFAULT,SILENT,LOUD"`

	PrescribedBy string `json:"prescribed_by,omitempty"`
	Notes        string `json:"notes,omitempty"`
	RefillCount  *int   `json:"refill_count,omitempty"`
	Category     string `json:"category,omitempty"`
}

type updateMedicationRequest struct {
	Name     *string `json:"name"`
	Form     *string `json:"form"`
	Strength *string `json:"strength"`
	Dosage   *string `json:"dosage"`

	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"` // "" explícito => borrar fecha fin
	IsOngoing *bool   `json:"is_ongoing"`

	SpecificTimes []string `json:"specific_times"`

	MealTiming   *string `json:"meal_timing"`
	Reminders    *bool   `json:"reminders_enabled"`
	ReminderType *string `json:"reminder_type"`

	PrescribedBy *string `json:"prescribed_by"`
	Notes        *string `json:"notes"`
	RefillCount  *int    `json:"refill_count"`
	Category     *string `json:"category"`

	Active *bool `json:"is_active"`
}

// medicationResponse representa un medicamento devuelto por la API.
type medicationResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name     string `json:"name"`
	Form     Form   `json:"form"`
	Strength string `json:"strength"`
	Dosage   string `json:"dosage"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	IsOngoing bool   `json:"is_ongoing"`

	TimesPerDay   int      `json:"times_per_day"`
	SpecificTimes []string `json:"specific_times"`

	MealTiming   *MealTiming  `json:"meal_timing,omitempty"`
	Reminders    bool         `json:"reminders_enabled"`
	ReminderType ReminderType `json:"reminder_type"`

	PrescribedBy string    `json:"prescribed_by,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RefillCount  *int      `json:"refill_count,omitempty"`
	Category     *Category `json:"category,omitempty"`

	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento para el usuario autenticado. Los horarios (`specific_times`) se validan al escribir: cualquier valor que no sea `HH:mm` devuelve 400. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createMedicationRequest true "Datos del medicamento; fechas en YYYY-MM-DD"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fechas u horarios inválidos / enum desconocido"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var endDate *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.ParseInLocation(dateLayout, req.EndDate, time.Local)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			endDate = &t
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:          req.Name,
			Form:          req.Form,
			Strength:      req.Strength,
			Dosage:        req.Dosage,
			StartDate:     startDate,
			EndDate:       endDate,
			IsOngoing:     req.IsOngoing,
			SpecificTimes: req.SpecificTimes,
			MealTiming:    req.MealTiming,
			Reminders:     req.Reminders,
			ReminderType:  req.ReminderType,
			PrescribedBy:  req.PrescribedBy,
			Notes:         req.Notes,
			RefillCount:   req.RefillCount,
			Category:      req.Category,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista los medicamentos del usuario autenticado. Con `date=YYYY-MM-DD` filtra solo los activos en esa fecha (mismo criterio que usa el cálculo de dosis).
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param date query string false "Fecha YYYY-MM-DD para filtrar activos"
// @Success 200 {array} medicationResponse
// @Failure 400 {string} string "date inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Medication
			err   error
		)

		if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
			date, perr := time.ParseInLocation(dateLayout, v, time.Local)
			if perr != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			items, err = svc.ListForDate(r.Context(), claims.UserID, date)
		} else {
			items, err = svc.ListByUser(r.Context(), claims.UserID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Ver medicamento
// @Description Devuelve un medicamento del usuario autenticado. Un medicamento ajeno responde 404 (no se filtra existencia).
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Editar medicamento
// @Description Actualiza campos puntuales (PATCH). Campos ausentes no se tocan; `end_date: ""` borra la fecha fin.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a cambiar"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / valores inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [patch]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), medicationID)
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:          req.Name,
			Form:          req.Form,
			Strength:      req.Strength,
			Dosage:        req.Dosage,
			IsOngoing:     req.IsOngoing,
			SpecificTimes: req.SpecificTimes,
			MealTiming:    req.MealTiming,
			Reminders:     req.Reminders,
			ReminderType:  req.ReminderType,
			PrescribedBy:  req.PrescribedBy,
			Notes:         req.Notes,
			RefillCount:   req.RefillCount,
			Category:      req.Category,
			Active:        req.Active,
		}

		if req.StartDate != nil {
			t, err := time.ParseInLocation(dateLayout, *req.StartDate, time.Local)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}
		if req.EndDate != nil {
			if strings.TrimSpace(*req.EndDate) == "" {
				in.ClearEnd = true
			} else {
				t, err := time.ParseInLocation(dateLayout, *req.EndDate, time.Local)
				if err != nil {
					http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
					return
				}
				in.EndDate = &t
			}
		}

		updated, err := svc.Update(r.Context(), medicationID, in)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicamento
// @Description Elimina el medicamento y cancela sus recordatorios.
// @Tags medications
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID del medicamento"
// @Success 204 {string} string "sin contenido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Failure 500 {string} string "internal error"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicationID := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), medicationID)
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), medicationID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	resp := medicationResponse{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Form:          m.Form,
		Strength:      m.Strength,
		Dosage:        m.Dosage,
		StartDate:     m.StartDate.Format(dateLayout),
		IsOngoing:     m.IsOngoing,
		TimesPerDay:   m.TimesPerDay,
		SpecificTimes: m.SpecificTimes,
		MealTiming:    m.MealTiming,
		Reminders:     m.RemindersEnabled,
		ReminderType:  m.ReminderType,
		PrescribedBy:  m.PrescribedBy,
		Notes:         m.Notes,
		RefillCount:   m.RefillCount,
		Category:      m.Category,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.EndDate != nil {
		resp.EndDate = m.EndDate.Format(dateLayout)
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
