package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bencohensolal/seniorhub/internal/usecase"
	"github.com/bencohensolal/seniorhub/pkg/response"
)

func (h *Handler) ListMedications(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	meds, err := h.medications.ListMedications(r.Context(), chi.URLParam(r, "householdID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, meds)
}

func (h *Handler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body usecase.MedicationInput
	if !decodeBody(w, r, &body) {
		return
	}

	med, err := h.medications.CreateMedication(r.Context(), chi.URLParam(r, "householdID"), req.UserID, body)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, med)
}

func (h *Handler) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body usecase.MedicationInput
	if !decodeBody(w, r, &body) {
		return
	}

	med, err := h.medications.UpdateMedication(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "medicationID"), req.UserID, body)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, med)
}

func (h *Handler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	err := h.medications.DeleteMedication(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "medicationID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	reminders, err := h.medications.ListReminders(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "medicationID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, reminders)
}

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body usecase.ReminderInput
	if !decodeBody(w, r, &body) {
		return
	}

	reminder, err := h.medications.CreateReminder(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "medicationID"), req.UserID, body)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, reminder)
}

func (h *Handler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	var body usecase.ReminderInput
	if !decodeBody(w, r, &body) {
		return
	}

	reminder, err := h.medications.UpdateReminder(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "reminderID"), req.UserID, body)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, reminder)
}

func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(w, r)
	if !ok {
		return
	}

	err := h.medications.DeleteReminder(r.Context(), chi.URLParam(r, "householdID"), chi.URLParam(r, "reminderID"), req.UserID)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}
