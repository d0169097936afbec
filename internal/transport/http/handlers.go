package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/service"
)

type motocycleRequest struct {
	Identifier string `json:"identificador"`
	Year       int    `json:"ano"`
	Model      string `json:"modelo"`
	Plate      string `json:"placa"`
}

type motocycleResponse struct {
	Identifier string `json:"identificador"`
	Year       int    `json:"ano"`
	Model      string `json:"modelo"`
	Plate      string `json:"placa"`
}

type plateUpdateRequest struct {
	Plate string `json:"placa"`
}

type partnerRequest struct {
	Identifier    string    `json:"identificador"`
	Name          string    `json:"nome"`
	Cnpj          string    `json:"cnpj"`
	DateOfBirth   time.Time `json:"data_nascimento"`
	LicenseNumber string    `json:"numero_cnh"`
	LicenseType   string    `json:"tipo_cnh"`
}

type rentalRequest struct {
	PartnerID       string    `json:"entregador_id"`
	MotocycleID     string    `json:"moto_id"`
	StartDate       time.Time `json:"data_inicio"`
	EndDate         time.Time `json:"data_termino"`
	ExpectedEndDate time.Time `json:"data_previsao_termino"`
	PlanDays        int       `json:"plano"`
}

type rentalResponse struct {
	Identifier      string    `json:"identificador"`
	PartnerID       string    `json:"entregador_id"`
	MotocycleID     string    `json:"moto_id"`
	StartDate       time.Time `json:"data_inicio"`
	EndDate         time.Time `json:"data_termino"`
	ExpectedEndDate time.Time `json:"data_previsao_termino"`
	PlanDays        int       `json:"plano"`
	DailyRate       float64   `json:"valor_diaria"`
	TotalValue      float64   `json:"valor_total"`
}

type returnRequest struct {
	ReturnDate time.Time `json:"data_devolucao"`
}

type returnResponse struct {
	Message string `json:"mensagem"`
}

type fleetHandler struct {
	fleet *service.FleetService
}

func (h *fleetHandler) register(w http.ResponseWriter, r *http.Request) {
	var req motocycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidData)
		return
	}

	err := h.fleet.Register(r.Context(), service.FleetInput{
		Identifier: req.Identifier,
		Year:       req.Year,
		Model:      req.Model,
		Plate:      req.Plate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *fleetHandler) search(w http.ResponseWriter, r *http.Request) {
	motos, err := h.fleet.Search(r.Context(), r.URL.Query().Get("placa"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]motocycleResponse, 0, len(motos))
	for _, m := range motos {
		out = append(out, toMotocycleResponse(&m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *fleetHandler) getByID(w http.ResponseWriter, r *http.Request) {
	moto, err := h.fleet.GetByIdentifier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMotocycleResponse(moto))
}

func (h *fleetHandler) updatePlate(w http.ResponseWriter, r *http.Request) {
	var req plateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidData)
		return
	}

	if err := h.fleet.UpdatePlate(r.Context(), chi.URLParam(r, "id"), req.Plate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Message: "Placa modificada com sucesso"})
}

func toMotocycleResponse(m *domain.Motocycle) motocycleResponse {
	return motocycleResponse{
		Identifier: m.Identifier,
		Year:       m.Year,
		Model:      m.Model,
		Plate:      m.Plate,
	}
}

type partnerHandler struct {
	partners *service.PartnerService
}

func (h *partnerHandler) register(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidData)
		return
	}

	err := h.partners.Register(r.Context(), service.PartnerInput{
		Identifier:    req.Identifier,
		Name:          req.Name,
		Cnpj:          req.Cnpj,
		DateOfBirth:   req.DateOfBirth,
		LicenseNumber: req.LicenseNumber,
		LicenseType:   req.LicenseType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type rentalHandler struct {
	rentals *service.RentalService
}

func (h *rentalHandler) create(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidData)
		return
	}

	rental, err := h.rentals.Create(r.Context(), service.CreateRentalInput{
		PartnerID:       req.PartnerID,
		MotocycleID:     req.MotocycleID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		ExpectedEndDate: req.ExpectedEndDate,
		PlanDays:        req.PlanDays,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalResponse(rental))
}

func (h *rentalHandler) getByID(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentals.GetByIdentifier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *rentalHandler) updateReturnDate(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidData)
		return
	}

	_, details, err := h.rentals.UpdateExpectedEndDate(r.Context(), chi.URLParam(r, "id"), req.ReturnDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Message: details})
}

func toRentalResponse(rental *domain.Rental) rentalResponse {
	return rentalResponse{
		Identifier:      rental.Identifier,
		PartnerID:       rental.PartnerID,
		MotocycleID:     rental.MotocycleID,
		StartDate:       rental.StartDate,
		EndDate:         rental.EndDate,
		ExpectedEndDate: rental.ExpectedEndDate,
		PlanDays:        rental.PlanDays,
		DailyRate:       rental.DailyRate,
		TotalValue:      rental.TotalValue,
	}
}
