package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joaopjk/moto-manager/internal/clock"
	"github.com/joaopjk/moto-manager/internal/domain"
	"github.com/joaopjk/moto-manager/internal/service"
)

type stubFleetRepo struct {
	motos map[string]*domain.Motocycle
}

func (r *stubFleetRepo) GetMotocycleByIdentifier(ctx context.Context, identifier string) (*domain.Motocycle, error) {
	return r.motos[identifier], nil
}

func (r *stubFleetRepo) GetMotocycleByPlate(ctx context.Context, plate string) (*domain.Motocycle, error) {
	for _, m := range r.motos {
		if m.Plate == plate {
			return m, nil
		}
	}
	return nil, nil
}

func (r *stubFleetRepo) GetAllMotocycles(ctx context.Context) ([]domain.Motocycle, error) {
	out := make([]domain.Motocycle, 0, len(r.motos))
	for _, m := range r.motos {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubFleetRepo) InsertMotocycle(ctx context.Context, moto *domain.Motocycle) error {
	r.motos[moto.Identifier] = moto
	return nil
}

func (r *stubFleetRepo) UpdateMotocycle(ctx context.Context, moto *domain.Motocycle) error {
	r.motos[moto.Identifier] = moto
	return nil
}

type stubPartnerRepo struct{}

func (stubPartnerRepo) GetPartnerByIdentifier(ctx context.Context, identifier string) (*domain.DeliveryPartner, error) {
	return nil, nil
}

func (stubPartnerRepo) GetPartnerByCnpj(ctx context.Context, cnpj string) (*domain.DeliveryPartner, error) {
	return nil, nil
}

func (stubPartnerRepo) GetPartnerByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.DeliveryPartner, error) {
	return nil, nil
}

func (stubPartnerRepo) InsertPartner(ctx context.Context, partner *domain.DeliveryPartner) error {
	return nil
}

type stubRentalRepo struct{}

func (stubRentalRepo) GetRentalByMotocycleID(ctx context.Context, motocycleID string) (*domain.Rental, error) {
	return nil, nil
}

func (stubRentalRepo) GetRentalByIdentifier(ctx context.Context, identifier string) (*domain.Rental, error) {
	return nil, nil
}

func (stubRentalRepo) InsertRental(ctx context.Context, rental *domain.Rental) error { return nil }

func (stubRentalRepo) UpdateRental(ctx context.Context, rental *domain.Rental) error { return nil }

type stubPublisher struct{ published int }

func (p *stubPublisher) PublishFleetCreation(ctx context.Context, event any) error {
	p.published++
	return nil
}

type stubPricer struct{}

func (stubPricer) RentalValue(ctx context.Context, planDays, days int) (*float64, *float64, error) {
	return nil, nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubFleetRepo, *stubPublisher) {
	t.Helper()

	fleetRepo := &stubFleetRepo{motos: make(map[string]*domain.Motocycle)}
	pub := &stubPublisher{}
	fixed := clock.NewFixed(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))

	fleet := service.NewFleetService(fleetRepo, pub, nil)
	partners := service.NewPartnerService(stubPartnerRepo{}, nil)
	rentals := service.NewRentalService(stubRentalRepo{}, fleetRepo, stubPartnerRepo{}, stubPricer{}, fixed, nil)

	return NewRouter(fleet, partners, rentals, nil), fleetRepo, pub
}

// TestRegisterMotocycle tests the fleet registration endpoint.
func TestRegisterMotocycle(t *testing.T) {
	t.Run("accepts a valid command", func(t *testing.T) {
		router, _, pub := newTestRouter(t)

		body := `{"identificador":"moto-1","ano":2024,"modelo":"Honda CG 160","placa":"ABC1234"}`
		req := httptest.NewRequest(http.MethodPost, "/motos", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if pub.published != 1 {
			t.Errorf("expected 1 published event, got %d", pub.published)
		}
	})

	t.Run("rejects an invalid plate with the uniform payload", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := `{"identificador":"moto-1","ano":2024,"modelo":"Honda CG 160","placa":"bad"}`
		req := httptest.NewRequest(http.MethodPost, "/motos", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Dados inválidos") {
			t.Errorf("unexpected error payload: %s", rec.Body.String())
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/motos", strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

// TestGetMotocycle tests the fleet lookup endpoints.
func TestGetMotocycle(t *testing.T) {
	router, fleetRepo, _ := newTestRouter(t)
	fleetRepo.motos["moto-1"] = &domain.Motocycle{Identifier: "moto-1", Year: 2024, Model: "Honda CG 160", Plate: "ABC1234"}

	t.Run("finds an existing motorcycle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/motos/moto-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"placa":"ABC1234"`) {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("unknown motorcycle is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/motos/ghost", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("plate query filters the listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/motos?placa=abc1234", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "moto-1") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}

// TestCorrelationHeader tests correlation id propagation.
func TestCorrelationHeader(t *testing.T) {
	router, _, _ := newTestRouter(t)

	t.Run("echoes a provided correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(headerCorrelationID, "corr-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get(headerCorrelationID); got != "corr-42" {
			t.Errorf("expected corr-42, got %q", got)
		}
	})

	t.Run("mints one when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Header().Get(headerCorrelationID) == "" {
			t.Error("expected a minted correlation id")
		}
	})
}
