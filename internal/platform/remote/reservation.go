package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Reservation status tokens as published by the reservation service.
const (
	ReservationStatusActive    = "Ativa"
	ReservationStatusConcluded = "Concluída"
)

// Reservation is the reservation service's view of a reservation.
type Reservation struct {
	ID     int64  `json:"idReserva"`
	UserID int64  `json:"idUsuario"`
	BookID int64  `json:"idLivro"`
	Status string `json:"statusReserva"`
	// DueHint is the reservation's advisory pickup deadline. Loans ignore it
	// and always run for the standard loan period.
	DueHint string `json:"prazoEmprestimo,omitempty"`
}

func (r *Reservation) validate() error {
	switch {
	case r.UserID <= 0:
		return fmt.Errorf("%w: reservation missing idUsuario", ErrInvalidResponse)
	case r.BookID <= 0:
		return fmt.Errorf("%w: reservation missing idLivro", ErrInvalidResponse)
	case r.Status == "":
		return fmt.Errorf("%w: reservation missing statusReserva", ErrInvalidResponse)
	}
	return nil
}

// ReservationUpdate is the body sent to change a reservation's status.
type ReservationUpdate struct {
	Status     string     `json:"statusReserva"`
	PickupDate *time.Time `json:"dataRetirada,omitempty"`
}

// ReservationClient talks to the reservation service. Every call forwards the
// caller's bearer credential.
type ReservationClient struct {
	c *client
}

// NewReservationClient creates a client for the reservation service at cfg.BaseURL.
func NewReservationClient(cfg ClientConfig, logger *slog.Logger) (*ReservationClient, error) {
	c, err := newClient(cfg, "reservation_client", logger)
	if err != nil {
		return nil, err
	}
	return &ReservationClient{c: c}, nil
}

// Get fetches a reservation by id.
func (r *ReservationClient) Get(ctx context.Context, id int64, credential string) (*Reservation, error) {
	var res Reservation
	if err := r.c.getJSON(ctx, r.c.resolve(strconv.FormatInt(id, 10)), credential, &res); err != nil {
		return nil, err
	}
	if res.ID == 0 {
		res.ID = id
	}
	if err := res.validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Update changes a reservation's status. It is sent exactly once.
func (r *ReservationClient) Update(ctx context.Context, id int64, credential string, update ReservationUpdate) error {
	return r.c.putJSON(ctx, r.c.resolve(strconv.FormatInt(id, 10)), credential, update)
}
