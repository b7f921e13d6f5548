package refdata

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// Source provides the three read-only reference lists the landing-page
// builder selects from. *clinics.Client satisfies it.
type Source interface {
	Doctors(ctx context.Context, sess *session.Session) ([]model.Doctor, error)
	Services(ctx context.Context, sess *session.Session) ([]model.Service, error)
	Offers(ctx context.Context, sess *session.Session) ([]model.Offer, error)
}

// Result holds the reference lists plus any per-list failures. A failed
// list is empty but never blocks the others: the builder stays usable
// with manual entry only.
type Result struct {
	Doctors  []model.Doctor
	Services []model.Service
	Offers   []model.Offer

	// Errs maps list name ("doctors", "services", "offers") to the
	// fetch failure, if any.
	Errs map[string]error
}

// Degraded reports whether at least one list failed to load.
func (r *Result) Degraded() bool {
	return len(r.Errs) > 0
}

// Warnings returns user-facing messages for the failed lists.
func (r *Result) Warnings() []string {
	var out []string
	for name := range r.Errs {
		out = append(out, "initial "+name+" data failed to load, you can still add entries manually")
	}
	return out
}

// Load fetches the three lists concurrently. There is no ordering
// dependency between them; each one succeeds or fails on its own.
func Load(ctx context.Context, src Source, sess *session.Session) *Result {
	result := &Result{
		Doctors:  []model.Doctor{},
		Services: []model.Service{},
		Offers:   []model.Offer{},
		Errs:     map[string]error{},
	}

	var g errgroup.Group
	var doctorsErr, servicesErr, offersErr error

	g.Go(func() error {
		doctors, err := src.Doctors(ctx, sess)
		if err != nil {
			doctorsErr = err
			return nil
		}
		result.Doctors = doctors
		return nil
	})
	g.Go(func() error {
		services, err := src.Services(ctx, sess)
		if err != nil {
			servicesErr = err
			return nil
		}
		result.Services = services
		return nil
	})
	g.Go(func() error {
		offers, err := src.Offers(ctx, sess)
		if err != nil {
			offersErr = err
			return nil
		}
		result.Offers = offers
		return nil
	})

	// The closures never return errors; Wait is used purely as a join.
	_ = g.Wait()

	if doctorsErr != nil {
		slog.Warn("doctors reference list failed to load", "error", doctorsErr)
		result.Errs["doctors"] = doctorsErr
	}
	if servicesErr != nil {
		slog.Warn("services reference list failed to load", "error", servicesErr)
		result.Errs["services"] = servicesErr
	}
	if offersErr != nil {
		slog.Warn("offers reference list failed to load", "error", offersErr)
		result.Errs["offers"] = offersErr
	}

	return result
}
