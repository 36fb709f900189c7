package appointment

import (
	"github.com/coucou-beaute/booking-api/internal/model"
	apperrors "github.com/coucou-beaute/booking-api/pkg/errors"
)

// TransitionPlan lists the side effects a legal status change carries.
// In-app notifications are professional-scoped and mandatory for the
// transition to commit; emails go out best-effort after it. Clients have no
// notification feed and are reached by email only.
type TransitionPlan struct {
	RecordCancelledBy  bool
	NotifyProfessional bool
	EmailClient        bool
	EmailProfessional  bool
}

// PlanTransition validates a status change against the appointment state
// machine and returns the side effects it requires. Both the edge and the
// actor are checked: clients may only cancel, confirmation and completion
// belong to the professional (or an admin acting on their behalf).
//
//	pending   -> confirmed | cancelled
//	confirmed -> cancelled | completed
//	cancelled, completed are terminal
func PlanTransition(from, to model.AppointmentStatus, actor model.Actor) (TransitionPlan, error) {
	switch {
	case from == model.AppointmentStatusPending && to == model.AppointmentStatusConfirmed:
		if actor == model.ActorClient {
			return TransitionPlan{}, apperrors.ErrInvalidStatusTransition
		}
		return TransitionPlan{NotifyProfessional: true, EmailClient: true}, nil

	case from == model.AppointmentStatusPending && to == model.AppointmentStatusCancelled,
		from == model.AppointmentStatusConfirmed && to == model.AppointmentStatusCancelled:
		plan := TransitionPlan{RecordCancelledBy: true, NotifyProfessional: true}
		if actor == model.ActorClient {
			plan.EmailProfessional = true
		} else {
			plan.EmailClient = true
		}
		return plan, nil

	case from == model.AppointmentStatusConfirmed && to == model.AppointmentStatusCompleted:
		if actor == model.ActorClient {
			return TransitionPlan{}, apperrors.ErrInvalidStatusTransition
		}
		return TransitionPlan{NotifyProfessional: true, EmailClient: true}, nil

	default:
		return TransitionPlan{}, apperrors.ErrInvalidStatusTransition
	}
}
