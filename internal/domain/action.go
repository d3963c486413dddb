package domain

import (
	"fmt"
	"time"
)

// Action действие участника над записью
type Action string

const (
	ActionConfirm              Action = "confirm"
	ActionReject               Action = "reject"
	ActionCounter              Action = "counter"
	ActionAcceptCounter        Action = "accept_counter"
	ActionRejectCounter        Action = "reject_counter"
	ActionCancelByCustomer     Action = "cancel_by_customer"
	ActionCancelByProfessional Action = "cancel_by_professional"
	ActionComplete             Action = "complete"
)

// ReasonNotProvided причина по умолчанию для отказа и отмены
const ReasonNotProvided = "Not provided"

// AllActions все поддерживаемые действия
func AllActions() []Action {
	return []Action{
		ActionConfirm,
		ActionReject,
		ActionCounter,
		ActionAcceptCounter,
		ActionRejectCounter,
		ActionCancelByCustomer,
		ActionCancelByProfessional,
		ActionComplete,
	}
}

// ParseAction конвертирует строку в Action с валидацией
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if _, ok := ruleFor(action); !ok {
		return "", NewValidationError("action", fmt.Sprintf("unknown action %q", s))
	}
	return action, nil
}

// NotificationKind шаблон уведомления
type NotificationKind string

const (
	NotificationCreated        NotificationKind = "created"
	NotificationAccepted       NotificationKind = "accepted"
	NotificationRejected       NotificationKind = "rejected"
	NotificationCounterOffered NotificationKind = "counter_offered"
	NotificationCancelled      NotificationKind = "cancelled"
	NotificationCompleted      NotificationKind = "completed"
)

// rule строка таблицы переходов
type rule struct {
	actor        Role
	from         []Status
	to           Status
	historyType  HistoryActionType
	notification NotificationKind
	recipients   []Role
}

var cancellableFrom = []Status{
	StatusConfirmed,
	StatusPendingProfessionalApproval,
	StatusCounteredByProfessional,
}

// ruleFor таблица переходов; новое действие без ветки здесь не пройдет ParseAction
func ruleFor(action Action) (rule, bool) {
	switch action {
	case ActionConfirm:
		return rule{
			actor:        RoleProfessional,
			from:         []Status{StatusPendingProfessionalApproval},
			to:           StatusConfirmed,
			historyType:  HistoryConfirmed,
			notification: NotificationAccepted,
			recipients:   []Role{RoleCustomer, RoleProfessional},
		}, true
	case ActionReject:
		return rule{
			actor:        RoleProfessional,
			from:         []Status{StatusPendingProfessionalApproval},
			to:           StatusRejectedByProfessional,
			historyType:  HistoryRejected,
			notification: NotificationRejected,
			recipients:   []Role{RoleCustomer},
		}, true
	case ActionCounter:
		return rule{
			actor:        RoleProfessional,
			from:         []Status{StatusPendingProfessionalApproval},
			to:           StatusCounteredByProfessional,
			historyType:  HistoryCountered,
			notification: NotificationCounterOffered,
			recipients:   []Role{RoleCustomer},
		}, true
	case ActionAcceptCounter:
		return rule{
			actor:        RoleCustomer,
			from:         []Status{StatusCounteredByProfessional},
			to:           StatusConfirmed,
			historyType:  HistoryAcceptedCounter,
			notification: NotificationAccepted,
			recipients:   []Role{RoleProfessional, RoleCustomer},
		}, true
	case ActionRejectCounter:
		return rule{
			actor:        RoleCustomer,
			from:         []Status{StatusCounteredByProfessional},
			to:           StatusRejectedByCustomer,
			historyType:  HistoryRejectedCounter,
			notification: NotificationRejected,
			recipients:   []Role{RoleProfessional},
		}, true
	case ActionCancelByCustomer:
		return rule{
			actor:        RoleCustomer,
			from:         cancellableFrom,
			to:           StatusCancelledByCustomer,
			historyType:  HistoryCancelledByCustomer,
			notification: NotificationCancelled,
			recipients:   []Role{RoleProfessional},
		}, true
	case ActionCancelByProfessional:
		return rule{
			actor:        RoleProfessional,
			from:         cancellableFrom,
			to:           StatusCancelledByProfessional,
			historyType:  HistoryCancelledByProfessional,
			notification: NotificationCancelled,
			recipients:   []Role{RoleCustomer},
		}, true
	case ActionComplete:
		return rule{
			actor:        RoleProfessional,
			from:         []Status{StatusConfirmed},
			to:           StatusCompleted,
			historyType:  HistoryCompleted,
			notification: NotificationCompleted,
			recipients:   []Role{RoleCustomer},
		}, true
	default:
		return rule{}, false
	}
}

// RequiredActor роль, которой разрешено действие
func (a Action) RequiredActor() (Role, bool) {
	r, ok := ruleFor(a)
	return r.actor, ok
}

// AllowedFrom возвращает true, если действие допустимо из статуса
func (a Action) AllowedFrom(status Status) bool {
	r, ok := ruleFor(a)
	if !ok {
		return false
	}
	return r.allows(status)
}

func (r rule) allows(status Status) bool {
	for _, s := range r.from {
		if s == status {
			return true
		}
	}
	return false
}

// Command запрос на выполнение действия
type Command struct {
	Action     Action
	FinalPrice *float64
	Reason     string
}

// Transition рассчитанный переход, который нужно атомарно сохранить
type Transition struct {
	Action       Action
	From         Status
	To           Status
	FinalPrice   float64
	Entry        HistoryEntry
	Notification NotificationKind
	Recipients   []Role
}

// Decide проверяет действие и рассчитывает переход, не изменяя запись.
// Порядок проверок: аутентификация, роль и участие в записи, статус, данные запроса.
func Decide(appt *Appointment, actor Identity, cmd Command, now time.Time) (*Transition, error) {
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: actor is not authenticated", ErrAuthentication)
	}

	r, ok := ruleFor(cmd.Action)
	if !ok {
		return nil, NewValidationError("action", fmt.Sprintf("unknown action %q", cmd.Action))
	}

	// Статус не проверяется до авторизации, чтобы посторонний не узнал его по ошибке
	if actor.Role != r.actor || appt.PartyID(r.actor) != actor.UserID {
		return nil, fmt.Errorf("%w: action %q requires the %s assigned to the appointment",
			ErrAuthorization, cmd.Action, r.actor)
	}

	if !r.allows(appt.Status) {
		return nil, &InvalidTransitionError{Action: cmd.Action, Status: appt.Status}
	}

	details, finalPrice, err := buildDetails(appt, cmd)
	if err != nil {
		return nil, err
	}

	return &Transition{
		Action:     cmd.Action,
		From:       appt.Status,
		To:         r.to,
		FinalPrice: finalPrice,
		Entry: HistoryEntry{
			Timestamp:  now.UTC(),
			ActionBy:   actor.Role,
			UserID:     actor.UserID,
			ActionType: r.historyType,
			Details:    details,
		},
		Notification: r.notification,
		Recipients:   r.recipients,
	}, nil
}

func buildDetails(appt *Appointment, cmd Command) (HistoryDetails, float64, error) {
	finalPrice := appt.FinalPrice

	switch cmd.Action {
	case ActionCounter:
		if cmd.FinalPrice == nil {
			return HistoryDetails{}, 0, NewValidationError("finalPrice", "is required for a counter offer")
		}
		newPrice, err := NormalizePrice("finalPrice", *cmd.FinalPrice)
		if err != nil {
			return HistoryDetails{}, 0, err
		}
		if PriceCents(newPrice) == PriceCents(appt.QuotedPrice) {
			return HistoryDetails{}, 0, NewValidationError("finalPrice", "must differ from the quoted price")
		}
		oldPrice := appt.FinalPrice
		return HistoryDetails{OldPrice: &oldPrice, NewPrice: &newPrice}, newPrice, nil

	case ActionReject, ActionRejectCounter, ActionCancelByCustomer, ActionCancelByProfessional:
		reason := cmd.Reason
		if reason == "" {
			reason = ReasonNotProvided
		}
		return HistoryDetails{Reason: &reason}, finalPrice, nil

	case ActionAcceptCounter:
		return HistoryDetails{FinalPrice: &finalPrice}, finalPrice, nil

	default:
		return HistoryDetails{}, finalPrice, nil
	}
}
