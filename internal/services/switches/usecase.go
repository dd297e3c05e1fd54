package switches

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/domain/events"
	"github.com/NordCoder/Deadswitch/internal/domain/switches"
	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
)

const defaultPublishTimeout = 2 * time.Second

type Usecase struct {
	api            switches.API
	pub            events.Publisher
	log            *zap.Logger
	clk            func() time.Time
	validate       *validator.Validate
	publishTimeout time.Duration
}

func New(api switches.API, pub events.Publisher, log *zap.Logger, clk func() time.Time) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = func() time.Time { return time.Now().UTC() }
	}
	return &Usecase{
		api:            api,
		pub:            pub,
		log:            log.Named("switches"),
		clk:            clk,
		validate:       newValidator(),
		publishTimeout: defaultPublishTimeout,
	}
}

func (u *Usecase) WithPublishTimeout(d time.Duration) *Usecase {
	if d <= 0 {
		return u
	}
	cp := *u
	cp.publishTimeout = d
	return &cp
}

func (u *Usecase) CreateSwitch(ctx context.Context, ownerEmail, name, content string, intervalDays int) (*switches.Switch, Result, error) {
	in := switches.CreateInput{UserEmail: ownerEmail, Name: name, Content: content, Interval: intervalDays}
	if err := u.check(in); err != nil {
		return nil, Result{}, err
	}
	log := obs.WithTrace(ctx, u.log)
	log.Info("CreateSwitch request", zap.String("owner", ownerEmail), zap.String("name", name), zap.Int("interval", intervalDays))

	sw, err := u.api.Create(ctx, in)
	if err != nil {
		u.logFailure(log, "CreateSwitch", err)
		return nil, Result{}, err
	}
	id, owner, _ := describe(sw)
	u.emit(ctx, events.SwitchCreated, id, firstNonEmpty(owner, ownerEmail), name)
	return sw, Result{Notice: NoticeCreated, Location: ListLocation}, nil
}

// UpdateSwitch changes a switch owned by ownerEmail.
func (u *Usecase) UpdateSwitch(ctx context.Context, ownerEmail, id, name, content string, intervalDays int, isActive bool) (*switches.Switch, Result, error) {
	if err := checkID(id); err != nil {
		return nil, Result{}, err
	}
	in := switches.UpdateInput{Name: name, Content: content, Interval: intervalDays, IsActive: isActive}
	if err := u.check(in); err != nil {
		return nil, Result{}, err
	}
	cur, err := u.loadOwned(ctx, switchapi.OpUpdate, id, ownerEmail)
	if err != nil {
		return nil, Result{}, err
	}
	log := obs.WithTrace(ctx, u.log)
	log.Info("UpdateSwitch request", zap.String("id", id), zap.Int("interval", intervalDays), zap.Bool("is_active", isActive))

	sw, err := u.api.Update(ctx, id, in)
	if err != nil {
		u.logFailure(log, "UpdateSwitch", err)
		return nil, Result{}, err
	}
	u.emit(ctx, events.SwitchUpdated, id, firstNonEmpty(cur.UserEmail, ownerEmail), name)
	return sw, Result{Notice: NoticeUpdated, Location: ListLocation}, nil
}

// CheckinSwitch may return a nil switch when the backend confirms without a body.
func (u *Usecase) CheckinSwitch(ctx context.Context, ownerEmail, id string) (*switches.Switch, Result, error) {
	if err := checkID(id); err != nil {
		return nil, Result{}, err
	}
	cur, err := u.loadOwned(ctx, switchapi.OpCheckin, id, ownerEmail)
	if err != nil {
		return nil, Result{}, err
	}
	log := obs.WithTrace(ctx, u.log)
	log.Info("CheckinSwitch request", zap.String("id", id))

	sw, err := u.api.Checkin(ctx, id)
	if err != nil {
		u.logFailure(log, "CheckinSwitch", err)
		return nil, Result{}, err
	}
	_, owner, name := describe(sw)
	u.emit(ctx, events.SwitchCheckedIn, id, firstNonEmpty(owner, cur.UserEmail, ownerEmail), firstNonEmpty(name, cur.Name))
	return sw, Result{Notice: NoticeCheckedIn, Location: ListLocation}, nil
}

// DeleteSwitch issues no request unless confirmer accepts DeletePrompt, and deletes only
// a switch owned by ownerEmail.
func (u *Usecase) DeleteSwitch(ctx context.Context, ownerEmail, id string, confirmer Confirmer) (Result, error) {
	if err := checkID(id); err != nil {
		return Result{}, err
	}
	log := obs.WithTrace(ctx, u.log)
	if confirmer == nil {
		return Result{}, ErrNotConfirmed
	}
	ok, err := confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		log.Info("delete confirmation failed", zap.String("id", id), zap.Error(err))
		return Result{}, err
	}
	if !ok {
		log.Info("delete declined", zap.String("id", id))
		return Result{}, ErrNotConfirmed
	}
	cur, err := u.loadOwned(ctx, switchapi.OpDelete, id, ownerEmail)
	if err != nil {
		return Result{}, err
	}
	log.Info("DeleteSwitch request", zap.String("id", id))

	if err := u.api.Delete(ctx, id); err != nil {
		u.logFailure(log, "DeleteSwitch", err)
		return Result{}, err
	}
	u.emit(ctx, events.SwitchDeleted, id, firstNonEmpty(cur.UserEmail, ownerEmail), cur.Name)
	return Result{Notice: NoticeDeleted, Location: ListLocation}, nil
}

// ListSwitches orders by expiration (unknown last), then name.
func (u *Usecase) ListSwitches(ctx context.Context, ownerEmail string) ([]*switches.Switch, error) {
	if err := u.check(ownerInput{ownerEmail}); err != nil {
		return nil, err
	}
	list, err := u.api.ListByOwner(ctx, ownerEmail)
	if err != nil {
		u.logFailure(obs.WithTrace(ctx, u.log), "ListSwitches", err)
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b *switches.Switch) int {
		az, bz := a.ExpirationDatetime.IsZero(), b.ExpirationDatetime.IsZero()
		switch {
		case az && !bz:
			return 1
		case !az && bz:
			return -1
		}
		if c := a.ExpirationDatetime.Compare(b.ExpirationDatetime.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return list, nil
}

// GetSwitch returns a switch only when it is visible to ownerEmail.
func (u *Usecase) GetSwitch(ctx context.Context, ownerEmail, id string) (*switches.Switch, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return u.loadOwned(ctx, switchapi.OpGet, id, ownerEmail)
}

func (u *Usecase) logFailure(log *zap.Logger, op string, err error) {
	var apiErr *switchapi.APIError
	if errors.As(err, &apiErr) {
		log.Warn(op+" rejected", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		return
	}
	if errors.Is(err, context.Canceled) {
		log.Info(op+" cancelled", zap.Error(err))
		return
	}
	log.Error(op+" failed", zap.Error(err))
}

// emit never fails the action it reports on.
func (u *Usecase) emit(ctx context.Context, typ events.Type, id, owner, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.publishTimeout)
	defer cancel()

	ev := events.Event{Type: typ, SwitchID: id, UserEmail: owner, Name: name, At: u.clk()}
	if err := u.pub.Publish(ctx, ev); err != nil {
		obs.WithTrace(ctx, u.log).Warn("event publish failed", zap.String("type", string(typ)), zap.String("switch_id", id), zap.Error(err))
	}
}

func describe(sw *switches.Switch) (id, owner, name string) {
	if sw == nil {
		return "", "", ""
	}
	return sw.ID, sw.UserEmail, sw.Name
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
