package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cast"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/vocbridge/internal/voc"
)

// Action names a write the accessory layer can request.
type Action string

const (
	ActionOnlyLock          Action = "only-lock"
	ActionOnlyUnlock        Action = "only-unlock"
	ActionLockUnlock        Action = "lock-unlock"
	ActionHeater            Action = "heater"
	ActionPreclimatization  Action = "preclimatization"
	ActionHonkAndBlink      Action = "honk-and-blink"
	ActionBlink             Action = "blink"
	ActionEngineRemoteStart Action = "engine-remote-start"
)

// DefaultBlinkRevert is how long a horn or light toggle shows as on.
const DefaultBlinkRevert = 7 * time.Second

// Vehicle is one vehicle session: static attributes, resolved features, the
// state cache and everything needed to run commands.
type Vehicle struct {
	cfg       *Config
	url       string
	attrs     voc.VehicleAttributes
	features  FeatureSet
	transport voc.Transport

	cache     *StateCache
	executor  *CommandExecutor
	scheduler *Scheduler

	clock       clock.WithTickerAndDelayedExecution
	blinkRevert time.Duration
	log         logr.Logger
}

// Open discovers the configured vehicle on the account and starts a session.
// Failures to find a vehicle wrap voc.ErrConfiguration.
func Open(ctx context.Context, cfg *Config, t voc.Transport, clk clock.WithTickerAndDelayedExecution, logger logr.Logger) (*Vehicle, error) {
	found, err := voc.DiscoverVehicle(ctx, t, cfg.VIN)
	if err != nil {
		return nil, err
	}
	return New(cfg, t, found, clk, logger), nil
}

// New creates a session for an already discovered vehicle.
func New(cfg *Config, t voc.Transport, found *voc.DiscoveredVehicle, clk clock.WithTickerAndDelayedExecution, logger logr.Logger) *Vehicle {
	cfg.Complete()
	logger = logger.WithValues("vin", found.Attributes.VIN)

	unlockTimeFrame := time.Duration(found.Attributes.UnlockTimeFrame) * time.Second

	v := &Vehicle{
		cfg:         cfg,
		url:         found.URL,
		attrs:       found.Attributes,
		features:    Resolve(found.Attributes, cfg.EnabledFeatures),
		transport:   t,
		clock:       clk,
		blinkRevert: DefaultBlinkRevert,
		log:         logger,
	}
	v.cache = NewStateCache(t, found.URL, found.State, unlockTimeFrame, clk, logger)
	v.executor = NewCommandExecutor(t, found.URL, cfg.MaxPollAttempts, clk, logger)
	v.scheduler = &Scheduler{
		Cache:    v.cache,
		Clock:    clk,
		Interval: cfg.UpdateInterval,
		Delay:    DefaultRefreshDelay,
		Log:      logger.WithName("scheduler"),
	}

	logger.Info("Vehicle session opened", "model", found.Attributes.Model(), "features", v.features.Names())
	return v
}

func (v *Vehicle) VIN() string                       { return v.attrs.VIN }
func (v *Vehicle) Attributes() voc.VehicleAttributes { return v.attrs }
func (v *Vehicle) Features() FeatureSet              { return v.features }
func (v *Vehicle) Cache() *StateCache                { return v.cache }
func (v *Vehicle) Scheduler() *Scheduler             { return v.scheduler }

// Subscribe registers fn for snapshot changes.
func (v *Vehicle) Subscribe(fn Observer) { v.cache.Subscribe(fn) }

// ReadSensor maps the cached snapshot; it never touches the network.
func (v *Vehicle) ReadSensor(id SensorID) (any, error) {
	return MapSensor(v.cache.Snapshot(), id, v.cfg)
}

// LockTarget returns the requested lock state. Only SensorLock has one.
func (v *Vehicle) LockTarget(id SensorID) (LockState, error) {
	if id != SensorLock {
		return "", fmt.Errorf("%w: sensor %q has no target state", ErrContractViolation, id)
	}
	return v.cache.LockTarget(), nil
}

// LockAction returns the lock write matching the enabled lock features.
func (v *Vehicle) LockAction() (Action, bool) {
	lock, unlock := v.features.Enabled(FeatureLock), v.features.Enabled(FeatureUnlock)
	switch {
	case lock && unlock:
		return ActionLockUnlock, true
	case lock:
		return ActionOnlyLock, true
	case unlock:
		return ActionOnlyUnlock, true
	}
	return "", false
}

// WriteCommand performs a write and reports whether the backend confirmed it.
func (v *Vehicle) WriteCommand(ctx context.Context, action Action, requested any) bool {
	err := v.Write(ctx, action, requested)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrRefused), errors.Is(err, ErrRejected):
		v.log.Info("Write not applied", "action", action, "reason", err.Error())
	default:
		v.log.Error(err, "Write failed", "action", action)
	}
	return false
}

// Write performs a write. Local refusals wrap ErrRefused, bad input wraps
// ErrContractViolation, and backend results come from CommandExecutor.Do.
func (v *Vehicle) Write(ctx context.Context, action Action, requested any) error {
	if err := v.allowed(action); err != nil {
		return err
	}

	var err error
	switch action {
	case ActionOnlyLock, ActionOnlyUnlock, ActionLockUnlock:
		err = v.writeLock(ctx, action, requested)
	case ActionHeater:
		err = v.writeSwitch(ctx, requested, CommandHeaterStart, CommandHeaterStop, nil, func(s *voc.VehicleState, on bool) {
			s.Heater.Status = onOff(on)
		})
	case ActionPreclimatization:
		err = v.writeSwitch(ctx, requested, CommandPreclimatizationStart, CommandPreclimatizationStop, nil, func(s *voc.VehicleState, on bool) {
			s.Heater.Status = onOff(on)
		})
	case ActionEngineRemoteStart:
		body := voc.EngineStartBody{Runtime: v.cfg.EngineStartDuration}
		err = v.writeSwitch(ctx, requested, CommandEngineStart, CommandEngineStop, body, func(s *voc.VehicleState, on bool) {
			s.ERS.Status = onOff(on)
		})
	case ActionHonkAndBlink:
		err = v.writeHonkBlink(ctx, requested, CommandHonkAndBlink, TransientHonkAndBlink)
	case ActionBlink:
		err = v.writeHonkBlink(ctx, requested, CommandBlink, TransientBlink)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrContractViolation, action)
	}
	if err != nil {
		return err
	}

	v.scheduler.ScheduleRefresh(ctx)
	return nil
}

func (v *Vehicle) allowed(action Action) error {
	var required []Feature
	switch action {
	case ActionOnlyLock:
		required = []Feature{FeatureLock}
	case ActionOnlyUnlock:
		required = []Feature{FeatureUnlock}
	case ActionLockUnlock:
		required = []Feature{FeatureLock, FeatureUnlock}
	case ActionHeater:
		required = []Feature{FeatureRemoteHeater}
	case ActionPreclimatization:
		required = []Feature{FeaturePreclimatization}
	case ActionEngineRemoteStart:
		required = []Feature{FeatureEngineRemoteStart}
	case ActionHonkAndBlink:
		required = []Feature{FeatureHonkAndBlink}
	case ActionBlink:
		required = []Feature{FeatureHonkAndOrBlink}
	}
	for _, f := range required {
		if !v.features.Enabled(f) {
			return fmt.Errorf("%w: %s needs %s", ErrRefused, action, f)
		}
	}
	return nil
}

func (v *Vehicle) writeLock(ctx context.Context, action Action, requested any) error {
	target, err := parseLockState(requested)
	if err != nil {
		return err
	}

	switch {
	case action == ActionOnlyLock && target == LockUnsecured:
		return fmt.Errorf("%w: vehicle can only be locked remotely", ErrRefused)
	case action == ActionOnlyUnlock && target == LockSecured:
		return fmt.Errorf("%w: vehicle can only be unlocked remotely", ErrRefused)
	}

	v.cache.SetLockTarget(ctx, target)

	command := CommandUnlock
	if target == LockSecured {
		command = CommandLock
	}
	if err := v.executor.Do(ctx, command, nil); err != nil {
		return err
	}

	if action == ActionLockUnlock && target == LockUnsecured {
		v.cache.ArmBootUnlock(ctx)
	}
	v.cache.Apply(func(s *voc.VehicleState) {
		s.CarLocked = target == LockSecured
	})
	return nil
}

func (v *Vehicle) writeSwitch(ctx context.Context, requested any, start, stop string, startBody any, apply func(*voc.VehicleState, bool)) error {
	on, err := parseSwitch(requested)
	if err != nil {
		return err
	}

	command, body := stop, any(nil)
	if on {
		command, body = start, startBody
	}
	if err := v.executor.Do(ctx, command, body); err != nil {
		return err
	}

	v.cache.Apply(func(s *voc.VehicleState) { apply(s, on) })
	return nil
}

func (v *Vehicle) writeHonkBlink(ctx context.Context, requested any, command string, flag Transient) error {
	on, err := parseSwitch(requested)
	if err != nil {
		return err
	}
	if !on {
		return fmt.Errorf("%w: %s cannot be switched off", ErrRefused, command)
	}
	if v.cache.Snapshot().EngineRunning {
		return fmt.Errorf("%w: %s is unavailable while the engine runs", ErrRefused, command)
	}

	v.cache.SetTransient(flag, true)
	v.clock.AfterFunc(v.blinkRevert, func() {
		v.cache.SetTransient(flag, false)
	})

	var pos voc.PositionResponse
	if err := v.transport.Get(ctx, voc.Join(v.url, "position"), &pos); err != nil {
		return fmt.Errorf("failed to fetch vehicle position: %w", err)
	}

	return v.executor.Do(ctx, command, voc.HonkBlinkBody{
		ClientAccuracy:  0,
		ClientLatitude:  pos.Position.Latitude,
		ClientLongitude: pos.Position.Longitude,
	})
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// parseSwitch accepts booleans, numbers and "on"/"off" style strings.
func parseSwitch(requested any) (bool, error) {
	if s, ok := requested.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on":
			return true, nil
		case "off":
			return false, nil
		}
	}
	on, err := cast.ToBoolE(requested)
	if err != nil {
		return false, fmt.Errorf("%w: invalid switch value %v", ErrContractViolation, requested)
	}
	return on, nil
}

// parseLockState accepts a LockState, its string form, or a boolean where
// true means secured.
func parseLockState(requested any) (LockState, error) {
	switch r := requested.(type) {
	case LockState:
		if r == LockSecured || r == LockUnsecured {
			return r, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(r)) {
		case string(LockSecured), "locked", "lock":
			return LockSecured, nil
		case string(LockUnsecured), "unlocked", "unlock":
			return LockUnsecured, nil
		}
	case bool:
		return lockState(r), nil
	}
	return "", fmt.Errorf("%w: invalid lock state %v", ErrContractViolation, requested)
}
