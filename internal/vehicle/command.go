package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/vocbridge/internal/pkg/metrics"
	"github.com/autopeer-io/vocbridge/internal/voc"
)

// Remote command paths below the vehicle handle.
const (
	CommandLock                  = "lock"
	CommandUnlock                = "unlock"
	CommandEngineStart           = "engine/start"
	CommandEngineStop            = "engine/stop"
	CommandHeaterStart           = "heater/start"
	CommandHeaterStop            = "heater/stop"
	CommandPreclimatizationStart = "preclimatization/start"
	CommandPreclimatizationStop  = "preclimatization/stop"
	CommandHonkAndBlink          = "honk_blink/both"
	CommandBlink                 = "honk_blink/blink"
)

// DefaultPollInterval is the wait between call state polls of a queued command.
const DefaultPollInterval = 10 * time.Second

// Outcome is the classification of a call status.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	default:
		return "failure"
	}
}

// Classify maps a call status to an outcome. Only Queued is pending.
func Classify(status string) Outcome {
	switch status {
	case voc.CallStatusSuccessful, voc.CallStatusMessageDelivered, voc.CallStatusStarted:
		return OutcomeSuccess
	case voc.CallStatusQueued:
		return OutcomePending
	default:
		return OutcomeFailure
	}
}

// CommandExecutor issues remote commands and polls their call state until
// the backend resolves them.
type CommandExecutor struct {
	Transport    voc.Transport
	VehicleURL   string
	Clock        clock.Clock
	PollInterval time.Duration
	MaxPolls     int
	Log          logr.Logger
}

// NewCommandExecutor creates an executor for the vehicle at vehicleURL.
func NewCommandExecutor(t voc.Transport, vehicleURL string, maxPolls int, clk clock.Clock, logger logr.Logger) *CommandExecutor {
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPollAttempts
	}
	return &CommandExecutor{
		Transport:    t,
		VehicleURL:   vehicleURL,
		Clock:        clk,
		PollInterval: DefaultPollInterval,
		MaxPolls:     maxPolls,
		Log:          logger.WithName("command"),
	}
}

// Execute runs a command and reports whether the backend confirmed it.
// Failures are logged, not returned.
func (e *CommandExecutor) Execute(ctx context.Context, name string, payload any) bool {
	err := e.Do(ctx, name, payload)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrRejected) {
		e.Log.Info("Command was not confirmed", "command", name, "reason", err.Error())
	} else {
		e.Log.Error(err, "Command failed", "command", name)
	}
	return false
}

// Do runs a command and returns nil only on confirmed success. Backend
// rejections wrap ErrRejected; transport problems wrap voc.ErrTransport.
func (e *CommandExecutor) Do(ctx context.Context, name string, payload any) (err error) {
	start := e.Clock.Now()
	logger := e.Log.WithValues("command", name, "trace", uuid.NewString())

	defer func() {
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, ErrRejected):
			result = metrics.ResultRejected
		case err != nil:
			result = metrics.ResultError
		}
		metrics.CommandsTotal.WithLabelValues(name, result).Inc()
		metrics.CommandLatency.WithLabelValues(name).Observe(e.Clock.Since(start).Seconds())
	}()

	logger.V(1).Info("Issuing remote command")

	var call voc.CallState
	if err := e.Transport.Post(ctx, voc.Join(e.VehicleURL, name), payload, &call); err != nil {
		return fmt.Errorf("failed to issue %s: %w", name, err)
	}

	if call.Service == "" {
		return fmt.Errorf("%w: %s: reply carries no service handle (%s)", ErrRejected, name, call.Reason())
	}
	if call.Status != voc.CallStatusQueued && call.Status != voc.CallStatusStarted {
		return fmt.Errorf("%w: %s: %s", ErrRejected, name, call.Reason())
	}

	for polls := 0; ; polls++ {
		switch Classify(call.Status) {
		case OutcomeSuccess:
			logger.Info("Remote command succeeded", "status", call.Status, "polls", polls)
			return nil
		case OutcomeFailure:
			if call.Status == voc.CallStatusFailed {
				return fmt.Errorf("%w: %s: %s", ErrRejected, name, call.Reason())
			}
			return fmt.Errorf("%w: %s: unrecognized status %q", ErrRejected, name, call.Status)
		}

		if polls >= e.MaxPolls {
			return fmt.Errorf("%w: %s: still queued after %d polls", ErrRejected, name, polls)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.Clock.After(e.PollInterval):
		}

		metrics.CommandPolls.WithLabelValues(name).Inc()

		service := call.Service
		call = voc.CallState{}
		if err := e.Transport.Get(ctx, service, &call); err != nil {
			return fmt.Errorf("failed to poll %s: %w", name, err)
		}
		if call.Service == "" {
			call.Service = service
		}
		logger.V(1).Info("Polled call state", "status", call.Status)
	}
}
