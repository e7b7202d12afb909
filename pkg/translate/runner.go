package translate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jpillora/backoff"
	"github.com/sirupsen/logrus"
)

// MaxAttempts is the total number of translator invocations per Translate call.
const MaxAttempts = 2

// Attempt is the record of one translator invocation. It is never persisted.
type Attempt struct {
	Number   int
	Output   string
	ExitCode int
	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// Runner drives the external translator with a bounded retry policy.
type Runner struct {
	dir           string
	executor      Executor
	classifier    OutcomeClassifier
	out           io.Writer
	retryDelay    time.Duration
	manualCommand string
	metrics       *Metrics
	logger        *logrus.Logger
}

// Translate runs the translator until an attempt succeeds or MaxAttempts is
// reached. targets is used for reporting only; the translator reads the
// persisted configuration itself.
func (r *Runner) Translate(ctx context.Context, targets []string) error {
	log := r.logger.WithFields(logrus.Fields{
		"targets": strings.Join(targets, ","),
		"dir":     r.dir,
	})
	log.Info("Translating...")

	b := &backoff.Backoff{
		Min:    r.retryDelay,
		Max:    4 * r.retryDelay,
		Factor: 2,
	}

	var result *multierror.Error
	for n := 1; n <= MaxAttempts; n++ {
		a, err := r.attempt(ctx, n)
		if err != nil {
			return err
		}
		if a.Outcome == Success {
			r.metrics.RecordRun(Success)
			log.WithField("attempt", n).Info("Translation complete")
			return nil
		}

		result = multierror.Append(result, a.Err)

		var launchErr *SubprocessLaunchError
		if errors.As(a.Err, &launchErr) {
			log.WithError(a.Err).WithField("attempt", n).Error("Translator could not be started")
		} else {
			log.WithError(a.Err).WithField("attempt", n).Warn("Translation had errors or failures")
		}

		if n < MaxAttempts {
			log.Warnf("Translation failed. Retrying (%d/%d)...", n, MaxAttempts)
			if err := r.wait(ctx, b); err != nil {
				return err
			}
		}
	}

	r.metrics.RecordRun(Failure)
	log.Errorf("Translation failed after %d attempts", MaxAttempts)
	return &TranslationFailure{
		Attempts:      MaxAttempts,
		ManualCommand: r.manualCommand,
		Err:           result.ErrorOrNil(),
	}
}

// attempt performs one invocation. The returned error is non-nil only when
// the context was cancelled; translator failures are reported in Attempt.Err.
func (r *Runner) attempt(ctx context.Context, n int) (*Attempt, error) {
	var captured bytes.Buffer
	start := time.Now()

	exitCode, err := r.executor.Execute(ctx, r.dir, io.MultiWriter(r.out, &captured))
	a := &Attempt{
		Number:   n,
		Output:   captured.String(),
		ExitCode: exitCode,
		Outcome:  Failure,
		Duration: time.Since(start),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil {
		a.Err = err
		status := "failure"
		var launchErr *SubprocessLaunchError
		if errors.As(err, &launchErr) {
			status = "launch_error"
		}
		r.metrics.RecordAttempt(status, a.Duration)
		return a, nil
	}

	a.Outcome = r.classifier.Classify(a.Output, exitCode)
	r.metrics.RecordAttempt(a.Outcome.String(), a.Duration)
	if a.Outcome == Failure {
		attemptErr := &AttemptError{Attempt: n, ExitCode: exitCode}
		if mc, ok := r.classifier.(*MarkerClassifier); ok {
			attemptErr.Marker = mc.Marker(a.Output)
		}
		a.Err = attemptErr
	}
	return a, nil
}

// wait sleeps for the next backoff duration. A zero retry delay does not wait.
func (r *Runner) wait(ctx context.Context, b *backoff.Backoff) error {
	if r.retryDelay <= 0 {
		return nil
	}
	t := time.NewTimer(b.Duration())
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func defaultOut(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
