package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	so "github.com/iamacarpet/mirrormount/shared"
)

var errPending = errors.New("condition not met")

// Until polls cond every interval until it reports true, returns an error, or
// timeout elapses. A condition error ends the wait immediately and is returned
// as-is. Running out of time yields an error wrapping shared.ErrTimeout.
func Until(ctx context.Context, interval, timeout time.Duration, cond func() (bool, error)) error {
	if timeout <= 0 {
		ok, err := cond()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w after 0s", so.ErrTimeout)
		}
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := func() error {
		ok, err := cond()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errPending
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, errPending):
		return fmt.Errorf("%w after %s", so.ErrTimeout, timeout)
	}
	return err
}
