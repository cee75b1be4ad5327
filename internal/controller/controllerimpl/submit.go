package controllerimpl

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/internal/domain"
	"github.com/orgball2608/tiktok-downloader/internal/tiklydown"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
)

func (c *ControllerImpl) Submit(ctx context.Context, inputURL string) controller.State {
	input := strings.TrimSpace(inputURL)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = controller.State{InputURL: input, Phase: controller.PhaseLoading}
	c.mu.Unlock()

	start := time.Now()
	next, rec := c.attempt(ctx, input)
	rec.SessionKey = c.key
	rec.InputURL = input
	rec.Duration = time.Since(start)
	rec.Stale = !c.settle(seq, next)

	c.record(ctx, rec)
	return c.State()
}

// attempt runs validation and the single resolver call. A panic anywhere in
// the call chain is turned into a failure state.
func (c *ControllerImpl) attempt(ctx context.Context, input string) (next controller.State, rec domain.Resolution) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered during submit", "panic", r, "stack", string(debug.Stack()))
			next = failure(input, controller.MsgFetchFailed)
			rec = domain.Resolution{Outcome: domain.OutcomeTransport}
		}
	}()

	if !c.acceptsURL(input) {
		c.logger.Debug("Rejected input", "session", c.key, "input", input)
		return failure(input, controller.MsgInvalidURL), domain.Resolution{Outcome: domain.OutcomeValidation}
	}

	media, err := c.resolver.Resolve(ctx, input)
	if err == nil && (media == nil || media.Video == "") {
		err = apperrors.WrapWithCode(tiklydown.ErrNoDownloadLink, apperrors.CodeSemantic, "empty media")
	}
	if err != nil {
		return c.classify(input, err)
	}

	return controller.State{
		InputURL:     input,
		Phase:        controller.PhaseSuccess,
		Media:        media,
		DownloadLink: media.Video,
	}, domain.Resolution{Outcome: domain.OutcomeSuccess}
}

// classify maps a resolver error onto the one message the user sees.
func (c *ControllerImpl) classify(input string, err error) (controller.State, domain.Resolution) {
	c.logger.Warn("Resolution failed", "session", c.key, "input", input, "code", apperrors.GetCode(err), "error", err)

	var statusErr *tiklydown.StatusError
	if apperrors.As(err, &statusErr) {
		return failure(input, fmt.Sprintf(controller.MsgStatusFailed, statusErr.StatusCode)),
			domain.Resolution{Outcome: domain.OutcomeTransport, HTTPStatus: statusErr.StatusCode}
	}

	switch apperrors.GetCode(err) {
	case apperrors.CodeSemantic:
		return failure(input, controller.MsgNoDownloadLink), domain.Resolution{Outcome: domain.OutcomeSemantic}
	case apperrors.CodeDecode:
		return failure(input, controller.MsgFetchFailed), domain.Resolution{Outcome: domain.OutcomeDecode}
	default:
		return failure(input, controller.MsgFetchFailed), domain.Resolution{Outcome: domain.OutcomeTransport}
	}
}

// settle applies next only if seq is still the latest submission.
func (c *ControllerImpl) settle(seq uint64, next controller.State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("Discarding stale result", "session", c.key, "seq", seq, "latest", c.seq, "phase", next.Phase.String())
		return false
	}
	c.state = next
	return true
}

func (c *ControllerImpl) record(ctx context.Context, rec domain.Resolution) {
	if err := c.history.Create(context.WithoutCancel(ctx), rec); err != nil {
		c.logger.Error("Failed to record resolution", "session", c.key, "error", err)
	}
}

func failure(input, message string) controller.State {
	return controller.State{
		InputURL:     input,
		Phase:        controller.PhaseFailure,
		ErrorMessage: message,
	}
}
