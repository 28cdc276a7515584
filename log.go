// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"net/http"

	"github.com/gogama/tmdbx/request"
	"github.com/gogama/tmdbx/transient"
	"github.com/rs/zerolog"
)

// LogHandler returns a Handler that logs plan executions to logger.
// Attempts are logged at debug level; timeouts, failed attempts and
// rate limiting at warn. Install it for every event with
// HandlerGroup.PushBackAll.
func LogHandler(logger zerolog.Logger) Handler {
	return &logHandler{logger: logger.With().Str("component", "transport").Logger()}
}

type logHandler struct {
	logger zerolog.Logger
}

func (h *logHandler) Handle(evt Event, e *request.Execution) {
	switch evt {
	case BeforeAttempt:
		h.logger.Debug().
			Str("method", e.Plan.Method).
			Str("url", redactURL(e.Plan.URL)).
			Int("attempt", e.Attempt).
			Msg("sending request")
	case AfterAttemptTimeout:
		h.logger.Warn().
			Str("url", redactURL(e.Plan.URL)).
			Int("attempt", e.Attempt).
			Int("timeouts", e.AttemptTimeouts).
			Msg("attempt timed out")
	case AfterAttempt:
		if e.Err != nil {
			h.logger.Warn().
				Err(redactErr(e.Err)).
				Int("attempt", e.Attempt).
				Stringer("category", transient.Categorize(e.Err)).
				Msg("attempt failed")
			return
		}
		if e.StatusCode() == http.StatusTooManyRequests {
			h.logger.Warn().
				Int("attempt", e.Attempt).
				Str("limit", e.Header().Get("X-RateLimit-Limit")).
				Str("reset", e.Header().Get("X-RateLimit-Reset")).
				Msg("rate-limited by TMDb")
			return
		}
		h.logger.Debug().
			Int("attempt", e.Attempt).
			Int("status", e.StatusCode()).
			Int("bytes", len(e.Body)).
			Msg("attempt complete")
	case AfterPlanTimeout:
		h.logger.Warn().
			Str("url", redactURL(e.Plan.URL)).
			Dur("elapsed", e.Duration()).
			Msg("request timed out")
	case AfterExecutionEnd:
		h.logger.Debug().
			Str("method", e.Plan.Method).
			Int("status", e.StatusCode()).
			Int("attempts", e.Attempt+1).
			Dur("elapsed", e.Duration()).
			Msg("request finished")
	}
}
