// Package scores exposes one typed operation per scoring-service resource and
// turns transport failures into messages fit for an end user.
package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/scoreboard/internal/domain"
	"github.com/samvad-hq/scoreboard/pkg/httpclient"
)

// Accessor issues cached GETs for the scoring-service resources.
type Accessor struct {
	client httpclient.Client
}

// New builds an Accessor over client.
func New(client httpclient.Client) *Accessor {
	return &Accessor{client: client}
}

// Score fetches the record for a registration number.
func (a *Accessor) Score(ctx context.Context, registrationNumber string) (domain.ScoreRecord, error) {
	id := strings.TrimSpace(registrationNumber)
	if id == "" {
		return domain.ScoreRecord{}, ErrEmptyRegistrationNumber
	}
	return Fetch[domain.ScoreRecord](ctx, a.client, ScoreResource, id)
}

// Report fetches the aggregate per-subject report.
func (a *Accessor) Report(ctx context.Context) (domain.ScoreReport, error) {
	return Fetch[domain.ScoreReport](ctx, a.client, ReportResource)
}

// TopStudents fetches the group A leaderboard.
func (a *Accessor) TopStudents(ctx context.Context) (domain.Leaderboard, error) {
	return Fetch[domain.Leaderboard](ctx, a.client, TopStudentsResource)
}

// DashboardSummary fetches the dashboard summary.
func (a *Accessor) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	return Fetch[domain.DashboardSummary](ctx, a.client, DashboardSummaryResource)
}

// Overview is the report and leaderboard fetched together.
type Overview struct {
	Report      domain.ScoreReport `json:"report"`
	Leaderboard domain.Leaderboard `json:"leaderboard"`
}

// Overview fetches the report and the leaderboard concurrently. The first
// failure cancels the sibling and is returned; nothing partial is exposed.
func (a *Accessor) Overview(ctx context.Context) (Overview, error) {
	g, gctx := errgroup.WithContext(ctx)

	var out Overview
	g.Go(func() error {
		r, err := a.Report(gctx)
		if err != nil {
			return err
		}
		out.Report = r
		return nil
	})
	g.Go(func() error {
		l, err := a.TopStudents(gctx)
		if err != nil {
			return err
		}
		out.Leaderboard = l
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// rawSetter is implemented by payloads that keep the bytes they came from.
type rawSetter interface {
	SetRaw(json.RawMessage)
}

type envelope struct {
	Success json.RawMessage `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Fetch performs a cached GET for res and decodes the payload into T,
// unwrapping the {success, data} envelope when res is enveloped. When T keeps
// its source bytes, it is handed an exact copy of the payload.
func Fetch[T any](ctx context.Context, client httpclient.Client, res Resource, args ...string) (T, error) {
	var zero T

	env, err := client.Get(ctx, res.PathFor(args...), true)
	if err != nil {
		return zero, mapError(res, err)
	}

	if isFalsy(env.Body) {
		return zero, noDataError(res, env.StatusCode)
	}

	payload := env.Body
	if res.Enveloped {
		var wrapped envelope
		if err := json.Unmarshal(env.Body, &wrapped); err != nil {
			return zero, invalidResponseError(res, env.StatusCode)
		}
		if isFalsy(wrapped.Success) || isFalsy(wrapped.Data) {
			return zero, invalidResponseError(res, env.StatusCode)
		}
		payload = wrapped.Data
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, fmt.Errorf("decode %s payload: %w", res.Name, err)
	}
	if rs, ok := any(&out).(rawSetter); ok {
		rs.SetRaw(append(json.RawMessage(nil), payload...))
	}
	return out, nil
}

// isFalsy reports whether raw is absent or one of the JSON values a caller
// would treat as "nothing": null, false, 0 or "".
func isFalsy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return true
	}
	switch string(v) {
	case "null", "false", `""`:
		return true
	}
	if c := v[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(v), 64)
		return err == nil && f == 0
	}
	return false
}
