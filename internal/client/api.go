// Package client talks to the sports hub backend on behalf of the notifier CLI and keeps
// the client session (id, preferences, polling) in sync with local state.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Shoya0002/ASEP-sem-1-Project/internal/domain"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// API is a fasthttp client for the backend's notification and preferences routes.
type API struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewAPI builds a client for baseURL (e.g. http://localhost:3000).
func NewAPI(baseURL string, timeout time.Duration) *API {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &API{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                "sports-hub-notifier",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// Upcoming fetches matches starting within windowMinutes for the given sports and teams.
func (a *API) Upcoming(ctx context.Context, sports, teams []string, windowMinutes int) ([]domain.Match, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(a.baseURL + "/api/notifications/upcoming")
	req.Header.SetMethod(fasthttp.MethodGet)
	args := req.URI().QueryArgs()
	if len(sports) > 0 {
		args.Add("sports", strings.Join(sports, ","))
	}
	if len(teams) > 0 {
		args.Add("teams", strings.Join(teams, ","))
	}
	args.Add("windowMinutes", strconv.Itoa(windowMinutes))

	var matches []domain.Match
	if err := a.do(ctx, req, &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

// Preferences fetches the backend's record for clientID.
func (a *API) Preferences(ctx context.Context, clientID string) (domain.Preferences, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(a.baseURL + "/api/preferences")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.URI().QueryArgs().Add("clientId", clientID)

	var prefs domain.Preferences
	if err := a.do(ctx, req, &prefs); err != nil {
		return domain.Preferences{}, err
	}
	prefs.ClientID = clientID
	return prefs, nil
}

type preferencesBody struct {
	ClientID             string   `json:"clientId"`
	Sports               []string `json:"sports"`
	Teams                []string `json:"teams"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
}

// SavePreferences overwrites the backend's record and returns what it stored.
func (a *API) SavePreferences(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error) {
	body, err := json.Marshal(preferencesBody{
		ClientID:             prefs.ClientID,
		Sports:               nonNil(prefs.Sports),
		Teams:                nonNil(prefs.Teams),
		NotificationsEnabled: prefs.NotificationsEnabled,
	})
	if err != nil {
		return domain.Preferences{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(a.baseURL + "/api/preferences")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	var stored domain.Preferences
	if err := a.do(ctx, req, &stored); err != nil {
		return domain.Preferences{}, err
	}
	stored.ClientID = prefs.ClientID
	return stored, nil
}

// result carries a finished exchange out of the request goroutine.
type result struct {
	status int
	body   []byte
	err    error
}

// do sends req and decodes a 2xx JSON body into dest. The deadline is the earlier of the
// context deadline and now+timeout. The exchange runs on a copy of req in its own goroutine
// so that do returns as soon as ctx is done.
func (a *API) do(ctx context.Context, req *fasthttp.Request, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(a.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	method := string(req.Header.Method())
	path := string(req.URI().Path())
	sent := fasthttp.AcquireRequest()
	req.CopyTo(sent)

	done := make(chan result, 1)
	go func() {
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)
		defer fasthttp.ReleaseRequest(sent)

		if err := a.client.DoDeadline(sent, resp, deadline); err != nil {
			done <- result{err: err}
			return
		}
		done <- result{status: resp.StatusCode(), body: append([]byte(nil), resp.Body()...)}
	}()

	var res result
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return fmt.Errorf("%s %s: %w", method, path, res.err)
	}

	if res.status < 200 || res.status >= 300 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(res.body, &body)
		return &StatusError{Status: res.status, Message: body.Error}
	}
	if err := json.Unmarshal(res.body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// AsStatusError unwraps a backend status error.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
