// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/cache"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/catalog"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/dispatch"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/fish"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/ownership"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "json", Output: io.Discard})
}

const testSecret = "s3cr3t-for-tests"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeHub records broadcasts and pretends a fixed number of displays are live.
type fakeHub struct {
	mu      sync.Mutex
	frames  []string
	clients int
}

func (f *fakeHub) Broadcast(_ context.Context, msg string) websocket.DeliveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, msg)
	return websocket.DeliveryResult{CommandSent: true, Recipients: f.clients}
}

func (f *fakeHub) ServeWS(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func (f *fakeHub) ClientCount() int { return f.clients }

func (f *fakeHub) Frames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.frames...)
}

type testEnv struct {
	handler  *Handler
	mux      http.Handler
	hub      *fakeHub
	fish     *fish.Cache
	owners   *ownership.Registry
	verifier *eventsub.Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hub := &fakeHub{clients: 3}
	cat := catalog.Default()
	fishCache := fish.NewCache(fish.Options{})
	owners := ownership.NewRegistry()
	verifier := eventsub.NewVerifier(testSecret)

	h := NewHandler(Dependencies{
		Hub:      hub,
		Router:   dispatch.NewRouter(cat, hub, owners, fishCache, dispatch.Options{}),
		Catalog:  cat,
		Fish:     fishCache,
		Owners:   owners,
		Verifier: verifier,
		Dedup:    cache.NewDedupWindow(100, 10*time.Minute),
		Version:  "test",
	}, HandlerConfig{MaxMessageAge: 10 * time.Minute})
	h.now = func() time.Time { return fixedNow }

	chiMW := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST"},
		RateLimitDisabled:  true,
	})

	return &testEnv{
		handler:  h,
		mux:      NewRouter(h, chiMW).SetupChi(),
		hub:      hub,
		fish:     fishCache,
		owners:   owners,
		verifier: verifier,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// signedRequest builds an EventSub delivery with a fresh message id, signed
// with testSecret and timestamped one minute before fixedNow.
func (e *testEnv) signedRequest(t *testing.T, messageType, body string) *http.Request {
	t.Helper()
	return e.signedRequestWithID(t, uuid.NewString(), messageType, body)
}

func (e *testEnv) signedRequestWithID(t *testing.T, id, messageType, body string) *http.Request {
	t.Helper()
	ts := fixedNow.Add(-time.Minute).Format(time.RFC3339Nano)
	req := httptest.NewRequest(http.MethodPost, "/eventsub", strings.NewReader(body))
	req.Header.Set(eventsub.HeaderMessageID, id)
	req.Header.Set(eventsub.HeaderMessageTimestamp, ts)
	req.Header.Set(eventsub.HeaderMessageType, messageType)
	req.Header.Set(eventsub.HeaderMessageSignature, e.verifier.Sign([]byte(body), id, ts))
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

const (
	challengeBody = `{"challenge":"pogchamp-kappa-360noscope","subscription":{"id":"sub-1","type":"channel.subscribe","status":"webhook_callback_verification_pending"}}`
	subscribeBody = `{"subscription":{"id":"sub-1","type":"channel.subscribe","status":"enabled"},"event":{"user_id":"1","user_login":"alice","user_name":"alice","tier":"2000","is_gift":false}}`
	revokeBody    = `{"subscription":{"id":"sub-1","type":"channel.subscribe","status":"authorization_revoked"}}`
)

func redemptionBody(rewardID, input string) string {
	return `{"subscription":{"id":"sub-2","type":"channel.channel_points_custom_reward_redemption.add","status":"enabled"},` +
		`"event":{"id":"r-1","user_id":"2","user_login":"bob","user_name":"bob","user_input":"` + input + `",` +
		`"reward":{"id":"` + rewardID + `","title":"Feed a Fish","cost":100}}}`
}

func rewardFor(t *testing.T, code int) string {
	t.Helper()
	for id, c := range catalog.DefaultRewards {
		if c == code {
			return id
		}
	}
	t.Fatalf("no reward for %d", code)
	return ""
}

func TestEventSub_Challenge(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeVerification, challengeBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "pogchamp-kappa-360noscope" {
		t.Errorf("body = %q, want raw challenge", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if len(e.hub.Frames()) != 0 {
		t.Error("challenge must not broadcast")
	}
}

func TestEventSub_RejectsBadSignatures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *http.Request) *http.Request
	}{
		{
			name: "tampered body",
			mutate: func(r *http.Request) *http.Request {
				body, _ := io.ReadAll(r.Body)
				body[len(body)-2] ^= 0x01
				r.Body = io.NopCloser(bytes.NewReader(body))
				return r
			},
		},
		{
			name: "missing signature",
			mutate: func(r *http.Request) *http.Request {
				r.Header.Del(eventsub.HeaderMessageSignature)
				return r
			},
		},
		{
			name: "missing message id",
			mutate: func(r *http.Request) *http.Request {
				r.Header.Del(eventsub.HeaderMessageID)
				return r
			},
		},
		{
			name: "wrong secret",
			mutate: func(r *http.Request) *http.Request {
				other := eventsub.NewVerifier("other")
				sig := other.Sign([]byte(subscribeBody), r.Header.Get(eventsub.HeaderMessageID), r.Header.Get(eventsub.HeaderMessageTimestamp))
				r.Header.Set(eventsub.HeaderMessageSignature, sig)
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			rec := e.do(tt.mutate(e.signedRequest(t, eventsub.MessageTypeNotification, subscribeBody)))
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", rec.Code)
			}
			if len(e.hub.Frames()) != 0 || e.owners.Len() != 0 {
				t.Error("rejected delivery changed state")
			}
		})
	}
}

func TestEventSub_Stale(t *testing.T) {
	e := newTestEnv(t)

	id := "stale-1"
	ts := fixedNow.Add(-time.Hour).Format(time.RFC3339Nano)
	req := httptest.NewRequest(http.MethodPost, "/eventsub", strings.NewReader(subscribeBody))
	req.Header.Set(eventsub.HeaderMessageID, id)
	req.Header.Set(eventsub.HeaderMessageTimestamp, ts)
	req.Header.Set(eventsub.HeaderMessageType, eventsub.MessageTypeNotification)
	req.Header.Set(eventsub.HeaderMessageSignature, e.verifier.Sign([]byte(subscribeBody), id, ts))

	if rec := e.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if len(e.hub.Frames()) != 0 {
		t.Error("stale delivery broadcast")
	}
}

func TestEventSub_Subscription(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeNotification, subscribeBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["status"]; got != "executed" {
		t.Errorf("status = %v, want executed", got)
	}
	if frames := e.hub.Frames(); len(frames) != 1 || frames[0] != "subscription:alice:2000:150" {
		t.Errorf("frames = %v", frames)
	}
	if e.owners.Count("alice") != 1 {
		t.Errorf("Count(alice) = %d, want 1", e.owners.Count("alice"))
	}
}

func TestEventSub_FeedFishRedemption(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeNotification, redemptionBody(rewardFor(t, catalog.FeedSpecificFish), "3")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "executed" {
		t.Errorf("status = %v", body["status"])
	}
	delivery, _ := body["delivery"].(map[string]interface{})
	if delivery["recipients"] != float64(3) {
		t.Errorf("recipients = %v, want 3", delivery["recipients"])
	}
	if frames := e.hub.Frames(); len(frames) != 1 || frames[0] != "feed_fish:3" {
		t.Errorf("frames = %v, want [feed_fish:3]", frames)
	}
}

func TestEventSub_InvalidFishIndex(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeNotification, redemptionBody(rewardFor(t, catalog.FeedSpecificFish), "the blue one")))
	if got := decodeBody(t, rec)["status"]; got != "invalid_input" {
		t.Errorf("status = %v, want invalid_input", got)
	}
	if len(e.hub.Frames()) != 0 {
		t.Error("invalid input must not broadcast")
	}
}

func TestEventSub_UnknownReward(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeNotification, redemptionBody("00000000-0000-0000-0000-000000000000", "")))
	if got := decodeBody(t, rec)["status"]; got != "unknown_reward" {
		t.Errorf("status = %v, want unknown_reward", got)
	}
	if len(e.hub.Frames()) != 0 {
		t.Error("unknown reward must not broadcast")
	}
}

func TestEventSub_Duplicate(t *testing.T) {
	e := newTestEnv(t)

	first := e.do(e.signedRequestWithID(t, "dup-1", eventsub.MessageTypeNotification, subscribeBody))
	second := e.do(e.signedRequestWithID(t, "dup-1", eventsub.MessageTypeNotification, subscribeBody))

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if got := decodeBody(t, second)["status"]; got != "duplicate" {
		t.Errorf("second status = %v, want duplicate", got)
	}
	if n := len(e.hub.Frames()); n != 1 {
		t.Errorf("broadcasts = %d, want 1", n)
	}
}

func TestEventSub_Revocation(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeRevocation, revokeBody))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestEventSub_MalformedBody(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(e.signedRequest(t, eventsub.MessageTypeNotification, `{"subscription":`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestButton(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantCode   int
		wantStatus string
		wantFrames []string
	}{
		{
			name:       "defaults",
			path:       "/button/3",
			wantCode:   http.StatusOK,
			wantStatus: "sent",
			wantFrames: []string{"button:3:user:unknown"},
		},
		{
			name:       "json body",
			path:       "/button/7",
			body:       `{"user_points":600,"username":"carol"}`,
			wantCode:   http.StatusOK,
			wantStatus: "sent",
			wantFrames: []string{"button:7:user:carol"},
		},
		{
			name:       "insufficient via query",
			path:       "/button/6?user_points=10",
			wantCode:   http.StatusOK,
			wantStatus: "insufficient_points",
		},
		{
			name:       "insufficient via body",
			path:       "/button/5",
			body:       `{"user_points":0}`,
			wantCode:   http.StatusOK,
			wantStatus: "insufficient_points",
		},
		{
			name:       "feed a fish with index",
			path:       "/button/2",
			body:       `{"fish_index":1,"username":"carol"}`,
			wantCode:   http.StatusOK,
			wantStatus: "sent",
			wantFrames: []string{"feed_fish:1"},
		},
		{
			name:       "negative fish index",
			path:       "/button/2",
			body:       `{"fish_index":-1}`,
			wantCode:   http.StatusOK,
			wantStatus: "invalid_input",
		},
		{
			name:       "unknown command",
			path:       "/button/99",
			wantCode:   http.StatusOK,
			wantStatus: "unknown_command",
		},
		{name: "non numeric command", path: "/button/abc", wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "bad json", path: "/button/1", body: `{"user_points":`, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "bad query points", path: "/button/1?user_points=lots", wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "control char username", path: "/button/1", body: `{"username":"a\nb"}`, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "colon in username", path: "/button/1", body: `{"username":"a:b"}`, wantCode: http.StatusBadRequest, wantStatus: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rec := e.do(req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
			frames := e.hub.Frames()
			if len(frames) != len(tt.wantFrames) {
				t.Fatalf("frames = %v, want %v", frames, tt.wantFrames)
			}
			for i := range frames {
				if frames[i] != tt.wantFrames[i] {
					t.Errorf("frame[%d] = %q, want %q", i, frames[i], tt.wantFrames[i])
				}
			}
		})
	}
}

func TestButton_ResponseFields(t *testing.T) {
	e := newTestEnv(t)
	e.fish.Replace([]fish.Record{{Index: 0, Name: "Nemo", Health: 50}})

	rec := e.do(httptest.NewRequest(http.MethodPost, "/button/2", strings.NewReader(`{"fish_index":0,"username":"dan"}`)))
	body := decodeBody(t, rec)
	if body["fish_name"] != "Nemo" {
		t.Errorf("fish_name = %v, want Nemo", body["fish_name"])
	}
	if body["clients"] != float64(3) {
		t.Errorf("clients = %v, want 3", body["clients"])
	}
	if body["cost"] != float64(100) || body["button"] != float64(2) {
		t.Errorf("cost/button = %v/%v", body["cost"], body["button"])
	}

	rec = e.do(httptest.NewRequest(http.MethodPost, "/button/6?user_points=5", nil))
	body = decodeBody(t, rec)
	if body["required"] != float64(2500) || body["has"] != float64(5) {
		t.Errorf("required/has = %v/%v, want 2500/5", body["required"], body["has"])
	}
	if _, ok := body["clients"]; ok {
		t.Error("clients must be absent when nothing was sent")
	}
}

func TestButton_SpawnThenHasFish(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/has-fish?username=erin", nil))
	if decodeBody(t, rec)["has_fish"] != false {
		t.Fatal("erin should not have a fish yet")
	}

	e.do(httptest.NewRequest(http.MethodPost, "/button/6", strings.NewReader(`{"username":"erin"}`)))
	e.do(httptest.NewRequest(http.MethodPost, "/button/6", strings.NewReader(`{"username":"erin"}`)))

	body := decodeBody(t, e.do(httptest.NewRequest(http.MethodGet, "/has-fish?username=erin", nil)))
	if body["has_fish"] != true || body["count"] != float64(2) || body["username"] != "erin" {
		t.Errorf("has-fish = %v", body)
	}
}

func TestHasFish_RequiresUsername(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/has-fish", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	errBody, _ := decodeBody(t, rec)["error"].(map[string]interface{})
	if errBody["code"] != ErrCodeValidationFailed {
		t.Errorf("error code = %v", errBody["code"])
	}
}

func TestFishEndpoints(t *testing.T) {
	e := newTestEnv(t)
	e.fish.Replace([]fish.Record{
		{Index: 0, Name: "Jay", Health: 100},
		{Index: 1, Name: "Nemo", Health: 40},
		{Index: 2, Name: "Dory", Health: 0},
	})

	for _, path := range []string{"/fish", "/fish-list"} {
		rec := e.do(httptest.NewRequest(http.MethodGet, path, nil))
		var resp FishResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !resp.Success || resp.Count != 1 || len(resp.Fish) != 1 || resp.Fish[0].Name != "Nemo" {
			t.Errorf("%s = %+v", path, resp)
		}
	}
}

func TestFish_EmptySnapshot(t *testing.T) {
	e := newTestEnv(t)

	var resp FishResponse
	rec := e.do(httptest.NewRequest(http.MethodGet, "/fish", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 || resp.Fish == nil {
		t.Errorf("empty snapshot = %+v, want empty non-null list", resp)
	}
}

func TestCommands(t *testing.T) {
	e := newTestEnv(t)

	var resp CommandsResponse
	rec := e.do(httptest.NewRequest(http.MethodGet, "/commands", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Commands) != 8 {
		t.Fatalf("commands = %d, want 8", len(resp.Commands))
	}
	if c := resp.Commands[5]; c.Code != 6 || c.Cost != 2500 {
		t.Errorf("command 6 = %+v", c)
	}
}

func TestStatus(t *testing.T) {
	e := newTestEnv(t)
	e.fish.Replace([]fish.Record{{Index: 0, Name: "A"}, {Index: 1, Name: "B"}})
	e.owners.Grant("x")

	body := decodeBody(t, e.do(httptest.NewRequest(http.MethodGet, "/", nil)))
	if body["status"] != "server running" || body["connected_clients"] != float64(3) ||
		body["fish_count"] != float64(2) || body["owners"] != float64(1) {
		t.Errorf("status = %v", body)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live = %d", rec.Code)
	}
	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK || decodeBody(t, rec)["status"] != "ready" {
		t.Errorf("ready = %d %s", rec.Code, rec.Body.String())
	}

	for i := 0; i < 2; i++ {
		e.do(e.signedRequestWithID(t, "replayed-id", eventsub.MessageTypeRevocation, revokeBody))
	}
	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	data, _ := decodeBody(t, rec)["data"].(map[string]interface{})
	if data["eventsub_duplicates"] != float64(1) || data["eventsub_remembered_ids"] != float64(1) {
		t.Errorf("replay window stats = %v", data)
	}

	unconfigured := NewHandler(Dependencies{Router: e.handler.deps.Router}, HandlerConfig{})
	mux := NewRouter(unconfigured, nil).SetupChi()
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured ready = %d, want 503", rec.Code)
	}
}

func TestMetricsAndNotFound(t *testing.T) {
	e := newTestEnv(t)

	if rec := e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil)); rec.Code != http.StatusOK {
		t.Errorf("/metrics = %d", rec.Code)
	}
	rec := e.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound || decodeBody(t, rec)["status"] != "error" {
		t.Errorf("/nope = %d %s", rec.Code, rec.Body.String())
	}
	rec = e.do(httptest.NewRequest(http.MethodDelete, "/commands", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /commands = %d, want 405", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/commands", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := e.do(req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
}
