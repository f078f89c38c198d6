package scores

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/scoreboard/internal/domain"
	"github.com/samvad-hq/scoreboard/pkg/httpclient"
)

// fakeClient answers Get by path with a preset body or error.
type fakeClient struct {
	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	errs   map[string]error
	calls  []string
	cached []bool
}

func (f *fakeClient) Get(_ context.Context, path string, useCache bool) (httpclient.Envelope[json.RawMessage], error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.cached = append(f.cached, useCache)
	f.mu.Unlock()

	if err := f.errs[path]; err != nil {
		return httpclient.Envelope[json.RawMessage]{}, err
	}
	status := f.status[path]
	if status == 0 {
		status = http.StatusOK
	}
	return httpclient.Envelope[json.RawMessage]{Body: json.RawMessage(f.bodies[path]), StatusCode: status}, nil
}

func (f *fakeClient) Post(context.Context, string, any) (httpclient.Envelope[json.RawMessage], error) {
	return httpclient.Envelope[json.RawMessage]{}, errors.New("not used")
}

func (f *fakeClient) Put(context.Context, string, any) (httpclient.Envelope[json.RawMessage], error) {
	return httpclient.Envelope[json.RawMessage]{}, errors.New("not used")
}

func (f *fakeClient) Delete(context.Context, string) (httpclient.Envelope[json.RawMessage], error) {
	return httpclient.Envelope[json.RawMessage]{}, errors.New("not used")
}

type operation struct {
	res  Resource
	path string
	call func(context.Context, *Accessor) error
}

func operations() []operation {
	return []operation{
		{ScoreResource, "/scores/01000001", func(ctx context.Context, a *Accessor) error {
			_, err := a.Score(ctx, "01000001")
			return err
		}},
		{ReportResource, "/score-report", func(ctx context.Context, a *Accessor) error {
			_, err := a.Report(ctx)
			return err
		}},
		{TopStudentsResource, "/top-students/group-a", func(ctx context.Context, a *Accessor) error {
			_, err := a.TopStudents(ctx)
			return err
		}},
		{DashboardSummaryResource, "/dashboard/summary", func(ctx context.Context, a *Accessor) error {
			_, err := a.DashboardSummary(ctx)
			return err
		}},
	}
}

func assertAccessorError(t *testing.T, err error, kind Kind, msg string, status int) *Error {
	t.Helper()
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if ae.Kind != kind || ae.Message != msg || ae.StatusCode != status {
		t.Fatalf("got kind=%v message=%q status=%d, want kind=%v message=%q status=%d",
			ae.Kind, ae.Message, ae.StatusCode, kind, msg, status)
	}
	return ae
}

func TestOperationsMapStatusClasses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   Kind
		msg    func(Resource) string
	}{
		{"not found", http.StatusNotFound, `{"message":"missing"}`, KindNotFound, func(r Resource) string { return r.NotFound }},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, KindServer, func(Resource) string { return MsgServerError }},
		{"bad gateway", http.StatusBadGateway, ``, KindServer, func(Resource) string { return MsgServerError }},
		{"other client error", http.StatusBadRequest, `{"details":"bad"}`, KindRequest, func(r Resource) string { return r.Failure }},
	}

	for _, tc := range cases {
		for _, op := range operations() {
			t.Run(tc.name+"/"+op.res.Name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path != "/api/v1"+op.path {
						t.Errorf("unexpected path %s", r.URL.Path)
					}
					w.WriteHeader(tc.status)
					_, _ = io.WriteString(w, tc.body)
				}))
				defer srv.Close()

				acc := New(httpclient.NewRestyClient(srv.URL+"/api/v1", httpclient.Options{Timeout: 2 * time.Second}))
				err := op.call(context.Background(), acc)

				ae := assertAccessorError(t, err, tc.kind, tc.msg(op.res), tc.status)
				if _, ok := httpclient.AsTransportError(ae); !ok {
					t.Fatalf("expected transport cause to be kept")
				}
			})
		}
	}
}

func TestOperationsMapNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	acc := New(httpclient.NewRestyClient(base, httpclient.Options{Timeout: time.Second}))
	for _, op := range operations() {
		err := op.call(context.Background(), acc)
		assertAccessorError(t, err, KindNetwork, MsgNetworkError, 0)
	}
}

func TestOperationsUseCachedGet(t *testing.T) {
	fc := &fakeClient{bodies: map[string]string{
		"/scores/01000001":      `{"r_number":"01000001"}`,
		"/score-report":         `{"success":true,"data":{"subjects":[]}}`,
		"/top-students/group-a": `{"success":true,"data":{"top_students":[]}}`,
		"/dashboard/summary":    `{"success":true,"data":{"total":1}}`,
	}}
	acc := New(fc)
	for _, op := range operations() {
		if err := op.call(context.Background(), acc); err != nil {
			t.Fatalf("%s: %v", op.res.Name, err)
		}
	}
	for i, cached := range fc.cached {
		if !cached {
			t.Fatalf("call %s did not request the cache", fc.calls[i])
		}
	}
}

func TestEnvelopeContractViolation(t *testing.T) {
	bodies := []string{
		`{"success":false,"data":{"x":1}}`,
		`{"success":true}`,
		`{"success":true,"data":null}`,
		`{"data":{"x":1}}`,
		`[1,2]`,
	}
	for _, op := range operations() {
		if !op.res.Enveloped {
			continue
		}
		for _, body := range bodies {
			fc := &fakeClient{bodies: map[string]string{op.path: body}}
			err := op.call(context.Background(), New(fc))

			assertAccessorError(t, err, KindInvalidResponse, MsgInvalidResponse, http.StatusOK)
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("%s %s: expected ErrInvalidResponse", op.res.Name, body)
			}
			if _, ok := httpclient.AsTransportError(err); ok {
				t.Fatalf("%s %s: contract violation must not look like a transport error", op.res.Name, body)
			}
		}
	}
}

func TestEmptyBodyIsNoData(t *testing.T) {
	for _, op := range operations() {
		for _, body := range []string{`null`, `false`, `0`, `""`, ``} {
			fc := &fakeClient{
				bodies: map[string]string{op.path: body},
				status: map[string]int{op.path: http.StatusAccepted},
			}
			err := op.call(context.Background(), New(fc))
			assertAccessorError(t, err, KindNoData, op.res.NoData, http.StatusAccepted)
			if !errors.Is(err, ErrNoData) {
				t.Fatalf("%s: expected ErrNoData", op.res.Name)
			}
		}
	}
}

func TestNonTransportErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	for _, op := range operations() {
		fc := &fakeClient{errs: map[string]error{op.path: boom}}
		if err := op.call(context.Background(), New(fc)); err != boom {
			t.Fatalf("%s: expected error to pass through, got %v", op.res.Name, err)
		}
	}
}

func TestMapErrorPrecedence(t *testing.T) {
	res := ReportResource
	cases := map[int]string{
		404: res.NotFound,
		500: MsgServerError,
		503: MsgServerError,
		0:   MsgNetworkError,
		401: res.Failure,
		302: res.Failure,
	}
	for status, want := range cases {
		err := mapError(res, &httpclient.TransportError{Message: "x", StatusCode: status})
		var ae *Error
		if !errors.As(err, &ae) || ae.Message != want || ae.StatusCode != status {
			t.Fatalf("status %d: got %v", status, err)
		}
	}
}

const leaderboardData = `{"top_students":[{"r_number":"01000002","subject_scores":{"math":10,"physics":9.75,"chemistry":9.5},"total_score":29.25,"average_score":9.75,"subjects_count":3,"foreign_lang_code":"N1","rank":1}],"summary":{"total_group_a_students":500,"top_students_count":1,"all_students_stats":{"highest_total":29.25,"lowest_total":3,"average_total":18.4,"average_score_mean":6.13},"top_students_stats":{"highest_total":29.25,"lowest_total":29.25,"average_total":29.25,"average_score_mean":9.75}},"criteria":{"group":"A","subjects":["math","physics","chemistry"],"ranking_method":"total_score","minimum_subjects":3,"limit":10}}`

func TestTopStudentsUnwrapsData(t *testing.T) {
	fc := &fakeClient{bodies: map[string]string{
		"/top-students/group-a": `{"success":true,"data":` + leaderboardData + `}`,
	}}
	acc := New(fc)

	got, err := acc.TopStudents(context.Background())
	if err != nil {
		t.Fatalf("TopStudents: %v", err)
	}
	var want domain.Leaderboard
	if err := json.Unmarshal([]byte(leaderboardData), &want); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	want.Raw = json.RawMessage(leaderboardData)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unwrapped data differs:\n got %+v\nwant %+v", got, want)
	}
	if got.TopStudents[0].Rank != 1 || got.Criteria.Subjects[2] != "chemistry" {
		t.Fatalf("unexpected leaderboard %+v", got)
	}
}

func TestOperationsPassPayloadThroughUnmodified(t *testing.T) {
	const (
		board   = `{"top_students":[{"r_number":"1","foreign_lang_code":null,"subjects_count":3.0,"rank":1,"badge":"gold"}],"generated_at":"2024-07-01","criteria":{"limit":10}}`
		report  = `{"subjects":[{"subject":"math","statistics":{"excellent":1.0,"total_students":10.0,"median":6.5}}],"summary":null,"source":"2024"}`
		summary = `{"zeta":1,"alpha":{"nested":[true,null]},"ratio":2.50}`
		record  = `{"r_number":"01000001","math":null,"foreign_lang_code":null,"notes":"retake"}`
	)
	fc := &fakeClient{bodies: map[string]string{
		"/top-students/group-a": `{"success":true,"data":` + board + `}`,
		"/score-report":         `{"success":true,"data":` + report + `}`,
		"/dashboard/summary":    `{"success":true,"data":` + summary + `}`,
		"/scores/01000001":      record,
	}}
	acc := New(fc)
	ctx := context.Background()

	cases := []struct {
		name string
		want string
		get  func() (any, error)
	}{
		{"top students", board, func() (any, error) { return acc.TopStudents(ctx) }},
		{"report", report, func() (any, error) { return acc.Report(ctx) }},
		{"dashboard summary", summary, func() (any, error) { return acc.DashboardSummary(ctx) }},
		{"score", record, func() (any, error) { return acc.Score(ctx, "01000001") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.get()
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			out, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("payload changed:\n got %s\nwant %s", out, tc.want)
			}
		})
	}

	lb, err := acc.TopStudents(ctx)
	if err != nil {
		t.Fatalf("TopStudents: %v", err)
	}
	st := lb.TopStudents[0]
	if st.ForeignLangCode != nil || st.SubjectsCount != 3 || st.Rank != 1 {
		t.Fatalf("unexpected typed view %+v", st)
	}
}

func TestOverviewMarshalsReceivedPayloads(t *testing.T) {
	const report = `{"subjects":[],"extra":{"k":"v"}}`
	fc := &fakeClient{bodies: map[string]string{
		"/score-report":         `{"success":true,"data":` + report + `}`,
		"/top-students/group-a": `{"success":true,"data":` + leaderboardData + `}`,
	}}

	ov, err := New(fc).Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	out, err := json.Marshal(ov)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"report":` + report + `,"leaderboard":` + leaderboardData + `}`
	if string(out) != want {
		t.Fatalf("overview changed payloads:\n got %s\nwant %s", out, want)
	}
}

func TestTypedPayloadWithoutRawMarshalsFields(t *testing.T) {
	out, err := json.Marshal(domain.Leaderboard{Criteria: domain.LeaderboardCriteria{Group: "A"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"group":"A"`) || strings.Contains(string(out), "Raw") {
		t.Fatalf("unexpected encoding %s", out)
	}
}

func TestScoreValidatesAndEscapesRegistrationNumber(t *testing.T) {
	fc := &fakeClient{bodies: map[string]string{
		"/scores/0100%2F01": `{"r_number":"0100/01","math":null,"literature":7.25,"foreign_lang_code":"N1"}`,
	}}
	acc := New(fc)

	if _, err := acc.Score(context.Background(), "   "); !errors.Is(err, ErrEmptyRegistrationNumber) {
		t.Fatalf("expected ErrEmptyRegistrationNumber, got %v", err)
	}
	if len(fc.calls) != 0 {
		t.Fatalf("blank registration number must not hit the network")
	}

	rec, err := acc.Score(context.Background(), " 0100/01 ")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if rec.Math != nil || rec.Literature == nil || *rec.Literature != 7.25 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.ForeignLangCode == nil || *rec.ForeignLangCode != "N1" {
		t.Fatalf("unexpected language code %+v", rec.ForeignLangCode)
	}
}

func TestOverviewFailsWhenOneSideFails(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path] = true
		mu.Unlock()
		switch r.URL.Path {
		case "/score-report":
			w.WriteHeader(http.StatusNotFound)
		case "/top-students/group-a":
			_, _ = io.WriteString(w, `{"success":true,"data":`+leaderboardData+`}`)
		}
	}))
	defer srv.Close()

	acc := New(httpclient.NewRestyClient(srv.URL, httpclient.Options{Timeout: 2 * time.Second}))
	out, err := acc.Overview(context.Background())

	assertAccessorError(t, err, KindNotFound, "Report data not found", http.StatusNotFound)
	if len(out.Leaderboard.TopStudents) != 0 {
		t.Fatalf("leaderboard must not be exposed on failure: %+v", out)
	}
	if !seen["/score-report"] {
		t.Fatalf("report was never requested")
	}
}

func TestOverviewJoinsBothResults(t *testing.T) {
	fc := &fakeClient{bodies: map[string]string{
		"/score-report":         `{"success":true,"data":{"subjects":[{"subject":"math","subject_name":"Math","statistics":{"excellent":1,"good":2,"average":3,"below_average":4,"total_students":10}}],"summary":{"total_scores_analyzed":10},"score_levels":{"excellent":">= 8"}}}`,
		"/top-students/group-a": `{"success":true,"data":` + leaderboardData + `}`,
	}}

	out, err := New(fc).Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(out.Report.Subjects) != 1 || out.Report.Subjects[0].Statistics.TotalStudents != 10 {
		t.Fatalf("unexpected report %+v", out.Report)
	}
	if out.Report.Subjects[0].Statistics.BelowAverage != 4 {
		t.Fatalf("embedded counts not decoded: %+v", out.Report.Subjects[0].Statistics)
	}
	if len(out.Leaderboard.TopStudents) != 1 {
		t.Fatalf("unexpected leaderboard %+v", out.Leaderboard)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("expected two fetches, got %v", fc.calls)
	}
}

func TestIsFalsy(t *testing.T) {
	for _, v := range []string{"", " ", "null", "false", "0", "-0", "0.0", `""`} {
		if !isFalsy(json.RawMessage(v)) {
			t.Fatalf("%q should be falsy", v)
		}
	}
	for _, v := range []string{"1", "true", `"0"`, "{}", "[]", `{"a":1}`} {
		if isFalsy(json.RawMessage(v)) {
			t.Fatalf("%q should be truthy", v)
		}
	}
}

func TestPathForEscapes(t *testing.T) {
	if got := ScoreResource.PathFor("a b"); got != "/scores/a%20b" {
		t.Fatalf("PathFor = %q", got)
	}
	if got := ReportResource.PathFor(); got != "/score-report" {
		t.Fatalf("PathFor = %q", got)
	}
	if !strings.HasPrefix(KindInvalidResponse.String(), "invalid") {
		t.Fatalf("unexpected kind name %q", KindInvalidResponse)
	}
}
