package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lqsky7/leetfeedback/internal/config"
	"github.com/lqsky7/leetfeedback/internal/logging"
	"github.com/lqsky7/leetfeedback/internal/prediction"
	"github.com/lqsky7/leetfeedback/internal/store"
	"github.com/lqsky7/leetfeedback/pkg/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) int64 {
	return testNow.Add(-time.Duration(d) * 24 * time.Hour).UnixMilli()
}

// seedProblems: three new problems (one ignored) and three solved ones
// whose review scores are A 0.56 > B 0.55 > C 0.27.
func seedProblems() []model.Problem {
	return []model.Problem{
		{ID: "n1", Name: "Two Sum", Difficulty: model.DifficultyEasy, Grandparent: "Arrays"},
		{ID: "A", Difficulty: model.DifficultyEasy, Grandparent: "Graphs",
			Solved: model.SolvedState{Value: true, Date: daysAgo(40), Tries: 1}},
		{ID: "n2", Difficulty: model.DifficultyMedium, Grandparent: "Graphs", ParentTopic: "BFS"},
		{ID: "B", Difficulty: model.DifficultyHard, Grandparent: "Graphs",
			Solved: model.SolvedState{Value: true, Date: daysAgo(3), Tries: 5}},
		{ID: "C", Difficulty: model.DifficultyMedium, Grandparent: "Arrays",
			Solved: model.SolvedState{Value: true, Date: daysAgo(10), Tries: 0}},
		{ID: "n3", Difficulty: model.DifficultyMedium, Grandparent: "Graphs", Ignored: true},
	}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return newTestServer(t, config.DefaultServerConfig(), seedProblems())
}

func newTestServer(t *testing.T, cfg config.ServerConfig, problems []model.Problem) *Server {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := st.ReplaceProblems(ctx, problems); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(cfg, st, logging.Discard(),
		WithClock(func() time.Time { return testNow }))
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Timestamp  string            `json:"timestamp"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func do(t *testing.T, srv *Server, method, path, body string, wantStatus int) envelope {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("%s %s: status=%d, want %d, body=%s", method, path, w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON: %v", method, path, err)
	}
	return env
}

func doGet(t *testing.T, srv *Server, path string) envelope {
	t.Helper()
	return do(t, srv, "GET", path, "", http.StatusOK)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
	return v
}

func wantErrorCode(t *testing.T, env envelope, code model.ErrorCode) {
	t.Helper()
	if env.Status != "error" {
		t.Errorf("status = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want %s", env.Error, code)
	}
}

func entryIDs(entries []model.ScheduleEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Problem.ID
	}
	return out
}

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/")
	if env.Status != "ok" {
		t.Errorf("status = %q, want ok", env.Status)
	}
	if env.RequestID == "" {
		t.Error("request_id is empty")
	}

	data := decode[discoveryResponse](t, env.Data)
	if data.Name != "leetfeedback API" {
		t.Errorf("name = %q", data.Name)
	}
	if len(data.Endpoints) != 7 {
		t.Errorf("endpoints count = %d, want 7", len(data.Endpoints))
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	data := decode[healthResponse](t, doGet(t, srv, "/api/v1/health").Data)
	if data.Status != "healthy" || data.Store != "ok" {
		t.Errorf("health = %+v", data)
	}
	if data.Problems != 6 {
		t.Errorf("problems = %d, want 6", data.Problems)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req_cli12345")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req_cli12345" {
		t.Errorf("X-Request-ID = %q", got)
	}
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	if env.RequestID != "req_cli12345" {
		t.Errorf("request_id = %q", env.RequestID)
	}
}

func TestListProblems(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name    string
		query   string
		want    []string
		total   int
		hasMore bool
	}{
		{"all", "", []string{"n1", "A", "n2", "B", "C", "n3"}, 6, false},
		{"page", "?limit=2&offset=1", []string{"A", "n2"}, 6, true},
		{"offset past end", "?offset=10", []string{}, 6, false},
		{"solved", "?state=solved", []string{"A", "B", "C"}, 3, false},
		{"unsolved", "?state=unsolved", []string{"n1", "n2"}, 2, false},
		{"ignored", "?state=ignored", []string{"n3"}, 1, false},
		{"active", "?state=active&limit=3", []string{"n1", "A", "n2"}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := doGet(t, srv, "/api/v1/problems"+tt.query)
			items := decode[[]model.IndexedProblem](t, env.Data)
			got := make([]string, len(items))
			for i, it := range items {
				got[i] = it.Problem.ID
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			if env.Pagination == nil || env.Pagination.Total != tt.total || env.Pagination.HasMore != tt.hasMore {
				t.Errorf("pagination = %+v, want total=%d has_more=%v", env.Pagination, tt.total, tt.hasMore)
			}
		})
	}
}

func TestListProblems_KeepsIndex(t *testing.T) {
	srv := testServer(t)
	items := decode[[]model.IndexedProblem](t, doGet(t, srv, "/api/v1/problems?state=solved").Data)
	want := []int{1, 3, 4}
	for i, it := range items {
		if it.Index != want[i] {
			t.Errorf("items[%d].index = %d, want %d", i, it.Index, want[i])
		}
	}
}

func TestListProblems_InvalidQuery(t *testing.T) {
	srv := testServer(t)
	for _, q := range []string{"?state=archived", "?limit=abc", "?offset=x"} {
		env := do(t, srv, "GET", "/api/v1/problems"+q, "", http.StatusBadRequest)
		wantErrorCode(t, env, model.ErrValidation)
	}
}

func TestGetProblem(t *testing.T) {
	srv := testServer(t)

	got := decode[model.IndexedProblem](t, doGet(t, srv, "/api/v1/problems/3").Data)
	if got.Index != 3 || got.Problem.ID != "B" || got.Problem.Solved.Tries != 5 {
		t.Errorf("problem = %+v", got)
	}

	env := do(t, srv, "GET", "/api/v1/problems/6", "", http.StatusNotFound)
	wantErrorCode(t, env, model.ErrNotFound)
	if !strings.Contains(env.Error.Message, "out of range") {
		t.Errorf("message = %q", env.Error.Message)
	}

	env = do(t, srv, "GET", "/api/v1/problems/-1", "", http.StatusNotFound)
	wantErrorCode(t, env, model.ErrNotFound)

	env = do(t, srv, "GET", "/api/v1/problems/two", "", http.StatusBadRequest)
	wantErrorCode(t, env, model.ErrValidation)
}

func TestReplaceProblems(t *testing.T) {
	srv := testServer(t)

	body := `[{"id":"x","difficulty":2},{"difficulty":0,"solved":{"value":true,"date":1000,"tries":1}}]`
	env := do(t, srv, "PUT", "/api/v1/problems", body, http.StatusOK)
	data := decode[struct {
		Count int         `json:"count"`
		Stats model.Stats `json:"stats"`
	}](t, env.Data)
	if data.Count != 2 || data.Stats.SolvedActive != 1 {
		t.Errorf("replace result = %+v", data)
	}

	items := decode[[]model.IndexedProblem](t, doGet(t, srv, "/api/v1/problems").Data)
	if len(items) != 2 || items[0].Problem.ID != "x" || items[1].Problem.ID != "p1" {
		t.Errorf("stored = %+v", items)
	}
}

func TestReplaceProblems_Invalid(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"not json", "not json", "Invalid JSON body"},
		{"bad difficulty", `[{"id":"a","difficulty":0},{"id":"b","difficulty":7}]`, "#1"},
		{"negative tries", `[{"id":"a","solved":{"value":true,"tries":-1}}]`, "tries"},
		{"duplicate id", `[{"id":"a"},{"id":"a"}]`, "duplicates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := do(t, srv, "PUT", "/api/v1/problems", tt.body, http.StatusBadRequest)
			wantErrorCode(t, env, model.ErrValidation)
			if !strings.Contains(env.Error.Message, tt.msg) {
				t.Errorf("message = %q, want it to mention %q", env.Error.Message, tt.msg)
			}
		})
	}

	// The stored sequence is untouched.
	env := doGet(t, srv, "/api/v1/problems")
	if env.Pagination.Total != 6 {
		t.Errorf("total after failed replace = %d, want 6", env.Pagination.Total)
	}
}

func TestToggleIgnore(t *testing.T) {
	srv := testServer(t)

	first := decode[model.IndexedProblem](t, do(t, srv, "POST", "/api/v1/problems/0/ignore", "", http.StatusOK).Data)
	if !first.Problem.Ignored {
		t.Error("first toggle: ignored = false")
	}
	if first.Index != 0 || first.Problem.ID != "n1" || first.Problem.Name != "Two Sum" {
		t.Errorf("first toggle returned %+v", first)
	}
	stored := decode[model.IndexedProblem](t, doGet(t, srv, "/api/v1/problems/0").Data)
	if !stored.Problem.Ignored {
		t.Error("toggle not persisted")
	}

	second := decode[model.IndexedProblem](t, do(t, srv, "POST", "/api/v1/problems/0/ignore", "", http.StatusOK).Data)
	if second.Problem.Ignored {
		t.Error("second toggle: ignored = true")
	}

	env := do(t, srv, "POST", "/api/v1/problems/42/ignore", "", http.StatusNotFound)
	wantErrorCode(t, env, model.ErrNotFound)
}

func TestToggleIgnore_Concurrent(t *testing.T) {
	srv := testServer(t)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/api/v1/problems/2/ignore", nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("status = %d", w.Code)
			}
		}()
	}
	wg.Wait()

	got := decode[model.IndexedProblem](t, doGet(t, srv, "/api/v1/problems/2").Data)
	if got.Problem.Ignored {
		t.Errorf("after %d toggles ignored = true, want false", n)
	}
}

func TestRecordAttempt(t *testing.T) {
	srv := testServer(t)

	env := do(t, srv, "POST", "/api/v1/problems/2/attempts", `{"accepted":false}`, http.StatusCreated)
	failed := decode[recordAttemptResponse](t, env.Data)
	if !strings.HasPrefix(failed.Attempt.ID, "att_") {
		t.Errorf("attempt id = %q, want att_ prefix", failed.Attempt.ID)
	}
	if failed.Attempt.AttemptedAt != testNow.UnixMilli() {
		t.Errorf("attempted_at = %d, want clock time", failed.Attempt.AttemptedAt)
	}
	if failed.Problem.Problem.Solved.Value || failed.Problem.Problem.Solved.Tries != 1 {
		t.Errorf("after failed attempt: %+v", failed.Problem.Problem.Solved)
	}

	env = do(t, srv, "POST", "/api/v1/problems/2/attempts", `{"accepted":true,"attempted_at":1700000000000}`, http.StatusCreated)
	ok := decode[recordAttemptResponse](t, env.Data)
	want := model.SolvedState{Value: true, Date: 1700000000000, Tries: 2}
	if ok.Problem.Problem.Solved != want {
		t.Errorf("after accepted attempt: %+v, want %+v", ok.Problem.Problem.Solved, want)
	}

	list := doGet(t, srv, "/api/v1/problems/2/attempts")
	attempts := decode[[]model.Attempt](t, list.Data)
	if len(attempts) != 2 || list.Pagination.Total != 2 {
		t.Fatalf("attempts = %+v", attempts)
	}
	// Oldest first: the explicit timestamp predates the clock.
	if !attempts[0].Accepted || attempts[1].Accepted {
		t.Errorf("attempt order = %+v", attempts)
	}
}

func TestRecordAttempt_Invalid(t *testing.T) {
	srv := testServer(t)

	env := do(t, srv, "POST", "/api/v1/problems/2/attempts", `{"accepted":`, http.StatusBadRequest)
	wantErrorCode(t, env, model.ErrValidation)

	env = do(t, srv, "POST", "/api/v1/problems/2/attempts", `{"attempted_at":-5}`, http.StatusBadRequest)
	wantErrorCode(t, env, model.ErrValidation)

	env = do(t, srv, "POST", "/api/v1/problems/9/attempts", `{"accepted":true}`, http.StatusNotFound)
	wantErrorCode(t, env, model.ErrNotFound)
}

func TestScheduleToday(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		query  string
		want   []string
		quotas [2]int // review, new
	}{
		// 4 * 0.7 = 2 review, 4 * 0.3 = 1 new, one slot backfilled from new.
		{"focus review backfills new", "?count=4&mode=focus-review", []string{"n1", "n2", "A", "B"}, [2]int{2, 1}},
		{"only review", "?count=2&mode=only-review", []string{"A", "B"}, [2]int{2, 0}},
		{"only new backfills review", "?count=3&mode=3", []string{"n1", "n2", "A"}, [2]int{0, 3}},
		{"default count and mode", "", []string{"n1", "n2", "A", "B", "C"}, [2]int{3, 1}},
		{"grandparent", "?count=4&grandparent=Graphs", []string{"n2", "A", "B"}, [2]int{2, 1}},
		{"grandparent any of", "?count=10&mode=focus-new&grandparent=Arrays,Graphs&parent_topic=BFS", []string{"n2"}, [2]int{3, 7}},
		{"where", "?count=5&where=" + "problem.difficulty%20%3D%3D%3D%200", []string{"n1", "A"}, [2]int{3, 1}},
		{"zero", "?count=0", []string{}, [2]int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := decode[model.ScheduleResult](t, doGet(t, srv, "/api/v1/schedule/today"+tt.query).Data)
			if got := entryIDs(res.Entries); strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("entries = %v, want %v", got, tt.want)
			}
			if res.ReviewQuota != tt.quotas[0] || res.NewQuota != tt.quotas[1] {
				t.Errorf("quota = %d/%d, want %d/%d", res.ReviewQuota, res.NewQuota, tt.quotas[0], tt.quotas[1])
			}
		})
	}
}

func TestScheduleToday_EntryDetails(t *testing.T) {
	srv := testServer(t)
	res := decode[model.ScheduleResult](t, doGet(t, srv, "/api/v1/schedule/today?count=4").Data)

	if res.Mode != "focus-review" || res.Target != 4 || res.NewPool != 2 || res.ReviewPool != 3 {
		t.Errorf("result = %+v", res)
	}
	wantIdx := []int{0, 2, 1, 3}
	wantQueue := []string{"new", "new", "review", "review"}
	for i, e := range res.Entries {
		if e.Index != wantIdx[i] || e.Queue != wantQueue[i] {
			t.Errorf("entries[%d] = index %d queue %s, want %d %s", i, e.Index, e.Queue, wantIdx[i], wantQueue[i])
		}
	}
	if !(res.Entries[2].Score > res.Entries[3].Score) {
		t.Errorf("review scores not descending: %v, %v", res.Entries[2].Score, res.Entries[3].Score)
	}
}

func tiedReviewProblems() []model.Problem {
	tied := model.SolvedState{Value: true, Date: daysAgo(5), Tries: 2}
	return []model.Problem{
		{ID: "t1", Difficulty: model.DifficultyMedium, Solved: tied},
		{ID: "t2", Difficulty: model.DifficultyMedium, Solved: tied},
		{ID: "t3", Difficulty: model.DifficultyMedium, Solved: tied},
		{ID: "stale", Difficulty: model.DifficultyHard,
			Solved: model.SolvedState{Value: true, Date: daysAgo(60), Tries: 5}},
	}
}

func TestScheduleToday_Jitter(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Schedule.Jitter = true
	srv := newTestServer(t, cfg, tiedReviewProblems())

	orders := map[string]bool{}
	for range 50 {
		res := decode[model.ScheduleResult](t, doGet(t, srv, "/api/v1/schedule/today?count=4&mode=only-review").Data)
		ids := entryIDs(res.Entries)
		if len(ids) != 4 || ids[0] != "stale" {
			t.Fatalf("entries = %v, want stale first of 4", ids)
		}
		for _, e := range res.Entries {
			base := prediction.ScoreRevision(testNow, e.Problem)
			if e.Score < base || e.Score >= base+0.0001 {
				t.Errorf("%s score %v outside [%v, %v)", e.Problem.ID, e.Score, base, base+0.0001)
			}
		}
		orders[strings.Join(ids[1:], ",")] = true
	}
	if len(orders) < 2 {
		t.Errorf("tied problems kept one order across requests: %v", orders)
	}
}

func TestScheduleToday_NoJitterKeepsInputOrder(t *testing.T) {
	srv := newTestServer(t, config.DefaultServerConfig(), tiedReviewProblems())
	for range 5 {
		res := decode[model.ScheduleResult](t, doGet(t, srv, "/api/v1/schedule/today?count=4&mode=only-review").Data)
		if got := strings.Join(entryIDs(res.Entries), ","); got != "stale,t1,t2,t3" {
			t.Fatalf("entries = %s, want stale,t1,t2,t3", got)
		}
		for _, e := range res.Entries {
			if base := prediction.ScoreRevision(testNow, e.Problem); e.Score != base {
				t.Errorf("%s score %v, want %v", e.Problem.ID, e.Score, base)
			}
		}
	}
}

func TestScheduleToday_InvalidQuery(t *testing.T) {
	srv := testServer(t)
	for _, q := range []string{"?count=-1", "?count=many", "?mode=sometimes", "?where=problem.("} {
		env := do(t, srv, "GET", "/api/v1/schedule/today"+q, "", http.StatusBadRequest)
		wantErrorCode(t, env, model.ErrValidation)
	}
}

func TestStats(t *testing.T) {
	srv := testServer(t)
	got := decode[model.Stats](t, doGet(t, srv, "/api/v1/stats").Data)
	want := model.Stats{Total: 6, Ignored: 1, Active: 5, SolvedActive: 3, UnsolvedActive: 2, UnsolvedIgnored: 1}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
