package restapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/mutation"
	"github.com/trezcool/darasa/core/school"
	notifysvc "github.com/trezcool/darasa/services/notify"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
	"github.com/trezcool/darasa/storage/restapi"
	"github.com/trezcool/darasa/tests"
)

// rawClient returns a client of a server replying with handler.
func rawClient(t *testing.T, handler http.HandlerFunc) *restapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := testutil.Config()
	conf.APIBaseURL = srv.URL + "/"
	return restapi.NewClient(conf, testutil.Logger(conf)).WithToken("t0ken")
}

func reply(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_fetch(t *testing.T) {
	stub := testutil.StartStub(t)
	fx := stub.Fixture
	client := stub.Client(t, fx.SchoolAdmin)
	ctx := context.Background()

	sch, err := client.FetchSchool(ctx, fx.SchoolID)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield Academy", sch.Name)

	classes, err := client.FetchClasses(ctx, fx.SchoolID)
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	students, err := client.FetchStudents(ctx, fx.SchoolID)
	require.NoError(t, err)
	assert.Len(t, students, 5)

	teachers, err := client.FetchTeachers(ctx, fx.SchoolID)
	require.NoError(t, err)
	assert.Len(t, teachers, 2)

	subjects, err := client.FetchSubjects(ctx, fx.SchoolID)
	require.NoError(t, err)
	assert.Len(t, subjects, 3)

	exam, err := client.GetExam(ctx, fx.Exam)
	require.NoError(t, err)
	assert.Equal(t, fx.ClassFiveA, exam.ClassID)
	examSubjects, err := client.GetExamSubjects(ctx, fx.Exam)
	require.NoError(t, err)
	assert.Len(t, examSubjects, 2)
}

func TestClient_aggregator(t *testing.T) {
	stub := testutil.StartStub(t)
	fx := stub.Fixture

	agg := school.NewAggregator(stub.Client(t, fx.Staff), stub.Logger)
	defer agg.Close()
	require.NoError(t, agg.Initialize(context.Background(), fx.SchoolID))

	snap, ok := agg.Snapshot()
	require.True(t, ok)
	assert.Equal(t, fx.SchoolID, snap.School.ID)
	assert.Len(t, snap.Students, 5)
	assert.Equal(t, "Jane Doe", snap.TeacherName(snap.Classes[0].ClassTeacherID))
}

func TestClient_toggleStatusThenRefetch(t *testing.T) {
	stub := testutil.StartStub(t)
	fx := stub.Fixture
	client := stub.Client(t, fx.Staff)
	ctx := context.Background()

	agg := school.NewAggregator(client, stub.Logger)
	defer agg.Close()
	require.NoError(t, agg.Initialize(ctx, fx.SchoolID))

	rec := new(notifysvc.Recorder)
	exec := mutation.NewExecutor(client, rec, agg, stub.Logger, mutation.Options{})
	require.NoError(t, exec.Execute(ctx, mutation.ToggleStatus(mutation.Students, fx.Students[0], school.StatusActive)))

	snap, _ := agg.Snapshot()
	assert.Equal(t, 2, snap.Version, "the mutation triggered a refetch")
	for _, st := range snap.Students {
		if st.ID == fx.Students[0] {
			assert.Equal(t, school.StatusInactive, st.Status)
		}
	}
	assert.Equal(t, 1, rec.Count(notifysvc.KindSuccess))
}

func TestClient_Login(t *testing.T) {
	stub := testutil.StartStub(t)
	client := restapi.NewClient(stub.Conf, stub.Logger)

	token, err := client.Login(context.Background(), "schooladmin", inmemdb.SeedPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = client.Login(context.Background(), "schooladmin", "wrong")
	var herr *core.HTTPError
	require.True(t, errors.As(err, &herr), "error = %v", err)
	assert.Equal(t, http.StatusBadRequest, herr.Status)
	assert.Equal(t, "invalid username or password", herr.Message)
}

func TestClient_Do_httpErrors(t *testing.T) {
	stub := testutil.StartStub(t)
	fx := stub.Fixture

	// students may not toggle statuses
	err := stub.Client(t, fx.Student).Do(context.Background(), http.MethodPut, fmt.Sprintf("/api/students/%d/status", fx.Students[0]),
		&school.StatusUpdate{Status: school.StatusInactive}, nil)
	var herr *core.HTTPError
	require.True(t, errors.As(err, &herr), "error = %v", err)
	assert.Equal(t, http.StatusForbidden, herr.Status)
	assert.Equal(t, "permission denied", herr.Message)

	// no token at all
	_, err = restapi.NewClient(stub.Conf, stub.Logger).FetchClasses(context.Background(), fx.SchoolID)
	require.True(t, errors.As(err, &herr), "error = %v", err)
	assert.Equal(t, http.StatusUnauthorized, herr.Status)
}

func TestClient_Do_errorMessages(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantMsg string
	}{
		{name: "message", code: http.StatusConflict, body: `{"message": "class exists"}`, wantMsg: "class exists"},
		{name: "error", code: http.StatusBadRequest, body: `{"error": "bad input"}`, wantMsg: "bad input"},
		{name: "message wins", code: http.StatusBadRequest, body: `{"error": "second", "message": "first"}`, wantMsg: "first"},
		{name: "field errors", code: http.StatusBadRequest, body: `{"section": "this field is required", "grade": "too long"}`,
			wantMsg: "grade: too long; section: this field is required"},
		{name: "no body", code: http.StatusInternalServerError, body: ``, wantMsg: "Internal Server Error"},
		{name: "html body", code: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "Bad Gateway"},
		{name: "unknown status", code: 599, body: ``, wantMsg: core.GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := rawClient(t, reply(tt.code, tt.body))
			err := client.Do(context.Background(), http.MethodDelete, "/api/classes/1", nil, nil)

			var herr *core.HTTPError
			require.True(t, errors.As(err, &herr), "error = %v", err)
			assert.Equal(t, tt.code, herr.Status)
			assert.Equal(t, tt.wantMsg, herr.Message)
		})
	}
}

func TestClient_Do_parseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `OK`},
		{name: "wrong shape", body: `{"classes": []}`},
		{name: "empty", body: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := rawClient(t, reply(http.StatusOK, tt.body))
			_, err := client.FetchClasses(context.Background(), 1)

			var herr *core.HTTPError
			require.True(t, errors.As(err, &herr), "error = %v", err)
			assert.Zero(t, herr.Status)
			assert.Equal(t, core.ErrParseMessage, herr.Message)
		})
	}
}

func TestClient_Do_nullCollection(t *testing.T) {
	client := rawClient(t, reply(http.StatusOK, `null`))
	students, err := client.FetchStudents(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestClient_Do_request(t *testing.T) {
	var got *http.Request
	var ids []string
	client := rawClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Do(context.Background(), http.MethodDelete, "/api/subjects/4", nil, nil))
	require.NoError(t, client.Do(context.Background(), http.MethodDelete, "/api/subjects/5", nil, nil))

	assert.Equal(t, "/api/subjects/5", got.URL.Path, "base URL trailing slash is trimmed")
	assert.Equal(t, "Bearer t0ken", got.Header.Get("Authorization"))
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1], "one request id per request")
}

func TestClient_Do_networkError(t *testing.T) {
	srv := httptest.NewServer(reply(http.StatusOK, `[]`))
	conf := testutil.Config()
	conf.APIBaseURL = srv.URL
	srv.Close()

	client := restapi.NewClient(conf, testutil.Logger(conf))
	_, err := client.FetchClasses(context.Background(), 1)

	var nerr *core.NetworkError
	require.True(t, errors.As(err, &nerr), "error = %v", err)
	title, _ := core.Describe(err)
	assert.Equal(t, "Network error", title)
}

func TestClient_Do_cancelled(t *testing.T) {
	client := rawClient(t, reply(http.StatusOK, `[]`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchClasses(ctx, 1)
	var nerr *core.NetworkError
	require.True(t, errors.As(err, &nerr), "error = %v", err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Do_deadline(t *testing.T) {
	client := rawClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchClasses(ctx, 1)
	var nerr *core.NetworkError
	require.True(t, errors.As(err, &nerr), "error = %v", err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "error = %v", err)
	assert.Less(t, time.Since(start), 5*time.Second, "the request context reaches the wire")
}

func TestEndpoint_Path(t *testing.T) {
	assert.Equal(t, "/api/schools/3", restapi.EndpointSchool.Path(3))
	assert.Equal(t, "/api/schools/3/teachers", restapi.EndpointTeachers.Path(3))
}
