package backend

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

const cookieName = "JSESSIONID"

// fakeBackend records requests and answers them from a route table.
type fakeBackend struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	routes   map[string]http.HandlerFunc
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := ioutil.ReadAll(r.Body)
	fb.mu.Lock()
	fb.requests = append(fb.requests, r)
	fb.bodies = append(fb.bodies, string(body))
	fb.mu.Unlock()

	r.Body = ioutil.NopCloser(strings.NewReader(string(body)))
	if h, ok := fb.routes[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	http.NotFound(w, r)
}

func (fb *fakeBackend) last() (*http.Request, string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := len(fb.requests)
	return fb.requests[n-1], fb.bodies[n-1]
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, routes map[string]http.HandlerFunc, opts ...Option) (*Client, *fakeBackend) {
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	c, err := NewClient(core.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, SessionCookieName: cookieName}, opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, fb
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantExpired bool
		wantStatus  int
		wantMsg     string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantExpired: true},
		{name: "forbidden", status: http.StatusForbidden, wantExpired: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error": "db down"}`, wantStatus: 500, wantMsg: "db down"},
		{name: "not found", status: http.StatusNotFound, body: `{"message": "no such student"}`, wantStatus: 404, wantMsg: "no such student"},
		{name: "bad json", status: http.StatusOK, body: `{"studentId":`, wantStatus: 200, wantMsg: "invalid response body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, map[string]http.HandlerFunc{
				"GET /faculty/allstudents": jsonHandler(tt.status, tt.body),
			})
			_, err := NewFypRepository(c).QueryStudents(context.Background(), fyp.ScopeAll)
			if tt.wantExpired {
				assert.True(t, core.IsAuthExpired(err), "got %v", err)
				return
			}
			var rerr *core.RequestError
			if assert.True(t, errors.As(err, &rerr), "got %v", err) {
				assert.Equal(t, tt.wantStatus, rerr.StatusCode)
				assert.Equal(t, tt.wantMsg, rerr.Message)
				assert.Equal(t, "/faculty/allstudents", rerr.Path)
			}
		})
	}

	t.Run("transport failure has no status", func(t *testing.T) {
		c, err := NewClient(core.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, SessionCookieName: cookieName})
		if !assert.NoError(t, err) {
			return
		}
		_, err = NewUserRepository(c).GetSessionUser(context.Background())
		var rerr *core.RequestError
		if assert.True(t, errors.As(err, &rerr), "got %v", err) {
			assert.Zero(t, rerr.StatusCode)
			assert.Error(t, rerr.Err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]http.HandlerFunc{
			"GET /auth/me": jsonHandler(http.StatusOK, `{}`),
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewUserRepository(c).GetSessionUser(ctx)
		assert.Equal(t, context.Canceled, errors.Cause(err))
	})
}

func TestSessionCookie(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /auth/me": jsonHandler(http.StatusOK, `{"id": 3, "name": "Ada", "role": "fyp_committee"}`),
	}

	t.Run("forwarded from context", func(t *testing.T) {
		c, fb := newTestClient(t, routes)
		ctx := user.ContextWithCookie(context.Background(), &http.Cookie{Name: "portal", Value: "abc"})

		usr, err := NewUserRepository(c).GetSessionUser(ctx)
		assert.NoError(t, err)
		assert.Equal(t, user.User{ID: "3", Name: "Ada", Role: user.RoleCommittee, Authenticated: true}, usr)

		req, _ := fb.last()
		cookie, err := req.Cookie(cookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "abc", cookie.Value)
		}
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
	})

	t.Run("seeded jar", func(t *testing.T) {
		c, fb := newTestClient(t, routes, WithSessionCookie("from-jar"))
		_, err := NewUserRepository(c).GetSessionUser(context.Background())
		assert.NoError(t, err)

		req, _ := fb.last()
		cookie, err := req.Cookie(cookieName)
		if assert.NoError(t, err) {
			assert.Equal(t, "from-jar", cookie.Value)
		}
	})

	t.Run("no cookie", func(t *testing.T) {
		c, fb := newTestClient(t, routes)
		_, _ = NewUserRepository(c).GetSessionUser(context.Background())
		req, _ := fb.last()
		_, err := req.Cookie(cookieName)
		assert.Equal(t, http.ErrNoCookie, err)
	})
}

func TestFypRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("submissions path is escaped and flags normalized", func(t *testing.T) {
		c, fb := newTestClient(t, map[string]http.HandlerFunc{
			"GET /submissions/s 1": jsonHandler(http.StatusOK, `[
				{"file_id": 10, "filename": "p.pdf", "doc_type": "Proposal", "submission_datetime": "2025-01-01T10:00:00", "is_approved": "false", "submitted_late": 1}
			]`),
		})
		subs, err := NewFypRepository(c).QuerySubmissions(ctx, "s 1")
		if !assert.NoError(t, err) || !assert.Len(t, subs, 1) {
			return
		}
		assert.Equal(t, fyp.ID("10"), subs[0].FileID)
		assert.False(t, bool(subs[0].IsApproved))
		assert.True(t, bool(subs[0].SubmittedLate))

		req, _ := fb.last()
		assert.Equal(t, "/submissions/s%201", req.URL.EscapedPath())
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]http.HandlerFunc{
			"GET /faculty/mystudents": jsonHandler(http.StatusOK, `[]`),
		})
		students, err := NewFypRepository(c).QueryStudents(ctx, fyp.ScopeSupervised)
		assert.NoError(t, err)
		assert.NotNil(t, students)
		assert.Empty(t, students)
	})

	t.Run("post bodies", func(t *testing.T) {
		c, fb := newTestClient(t, map[string]http.HandlerFunc{
			"POST /faculty/addfeedback":    jsonHandler(http.StatusOK, ``),
			"POST /faculty/changedeadline": jsonHandler(http.StatusOK, `{"ok": true}`),
		})
		repo := NewFypRepository(c)

		assert.NoError(t, repo.AddFeedback(ctx, fyp.NewFeedback{FileID: "7", Content: "good"}))
		req, body := fb.last()
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"file_id": "7", "content": "good"}`, body)

		assert.NoError(t, repo.ChangeDeadline(ctx, fyp.DeadlineChange{DocType: fyp.DocThesis, DeadlineDate: "2025-05-30"}))
		_, body = fb.last()
		assert.JSONEq(t, `{"doc_type": "Thesis", "deadline_date": "2025-05-30"}`, body)
	})

	t.Run("release and hide are GETs", func(t *testing.T) {
		c, fb := newTestClient(t, map[string]http.HandlerFunc{
			"GET /faculty/releasegrades":      jsonHandler(http.StatusOK, `"ok"`),
			"GET /faculty/hidegrades":         jsonHandler(http.StatusOK, ``),
			"GET /faculty/gradereleasestatus": jsonHandler(http.StatusOK, `{"released": "true"}`),
		})
		repo := NewFypRepository(c)
		assert.NoError(t, repo.ReleaseGrades(ctx))
		assert.NoError(t, repo.HideGrades(ctx))
		status, err := repo.GetGradeReleaseStatus(ctx)
		assert.NoError(t, err)
		assert.True(t, bool(status.Released))
		assert.Len(t, fb.requests, 3)
	})

	t.Run("download", func(t *testing.T) {
		c, fb := newTestClient(t, map[string]http.HandlerFunc{
			"POST /download": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				w.Header().Set("Content-Disposition", `attachment; filename="thesis final.pdf"`)
				_, _ = w.Write([]byte("%PDF-1.4\x00\x01"))
			},
		})
		blob, err := NewFypRepository(c).DownloadSubmission(ctx, fyp.SubmissionRef{FileID: "9"})
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, fyp.Blob{Filename: "thesis final.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4\x00\x01")}, blob)
		_, body := fb.last()
		assert.JSONEq(t, `{"file_id": "9"}`, body)
	})

	t.Run("upload is multipart", func(t *testing.T) {
		var (
			meta    fyp.UploadMetadata
			docType string
			file    string
		)
		c, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST /student/upload": func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				docType = r.FormValue("doc_type")
				if f, _, err := r.FormFile("metadata"); err == nil {
					_ = json.NewDecoder(f).Decode(&meta)
				}
				if f, hdr, err := r.FormFile("file"); err == nil {
					data, _ := ioutil.ReadAll(f)
					file = hdr.Filename + ":" + string(data)
				}
				w.WriteHeader(http.StatusCreated)
			},
		})
		err := NewFypRepository(c).UploadSubmission(ctx, fyp.Upload{
			DocType: fyp.DocDesign, Filename: "design.pdf", ContentType: "application/pdf", Data: []byte("abc"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "Design Document", docType)
		assert.Equal(t, fyp.UploadMetadata{Filename: "design.pdf", DocType: fyp.DocDesign, Size: 3}, meta)
		assert.Equal(t, "design.pdf:abc", file)
	})
}
