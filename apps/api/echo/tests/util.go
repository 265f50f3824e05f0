package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/apps/api/echo"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/fyp"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/storage/inmem"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name         string
	method       string
	path         string
	body         []byte
	session      string
	wantCode     int
	wantData     []byte
	wantLocation string
}

// setup wires a server to a freshly seeded in-memory backend.
// repoWrap, when given, decorates the FYP repository.
func setup(t *testing.T, repoWrap ...func(fyp.Repository) fyp.Repository) (Server, *inmem.DB) {
	t.Helper()

	db := testutil.SeedDB()
	conf := testutil.Config()
	validate, translator := testutil.NewValidate()

	fypRepo := inmem.NewFypRepository(db)
	for _, wrap := range repoWrap {
		fypRepo = wrap(fypRepo)
	}

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testutil.NewLogger(conf),
		UserSvc:    user.NewService(inmem.NewUserRepository(db)),
		FypSvc:     fyp.NewService(fypRepo, validate, conf.Backend.MaxConcurrency),
		Validate:   validate,
		Translator: translator,
	})
	return app, db
}

func newAuthRequest(method, path, session string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: testutil.CookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decodeBody() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.session, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "body: %s", rec.Body.String())
	if tt.wantLocation != "" {
		assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
