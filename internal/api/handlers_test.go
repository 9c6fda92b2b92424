package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/catalog"
	"github.com/electroride/configurator/internal/geometry"
	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/scene"
	"github.com/electroride/configurator/internal/session"
	"github.com/electroride/configurator/internal/testutil"
)

type testServer struct {
	e        *echo.Echo
	sessions *session.Manager
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()
	sessions := session.NewManager(zap.NewNop(), 10)
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(zap.NewNop())
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Sessions:                sessions,
		Logger:                  zap.NewNop(),
		Version:                 "test",
		RejectUnknownOptions:    strict,
		WebSocketMaxMessageSize: 64 * 1024,
	}))
	return &testServer{e: e, sessions: sessions}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// unlockedSession creates a session and logs it in.
func (s *testServer) unlockedSession(t *testing.T) string {
	t.Helper()
	sess := s.sessions.Create()
	_, err := s.sessions.Login(sess.ID, models.Credentials{Email: "rider@example.com", Password: "pedal"})
	require.NoError(t, err)
	return sess.ID
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	s.sessions.Create()

	rec := s.do(http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, float64(1), body["sessions"])
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Colors        []catalog.Color       `json:"colors"`
		FrameTypes    []catalog.FrameType   `json:"frameTypes"`
		WheelSizes    []catalog.WheelSize   `json:"wheelSizes"`
		CameraPresets []models.CameraPreset `json:"cameraPresets"`
		Defaults      models.Configuration  `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, catalog.Colors(), body.Colors)
	assert.Equal(t, catalog.FrameTypes(), body.FrameTypes)
	assert.Equal(t, catalog.WheelSizes(), body.WheelSizes)
	assert.Equal(t, models.CameraPresets(), body.CameraPresets)
	assert.Equal(t, models.DefaultConfiguration(), body.Defaults)
}

func TestSessionGate(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decodeBody[models.Session](t, rec)
	assert.Equal(t, models.SessionStatusLocked, sess.Status)
	base := "/api/sessions/" + sess.ID

	rec = s.do(http.MethodGet, base+"/configuration", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody[APIError](t, rec).Code)

	rec = s.do(http.MethodPost, base+"/login", `{"email":"rider@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody[APIError](t, rec).Code)

	rec = s.do(http.MethodPost, base+"/signup", `{"email":"rider@example.com","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, base+"/login", `{"email":"rider@example.com","password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SessionStatusUnlocked, decodeBody[models.Session](t, rec).Status)

	rec = s.do(http.MethodGet, base+"/configuration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[configurationResponse](t, rec)
	assert.Equal(t, uint64(0), got.Revision)
	assert.Equal(t, models.DefaultConfiguration(), got.Configuration)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, base+"/keepalive", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, base+"/keepalive", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base+"/configuration", "").Code)
}

func TestPatchConfiguration(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)
	state, err := s.sessions.Configurator(id)
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	state.Store().Subscribe(rec.Listen)

	resp := s.do(http.MethodPatch, "/api/sessions/"+id+"/configuration",
		`{"frameType":"Mountain","frameColor":{"name":"Racing Red"},"wheelSize":29}`)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeBody[configurationResponse](t, resp)

	require.Equal(t, 1, rec.Count(), "one patch is one notification")
	last, _ := rec.Last()
	assert.Equal(t, got.Configuration, last)
	assert.Equal(t, uint64(1), got.Revision)
	assert.Equal(t, catalog.FrameMountain, got.Configuration.FrameType)
	assert.Equal(t, catalog.ColorAt(1), got.Configuration.FrameColor)
	assert.Equal(t, catalog.WheelSize(29), got.Configuration.WheelSize)
	assert.Equal(t, models.DefaultConfiguration().SeatType, got.Configuration.SeatType)
}

func TestConcurrentPatchesAnswerWithOwnWrite(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)

	const writers = 20
	responses := make([]*httptest.ResponseRecorder, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"cameraPosition":[%d,1,1]}`, i)
			responses[i] = s.do(http.MethodPatch, "/api/sessions/"+id+"/configuration", body)
		}(i)
	}
	wg.Wait()

	revisions := make(map[uint64]bool)
	for i, resp := range responses {
		require.Equal(t, http.StatusOK, resp.Code)
		got := decodeBody[configurationResponse](t, resp)
		assert.Equal(t, models.Vec3{float64(i), 1, 1}, got.Configuration.CameraPosition)
		revisions[got.Revision] = true
	}
	assert.Len(t, revisions, writers, "every write reports its own revision")
}

func TestPatchConfigurationRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"malformed", `{"frameType":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown field", `{"frameKind":"City"}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown color", `{"seatColor":{"name":"Plaid"}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown type", `{"frameType":"Hovercraft"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown power", `{"motorPower":9000}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, true)
			id := s.unlockedSession(t)

			rec := s.do(http.MethodPatch, "/api/sessions/"+id+"/configuration", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.kind, decodeBody[APIError](t, rec).Code)

			sess, _ := s.sessions.Get(id)
			assert.Zero(t, sess.Revision, "rejected patches leave the store untouched")
		})
	}
}

func TestPatchConfigurationLenient(t *testing.T) {
	s := newTestServer(t, false)
	id := s.unlockedSession(t)

	rec := s.do(http.MethodPatch, "/api/sessions/"+id+"/configuration", `{"frameType":"Hovercraft"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/sessions/"+id+"/geometry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[geometry.Derived](t, rec)
	assert.Equal(t, geometry.Frame("Hovercraft"), got.Frame)

	// Colors still have to exist, an unknown one has nothing to render
	rec = s.do(http.MethodPatch, "/api/sessions/"+id+"/configuration", `{"seatColor":{"name":"Plaid"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetAndCameraPreset(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)
	base := "/api/sessions/" + id

	rec := s.do(http.MethodPut, base+"/camera/side", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CameraSide.Position, decodeBody[configurationResponse](t, rec).Configuration.CameraPosition)

	rec = s.do(http.MethodPut, base+"/camera/isometric", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.do(http.MethodPatch, base+"/configuration", `{"batteryType":"Dual"}`)

	rec = s.do(http.MethodPost, base+"/configuration/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[configurationResponse](t, rec)
	assert.Equal(t, models.DefaultConfiguration(), got.Configuration)
	assert.Equal(t, uint64(3), got.Revision)
}

func TestScene(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)
	base := "/api/sessions/" + id
	s.do(http.MethodPatch, base+"/configuration", `{"motorPower":1000,"wheelSize":20}`)

	rec := s.do(http.MethodGet, base+"/geometry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	derived := decodeBody[geometry.Derived](t, rec)
	assert.InDelta(t, 0.24, derived.MotorSize, 1e-9)
	assert.InDelta(t, 20.0/29.0, derived.WheelScale, 1e-9)

	rec = s.do(http.MethodGet, base+"/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fromJSON scene.Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fromJSON))
	assert.Equal(t, "bike", fromJSON.Root.Name)
	assert.InDelta(t, 0.24, fromJSON.Geometry.MotorSize, 1e-9)

	rec = s.do(http.MethodGet, base+"/scene/msgpack", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get(echo.HeaderContentType))
	var fromMsgpack scene.Scene
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &fromMsgpack))
	assert.Equal(t, fromJSON.Root.Count(), fromMsgpack.Root.Count())
	assert.Equal(t, fromJSON.Geometry, fromMsgpack.Geometry)
}

func TestDesignRoundTrip(t *testing.T) {
	s := newTestServer(t, true)
	src := s.unlockedSession(t)
	s.do(http.MethodPatch, "/api/sessions/"+src+"/configuration",
		`{"frameType":"Cargo","batteryColor":{"name":"Purple"},"rangeKm":100}`)

	rec := s.do(http.MethodGet, "/api/sessions/"+src+"/design?name=Weekend%20Hauler", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "weekend-hauler.yaml")
	doc := rec.Body.String()
	assert.Contains(t, doc, "name: Weekend Hauler")

	dst := s.unlockedSession(t)
	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+dst+"/design", strings.NewReader(doc))
	req.Header.Set(echo.HeaderContentType, "application/yaml")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[designResponse](t, rec)
	assert.Equal(t, "Weekend Hauler", got.Name)
	assert.Equal(t, uint64(1), got.Revision, "a design loads in one write")

	srcState, _ := s.sessions.Configurator(src)
	assert.Equal(t, srcState.Store().Get(), got.Configuration)
}

func TestPutDesignRejects(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)
	path := "/api/sessions/" + id + "/design"

	for name, doc := range map[string]string{
		"not yaml":      "frame: [",
		"wrong version": "version: 7\n",
		"unknown type":  "version: 1\nframe: {type: Penny-farthing, color: Silver}\n",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(doc))
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDesignNameFallback(t *testing.T) {
	s := newTestServer(t, true)
	id := s.unlockedSession(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	h := NewDesignHandler(s.sessions, true, nil)
	if assert.NoError(t, h.HandleGetDesign(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "name: My E-Bike")
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "my-e-bike.yaml")
	}
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(nil)
	e.GET("/boom", func(c echo.Context) error { return assert.AnError })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[APIError](t, rec)
	assert.Equal(t, "UNKNOWN_ERROR", body.Code)
	assert.Empty(t, body.Details)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", decodeBody[APIError](t, rec).Code)
}
