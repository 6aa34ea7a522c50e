package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-contactform/pkg/content"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/testsupport"
	"github.com/goliatone/go-contactform/pkg/validation"
)

var formIDPattern = regexp.MustCompile(`data-form-id="([^"]+)"`)

func newTestServer(t *testing.T, options ...Option) (*Server, *httptest.Server) {
	t.Helper()
	options = append([]Option{WithLogger(zaptest.NewLogger(t))}, options...)
	s, err := New(options...)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getForm(t *testing.T, ts *httptest.Server) (string, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	match := formIDPattern.FindStringSubmatch(string(body))
	require.Len(t, match, 2, "form id missing from page")
	return match[1], string(body)
}

func dialLive(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?id=" + url.QueryEscape(id)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, event liveEvent) liveReply {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, event))
	var reply liveReply
	require.NoError(t, wsjson.Read(ctx, conn, &reply))
	return reply
}

func TestGetForm_RendersDocument(t *testing.T) {
	s, ts := newTestServer(t)

	id, body := getForm(t, ts)
	doc := testsupport.MustParseHTML(t, []byte(body))

	assert.NotNil(t, doc.QueryByText("Contact Form"))
	assert.Empty(t, doc.QueryAllByTestID("error"))
	assert.Contains(t, body, `data-live-url="/ws?id=`+id+`"`)
	assert.Contains(t, body, `name="_form" value="`+id+`"`)
	assert.Contains(t, body, `src="/assets/contactform-live.js"`)
	assert.Equal(t, 1, s.pending.size())

	other, _ := getForm(t, ts)
	assert.NotEqual(t, id, other, "each page load gets its own instance")
}

func TestPostForm_InvalidShowsErrors(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/", url.Values{
		"firstName": {"warren"},
		"lastName":  {"longname"},
		"email":     {""},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc := testsupport.MustParseHTML(t, body)

	errs := doc.QueryAllByTestID("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "email is a required field", testsupport.TextContent(errs[0]))
	assert.Nil(t, doc.QueryByTestID("submission"))
}

func TestPostForm_ValidShowsRecord(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/", url.Values{
		"_form":     {"posted"},
		"firstName": {"daniel"},
		"lastName":  {"casas"},
		"email":     {"ezra@email.com"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc := testsupport.MustParseHTML(t, body)

	assert.Empty(t, doc.QueryAllByTestID("error"))
	assert.NotNil(t, doc.QueryByTestID("submission"))
	assert.NotNil(t, doc.QueryByText("daniel"))
	assert.NotNil(t, doc.QueryByText("casas"))
	assert.NotNil(t, doc.QueryByText("ezra@email.com"))
	assert.Nil(t, doc.QueryByTestID("messageDisplay"))
	assert.NotNil(t, doc.QueryByID("posted"))
}

func TestPostForm_ClaimsPendingInstance(t *testing.T) {
	s, ts := newTestServer(t)
	id, _ := getForm(t, ts)
	require.Equal(t, 1, s.pending.size())

	resp, err := http.PostForm(ts.URL+"/", url.Values{"_form": {id}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 0, s.pending.size())
}

func TestLive_ChangeAndSubmit(t *testing.T) {
	s, ts := newTestServer(t)
	id, _ := getForm(t, ts)
	conn := dialLive(t, ts, id)
	assert.Equal(t, 0, s.pending.size(), "connection claims the instance")

	reply := exchange(t, conn, liveEvent{Type: eventChange, Field: "firstName", Value: "123"})
	assert.Equal(t, model.PhaseEditing, reply.Phase)
	assert.Equal(t, map[string]string{"firstName": "firstName must be at least 5 characters"}, reply.Errors)

	reply = exchange(t, conn, liveEvent{Type: eventChange, Field: "email", Value: "ezra@mozmail"})
	assert.Equal(t, "email must be a valid email address", reply.Errors["email"])
	assert.Len(t, reply.Errors, 2)

	reply = exchange(t, conn, liveEvent{Type: eventSubmit})
	assert.Equal(t, model.PhaseInvalid, reply.Phase)
	assert.Len(t, reply.Errors, 3)
	assert.Empty(t, reply.HTML)

	for field, value := range map[string]string{
		"firstName": "daniel",
		"lastName":  "casas",
		"email":     "ezra@email.com",
		"message":   "message text",
	} {
		exchange(t, conn, liveEvent{Type: eventChange, Field: field, Value: value})
	}

	reply = exchange(t, conn, liveEvent{Type: eventSubmit})
	assert.Equal(t, model.PhaseSubmitted, reply.Phase)
	assert.Empty(t, reply.Errors)
	require.NotEmpty(t, reply.HTML)

	doc := testsupport.MustParseHTML(t, []byte(reply.HTML))
	assert.NotNil(t, doc.QueryByText("daniel"))
	assert.NotNil(t, doc.QueryByText("message text"))
	assert.NotNil(t, doc.QueryByTestID("messageDisplay"))
	assert.NotContains(t, reply.HTML, "<html", "fragment only")
}

func TestLive_ResetDropsRecord(t *testing.T) {
	_, ts := newTestServer(t)
	id, _ := getForm(t, ts)
	conn := dialLive(t, ts, id)

	for field, value := range map[string]string{
		"firstName": "daniel",
		"lastName":  "casas",
		"email":     "ezra@email.com",
	} {
		exchange(t, conn, liveEvent{Type: eventChange, Field: field, Value: value})
	}
	reply := exchange(t, conn, liveEvent{Type: eventSubmit})
	require.Equal(t, model.PhaseSubmitted, reply.Phase)

	reply = exchange(t, conn, liveEvent{Type: eventReset})
	assert.Equal(t, model.PhaseIdle, reply.Phase)
	assert.Empty(t, reply.Errors)
	assert.Empty(t, reply.Error)
	require.NotEmpty(t, reply.HTML)

	doc := testsupport.MustParseHTML(t, []byte(reply.HTML))
	assert.Nil(t, doc.QueryByTestID("submission"), "record is gone after reset")
	assert.Nil(t, doc.QueryByText("daniel"))
	assert.Contains(t, reply.HTML, `data-phase="idle"`)
}

func TestLive_BadEventsKeepSession(t *testing.T) {
	_, ts := newTestServer(t)
	id, _ := getForm(t, ts)
	conn := dialLive(t, ts, id)

	reply := exchange(t, conn, liveEvent{Type: eventChange, Field: "phone", Value: "555"})
	assert.Contains(t, reply.Error, "unknown field")

	reply = exchange(t, conn, liveEvent{Type: "focus"})
	assert.Contains(t, reply.Error, "unknown event type")

	reply = exchange(t, conn, liveEvent{Type: eventChange, Field: "lastName", Value: "   "})
	assert.Empty(t, reply.Error)
	assert.Equal(t, "lastName is a required field", reply.Errors["lastName"])
}

func TestLive_UnknownInstance(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws?id=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContentMessagesReachValidator(t *testing.T) {
	text := content.Default()
	text.Messages = map[model.Field]map[validation.Kind]string{
		model.FieldEmail: {validation.KindInvalidFormat: "Please use a full address"},
	}
	_, ts := newTestServer(t, WithContent(text))
	id, _ := getForm(t, ts)
	conn := dialLive(t, ts, id)

	reply := exchange(t, conn, liveEvent{Type: eventChange, Field: "email", Value: "ezra@mozmail"})
	assert.Equal(t, "Please use a full address", reply.Errors["email"])
}

func TestRoutes(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(ts.URL + "/assets/contactform.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPendingForms_Expire(t *testing.T) {
	s, err := New(WithPendingTTL(time.Minute))
	require.NoError(t, err)

	now := time.Now()
	old := s.newForm(content.Default())
	s.pending.put(old, now)
	s.pending.put(s.newForm(content.Default()), now.Add(2*time.Minute))

	_, ok := s.pending.take(old.ID())
	assert.False(t, ok, "expired instance should be swept")
	assert.Equal(t, 1, s.pending.size())
}
