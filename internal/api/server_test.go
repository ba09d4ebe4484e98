package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/questions"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/workitem"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv   *httptest.Server
	board *leaderboard.Service
	reg   *Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "fido.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	kv := st.KV()
	board := leaderboard.NewService(kv)
	catalog, err := competency.NewCatalog([]competency.Area{"Leadership", "Communication"})
	require.NoError(t, err)

	factory := func(assessor, target string) (*feedback.Session, error) {
		return feedback.New(
			feedback.Config{Assessor: assessor, Target: target, Catalog: catalog},
			questions.NewStaticSource(),
			feedback.WithSink(feedback.MultiSink{feedback.NewStoreSink(st.FeedbackRepo()), board}),
		)
	}
	reg := NewRegistry(factory, nil)
	t.Cleanup(func() { reg.CloseAll(context.Background()) })

	s := New(Deps{
		Registry:    reg,
		WorkItems:   workitem.NewService(kv),
		Leaderboard: board,
		Feedback:    st.FeedbackRepo(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, board: board, reg: reg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	var created createSessionResponse
	status := env.do(t, http.MethodPost, "/api/sessions", createSessionRequest{Assessor: "lee", Target: "Sam"}, &created)
	require.Equal(t, http.StatusCreated, status)
	id := created.Session.ID
	require.NotEmpty(t, id)
	assert.Equal(t, feedback.PhaseCollecting, created.Turn.Phase)
	require.Len(t, created.Turn.Messages, 2)
	assert.Equal(t, competency.Area("Leadership"), created.Turn.Messages[1].Competency)

	var turn turnView
	for _, text := range []string{"Leads by example every single day", "Writes very clear design documents"} {
		require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/sessions/"+id+"/messages", messageRequest{Text: text}, &turn))
	}
	assert.Equal(t, feedback.PhaseReviewing, turn.Phase)
	assert.Equal(t, []string{feedback.ChoiceAdjust, feedback.ChoiceConfirm}, turn.Choices)

	var view sessionView
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/sessions/"+id, nil, &view))
	assert.Contains(t, view.Summary, "Leadership: 1/5")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/sessions/"+id+"/messages", messageRequest{Text: feedback.ChoiceConfirm}, &turn))
	assert.Equal(t, feedback.PhaseComplete, turn.Phase)
	require.NotNil(t, turn.Record)
	assert.Empty(t, turn.DeliveryError)
	assert.Empty(t, turn.AnalysisError)

	// Completion ends the session's life on the server.
	assert.Equal(t, 0, env.reg.Len())
	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sessions/"+id, nil, &errBody))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/sessions/"+id+"/messages", messageRequest{Text: "again"}, &errBody))

	var records struct {
		Records []feedback.Record `json:"records"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/feedback?target=Sam", nil, &records))
	require.Len(t, records.Records, 1)
	assert.Equal(t, turn.Record.ID, records.Records[0].ID)

	var profile profileView
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/lee/profile", nil, &profile))
	// Submission plus language practice; the answers are too short for
	// the detailed bonus.
	assert.EqualValues(t, 75, profile.Earned)
	assert.Equal(t, "🌱 Rookie", profile.Tier)
	require.NotNil(t, profile.PointsToNext)
	assert.EqualValues(t, 25, *profile.PointsToNext)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/sessions/"+id, nil, &errBody))
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	var created createSessionResponse
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/sessions", createSessionRequest{Assessor: "lee", Target: "Sam"}, &created))
	require.Equal(t, 1, env.reg.Len())

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/sessions/"+created.Session.ID, nil, nil))
	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/sessions/"+created.Session.ID, nil, &errBody))
	assert.Equal(t, 0, env.reg.Len())
}

func TestCreateSession_Invalid(t *testing.T) {
	env := newTestEnv(t)
	var errBody map[string]string
	status := env.do(t, http.MethodPost, "/api/sessions", createSessionRequest{Assessor: "lee"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errBody["error"], "target")
	assert.Equal(t, 0, env.reg.Len())
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/sessions/nope/messages", messageRequest{Text: "hi"}, &errBody))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/sessions/nope", nil, &errBody))
}

func TestWorkItems(t *testing.T) {
	env := newTestEnv(t)

	var logged workitem.Item
	status := env.do(t, http.MethodPost, "/api/users/u1/workitems", map[string]any{
		"title":       "Payment retries",
		"description": "Retry failed captures",
		"type":        "feature",
		"status":      "in_progress",
		"complexity":  3,
	}, &logged)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "u1", logged.UserID)

	var errBody map[string]string
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/users/u1/workitems", map[string]any{
		"title": "x", "description": "y", "type": "chore", "status": "planned", "complexity": 1,
	}, &errBody))

	var updated workitem.Item
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPatch, "/api/users/u1/workitems/"+logged.ID, map[string]any{
		"status":     "completed",
		"time_spent": 3.5,
	}, &updated))
	assert.Equal(t, workitem.StatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletionDate)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/api/users/u1/workitems/missing", map[string]any{}, &errBody))

	var list struct {
		Items []workitem.Item `json:"items"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/u1/workitems", nil, &list))
	assert.Len(t, list.Items, 1)

	var d workitem.Dashboard
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/u1/dashboard", nil, &d))
	assert.Equal(t, 1, d.CompletedItems)
	assert.Equal(t, 3.5, d.AverageCompletionTime)
}

func TestLeaderboardAndRewards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.board.Award(ctx, "ann", leaderboard.Award{Type: leaderboard.AwardFeedbackSubmission, Points: 350})
	require.NoError(t, err)
	_, err = env.board.Award(ctx, "ben", leaderboard.Award{Type: leaderboard.AwardFeedbackSubmission, Points: 40})
	require.NoError(t, err)

	var board struct {
		Standings []leaderboard.Standing `json:"standings"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/leaderboard", nil, &board))
	require.Len(t, board.Standings, 2)
	assert.Equal(t, "ann", board.Standings[0].User.ID)
	assert.Equal(t, "Master", board.Standings[0].Tier.Title)

	var rewards struct {
		Rewards []leaderboard.Reward `json:"rewards"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/rewards", nil, &rewards))
	assert.Len(t, rewards.Rewards, 3)

	var redemption leaderboard.Redemption
	assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/users/ann/redeem", redeemRequest{RewardID: "lunch-voucher"}, &redemption))
	assert.Equal(t, "lunch-voucher", redemption.RewardID)

	var errBody map[string]string
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/users/ben/redeem", redeemRequest{RewardID: "coffee-voucher"}, &errBody))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/users/ben/redeem", redeemRequest{RewardID: "yacht"}, &errBody))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/users/ben/redeem", map[string]string{}, &errBody))
}

func TestSessionSocket(t *testing.T) {
	env := newTestEnv(t)

	var created createSessionResponse
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/sessions", createSessionRequest{Assessor: "lee", Target: "Sam"}, &created))

	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/sessions/" + created.Session.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var view sessionView
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, created.Session.ID, view.ID)
	assert.Len(t, view.Transcript, 2)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Great mentor")))
	var turn turnView
	require.NoError(t, conn.ReadJSON(&turn))
	assert.Equal(t, competency.Area("Communication"), turn.Current)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"Clear speaker"}`)))
	turn = turnView{}
	require.NoError(t, conn.ReadJSON(&turn))
	assert.Equal(t, feedback.PhaseReviewing, turn.Phase)
	assert.Equal(t, "Clear speaker", turn.Messages[0].Text)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(feedback.ChoiceConfirm)))
	turn = turnView{}
	require.NoError(t, conn.ReadJSON(&turn))
	assert.Equal(t, feedback.PhaseComplete, turn.Phase)
	assert.Equal(t, 0, env.reg.Len())
}

func TestFrameText(t *testing.T) {
	assert.Equal(t, "hello", frameText([]byte(`{"text":"hello"}`)))
	assert.Equal(t, "plain answer", frameText([]byte("plain answer")))
	assert.Equal(t, "{not json", frameText([]byte("{not json")))
}
