package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"batepapo-service/internal/middleware"
	"batepapo-service/internal/mocks"
	"batepapo-service/internal/models"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/services"
)

func setupParticipantRouter(participants *mocks.ParticipantRepositoryMock, messages *mocks.MessageRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	presence := services.NewPresenceService(participants, messages, nil, 10*time.Second)
	handler := NewParticipantHandler(presence, nil)

	r := gin.New()
	r.Use(middleware.Identity())
	r.POST("/participants", handler.Join)
	r.GET("/participants", handler.List)
	r.POST("/status", handler.Status)
	return r
}

func TestJoinSuccess(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	router := setupParticipantRouter(participants, messages)

	participants.On("CreateParticipant", mock.Anything, mock.MatchedBy(func(p models.Participant) bool {
		return p.Name == "ana" && !p.LastStatus.IsZero()
	})).Return(nil).Once()
	messages.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.From == "ana" && m.Type == models.KindStatus && m.Text == "entra na sala..."
	})).Return(models.Message{ID: "n1"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"ana"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	participants.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestJoinTrimsName(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	messages := new(mocks.MessageRepositoryMock)
	router := setupParticipantRouter(participants, messages)

	participants.On("CreateParticipant", mock.Anything, mock.MatchedBy(func(p models.Participant) bool {
		return p.Name == "ana"
	})).Return(nil).Once()
	messages.On("CreateMessage", mock.Anything, mock.Anything).Return(models.Message{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"  ana  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	participants.AssertExpectations(t)
}

func TestJoinConflict(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	router := setupParticipantRouter(participants, new(mocks.MessageRepositoryMock))

	participants.On("CreateParticipant", mock.Anything, mock.Anything).Return(repositories.ErrNameTaken).Once()

	req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(`{"name":"ana"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinMissingName(t *testing.T) {
	router := setupParticipantRouter(new(mocks.ParticipantRepositoryMock), new(mocks.MessageRepositoryMock))

	for _, body := range []string{`{}`, `{"name":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/participants", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "body %s", body)
	}
}

func TestListParticipants(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	router := setupParticipantRouter(participants, new(mocks.MessageRepositoryMock))

	participants.On("ListParticipants", mock.Anything).
		Return([]models.Participant{{Name: "ana"}, {Name: "carol"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []models.Participant
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestListParticipantsEmpty(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	router := setupParticipantRouter(participants, new(mocks.MessageRepositoryMock))

	participants.On("ListParticipants", mock.Anything).Return(([]models.Participant)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatusRefreshesHeartbeat(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	router := setupParticipantRouter(participants, new(mocks.MessageRepositoryMock))

	participants.On("RefreshLastStatus", mock.Anything, "ana", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	req.Header.Set("User", "ana")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	participants.AssertExpectations(t)
}

func TestStatusUnknownParticipant(t *testing.T) {
	participants := new(mocks.ParticipantRepositoryMock)
	router := setupParticipantRouter(participants, new(mocks.MessageRepositoryMock))

	participants.On("RefreshLastStatus", mock.Anything, "ghost", mock.Anything).
		Return(repositories.ErrParticipantNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	req.Header.Set("User", "ghost")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusMissingIdentity(t *testing.T) {
	router := setupParticipantRouter(new(mocks.ParticipantRepositoryMock), new(mocks.MessageRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
