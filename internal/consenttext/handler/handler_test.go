package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentd/internal/consenttext"
	"consentd/internal/consenttext/handler/mocks"
	dErrors "consentd/pkg/domain-errors"
	"consentd/pkg/testutil"
)

type TextHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *TextHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestTextHandlerSuite(t *testing.T) {
	suite.Run(t, new(TextHandlerSuite))
}

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func sampleText() *consenttext.ConsentText {
	body := "Ich willige ein."
	return &consenttext.ConsentText{
		ID:        7,
		Version:   "v1.2",
		Language:  "de",
		Title:     "Einwilligung",
		Body:      body,
		BodyHash:  consenttext.HashBody(body),
		CreatedAt: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	}
}

func (s *TextHandlerSuite) TestHandleCreate() {
	r, mockService := newTestHandler(s.T())
	text := sampleText()
	mockService.EXPECT().
		Create(gomock.Any(), "v1.2", "de", "Einwilligung", text.Body).
		Return(text, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/texts", createTextRequest{
		Version:  "v1.2",
		Language: "de",
		Title:    "Einwilligung",
		Body:     text.Body,
	})
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusCreated, rr.Code)
	resp := testutil.UnmarshalResponse[textResponse](s.T(), rr)
	s.Equal(int64(7), resp.ID)
	s.Equal("v1.2", resp.Version)
	s.Equal(text.BodyHash, resp.BodyHash)
	s.Equal(text.BodyHash[:hashPreviewLen], resp.HashPreview)
}

func (s *TextHandlerSuite) TestHandleCreateBadBody() {
	r, _ := newTestHandler(s.T())

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/texts", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusBadRequest, rr.Code)
}

func (s *TextHandlerSuite) TestHandleLatestPassesLanguageThrough() {
	r, mockService := newTestHandler(s.T())
	mockService.EXPECT().Latest(gomock.Any(), "en").Return(sampleText(), nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/texts/latest?language=en", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusOK, rr.Code)
}

func (s *TextHandlerSuite) TestHandleLatestNotFound() {
	r, mockService := newTestHandler(s.T())
	mockService.EXPECT().
		Latest(gomock.Any(), "").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no consent text found"))

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/texts/latest", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *TextHandlerSuite) TestHandleList() {
	r, mockService := newTestHandler(s.T())
	mockService.EXPECT().
		ListAll(gomock.Any()).
		Return([]*consenttext.ConsentText{sampleText()}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/texts", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[listTextsResponse](s.T(), rr)
	s.Require().Len(resp.Texts, 1)
	s.Equal("v1.2", resp.Texts[0].Version)
}

func (s *TextHandlerSuite) TestHandleListEmpty() {
	r, mockService := newTestHandler(s.T())
	mockService.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/texts", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"texts":[]}`, rr.Body.String())
}

func (s *TextHandlerSuite) TestHandleListStorageUnavailable() {
	r, mockService := newTestHandler(s.T())
	mockService.EXPECT().
		ListAll(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "storage unavailable"))

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/texts", nil)
	rr := testutil.DoRequest(r, req)

	s.Equal(http.StatusServiceUnavailable, rr.Code)
}
