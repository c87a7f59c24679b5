package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"clinical-intel-be/internal/constant"
	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNoteService struct {
	lastRequest *dto.UploadNoteRequest
}

func (s *stubNoteService) Upload(ctx context.Context, req *dto.UploadNoteRequest) (*dto.UploadNoteResponse, error) {
	s.lastRequest = req

	if len(req.FileBytes) == 0 && req.Text == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Either a file or text input is required")
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = constant.FileNamePastedText
	}
	return &dto.UploadNoteResponse{
		NoteId:   uuid.New(),
		FileName: fileName,
		RawText:  req.Text,
	}, nil
}

type stubAnalysisService struct{}

func (s *stubAnalysisService) Analyze(ctx context.Context, noteId uuid.UUID) (*dto.AnalyzeNoteResponse, error) {
	return nil, fiber.NewError(fiber.StatusNotFound, "Note not found")
}

func newTestApp(noteService *stubNoteService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewNoteController(noteService, &stubAnalysisService{}).RegisterRoutes(app)
	return app
}

func TestUploadWithoutInputReturns400(t *testing.T) {
	app := newTestApp(&stubNoteService{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result serverutils.ErrResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, fiber.StatusBadRequest, result.Code)
}

func TestUploadTextField(t *testing.T) {
	noteService := &stubNoteService{}
	app := newTestApp(noteService)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("text", "Patient seen today."))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result serverutils.Response[dto.UploadNoteResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, constant.FileNamePastedText, result.Data.FileName)

	require.NotNil(t, noteService.lastRequest)
	assert.Equal(t, "Patient seen today.", noteService.lastRequest.Text)
}

func TestUploadFilePart(t *testing.T) {
	noteService := &stubNoteService{}
	app := newTestApp(noteService)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "visit_note.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Follow-up in two weeks."))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, noteService.lastRequest)
	assert.Equal(t, "visit_note.txt", noteService.lastRequest.FileName)
	assert.Equal(t, []byte("Follow-up in two weeks."), noteService.lastRequest.FileBytes)
}

func TestAnalyzeInvalidIdReturns400(t *testing.T) {
	app := newTestApp(&stubNoteService{})

	req := httptest.NewRequest("POST", "/analyze/not-a-uuid", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeUnknownIdReturns404(t *testing.T) {
	app := newTestApp(&stubNoteService{})

	req := httptest.NewRequest("POST", "/analyze/"+uuid.NewString(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
