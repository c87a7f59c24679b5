package controller

import (
	"io"

	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/pkg/serverutils"
	"clinical-intel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService     service.INoteService
	analysisService service.IAnalysisService
}

func NewNoteController(noteService service.INoteService, analysisService service.IAnalysisService) INoteController {
	return &noteController{
		noteService:     noteService,
		analysisService: analysisService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", c.Upload)
	r.Post("/analyze/:id", c.Analyze)
}

// Upload accepts either a multipart "file" part or a "text" form field.
func (c *noteController) Upload(ctx *fiber.Ctx) error {
	req := &dto.UploadNoteRequest{
		Text: ctx.FormValue("text"),
	}

	if fileHeader, err := ctx.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unable to read uploaded file")
		}

		req.FileName = fileHeader.Filename
		req.FileBytes = data
	}

	res, err := c.noteService.Upload(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload note", res))
}

func (c *noteController) Analyze(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid note id")
	}

	res, err := c.analysisService.Analyze(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze note", res))
}
