package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/logging"
)

// ToolMarkdownToPDF is the name of the only registered tool.
const ToolMarkdownToPDF = "markdown_to_pdf"

// ErrUnknownTool reports a tool call for a name that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

type toolRequest struct {
	FileName       string `json:"file_name"`
	MarkdownSource string `json:"markdown_source"`
}

type toolHandler struct {
	converter Converter
}

// handleToolCall dispatches POST /v1/tools/:name to the registered tool.
func (h *toolHandler) handleToolCall(c *fiber.Ctx) error {
	name := c.Params("name")
	if name != ToolMarkdownToPDF {
		return fiber.NewError(fiber.StatusNotFound, ErrUnknownTool.Error()+": "+name)
	}

	var req toolRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if req.FileName == "" || req.MarkdownSource == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid arguments: file_name and markdown_source are required")
	}

	result, err := h.converter.Convert(c.Context(), mdpress.Input{
		FileName: req.FileName,
		Markdown: req.MarkdownSource,
	})
	if err != nil {
		logging.Error("conversion failed",
			"file_name", req.FileName,
			"error", err.Error(),
			"request_id", requestID(c),
		)
		return mapConvertError(err)
	}

	logging.Info("conversion complete",
		"file_name", result.FileName,
		"download_url", result.DownloadURL,
		"request_id", requestID(c),
	)

	return c.JSON(result)
}

// mapConvertError translates pipeline failures into HTTP statuses: bad input
// is the caller's fault, rendering problems are the browser's, and anything
// touching the local filesystem is ours.
func mapConvertError(err error) error {
	switch {
	case errors.Is(err, mdpress.ErrEmptyFileName),
		errors.Is(err, mdpress.ErrEmptyMarkdown),
		errors.Is(err, mdpress.ErrUnsafeFileName),
		errors.Is(err, mdpress.ErrFileNameTooLong):
		return fiber.NewError(fiber.StatusBadRequest, "invalid arguments: "+err.Error())

	case errors.Is(err, mdpress.ErrRenderTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "rendering took too long")

	case errors.Is(err, mdpress.ErrHTMLConversion),
		errors.Is(err, mdpress.ErrPDFGeneration),
		errors.Is(err, mdpress.ErrBrowserConnect),
		errors.Is(err, mdpress.ErrPageCreate),
		errors.Is(err, mdpress.ErrPageLoad):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())

	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
