package handler

import (
	"fmt"
	"time"

	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// DownloadWorkbook streams the sales and inventory workbook.
func (h *ReportHandler) DownloadWorkbook(c *fiber.Ctx) error {
	buf, err := h.service.Workbook()
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("pos-report-%s.xlsx", time.Now().Format("20060102"))
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
