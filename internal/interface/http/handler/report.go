package handler

import (
	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/pkg/response"
)

// ReportHandler 统计报表HTTP处理器
type ReportHandler struct {
	catalogReportUseCase *appreport.CatalogReportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(catalogReportUseCase *appreport.CatalogReportUseCase) *ReportHandler {
	return &ReportHandler{
		catalogReportUseCase: catalogReportUseCase,
	}
}

// GetCatalogReport 目录统计报表
// @Summary      目录统计报表
// @Description  馆藏总量、状态/体裁分布、低库存清单、分类统计的时点快照
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response{data=report.CatalogReport}
// @Router       /api/v1/reports/catalog [get]
func (h *ReportHandler) GetCatalogReport(c *gin.Context) {
	result, err := h.catalogReportUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
