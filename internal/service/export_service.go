package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"pet-cafe/backend/internal/availability"
	"pet-cafe/backend/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 匹配结果导出为 Excel (.xlsx)，以 bytes.Buffer 返回，由 Handler 设置响应头后写出。
type ExportService interface {
	ExportMatches(ctx context.Context, req *dto.MatchRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	match  MatchService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(match MatchService, logger *zap.Logger) ExportService {
	return &exportService{match: match, logger: logger}
}

const exportSheet = "匹配结果"

var scheduleLabels = map[string]string{
	availability.Matched:     "匹配",
	availability.Unmatched:   "不匹配",
	availability.Unevaluated: "未评估",
}

// ExportMatches 导出匹配结果
//
// 表格：标题行 + 表头 + 每个团队一行（顺序与匹配排序一致）。
func (s *exportService) ExportMatches(ctx context.Context, req *dto.MatchRequest) (*bytes.Buffer, string, error) {
	resp, err := s.match.Match(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheet, "A", "A", 6)
	f.SetColWidth(exportSheet, "B", "C", 22)
	f.SetColWidth(exportSheet, "D", "E", 12)
	f.SetColWidth(exportSheet, "F", "F", 36)
	f.SetColWidth(exportSheet, "G", "G", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(exportSheet, "A1", exportTitle(resp))
	f.MergeCell(exportSheet, "A1", "G1")

	headers := []string{"排名", "团队", "组长", "工作类型", "班次", "匹配班次", "成员数"}
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(exportSheet, c, h)
	}
	f.SetCellStyle(exportSheet, "A2", "G2", headerStyle)

	for i, r := range resp.Results {
		row := i + 3
		leader := "-"
		if r.Team.Leader != nil {
			leader = r.Team.Leader.FullName
		}
		compat := "兼容"
		if !r.WorkTypeCompatible {
			compat = "不兼容"
		}
		values := []interface{}{
			i + 1,
			r.Team.Name,
			leader,
			compat,
			scheduleLabels[r.Schedule],
			matchedShiftNames(r),
			len(r.Team.Members),
		}
		for col, v := range values {
			c, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, c, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(resp), nil
}

func exportTitle(resp *dto.MatchResponse) string {
	if resp.DayOfWeek == "" || resp.StartTime == "" || resp.EndTime == "" {
		return fmt.Sprintf("团队匹配结果（%s，未指定时间窗口）", resp.Mode)
	}
	return fmt.Sprintf("团队匹配结果（%s，%s %s-%s）", resp.Mode, resp.DayOfWeek, resp.StartTime, resp.EndTime)
}

func exportFilename(resp *dto.MatchResponse) string {
	if resp.DayOfWeek == "" {
		return "team-match.xlsx"
	}
	return fmt.Sprintf("team-match-%s-%s.xlsx",
		strings.ToLower(resp.DayOfWeek),
		strings.ReplaceAll(resp.StartTime, ":", ""))
}

func matchedShiftNames(r dto.TeamMatchResponse) string {
	if len(r.MatchedShiftIDs) == 0 {
		return "-"
	}
	names := make(map[string]string, len(r.Team.WorkShifts))
	for _, tws := range r.Team.WorkShifts {
		names[tws.WorkShiftID] = fmt.Sprintf("%s (%s-%s)", tws.WorkShift.Name, tws.WorkShift.StartTime, tws.WorkShift.EndTime)
	}
	out := make([]string, 0, len(r.MatchedShiftIDs))
	for _, id := range r.MatchedShiftIDs {
		out = append(out, names[id])
	}
	return strings.Join(out, "; ")
}
