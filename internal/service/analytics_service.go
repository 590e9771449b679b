package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/oss"
	"github.com/inboop/inboop_server/internal/repository"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDateRange  = errors.New("invalid date range, use YYYY-MM-DD with from <= to")
	ErrExportUnavailable = errors.New("analytics export storage is not configured")
)

// ExportUploader stores an export and returns a time-limited download URL.
type ExportUploader interface {
	UploadPrivate(objectKey string, data []byte, contentType string, expire time.Duration) (string, error)
}

type AnalyticsService struct {
	conversationRepo *repository.ConversationRepository
	leadRepo         *repository.LeadRepository
	orderRepo        *repository.OrderRepository
	planService      *PlanService
	uploader         ExportUploader
	now              func() time.Time
}

func NewAnalyticsService(
	conversationRepo *repository.ConversationRepository,
	leadRepo *repository.LeadRepository,
	orderRepo *repository.OrderRepository,
	planService *PlanService,
	uploader ExportUploader,
) *AnalyticsService {
	return &AnalyticsService{
		conversationRepo: conversationRepo,
		leadRepo:         leadRepo,
		orderRepo:        orderRepo,
		planService:      planService,
		uploader:         uploader,
		now:              time.Now,
	}
}

// Overview aggregates conversations, leads and orders over an optional
// date range.
func (s *AnalyticsService) Overview(workspaceID int64, req *dto.AnalyticsRequest) (*dto.AnalyticsOverview, error) {
	if err := s.planService.AssertFeatureEnabled(workspaceID, model.FeatureAnalyticsDashboard); err != nil {
		return nil, err
	}
	return s.overview(workspaceID, req)
}

func (s *AnalyticsService) overview(workspaceID int64, req *dto.AnalyticsRequest) (*dto.AnalyticsOverview, error) {
	from, to, err := parseRange(req)
	if err != nil {
		return nil, err
	}

	out := &dto.AnalyticsOverview{
		From:           req.From,
		To:             req.To,
		LeadsByStatus:  map[string]int64{},
		OrdersByStatus: map[string]int64{},
	}

	if out.TotalConversations, err = s.conversationRepo.CountInRange(workspaceID, from, to); err != nil {
		return nil, err
	}

	leadCounts, err := s.leadRepo.CountByStatus(workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range leadCounts {
		out.LeadsByStatus[row.Status] = row.Count
		out.TotalLeads += row.Count
	}
	if out.TotalLeads > 0 {
		converted := out.LeadsByStatus[string(model.LeadStatusConverted)]
		out.ConversionRate = round2(float64(converted) / float64(out.TotalLeads) * 100)
	}

	orderCounts, err := s.orderRepo.CountByStatus(workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	for _, row := range orderCounts {
		out.OrdersByStatus[row.Status] = row.Count
		out.TotalOrders += row.Count
	}

	revenue, paidOrders, err := s.orderRepo.Revenue(workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	out.Revenue = round2(revenue)
	if paidOrders > 0 {
		out.AverageOrderValue = round2(revenue / float64(paidOrders))
	}
	return out, nil
}

// Export renders the overview as CSV and uploads it for download.
func (s *AnalyticsService) Export(workspaceID int64, req *dto.AnalyticsRequest) (*dto.ExportResponse, error) {
	if err := s.planService.AssertFeatureEnabled(workspaceID, model.FeatureAnalyticsExport); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}

	overview, err := s.overview(workspaceID, req)
	if err != nil {
		return nil, err
	}
	data, err := renderCSV(overview)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadPrivate(oss.ExportKey(workspaceID, s.now()), data, "text/csv", time.Hour)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("workspace_id", workspaceID).Int("bytes", len(data)).Msg("analytics exported")
	return &dto.ExportResponse{URL: url}, nil
}

// parseRange turns inclusive calendar days into a [from, to) UTC range.
func parseRange(req *dto.AnalyticsRequest) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if req.From != "" {
		t, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		from = &t
	}
	if req.To != "" {
		t, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return nil, nil, ErrInvalidDateRange
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, ErrInvalidDateRange
	}
	return from, to, nil
}

func renderCSV(o *dto.AnalyticsOverview) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric", "value"},
		{"from", o.From},
		{"to", o.To},
		{"total_conversations", strconv.FormatInt(o.TotalConversations, 10)},
		{"total_leads", strconv.FormatInt(o.TotalLeads, 10)},
	}
	rows = append(rows, countRows("leads_", o.LeadsByStatus)...)
	rows = append(rows,
		[]string{"conversion_rate", strconv.FormatFloat(o.ConversionRate, 'f', 2, 64)},
		[]string{"total_orders", strconv.FormatInt(o.TotalOrders, 10)},
	)
	rows = append(rows, countRows("orders_", o.OrdersByStatus)...)
	rows = append(rows,
		[]string{"revenue", strconv.FormatFloat(o.Revenue, 'f', 2, 64)},
		[]string{"average_order_value", strconv.FormatFloat(o.AverageOrderValue, 'f', 2, 64)},
	)

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func countRows(prefix string, counts map[string]int64) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{prefix + k, strconv.FormatInt(counts[k], 10)})
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
