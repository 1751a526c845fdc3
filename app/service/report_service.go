package service

import (
	"context"
	"strings"
	"time"

	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/utils"
)

// ReportService menyediakan laporan aktivitas complaint untuk WARDEN/STAFF.
type ReportService interface {
	// Activity menerima from/to dalam format RFC3339 atau YYYY-MM-DD (kosong = tanpa batas).
	Activity(ctx context.Context, caller Caller, from, to string) (*repository.ActivityReport, error)
}

type reportService struct {
	reports repository.ReportRepository
	policy  *Policy
}

func NewReportService(reports repository.ReportRepository, policy *Policy) ReportService {
	return &reportService{reports: reports, policy: policy}
}

func (s *reportService) Activity(ctx context.Context, caller Caller, from, to string) (*repository.ActivityReport, error) {
	if err := s.policy.Authorize(caller, objReport, actRead, "Only wardens or staff can view reports"); err != nil {
		return nil, err
	}

	var filter repository.ReportFilter
	var err error
	if filter.From, err = parseReportTime(from, false); err != nil {
		return nil, err
	}
	if filter.To, err = parseReportTime(to, true); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, utils.NewValidationError("'from' must not be after 'to'")
	}

	report, err := s.reports.Activity(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(msgInternal, err)
	}
	return report, nil
}

// parseReportTime: tanggal tanpa jam pada batas akhir dianggap sampai akhir hari itu.
func parseReportTime(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, utils.NewValidationError("Invalid date: " + raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
