package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// Export datasets.
const (
	DatasetCases               = "cases"
	DatasetDailyCounts         = "daily-counts"
	DatasetMedicalInstitutions = "medical-institutions"
	DatasetOutpatients         = "outpatients"
)

var ErrUnknownDataset = errors.New("unknown dataset")

var (
	caseHeader = []string{
		"No", "全国地方公共団体コード", "都道府県名", "市区町村名", "公表_年月日", "発症_年月日",
		"患者_居住地", "患者_年代", "患者_性別", "患者_職業", "患者_状態", "患者_症状",
		"患者_渡航歴の有無フラグ", "患者_退院済フラグ", "備考",
	}
	dailyCountHeader = []string{
		"公表日", "10歳未満", "10代", "20代", "30代", "40代", "50代",
		"60代", "70代", "80代", "90歳以上", "調査中等",
	}
	medicalInstitutionHeader = []string{
		"地区", "医療機関名", "住所", "電話", "かかりつけの医療機関で予約ができる",
		"コールセンターやインターネットで予約ができる", "備考", "対象年齢",
	}
	outpatientHeader = []string{
		"医療機関名", "保健所", "市町村", "住所", "電話",
		"月", "火", "水", "木", "金", "土", "日",
		"発熱外来", "陽性者の外来", "かかりつけ以外の受診", "小児対応",
		"陽性者への対面診療", "陽性者へのオンライン診療", "陽性者への往診", "備考",
	}
)

// ExportService writes datasets as CSV in the open-data column layout.
type ExportService interface {
	// Export writes dataset to w. Unknown datasets return ErrUnknownDataset.
	Export(ctx context.Context, dataset string, w io.Writer) error
}

type exportService struct {
	cases       repository.CaseRepository
	counts      repository.DailyCountRepository
	sites       repository.MedicalInstitutionRepository
	outpatients repository.OutpatientRepository
	log         *logger.Logger
}

// NewExportService creates a new instance of ExportService.
func NewExportService(
	cases repository.CaseRepository,
	counts repository.DailyCountRepository,
	sites repository.MedicalInstitutionRepository,
	outpatients repository.OutpatientRepository,
	log *logger.Logger,
) ExportService {
	return &exportService{
		cases:       cases,
		counts:      counts,
		sites:       sites,
		outpatients: outpatients,
		log:         log,
	}
}

func (s *exportService) Export(ctx context.Context, dataset string, w io.Writer) error {
	var (
		rows [][]string
		err  error
	)
	switch dataset {
	case DatasetCases:
		rows, err = s.caseRows(ctx)
	case DatasetDailyCounts:
		rows, err = s.dailyCountRows(ctx)
	case DatasetMedicalInstitutions:
		rows, err = s.medicalInstitutionRows(ctx)
	case DatasetOutpatients:
		rows, err = s.outpatientRows(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}
	if err != nil {
		s.log.Error("Failed to export dataset", err, map[string]interface{}{
			"dataset": dataset,
		})
		return fmt.Errorf("failed to export %s: %w", dataset, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s csv: %w", dataset, err)
	}
	return nil
}

func (s *exportService) caseRows(ctx context.Context) ([][]string, error) {
	cases, err := s.cases.ListCityCases(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	rows := [][]string{caseHeader}
	for _, c := range cases {
		rows = append(rows, []string{
			strconv.Itoa(c.CaseNumber),
			c.RegionCode,
			c.Prefecture,
			c.City,
			formatDate(c.PublicationDate),
			formatDate(c.OnsetDate),
			c.Residence,
			c.AgeBracket,
			c.Sex,
			c.Occupation,
			c.ClinicalStatus,
			c.Symptoms,
			formatFlag(c.HadOverseasTravel),
			formatFlag(c.WasDischarged),
			c.Note,
		})
	}
	return rows, nil
}

// dailyCountRows covers every stored date.
func (s *exportService) dailyCountRows(ctx context.Context) ([][]string, error) {
	counts, err := s.counts.Range(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	rows := [][]string{dailyCountHeader}
	for _, c := range counts {
		row := []string{c.PublicationDate.Format(time.DateOnly)}
		for _, n := range c.Buckets() {
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, append(row, strconv.Itoa(c.Investigating)))
	}
	return rows, nil
}

func (s *exportService) medicalInstitutionRows(ctx context.Context) ([][]string, error) {
	sites, err := s.sites.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := [][]string{medicalInstitutionHeader}
	for _, m := range sites {
		rows = append(rows, []string{
			m.Area, m.Name, m.Address, m.Phone,
			formatBool(m.BookableAtSite), formatBool(m.BookableViaCallCenter),
			m.Memo, m.TargetAgeGroup,
		})
	}
	return rows, nil
}

func (s *exportService) outpatientRows(ctx context.Context) ([][]string, error) {
	outpatients, err := s.outpatients.FindAll(ctx, repository.OutpatientFilter{})
	if err != nil {
		return nil, err
	}
	rows := [][]string{outpatientHeader}
	for _, o := range outpatients {
		row := []string{o.InstitutionName, o.PublicHealthCenter, o.City, o.Address, o.Phone}
		row = append(row, o.OpeningHours()...)
		row = append(row,
			formatBool(o.IsOutpatient), formatBool(o.IsPositivePatients),
			formatBool(o.TargetNotFamily), formatBool(o.IsPediatrics),
			formatBool(o.FaceToFace), formatBool(o.Online), formatBool(o.HomeVisit),
			o.Memo,
		)
		rows = append(rows, row)
	}
	return rows, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// formatFlag renders a tri-state flag as "1", "0" or "".
func formatFlag(b *bool) string {
	if b == nil {
		return ""
	}
	return formatBool(*b)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
