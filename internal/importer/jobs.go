package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/factory"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

// Daily counts before the press releases carried an age table are derived
// from the case list.
var (
	derivedCountsFrom = normalize.Date(2020, time.February, 23)
	derivedCountsTo   = normalize.Date(2022, time.January, 28)
)

func (i *Importer) importPressReleases(ctx context.Context, r *Report) error {
	url := i.sources.PressReleaseURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	page, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}
	results, err := extract.PressReleaseLinks(page, url, i.targetYear())
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)

	links := collect(i, r, results.Rows(), factory.BuildPressRelease)
	if err := i.repos.PressReleases.Upsert(ctx, links, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(links))
	return nil
}

func (i *Importer) importCases(ctx context.Context, r *Report) error {
	url := i.sources.CityCasesURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	page, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}
	results, err := extract.CityCaseHTML(page, i.targetYear())
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)
	return i.upsertCityCases(ctx, r, results.Rows())
}

// importPressReleaseCases reads the case table of the latest press release.
func (i *Importer) importPressReleaseCases(ctx context.Context, r *Report) error {
	link, rows, err := i.latestPressRelease(ctx)
	if err != nil {
		return err
	}
	results, err := extract.CityCasePDF(rows, link.PublicationDate)
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)
	return i.upsertCityCases(ctx, r, results.Rows())
}

func (i *Importer) upsertCityCases(ctx context.Context, r *Report, rows []extract.Row) error {
	cases := collect(i, r, rows, factory.BuildCase)
	if err := i.repos.Cases.UpsertCityCases(ctx, cases, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(cases))
	return nil
}

func (i *Importer) importPrefectureCases(ctx context.Context, r *Report) error {
	url := i.sources.PrefectureCasesURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	body, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}
	results, err := extract.PrefectureCaseCSV(body)
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)

	cases := collect(i, r, results.Rows(), factory.BuildCase)
	if err := i.repos.Cases.UpsertPrefectureCases(ctx, cases, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(cases))
	return nil
}

func (i *Importer) importDailyCounts(ctx context.Context, r *Report) error {
	link, rows, err := i.latestPressRelease(ctx)
	if err != nil {
		return err
	}
	results := extract.DailyCountPDF(rows, link.PublicationDate)
	i.recordExtraction(r, results)

	counts := collect(i, r, results.Rows(), factory.BuildDailyCount)
	if err := i.repos.DailyCounts.Upsert(ctx, counts, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(counts))
	return nil
}

// latestPressRelease downloads the PDF of the most recent stored press
// release link.
func (i *Importer) latestPressRelease(ctx context.Context) (*models.PressReleaseLink, [][]string, error) {
	link, err := i.repos.PressReleases.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}
	if link == nil {
		return nil, nil, &apierrors.ExtractionError{Source: "press_releases", Reason: "no press release link stored"}
	}
	body, err := i.download.Get(ctx, link.DocumentURL)
	if err != nil {
		return nil, nil, err
	}
	rows, err := pdfRows("press_release_pdf", body)
	if err != nil {
		return nil, nil, err
	}
	i.log.Debug("Read latest press release", map[string]interface{}{
		"url":              link.DocumentURL,
		"publication_date": link.PublicationDate.Format(time.DateOnly),
		"rows":             len(rows),
	})
	return link, rows, nil
}

func (i *Importer) importDerivedCounts(ctx context.Context, r *Report) error {
	counts, err := i.stats.DeriveFromCases(ctx, derivedCountsFrom, derivedCountsTo)
	if err != nil {
		return err
	}
	r.Extracted += len(counts)
	if err := i.repos.DailyCounts.Upsert(ctx, counts, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(counts))
	return nil
}

func (i *Importer) importSapporo(ctx context.Context, r *Report) error {
	url := i.sources.SapporoURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	body, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}
	results, err := extract.SapporoCSV(body)
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)

	counts := collect(i, r, results.Rows(), factory.BuildSapporoCount)
	if err := i.repos.DailyCounts.UpsertSapporo(ctx, counts, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(counts))
	return nil
}

// importSites reconciles both the adult and the pediatric site tables as
// one snapshot. Either table missing ends the job before anything is written.
func (i *Importer) importSites(ctx context.Context, r *Report) error {
	url := i.sources.MedicalInstitutionsURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	page, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}

	var rows []extract.Row
	for _, pediatric := range []bool{false, true} {
		if _, err := page.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind site page: %w", err)
		}
		results, err := extract.MedicalInstitutionHTML(page, pediatric)
		if err != nil {
			return err
		}
		i.recordExtraction(r, results)
		rows = append(rows, results.Rows()...)
	}

	sites := collect(i, r, rows, factory.BuildMedicalInstitution)
	result, err := i.repos.Sites.Reconcile(ctx, sites, i.now())
	if err != nil {
		return err
	}
	i.reconciled(r, len(sites), result)
	return i.geocodeNew(ctx, r, keyPart(result.Added, 0))
}

type reservationSource struct {
	campaign string
	url      string
	extract  func(body io.Reader) (extract.Results, error)
}

// importReservations reconciles each configured campaign as its own snapshot.
func (i *Importer) importReservations(ctx context.Context, r *Report) error {
	sources := []reservationSource{
		{
			campaign: models.CampaignBooster,
			url:      i.sources.ReservationPDFURL,
			extract: func(body io.Reader) (extract.Results, error) {
				data, err := io.ReadAll(body)
				if err != nil {
					return nil, err
				}
				rows, err := pdfRows("reservations_pdf", data)
				if err != nil {
					return nil, err
				}
				return extract.ReservationPDF(rows), nil
			},
		},
		{
			campaign: models.CampaignFirst,
			url:      i.sources.FirstReservationURL,
			extract: func(body io.Reader) (extract.Results, error) {
				return extract.ReservationHTML(body, extract.FirstReservationLayout)
			},
		},
		{
			campaign: models.CampaignBaby,
			url:      i.sources.BabyReservationURL,
			extract: func(body io.Reader) (extract.Results, error) {
				return extract.ReservationHTML(body, extract.BabyReservationLayout)
			},
		},
	}

	// A failed campaign leaves its previous statuses in place and does not
	// hold back the others.
	configured := 0
	var errs []error
	for _, src := range sources {
		if src.url == "" {
			continue
		}
		configured++
		if err := i.importCampaign(ctx, r, src); err != nil {
			i.log.Error("Reservation campaign failed", err, map[string]interface{}{
				"job":      r.Job,
				"campaign": src.campaign,
			})
			errs = append(errs, fmt.Errorf("campaign %s: %w", src.campaign, err))
		}
	}
	if configured == 0 {
		r.Disabled = true
	}
	return errors.Join(errs...)
}

func (i *Importer) importCampaign(ctx context.Context, r *Report, src reservationSource) error {
	body, err := i.fetch(ctx, src.url)
	if err != nil {
		return err
	}
	results, err := src.extract(body)
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)

	statuses := collect(i, r, results.Rows(), factory.BuildReservation)
	result, err := i.repos.Reservations.Reconcile(ctx, src.campaign, statuses, i.now())
	if err != nil {
		return err
	}
	i.reconciled(r, len(statuses), result)
	return i.geocodeNew(ctx, r, keyPart(result.Added, 1))
}

// importOutpatients follows the prefecture page to the Asahikawa workbook.
func (i *Importer) importOutpatients(ctx context.Context, r *Report) error {
	url := i.sources.OutpatientsURL
	if url == "" {
		r.Disabled = true
		return nil
	}
	page, err := i.fetch(ctx, url)
	if err != nil {
		return err
	}
	link, err := extract.OutpatientLink(page, url)
	if err != nil {
		return err
	}
	workbook, err := i.fetch(ctx, link)
	if err != nil {
		return err
	}
	results, err := extract.OutpatientXLSX(workbook)
	if err != nil {
		return err
	}
	i.recordExtraction(r, results)

	outpatients := collect(i, r, results.Rows(), factory.BuildOutpatient)
	result, err := i.repos.Outpatients.Reconcile(ctx, outpatients, i.now())
	if err != nil {
		return err
	}
	i.reconciled(r, len(outpatients), result)
	return i.geocodeNew(ctx, r, result.Added)
}

// importOpendataLocations stores the prefecture's coordinates and then the
// manual overrides, which win over every other source.
func (i *Importer) importOpendataLocations(ctx context.Context, r *Report) error {
	var rows []extract.Row
	for _, url := range i.sources.OpendataLocationURLs {
		body, err := i.fetch(ctx, url)
		if err != nil {
			return err
		}
		results, err := extract.OpendataLocationCSV(body)
		if err != nil {
			return err
		}
		i.recordExtraction(r, results)
		rows = append(rows, results.Rows()...)
	}
	rows = append(rows, extract.ManualLocationRows()...)

	locations := collect(i, r, rows, factory.BuildLocation)
	if err := i.repos.Locations.Upsert(ctx, locations, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(locations))
	return nil
}

// applyCorrections writes the static patches: corrected daily counts and
// cases the city never listed.
func (i *Importer) applyCorrections(ctx context.Context, r *Report) error {
	counts := collect(i, r, extract.DailyCountCorrections(), factory.BuildDailyCount)
	if err := i.repos.DailyCounts.Upsert(ctx, counts, i.now()); err != nil {
		return err
	}
	i.persisted(r, len(counts))
	return i.upsertCityCases(ctx, r, extract.MissingCityCases())
}
