// Package factory builds validated records from extracted rows.
package factory

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
)

var validate = validator.New()

// Rejection is one row that failed to build.
type Rejection struct {
	Err   error
	Index int
}

// Report summarizes one ValidateAndCollect call.
type Report struct {
	Rejected []Rejection
	Accepted int
}

// OK reports whether every row was accepted.
func (r Report) OK() bool {
	return len(r.Rejected) == 0
}

// Fields renders the report for structured logging.
func (r Report) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"accepted": r.Accepted,
		"rejected": len(r.Rejected),
	}
	if len(r.Rejected) > 0 {
		first := r.Rejected[0]
		fields["first_rejected_index"] = first.Index
		fields["first_rejected_error"] = first.Err.Error()
	}
	return fields
}

// ValidateAndCollect builds every row with build. Rows that fail are
// recorded in the report and skipped; the rest are returned in input order
// with duplicates kept.
func ValidateAndCollect[T any](rows []extract.Row, build func(extract.Row) (T, error)) ([]T, Report) {
	records := make([]T, 0, len(rows))
	var report Report
	for i, row := range rows {
		rec, err := build(row)
		if err != nil {
			report.Rejected = append(report.Rejected, Rejection{Index: i, Err: err})
			continue
		}
		records = append(records, rec)
	}
	report.Accepted = len(records)
	return records, report
}

// check runs struct tag validation and converts the first failure to a
// ValidationError.
func check(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return &apierrors.ValidationError{Field: fe.Field(), Value: fe.Value(), Reason: reason}
	}
	return fmt.Errorf("validate record: %w", err)
}
