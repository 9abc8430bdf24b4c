package gateway

import (
	"strconv"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// ShapeSubmission converts an in-memory form record into the write payload the
// remote API expects. The course entries change casing on the way out
// (courseName → CourseName, degreeName → DegreeName, specialization →
// Specialization) while the read contract stays camelCase; the mismatch is an
// existing quirk of the remote contract and is preserved on purpose, not
// unified here. Fee strings become numbers.
func ShapeSubmission(record formdata.Record, userID string) map[string]any {
	payload := make(map[string]any, len(record)+1)
	for key, value := range record {
		payload[key] = value
	}
	payload["createdBy"] = userID

	rows, ok := record.List("coursesAndFee")
	if !ok {
		return payload
	}
	shaped := make([]any, 0, len(rows))
	for _, item := range rows {
		row, ok := item.(formdata.Record)
		if !ok {
			if m, isMap := item.(map[string]any); isMap {
				row = formdata.Record(m)
			} else {
				continue
			}
		}
		shaped = append(shaped, map[string]any{
			"CourseName":     row["courseName"],
			"stream":         row["stream"],
			"level":          row["level"],
			"DegreeName":     row["degreeName"],
			"Specialization": row["specialization"],
			"duration":       row["duration"],
			"fee":            feeNumber(row["fee"]),
			"course":         row["course"],
		})
	}
	payload["coursesAndFee"] = shaped
	return payload
}

// feeNumber coerces the textual fee field to a number. Blank or unparseable
// input becomes zero rather than failing a whole submission over one field.
func feeNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
