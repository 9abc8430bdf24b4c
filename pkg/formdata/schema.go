package formdata

// DefaultCollegeRecord builds the schema-default record for a college entry.
// Every editing session starts from this shape; operations change values and
// list lengths but never the slot layout.
func DefaultCollegeRecord() Record {
	return Record{
		"fullFormOfApprovals":  []any{ApprovalTemplate()},
		"collegeName":          "",
		"collegeLocation":      "",
		"collegeLogo":          "",
		"aboutUsSub":           "",
		"highestPackage":       "",
		"averagePackage":       "",
		"students":             "",
		"nirfranking":          "",
		"established":          "",
		"collegeImage":         "",
		"createdBy":            "",
		"overview":             []any{""},
		"coursesAndFeeHeading": "",
		"coursesAndFee":        []any{CourseRowTemplate()},
		"minFee":               "",
		"maxFee":               "",
		"admissionProcess": Record{
			"description": "",
			"steps":       []any{""},
		},
		"approvalAndRanking": Record{
			"description": "",
		},
		"certificates": []any{},
		"placement": Record{
			"description": "",
			"companies":   []any{},
			"stats": Record{
				"placementRate":  "",
				"highestPackage": "",
			},
			"topCompanies": []any{""},
		},
		"faculty": []any{""},
		"examDetails": Record{
			"difficulty":  "",
			"averageCGPA": "",
			"minimumCGPA": "",
			"other":       "",
		},
		"gallery": []any{},
		"sampleDegree": Record{
			"description": "",
			"image":       "",
		},
		"reviews": []any{ReviewTemplate()},
		"faq":     []any{FAQTemplate()},
		"examPattern": Record{
			"title": "",
			"steps": []any{ExamPatternStepTemplate()},
		},
	}
}

// CourseRowTemplate is the schema default for one coursesAndFee entry.
func CourseRowTemplate() Record {
	return Record{
		"stream":         "",
		"level":          "",
		"degreeName":     "",
		"specialization": "",
		"courseName":     "",
		"course":         "",
		"duration":       "",
		"durationUnit":   "Years",
		"fee":            "",
	}
}

// ReviewTemplate is the schema default for one reviews entry.
func ReviewTemplate() Record {
	return Record{
		"name":   "",
		"review": []any{ReviewItemTemplate()},
	}
}

// ReviewItemTemplate is the schema default for one review sub-item.
func ReviewItemTemplate() Record {
	return Record{"type": "", "content": ""}
}

// FAQTemplate is the schema default for one faq entry.
func FAQTemplate() Record {
	return Record{"question": "", "answer": ""}
}

// ExamPatternStepTemplate is the schema default for one examPattern step.
func ExamPatternStepTemplate() Record {
	return Record{"description": "", "text": ""}
}

// ApprovalTemplate is the schema default for one fullFormOfApprovals entry.
func ApprovalTemplate() Record {
	return Record{"abbreviation": "", "fullForm": ""}
}

// ProtectedLists names the list slots that must never drop below one element.
// RemoveArrayItem treats removals that would violate this as a no-op.
func ProtectedLists() []string {
	return []string{
		"coursesAndFee",
		"examPattern.steps",
		"placement.topCompanies",
	}
}

// HasMeaningfulContent reports whether the record carries at least one of the
// fields that make a draft worth persisting. Untouched default records are
// never written to the draft store.
func HasMeaningfulContent(r Record) bool {
	if r == nil {
		return false
	}
	if r.String("collegeName") != "" || r.String("aboutUsSub") != "" {
		return true
	}
	overview, ok := r.List("overview")
	if !ok || len(overview) == 0 {
		return false
	}
	first, _ := overview[0].(string)
	return first != ""
}
