package controller

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// richTextFields are the slots backed by a rich-text editor in the console;
// their values arrive as HTML fragments and must be cleaned before they are
// sent anywhere.
var richTextFields = []string{
	"aboutUsSub",
	"admissionProcess.description",
	"approvalAndRanking.description",
	"placement.description",
	"sampleDegree.description",
}

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

func richTextSanitizer() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		richTextPolicy = bluemonday.UGCPolicy()
	})
	return richTextPolicy
}

// sanitizeRichText cleans every rich-text slot in the record, copying only the
// branches whose content actually changes.
func sanitizeRichText(engine *formdata.Engine, record formdata.Record) formdata.Record {
	policy := richTextSanitizer()
	for _, path := range richTextFields {
		raw := record.String(path)
		if raw == "" {
			continue
		}
		cleaned := policy.Sanitize(raw)
		if cleaned == raw {
			continue
		}
		parent, name := formdata.SplitFieldPath(path)
		if parent == "" {
			record = engine.SetField(record, name, cleaned)
		} else {
			record = engine.SetNestedField(record, parent, name, cleaned)
		}
	}
	return record
}
