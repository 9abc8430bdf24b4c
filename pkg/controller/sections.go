package controller

import (
	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// Section operations. Each one funnels into the copy-on-write engine and then
// commits the result, so every keystroke-level change both swaps the record
// and refreshes the draft snapshot.

// SetField replaces a top-level value (collegeName, aboutUsSub, ...).
func (c *Controller) SetField(name string, value any) {
	c.commit(c.engine.SetField(c.record, name, value))
}

// SetNestedField replaces a value one level down
// (admissionProcess.description, sampleDegree.image, ...).
func (c *Controller) SetNestedField(parent, name string, value any) {
	c.commit(c.engine.SetNestedField(c.record, parent, name, value))
}

// SetDeepNestedField replaces a value two levels down
// (placement.stats.placementRate).
func (c *Controller) SetDeepNestedField(parent, nested, name string, value any) {
	c.commit(c.engine.SetDeepNestedField(c.record, parent, nested, name, value))
}

// SetListItem replaces one element of a list section (overview,
// admissionProcess.steps, placement.topCompanies, faculty).
func (c *Controller) SetListItem(path string, index int, value any) {
	c.commit(c.engine.SetArrayItem(c.record, path, index, value))
}

// SetListField replaces one named slot of a record-shaped list element
// (faq[i].question, fullFormOfApprovals[i].abbreviation,
// examPattern.steps[i].text).
func (c *Controller) SetListField(path string, index int, name string, value any) {
	c.commit(c.engine.SetArraySubfield(c.record, path, index, name, value))
}

// AppendListItem grows a list section by one schema-default element. Unknown
// list paths warn and leave the record unchanged, same as the engine.
func (c *Controller) AppendListItem(path string) {
	c.commit(c.engine.AppendArrayItem(c.record, path, sectionTemplate(path)))
}

// RemoveListItem drops one element of a list section. Protected sections
// (course rows, exam pattern steps, top companies) never fall below one entry.
func (c *Controller) RemoveListItem(path string, index int) {
	c.commit(c.engine.RemoveArrayItem(c.record, path, index))
}

// SetReviewName renames one reviewer.
func (c *Controller) SetReviewName(index int, name string) {
	c.commit(c.engine.SetArraySubfield(c.record, "reviews", index, "name", name))
}

// AppendReviewItem adds one blank entry to a reviewer's review list,
// initialising the list if a loaded entity arrived without one.
func (c *Controller) AppendReviewItem(index int) {
	c.commit(c.engine.AppendSubitem(c.record, "reviews", index, "review", formdata.ReviewItemTemplate()))
}

// RemoveReviewItem drops one entry from a reviewer's review list.
func (c *Controller) RemoveReviewItem(index, subIndex int) {
	c.commit(c.engine.RemoveSubitem(c.record, "reviews", index, "review", subIndex))
}

// SetReviewItemField edits one slot of a review entry
// (reviews[i].review[j].content).
func (c *Controller) SetReviewItemField(index, subIndex int, name string, value any) {
	c.commit(c.engine.SetSubitemField(c.record, "reviews", index, "review", subIndex, name, value))
}

// sectionTemplate returns the schema default appended when a list section
// grows. String-typed sections grow by an empty string.
func sectionTemplate(path string) any {
	switch path {
	case "fullFormOfApprovals":
		return formdata.ApprovalTemplate()
	case "reviews":
		return formdata.ReviewTemplate()
	case "faq":
		return formdata.FAQTemplate()
	case "examPattern.steps":
		return formdata.ExamPatternStepTemplate()
	case "coursesAndFee":
		return formdata.CourseRowTemplate()
	default:
		return ""
	}
}
