package controller

import (
	"context"
	"fmt"

	"github.com/goliatone/go-collegecms/pkg/formdata"
	"github.com/goliatone/go-collegecms/pkg/gateway"
	"github.com/goliatone/go-collegecms/pkg/staging"
)

// StageImage encodes one local file and writes its data URL at fieldPath
// (collegeLogo, collegeImage, sampleDegree.image).
func (c *Controller) StageImage(ctx context.Context, fieldPath string, f staging.File) error {
	updated, err := c.stager.StageFile(ctx, c.record, fieldPath, f)
	if err != nil {
		return err
	}
	c.commit(updated)
	return nil
}

// StageImages encodes a batch of files and appends their data URLs to the list
// at fieldPath (gallery, certificates, placement.companies) in one update.
func (c *Controller) StageImages(ctx context.Context, fieldPath string, files []staging.File) error {
	updated, err := c.stager.StageFiles(ctx, c.record, fieldPath, files)
	if err != nil {
		return err
	}
	c.commit(updated)
	return nil
}

// RemoveStagedImage drops one staged entry from a list of data URLs.
func (c *Controller) RemoveStagedImage(fieldPath string, index int) {
	c.commit(c.stager.RemoveStaged(c.record, fieldPath, index))
}

// UploadProgress reports the current per-field progress percentages. Safe to
// poll from a render loop while staging runs.
func (c *Controller) UploadProgress() map[string]int {
	return c.stager.Tracker().Snapshot()
}

// Submit pushes the record to the remote API: rich text is sanitised, the
// submission gates run, the payload is shaped, and the entity is created or
// updated depending on the session. Success clears the draft and resets the
// form; any failure leaves both the record and the draft untouched so nothing
// typed is lost.
func (c *Controller) Submit(ctx context.Context) error {
	if c.gateway == nil {
		return fmt.Errorf("controller: submit requires a gateway")
	}

	cleaned := sanitizeRichText(c.engine, c.record)
	if err := validateSubmission(c.validate, cleaned); err != nil {
		return err
	}

	payload := gateway.ShapeSubmission(cleaned, c.session.UserID)
	var err error
	if c.EditMode() {
		err = c.gateway.UpdateCollege(ctx, c.collegeID, payload)
	} else {
		err = c.gateway.CreateCollege(ctx, payload)
	}
	if err != nil {
		return fmt.Errorf("controller: submit: %w", err)
	}

	c.Reset()
	return nil
}

// Reset returns the session to schema defaults and drops the draft snapshot.
// The remote entity is never touched.
func (c *Controller) Reset() {
	c.setRecord(formdata.DefaultCollegeRecord())
	c.syncRowStates()
	if err := c.store.Clear(c.key); err != nil {
		c.warnf("controller: draft clear failed: %v", err)
	}
}
