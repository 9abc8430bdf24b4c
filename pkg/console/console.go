// Package console is the interactive terminal frontend: it signs the user in
// from configuration, then drives the form editor, the review dashboard, and
// user administration over prompt flows.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-collegecms/pkg/catalog"
	"github.com/goliatone/go-collegecms/pkg/controller"
	"github.com/goliatone/go-collegecms/pkg/draft"
	"github.com/goliatone/go-collegecms/pkg/formdata"
	"github.com/goliatone/go-collegecms/pkg/gateway"
	"github.com/goliatone/go-collegecms/pkg/preview"
	"github.com/goliatone/go-collegecms/pkg/review"
	"github.com/goliatone/go-collegecms/pkg/useradmin"
)

// Option customises the console.
type Option func(*Console)

// WithDriver swaps the prompt driver, used by tests to script sessions.
func WithDriver(driver PromptDriver) Option {
	return func(c *Console) { c.driver = driver }
}

// WithGatewayClient injects a pre-built API client.
func WithGatewayClient(client *gateway.Client) Option {
	return func(c *Console) { c.client = client }
}

// WithSession bypasses token verification, used by tests.
func WithSession(session controller.Session) Option {
	return func(c *Console) {
		c.session = session
		c.sessionSet = true
	}
}

// Console runs interactive sessions against the CMS backend.
type Console struct {
	cfg        Config
	driver     PromptDriver
	client     *gateway.Client
	session    controller.Session
	sessionSet bool
	store      draft.Store
	preview    *preview.Renderer
}

// New builds a console from configuration: API client, verified session,
// draft store, and preview renderer.
func New(cfg Config, options ...Option) (*Console, error) {
	c := &Console{cfg: cfg}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = newSurveyDriver()
	}
	if c.client == nil {
		client, err := gateway.New(
			gateway.WithBaseURL(cfg.BaseURL),
			gateway.WithToken(cfg.Token),
		)
		if err != nil {
			return nil, fmt.Errorf("console: build gateway: %w", err)
		}
		c.client = client
	}
	if !c.sessionSet {
		if cfg.TokenSecret == "" {
			return nil, errors.New("console: token secret is required to verify the session")
		}
		session, err := controller.SessionFromToken(cfg.Token, []byte(cfg.TokenSecret))
		if err != nil {
			return nil, err
		}
		c.session = session
	}
	if cfg.DraftDir != "" {
		store, err := draft.NewFileStore(cfg.DraftDir)
		if err != nil {
			return nil, err
		}
		c.store = store
	} else {
		c.store = draft.NewMemStore()
	}

	renderer, err := preview.New()
	if err != nil {
		return nil, err
	}
	c.preview = renderer
	return c, nil
}

// Run drives the main menu until the user quits or a prompt is aborted.
func (c *Console) Run(ctx context.Context) error {
	options := []string{"Edit a college entry", "Review dashboard"}
	if c.session.IsAdmin() {
		options = append(options, "User administration")
	}
	options = append(options, "Quit")

	for {
		choice, err := c.driver.Select(ctx, SelectConfig{
			Message: "College CMS",
			Options: options,
		})
		if err != nil {
			return c.finish(err)
		}
		switch options[choice] {
		case "Edit a college entry":
			err = c.runForm(ctx)
		case "Review dashboard":
			err = c.runDashboard(ctx)
		case "User administration":
			err = c.runUserAdmin(ctx)
		default:
			return nil
		}
		if err != nil {
			return c.finish(err)
		}
	}
}

// finish maps an aborted prompt to a clean exit.
func (c *Console) finish(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

// runForm drives one editing session from hydration to submit.
func (c *Console) runForm(ctx context.Context) error {
	collegeID, err := c.driver.Input(ctx, InputConfig{
		Message: "College id to edit (blank for a new entry)",
	})
	if err != nil {
		return err
	}
	collegeID = strings.TrimSpace(collegeID)

	form, err := controller.New(
		controller.WithGateway(c.client),
		controller.WithDraftStore(c.store),
		controller.WithSession(c.session),
		controller.WithAutosaveInterval(c.cfg.AutosaveInterval),
	)
	if err != nil {
		return err
	}
	if err := form.Hydrate(ctx, collegeID); err != nil {
		if infoErr := c.driver.Info(ctx, "could not load the remote entry: "+err.Error()); infoErr != nil {
			return infoErr
		}
	}

	saveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	form.Autosave(saveCtx)

	sections := []string{"Basics", "About", "Courses & fees", "FAQ", "Preview", "Submit", "Back"}
	for {
		choice, err := c.driver.Select(ctx, SelectConfig{
			Message: "Section",
			Options: sections,
		})
		if err != nil {
			return err
		}
		switch sections[choice] {
		case "Basics":
			err = c.editBasics(ctx, form)
		case "About":
			err = c.editAbout(ctx, form)
		case "Courses & fees":
			err = c.editCourses(ctx, form)
		case "FAQ":
			err = c.editFAQ(ctx, form)
		case "Preview":
			err = c.showPreview(ctx, form.Record())
		case "Submit":
			done, submitErr := c.submit(ctx, form)
			if submitErr != nil {
				return submitErr
			}
			if done {
				return nil
			}
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) editBasics(ctx context.Context, form *controller.Controller) error {
	fields := []struct {
		name    string
		message string
	}{
		{"collegeName", "College name"},
		{"collegeLocation", "Location"},
		{"established", "Established (year)"},
		{"nirfranking", "NIRF ranking"},
		{"students", "Student count"},
		{"highestPackage", "Highest package"},
		{"averagePackage", "Average package"},
	}
	for _, field := range fields {
		value, err := c.driver.Input(ctx, InputConfig{
			Message: field.message,
			Default: form.Record().String(field.name),
		})
		if err != nil {
			return err
		}
		form.SetField(field.name, value)
	}
	return nil
}

func (c *Console) editAbout(ctx context.Context, form *controller.Controller) error {
	about, err := c.driver.TextArea(ctx, TextAreaConfig{
		Message: "About the college",
		Default: form.Record().String("aboutUsSub"),
	})
	if err != nil {
		return err
	}
	form.SetField("aboutUsSub", about)

	overview, _ := form.Record().List("overview")
	for i := range overview {
		current, _ := overview[i].(string)
		value, err := c.driver.TextArea(ctx, TextAreaConfig{
			Message: fmt.Sprintf("Overview paragraph %d", i+1),
			Default: current,
		})
		if err != nil {
			return err
		}
		form.SetListItem("overview", i, value)
	}

	more, err := c.driver.Confirm(ctx, ConfirmConfig{Message: "Add another overview paragraph?"})
	if err != nil {
		return err
	}
	if more {
		form.AppendListItem("overview")
		return c.editAbout(ctx, form)
	}
	return nil
}

func (c *Console) editCourses(ctx context.Context, form *controller.Controller) error {
	rows, _ := form.Record().List("coursesAndFee")
	for i := range rows {
		if err := c.editCourseRow(ctx, form, i); err != nil {
			return err
		}
	}
	more, err := c.driver.Confirm(ctx, ConfirmConfig{Message: "Add another course?"})
	if err != nil {
		return err
	}
	if more {
		form.AddCourseRow()
		rows, _ := form.Record().List("coursesAndFee")
		return c.editCourseRow(ctx, form, len(rows)-1)
	}
	return nil
}

// editCourseRow walks one row down the selection chain. Every step offers the
// catalog options plus free entry, since the catalog may lag behind reality.
func (c *Console) editCourseRow(ctx context.Context, form *controller.Controller, index int) error {
	steps := []struct {
		field   string
		message string
		options func() []string
	}{
		{catalog.FieldStream, "Stream", func() []string { return form.Streams(ctx) }},
		{catalog.FieldLevel, "Level", func() []string { return form.CourseRowState(index).Levels }},
		{catalog.FieldDegreeName, "Degree", func() []string { return form.CourseRowState(index).Degrees }},
		{catalog.FieldSpecialization, "Specialization", func() []string { return form.CourseRowState(index).Specializations }},
		{catalog.FieldCourseName, "Course name", func() []string { return form.CourseRowState(index).CourseNames }},
	}
	for _, step := range steps {
		value, err := c.pickOrType(ctx, step.message, step.options())
		if err != nil {
			return err
		}
		form.SetCourseField(ctx, index, step.field, value)
	}

	for _, entry := range []struct {
		field   string
		message string
	}{
		{catalog.FieldDuration, "Duration (years)"},
		{catalog.FieldFee, "Fee"},
	} {
		value, err := c.driver.Input(ctx, InputConfig{Message: entry.message})
		if err != nil {
			return err
		}
		form.SetCourseField(ctx, index, entry.field, value)
	}
	return nil
}

// pickOrType offers catalog options when there are any, always with a manual
// escape hatch.
func (c *Console) pickOrType(ctx context.Context, message string, options []string) (string, error) {
	const other = "Other (type it in)"
	if len(options) == 0 {
		return c.driver.Input(ctx, InputConfig{Message: message})
	}
	choice, err := c.driver.Select(ctx, SelectConfig{
		Message: message,
		Options: append(append([]string{}, options...), other),
	})
	if err != nil {
		return "", err
	}
	if choice >= 0 && choice < len(options) {
		return options[choice], nil
	}
	return c.driver.Input(ctx, InputConfig{Message: message})
}

func (c *Console) editFAQ(ctx context.Context, form *controller.Controller) error {
	entries, _ := form.Record().List("faq")
	for i := range entries {
		entry, ok := entries[i].(formdata.Record)
		if !ok {
			continue
		}
		question, err := c.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("FAQ %d question", i+1),
			Default: entry.String("question"),
		})
		if err != nil {
			return err
		}
		form.SetListField("faq", i, "question", question)

		answer, err := c.driver.TextArea(ctx, TextAreaConfig{
			Message: fmt.Sprintf("FAQ %d answer", i+1),
			Default: entry.String("answer"),
		})
		if err != nil {
			return err
		}
		form.SetListField("faq", i, "answer", answer)
	}
	more, err := c.driver.Confirm(ctx, ConfirmConfig{Message: "Add another FAQ entry?"})
	if err != nil {
		return err
	}
	if more {
		form.AppendListItem("faq")
		return c.editFAQ(ctx, form)
	}
	return nil
}

func (c *Console) showPreview(ctx context.Context, record formdata.Record) error {
	html, err := c.preview.Render(record)
	if err != nil {
		return err
	}
	return c.driver.Info(ctx, html)
}

// submit pushes the record; validation gaps show inline and return the user to
// the section menu instead of ending the session.
func (c *Console) submit(ctx context.Context, form *controller.Controller) (bool, error) {
	confirmed, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: "Submit this entry for review?",
		Default: true,
	})
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	if err := form.Submit(ctx); err != nil {
		var invalid controller.ValidationErrors
		if errors.As(err, &invalid) {
			for field, message := range invalid {
				if infoErr := c.driver.Info(ctx, field+": "+message); infoErr != nil {
					return false, infoErr
				}
			}
			return false, nil
		}
		return false, err
	}
	return true, c.driver.Info(ctx, "Submitted for review.")
}

// runDashboard drives the review queue.
func (c *Console) runDashboard(ctx context.Context) error {
	service, err := review.New(c.session, review.WithGateway(c.client))
	if err != nil {
		return err
	}

	for {
		entries, err := service.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return c.driver.Info(ctx, "No entries.")
		}

		labels := make([]string, 0, len(entries)+1)
		for _, entry := range entries {
			labels = append(labels, dashboardLabel(entry))
		}
		labels = append(labels, "Back")

		choice, err := c.driver.Select(ctx, SelectConfig{
			Message:  "Entries",
			Options:  labels,
			PageSize: 15,
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(entries) {
			return nil
		}
		if err := c.actOnEntry(ctx, service, entries[choice]); err != nil {
			return err
		}
	}
}

func dashboardLabel(entry review.Entry) string {
	status := entry.Status
	if review.IsPending(status) {
		status = gateway.StatusPending
	}
	label := fmt.Sprintf("[%s] %s", status, entry.CollegeName)
	if entry.ApproverEmail != "" {
		label += " (by " + entry.ApproverEmail + ")"
	}
	return label
}

func (c *Console) actOnEntry(ctx context.Context, service *review.Service, entry review.Entry) error {
	actions := []string{"Preview"}
	if c.session.CanApprove() && review.IsPending(entry.Status) {
		actions = append(actions, "Approve", "Reject")
	}
	actions = append(actions, "Delete", "Back")

	choice, err := c.driver.Select(ctx, SelectConfig{
		Message: entry.CollegeName,
		Options: actions,
	})
	if err != nil {
		return err
	}
	switch actions[choice] {
	case "Preview":
		entity, err := c.client.College(ctx, entry.ID)
		if err != nil {
			return err
		}
		record := formdata.Merge(formdata.DefaultCollegeRecord(), entity)
		return c.showPreview(ctx, record)
	case "Approve":
		return service.Approve(ctx, entry.ID)
	case "Reject":
		reason, err := c.driver.Input(ctx, InputConfig{
			Message: "Rejection reason (sent to the author)",
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("a reason is required")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		return service.Reject(ctx, entry.ID, reason)
	case "Delete":
		confirmed, err := c.driver.Confirm(ctx, ConfirmConfig{
			Message: "Delete " + entry.CollegeName + "?",
		})
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
		return service.Delete(ctx, entry)
	default:
		return nil
	}
}

// runUserAdmin drives account administration.
func (c *Console) runUserAdmin(ctx context.Context) error {
	service, err := useradmin.New(c.session, useradmin.WithGateway(c.client))
	if err != nil {
		return err
	}

	for {
		users, err := service.Users(ctx)
		if err != nil {
			return err
		}

		labels := make([]string, 0, len(users)+1)
		for _, user := range users {
			labels = append(labels, fmt.Sprintf("%s <%s> (%s)", user.Username, user.Email, user.Role))
		}
		labels = append(labels, "Back")

		choice, err := c.driver.Select(ctx, SelectConfig{
			Message:  "Accounts",
			Options:  labels,
			PageSize: 15,
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(users) {
			return nil
		}
		if err := c.actOnUser(ctx, service, users[choice]); err != nil {
			return err
		}
	}
}

func (c *Console) actOnUser(ctx context.Context, service *useradmin.Service, user gateway.User) error {
	actions := []string{"Change role", "Reset password", "Delete", "Back"}
	choice, err := c.driver.Select(ctx, SelectConfig{
		Message: user.Email,
		Options: actions,
	})
	if err != nil {
		return err
	}
	switch actions[choice] {
	case "Change role":
		roles := []string{controller.RoleAdmin, controller.RoleContentCreator}
		roleChoice, err := c.driver.Select(ctx, SelectConfig{
			Message: "New role",
			Options: roles,
		})
		if err != nil {
			return err
		}
		return service.ChangeRole(ctx, user.ID, roles[roleChoice])
	case "Reset password":
		password, err := c.driver.Password(ctx, InputConfig{Message: "New password"})
		if err != nil {
			return err
		}
		return service.ResetPassword(ctx, user.ID, password)
	case "Delete":
		confirmed, err := c.driver.Confirm(ctx, ConfirmConfig{
			Message: "Delete " + user.Email + "?",
		})
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
		return service.DeleteUser(ctx, user.ID)
	default:
		return nil
	}
}
