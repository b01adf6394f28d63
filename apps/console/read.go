package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/view"
	exportsvc "github.com/trezcool/darasa/services/export"
)

// show mounts a page for the time of one load: the gate runs first, then the
// aggregator loads and the page renders from the committed snapshot.
func show[VM any](ctx context.Context, cli *commandLine, ws *workspace, resource authz.Resource,
	derive func(session.Session, school.Snapshot) VM, render func(VM)) error {
	page := view.Page[VM]{
		Resource: resource,
		Derive:   derive,
		Render:   render,
		Placeholder: func(state school.State, err error) {
			if err != nil {
				cli.printf("Unable to load school data.\n")
			}
		},
	}
	ctrl, err := view.Mount(page, ws.sess, ws.gate, ws.agg)
	if err != nil {
		return err
	}
	defer ctrl.Unmount()

	if err := ws.agg.Initialize(ctx, ws.sess.SchoolID); err != nil {
		core.NotifyError(cli.notifier, err)
		return err
	}
	return nil
}

func (cli *commandLine) read(ctx context.Context, cmd string, args []string) error {
	fs, token := cli.newFlagSet(cmd, true)
	classID := fs.Int("class", 0, "Only show students of this class.")
	status := fs.String("status", "", "Only show records with this status (Active|Inactive).")
	search := fs.String("search", "", "Case-insensitive search.")
	examID := fs.Int("id", 0, "The exam id.")
	out := fs.String("out", "", "The xlsx file to write.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := cli.open(*token)
	if err != nil {
		return err
	}
	defer ws.close()

	switch cmd {
	case "dashboard":
		return show(ctx, cli, ws, authz.ResourceDashboard, view.DashboardOf, cli.renderDashboard)
	case "classes":
		return show(ctx, cli, ws, authz.ResourceClasses, view.ClassList, cli.renderClasses)
	case "subjects":
		return show(ctx, cli, ws, authz.ResourceSubjects, view.SubjectList, cli.renderSubjects)
	case "students":
		filter := view.StudentFilter{ClassID: *classID, Status: school.Status(*status), Search: *search}
		return show(ctx, cli, ws, authz.ResourceStudents, func(sess session.Session, snap school.Snapshot) []view.StudentRow {
			return view.StudentList(sess, snap, filter)
		}, cli.renderStudents)
	case "staff":
		filter := view.StaffFilter{Status: school.Status(*status), Search: *search}
		return show(ctx, cli, ws, authz.ResourceStaff, func(sess session.Session, snap school.Snapshot) []view.StaffRow {
			return view.StaffList(sess, snap, filter)
		}, cli.renderStaff)
	case "exam":
		if *examID == 0 {
			fs.Usage()
			return errHelp
		}
		return cli.showExam(ctx, ws, *examID)
	case "export-students":
		if *out == "" {
			fs.Usage()
			return errHelp
		}
		return cli.exportStudents(ctx, ws, *out, view.StudentFilter{ClassID: *classID, Status: school.Status(*status), Search: *search})
	}
	return errHelp
}

func (cli *commandLine) showExam(ctx context.Context, ws *workspace, examID int) error {
	if err := ws.gate.Check(ws.sess.Role, authz.ResourceExams); err != nil {
		return err
	}
	exam, err := ws.client.GetExam(ctx, examID)
	if err != nil {
		core.NotifyError(cli.notifier, err)
		return err
	}
	subjects, err := ws.client.GetExamSubjects(ctx, examID)
	if err != nil {
		core.NotifyError(cli.notifier, err)
		return err
	}
	return show(ctx, cli, ws, authz.ResourceExams, func(_ session.Session, snap school.Snapshot) view.ExamSchedule {
		return view.ExamScheduleOf(exam, subjects, snap)
	}, cli.renderExam)
}

func (cli *commandLine) exportStudents(ctx context.Context, ws *workspace, path string, filter view.StudentFilter) error {
	var rows []view.StudentRow
	derive := func(sess session.Session, snap school.Snapshot) []view.StudentRow {
		return view.StudentList(sess, snap, filter)
	}
	if err := show(ctx, cli, ws, authz.ResourceStudents, derive, func(r []view.StudentRow) { rows = r }); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	defer f.Close()
	if err := exportsvc.WriteRoster(f, rows); err != nil {
		return err
	}
	cli.notifier.Success("Export complete", cli.sprintf("%d students written to %s.", len(rows), path))
	return nil
}
