package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/darasa/core/view"
)

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}

func (cli *commandLine) sprintf(format string, a ...interface{}) string {
	return fmt.Sprintf(format, a...)
}

func (cli *commandLine) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func (cli *commandLine) renderDashboard(d view.Dashboard) {
	cli.printf("%s\n\n", d.SchoolName)
	cli.table("METRIC\tVALUE", func(w *tabwriter.Writer) {
		_, _ = fmt.Fprintf(w, "Students\t%d\n", d.Students)
		_, _ = fmt.Fprintf(w, "  active\t%d\n", d.ActiveStudents)
		_, _ = fmt.Fprintf(w, "  inactive\t%d\n", d.InactiveStudents)
		genders := make([]string, 0, len(d.StudentsByGender))
		for g := range d.StudentsByGender {
			genders = append(genders, g)
		}
		sort.Strings(genders)
		for _, g := range genders {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", strings.ToLower(g), d.StudentsByGender[g])
		}
		_, _ = fmt.Fprintf(w, "Staff\t%d\n", d.Staff)
		_, _ = fmt.Fprintf(w, "  active\t%d\n", d.ActiveStaff)
		_, _ = fmt.Fprintf(w, "Classes\t%d\n", d.Classes)
		_, _ = fmt.Fprintf(w, "Subjects\t%d\n", d.Subjects)
	})
}

func (cli *commandLine) renderClasses(rows []view.ClassRow) {
	cli.table("ID\tCLASS\tCLASS TEACHER\tSTUDENTS\tSUBJECTS\tEDIT", func(w *tabwriter.Writer) {
		for _, r := range rows {
			subjects := make([]string, 0, len(r.Subjects))
			for _, s := range r.Subjects {
				subjects = append(subjects, s.SubjectName+" ("+s.TeacherName+")")
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
				r.ID, r.Label, r.TeacherName, r.StudentCount, strings.Join(subjects, ", "), yesNo(r.CanEdit))
		}
	})
}

func (cli *commandLine) renderStudents(rows []view.StudentRow) {
	cli.table("ID\tNAME\tCLASS\tGENDER\tPARENT\tSTATUS\tEDIT", func(w *tabwriter.Writer) {
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.FullName, r.ClassLabel, r.Gender, r.ParentName, r.Status, yesNo(r.CanEdit))
		}
	})
}

func (cli *commandLine) renderStaff(rows []view.StaffRow) {
	cli.table("ID\tNAME\tEMAIL\tSPECIALIZATION\tCLASS TEACHER OF\tSTATUS", func(w *tabwriter.Writer) {
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.FullName, r.Email, r.SubjectSpecialization, strings.Join(r.ClassTeacherOf, ", "), r.Status)
		}
	})
}

func (cli *commandLine) renderSubjects(rows []view.SubjectRow) {
	cli.table("ID\tSUBJECT\tDESCRIPTION\tCLASSES", func(w *tabwriter.Writer) {
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				r.ID, r.SubjectName, r.SubjectDescription.String, strings.Join(r.Classes, ", "))
		}
	})
}

func (cli *commandLine) renderExam(es view.ExamSchedule) {
	cli.printf("%s (%s) - %s\n%s to %s\n\n", es.Exam.Name, es.Exam.Term, es.ClassLabel, es.Exam.StartDate, es.Exam.EndDate)
	cli.table("DATE\tTIME\tSUBJECT\tMAX MARKS", func(w *tabwriter.Writer) {
		for _, r := range es.Rows {
			_, _ = fmt.Fprintf(w, "%s\t%s-%s\t%s\t%d\n", r.ExamDate, r.StartTime, r.EndTime, r.SubjectName, r.MaxMarks)
		}
	})
}
