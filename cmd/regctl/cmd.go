package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/dashboard"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
	"github.com/jacobmichels/Course-Portal-Go/panel"
	"github.com/jacobmichels/Course-Portal-Go/session"
	"github.com/jacobmichels/Course-Portal-Go/validate"
)

// the terminal keeps a single session
const cliSessionID = "regctl"

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errForbidden = errors.New("command not available for your role")
)

type commandLine struct {
	sessions  session.Manager
	validator *validate.Validator
	catalog   *i18n.Catalog
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME   - log in, the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                     - forget the stored session")
	fmt.Fprintln(cli.out, "  whoami                     - show the logged in user")
	fmt.Fprintln(cli.out, "  courses                    - list courses")
	fmt.Fprintln(cli.out, "  terms                      - list terms (admin)")
	fmt.Fprintln(cli.out, "  draft                      - show the draft selection (student)")
	fmt.Fprintln(cli.out, "  select -code CODE          - add a course to the draft (student)")
	fmt.Fprintln(cli.out, "  drop -code CODE            - remove a course from the draft (student)")
	fmt.Fprintln(cli.out, "  finalize                   - finalize the draft (student)")
	fmt.Fprintln(cli.out, "  schedule                   - weekly schedule (student)")
	fmt.Fprintln(cli.out, "  report-card [-term ID]     - report card (student)")
	fmt.Fprintln(cli.out, "  history [-page N]          - login history")
	fmt.Fprintln(cli.out, "  roster -course CODE        - students of a course (professor)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginUname := loginCmd.String("username", "", "The username. The password will be prompted next.")
	selectCmd := flag.NewFlagSet("select", flag.ContinueOnError)
	selectCode := selectCmd.String("code", "", "The course code.")
	dropCmd := flag.NewFlagSet("drop", flag.ContinueOnError)
	dropCode := dropCmd.String("code", "", "The course code.")
	reportCmd := flag.NewFlagSet("report-card", flag.ContinueOnError)
	reportTerm := reportCmd.Int("term", 0, "The term id, the current term when omitted.")
	historyCmd := flag.NewFlagSet("history", flag.ContinueOnError)
	historyPage := historyCmd.Int("page", 1, "The page to show.")
	rosterCmd := flag.NewFlagSet("roster", flag.ContinueOnError)
	rosterCourse := rosterCmd.String("course", "", "The course code.")

	for _, fs := range []*flag.FlagSet{loginCmd, selectCmd, dropCmd, reportCmd, historyCmd, rosterCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginUname, string(pwd))
	case "logout":
		return cli.sessions.Logout(ctx, cliSessionID)
	case "whoami":
		return cli.whoami(ctx)
	case "courses":
		return cli.courses(ctx)
	case "terms":
		return cli.terms(ctx)
	case "draft":
		return cli.draft(ctx)
	case "select", "drop":
		fs, code := selectCmd, selectCode
		if args[1] == "drop" {
			fs, code = dropCmd, dropCode
		}
		if err := fs.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *code == "" {
			fs.Usage()
			return errHelp
		}
		return cli.changeDraft(ctx, args[1] == "drop", *code)
	case "finalize":
		return cli.finalize(ctx)
	case "schedule":
		return cli.schedule(ctx)
	case "report-card":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.reportCard(ctx, *reportTerm)
	case "history":
		if err := historyCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.history(ctx, *historyPage)
	case "roster":
		if err := rosterCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *rosterCourse == "" {
			rosterCmd.Usage()
			return errHelp
		}
		return cli.roster(ctx, *rosterCourse)
	default:
		cli.printUsage()
		return errHelp
	}
}

// env resolves the stored session and checks that its dashboard has the panel
func (cli *commandLine) env(ctx context.Context, id panel.ID) (panel.Env, error) {
	sess, err := cli.sessions.Resolve(ctx, cliSessionID)
	if err != nil {
		return panel.Env{}, fmt.Errorf("not logged in: %w", err)
	}
	if !dashboard.Allows(sess.Role, id) {
		return panel.Env{}, errForbidden
	}
	return panel.Env{Backend: cli.sessions.Backend(sess), Validator: cli.validator, Catalog: cli.catalog}, nil
}

// report prints msg, turning a failure message into the command's error
func (cli *commandLine) report(msg *panel.Message) error {
	if msg == nil {
		return nil
	}
	if msg.Kind == panel.Failed {
		return errors.New(msg.Text)
	}
	fmt.Fprintln(cli.out, msg.Text)
	return nil
}

func (cli *commandLine) table(columns []string, rows [][]string) {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (cli *commandLine) login(ctx context.Context, username, password string) error {
	form := portal.LoginForm{Username: username, Password: password}
	if err := cli.validator.Check(form); err != nil {
		return err
	}

	sess, err := cli.sessions.Login(ctx, cliSessionID, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "logged in as %s (%s)\n", sess.Username, sess.Role)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	sess, err := cli.sessions.Resolve(ctx, cliSessionID)
	if err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}

	d, err := dashboard.For(sess.Role)
	if err != nil {
		return err
	}

	panels := make([]string, 0, len(d.Panels))
	for _, p := range d.Panels {
		panels = append(panels, string(p))
	}
	fmt.Fprintf(cli.out, "%s (%s)\npanels: %s\n", sess.Username, sess.Role, strings.Join(panels, ", "))
	return nil
}

func (cli *commandLine) courses(ctx context.Context) error {
	env, err := cli.env(ctx, panel.CoursesID)
	if err != nil {
		return err
	}

	view := panel.NewCourses(env).Load(ctx)
	if err := cli.report(view.Message); err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.Courses))
	for _, c := range view.Courses {
		rows = append(rows, []string{
			c.Code, c.Name, strconv.Itoa(c.Units), c.Day,
			portal.ShortTime(c.StartTime) + "-" + portal.ShortTime(c.EndTime), c.Location, c.ProfessorName,
		})
	}
	cli.table([]string{"CODE", "NAME", "UNITS", "DAY", "TIME", "LOCATION", "PROFESSOR"}, rows)
	return nil
}

func (cli *commandLine) terms(ctx context.Context) error {
	env, err := cli.env(ctx, panel.TermsID)
	if err != nil {
		return err
	}

	view := panel.NewTermManager(env).Load(ctx)
	if err := cli.report(view.Message); err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.Terms))
	for _, t := range view.Terms {
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Name,
			t.StartSelection.Format("2006-01-02 15:04"), t.EndSelection.Format("2006-01-02 15:04"),
			strconv.FormatBool(t.IsActive),
		})
	}
	cli.table([]string{"ID", "NAME", "SELECTION START", "SELECTION END", "ACTIVE"}, rows)
	return nil
}

func (cli *commandLine) printDraft(view panel.CourseSelectionView) {
	rows := make([][]string, 0, len(view.Draft))
	for _, s := range view.Draft {
		rows = append(rows, []string{s.CodeValue(), s.NameValue(), strconv.Itoa(s.UnitsValue())})
	}
	cli.table([]string{"CODE", "NAME", "UNITS"}, rows)

	limit := "no limit"
	if view.Limit != nil {
		limit = fmt.Sprintf("%d..%d", view.Limit.MinUnits, view.Limit.MaxUnits)
	}
	fmt.Fprintf(cli.out, "total units: %d (allowed %s)\n", view.TotalUnits, limit)
}

func (cli *commandLine) draft(ctx context.Context) error {
	env, err := cli.env(ctx, panel.CourseSelectionID)
	if err != nil {
		return err
	}

	view := panel.NewCourseSelection(env).Load(ctx)
	if err := cli.report(view.Message); err != nil {
		return err
	}
	cli.printDraft(view)
	return nil
}

func (cli *commandLine) changeDraft(ctx context.Context, drop bool, code string) error {
	env, err := cli.env(ctx, panel.CourseSelectionID)
	if err != nil {
		return err
	}

	selection := panel.NewCourseSelection(env)
	form := portal.SelectForm{CourseCode: code}

	var view panel.CourseSelectionView
	if drop {
		view, err = selection.Remove(ctx, form)
	} else {
		view, err = selection.Add(ctx, form)
	}
	if err != nil {
		return err
	}

	if err := cli.report(view.Message); err != nil {
		return err
	}
	cli.printDraft(view)
	return nil
}

func (cli *commandLine) finalize(ctx context.Context) error {
	env, err := cli.env(ctx, panel.CourseSelectionID)
	if err != nil {
		return err
	}

	view, err := panel.NewCourseSelection(env).Finalize(ctx)
	if err != nil {
		return err
	}
	return cli.report(view.Message)
}

func (cli *commandLine) schedule(ctx context.Context) error {
	env, err := cli.env(ctx, panel.WeeklyScheduleID)
	if err != nil {
		return err
	}

	view := panel.NewWeeklySchedule(env).Load(ctx)
	if err := cli.report(view.Message); err != nil {
		return err
	}
	cli.table(view.Table.Columns, view.Table.Rows)
	return nil
}

func (cli *commandLine) reportCard(ctx context.Context, termID int) error {
	env, err := cli.env(ctx, panel.ReportCardID)
	if err != nil {
		return err
	}

	view := panel.NewReportCard(env).Load(ctx, termID)
	if err := cli.report(view.Message); err != nil {
		return err
	}

	if view.Term != "" {
		fmt.Fprintf(cli.out, "term: %s\n", view.Term)
	}
	cli.table(view.Table.Columns, view.Table.Rows)
	if view.GPA != nil {
		fmt.Fprintf(cli.out, "gpa: %.2f\n", *view.GPA)
	}
	return nil
}

func (cli *commandLine) history(ctx context.Context, page int) error {
	env, err := cli.env(ctx, panel.LoginHistoryID)
	if err != nil {
		return err
	}

	view := panel.NewLoginHistory(env).Load(ctx, page, panel.DefaultPageSize)
	if err := cli.report(view.Message); err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.Entries))
	for _, e := range view.Entries {
		status := "ok"
		if !e.IsSuccess {
			status = "failed"
			if e.FailureReason != "" {
				status += ": " + e.FailureReason
			}
		}
		rows = append(rows, []string{e.LoginAt.Format("2006-01-02 15:04"), e.IPAddress, status})
	}
	cli.table([]string{"TIME", "IP", "STATUS"}, rows)
	fmt.Fprintf(cli.out, "page %d of %d\n", view.Page, view.Pages)
	return nil
}

func (cli *commandLine) roster(ctx context.Context, courseCode string) error {
	env, err := cli.env(ctx, panel.CourseStudentsID)
	if err != nil {
		return err
	}

	view := panel.NewCourseStudents(env).Load(ctx, courseCode)
	if err := cli.report(view.Message); err != nil {
		return err
	}

	rows := make([][]string, 0, len(view.Students))
	for _, s := range view.Students {
		rows = append(rows, []string{s.StudentNumber, s.FirstName + " " + s.LastName})
	}
	cli.table([]string{"STUDENT NUMBER", "NAME"}, rows)
	return nil
}
