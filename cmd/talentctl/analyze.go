package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/fetch"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
	"github.com/jonathan/talentalign/internal/workspace"
)

var (
	analyzeResume    string
	analyzeJDText    string
	analyzeJDFile    string
	analyzeJDURL     string
	analyzeBrowser   bool
	analyzeMode      string
	analyzeCandidate string
	analyzeRoleTitle string
	analyzeRoleID    int64
	analyzeTemplate  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long: `Score a resume (PDF or DOCX) against a job description given as text, a file, a posting URL
or a saved role profile. The result becomes the current report and is added to local history.`,
	RunE: withApp(runAnalyze),
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeResume, "resume", "", "Resume file (PDF or DOCX)")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "Job description text")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd-file", "", "Job description file (PDF, DOCX or TXT)")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "Job posting URL to import the description from")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render the posting in headless Chrome when the static page has too little text")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", string(types.ModeStandard), "Analysis mode: standard or strict")
	analyzeCmd.Flags().StringVar(&analyzeCandidate, "candidate", "", "Candidate name")
	analyzeCmd.Flags().StringVar(&analyzeRoleTitle, "role-title", "", "Role title")
	analyzeCmd.Flags().Int64Var(&analyzeRoleID, "role", 0, "Use the job description of this saved role profile")
	analyzeCmd.Flags().StringVar(&analyzeTemplate, "jd-template", "", templateUsage())
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	mode, err := types.ParseMode(analyzeMode)
	if err != nil {
		return err
	}
	draft := workspace.Draft{
		ResumePath:    analyzeResume,
		JDText:        analyzeJDText,
		JDPath:        analyzeJDFile,
		Mode:          mode,
		CandidateName: analyzeCandidate,
		RoleTitle:     analyzeRoleTitle,
	}

	switch {
	case strings.TrimSpace(analyzeTemplate) != "":
		if err := workspace.ApplyTemplate(analyzeTemplate, &draft); err != nil {
			return err
		}
	case analyzeRoleID != 0:
		if err := a.workspace.UseRole(ctx, analyzeRoleID, &draft); err != nil {
			return a.fail(ctx, err, "Could not load role profile.")
		}
		if analyzeRoleTitle != "" {
			draft.RoleTitle = analyzeRoleTitle
		}
	case strings.TrimSpace(analyzeJDURL) != "":
		if err := a.requireLogin(ctx, session.ViewDashboard); err != nil {
			return err
		}
		importer := fetch.NewImporter(fetch.Options{UseBrowser: analyzeBrowser || cfg.UseBrowser, Logger: a.logger})
		posting, err := importer.Import(ctx, analyzeJDURL)
		if err != nil {
			return fmt.Errorf("failed to import job posting: %w", err)
		}
		draft.JDText = posting.Text
		draft.JDPath = ""
		if draft.RoleTitle == "" {
			draft.RoleTitle = posting.Title
		}
	}

	return submit(cmd, a, draft)
}

func submit(cmd *cobra.Command, a *app, draft workspace.Draft) error {
	ctx := cmd.Context()
	outcome, err := a.workspace.Analyze(ctx, draft)
	if err != nil {
		return a.fail(ctx, err, workspace.MsgAnalysisFailed)
	}
	for _, w := range outcome.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	a.printer.PrintResult(outcome.Result)
	return nil
}

func templateUsage() string {
	var names []string
	for _, t := range workspace.Templates() {
		names = append(names, t.Name)
	}
	return "Use a sample job description: " + strings.Join(names, ", ")
}
