package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/compare"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
)

// MsgNothingToOpen is returned by --open when the comparison ranked no roles.
const MsgNothingToOpen = "The comparison returned no ranked roles, so there is nothing to open."

var (
	compareResume     string
	compareMode       string
	compareCandidate  string
	compareAdhocTitle string
	compareAdhocJD    string
	compareAdhocFile  string
	compareOpen       int
)

var compareCmd = &cobra.Command{
	Use:   "compare <role-id>...",
	Short: "Rank one resume against several role profiles",
	Long: `Rank one resume against the given role profiles in a single request. An unsaved job
description can be added with --adhoc-title and --adhoc-jd or --adhoc-jd-file. Use --open N to make
the N-th ranked entry the current report.`,
	RunE: withApp(runCompare),
}

func init() {
	compareCmd.Flags().StringVar(&compareResume, "resume", "", "Resume file (PDF or DOCX)")
	compareCmd.Flags().StringVar(&compareMode, "mode", string(types.ModeStandard), "Analysis mode: standard or strict")
	compareCmd.Flags().StringVar(&compareCandidate, "candidate", "", "Candidate name")
	compareCmd.Flags().StringVar(&compareAdhocTitle, "adhoc-title", "", "Title of an unsaved job description")
	compareCmd.Flags().StringVar(&compareAdhocJD, "adhoc-jd", "", "Text of an unsaved job description")
	compareCmd.Flags().StringVar(&compareAdhocFile, "adhoc-jd-file", "", "File holding an unsaved job description")
	compareCmd.Flags().IntVar(&compareOpen, "open", 0, "Open the N-th ranked entry as the current report")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewCompare); err != nil {
		return err
	}
	mode, err := types.ParseMode(compareMode)
	if err != nil {
		return err
	}

	var ids []int64
	for _, arg := range args {
		id, err := parseRoleID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	sel := compare.NewSelection(ids...)

	adhoc, err := adhocJDs()
	if err != nil {
		return err
	}

	// Drop selected ids that no longer exist before spending a compare call on them.
	if sel.Len() > 0 && strings.TrimSpace(compareResume) != "" {
		a.roles.Subscribe(sel.Retain)
		if _, err := a.roles.Refresh(ctx); err != nil {
			return a.fail(ctx, err, "Could not load role profiles.")
		}
		for _, id := range ids {
			if !slices.Contains(sel.IDs(), id) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: role profile %d no longer exists, skipping\n", id)
			}
		}
	}

	entries, err := a.compare.Compare(ctx, compare.Request{
		ResumePath:    compareResume,
		Mode:          mode,
		CandidateName: compareCandidate,
		AdhocJDs:      adhoc,
	}, sel)
	if err != nil {
		return a.fail(ctx, err, "Comparison failed. Please try again.")
	}
	a.printer.PrintComparison(entries)

	if compareOpen == 0 {
		return nil
	}
	if len(entries) == 0 {
		return errors.New(MsgNothingToOpen)
	}
	if compareOpen < 1 || compareOpen > len(entries) {
		return fmt.Errorf("--open must be between 1 and %d", len(entries))
	}
	if _, err := a.compare.Open(ctx, entries[compareOpen-1]); err != nil {
		return a.fail(ctx, err, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Opened %q as the current report. Run `talentctl result` to view it.\n", entries[compareOpen-1].RoleTitle)
	return nil
}

func adhocJDs() ([]types.AdhocJD, error) {
	text := compareAdhocJD
	if strings.TrimSpace(text) == "" && compareAdhocFile != "" {
		read, err := readJDFile(compareAdhocFile)
		if err != nil {
			return nil, err
		}
		text = read
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	title := strings.TrimSpace(compareAdhocTitle)
	if title == "" {
		title = "Ad-hoc JD"
	}
	return []types.AdhocJD{{Title: title, JDText: strings.TrimSpace(text)}}, nil
}
