package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/documents"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/types"
	"github.com/jonathan/talentalign/internal/workspace"
)

var (
	roleTitle          string
	roleJDText         string
	roleJDFile         string
	roleLevel          string
	roleDepartment     string
	roleLocation       string
	roleEmploymentType string

	roleUseResume    string
	roleUseMode      string
	roleUseCandidate string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage saved role profiles",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List role profiles, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRolesList),
}

var rolesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save a new role profile",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRolesCreate),
}

var rolesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a role profile",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRolesDelete),
}

var rolesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Analyze a resume against a saved role profile",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRolesUse),
}

func init() {
	f := rolesCreateCmd.Flags()
	f.StringVar(&roleTitle, "title", "", "Role title (required)")
	f.StringVar(&roleJDText, "jd-text", "", "Job description text")
	f.StringVar(&roleJDFile, "jd-file", "", "Read the job description from a PDF, DOCX or TXT file")
	f.StringVar(&roleLevel, "level", "", "Seniority level")
	f.StringVar(&roleDepartment, "department", "", "Department")
	f.StringVar(&roleLocation, "location", "", "Location")
	f.StringVar(&roleEmploymentType, "employment-type", "", "Employment type")

	u := rolesUseCmd.Flags()
	u.StringVar(&roleUseResume, "resume", "", "Resume file (PDF or DOCX)")
	u.StringVar(&roleUseMode, "mode", string(types.ModeStandard), "Analysis mode: standard or strict")
	u.StringVar(&roleUseCandidate, "candidate", "", "Candidate name")

	rolesCmd.AddCommand(rolesListCmd, rolesCreateCmd, rolesDeleteCmd, rolesUseCmd)
	rootCmd.AddCommand(rolesCmd)
}

func parseRoleID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid role id %q", arg)
	}
	return id, nil
}

func runRolesList(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewRoles); err != nil {
		return err
	}
	profiles, err := a.roles.List(ctx)
	if err != nil {
		return a.fail(ctx, err, "Could not load role profiles.")
	}
	a.printer.PrintRoles(profiles)
	return nil
}

func runRolesCreate(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewRoles); err != nil {
		return err
	}
	jdText := roleJDText
	if strings.TrimSpace(jdText) == "" && roleJDFile != "" {
		text, err := readJDFile(roleJDFile)
		if err != nil {
			return err
		}
		jdText = text
	}

	profile, err := a.roles.Create(ctx, types.CreateRoleRequest{
		Title:          roleTitle,
		JDText:         jdText,
		Level:          roleLevel,
		Department:     roleDepartment,
		Location:       roleLocation,
		EmploymentType: roleEmploymentType,
	})
	if err != nil {
		return a.fail(ctx, err, "Could not create role profile.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created role profile %d: %s\n", profile.ID, profile.Title)
	return nil
}

func readJDFile(path string) (string, error) {
	kind, ok := documents.KindOf(path)
	if !ok {
		return "", types.Invalid("jd_file", documents.MsgJDFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := documents.ExtractText(kind, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}

func runRolesDelete(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewRoles); err != nil {
		return err
	}
	id, err := parseRoleID(args[0])
	if err != nil {
		return err
	}
	if err := a.roles.Delete(ctx, id); err != nil {
		return a.fail(ctx, err, "Could not delete role profile.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted role profile %d\n", id)
	return nil
}

func runRolesUse(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	id, err := parseRoleID(args[0])
	if err != nil {
		return err
	}
	mode, err := types.ParseMode(roleUseMode)
	if err != nil {
		return err
	}
	draft := workspace.Draft{ResumePath: roleUseResume, Mode: mode, CandidateName: roleUseCandidate}
	if err := a.workspace.UseRole(ctx, id, &draft); err != nil {
		return a.fail(ctx, err, "Could not load role profile.")
	}
	return submit(cmd, a, draft)
}
