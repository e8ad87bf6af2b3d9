package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	careforms "github.com/goliatone/go-careforms"
	"github.com/goliatone/go-careforms/pkg/catalog"
	"github.com/goliatone/go-careforms/pkg/client"
	"github.com/goliatone/go-careforms/pkg/contract"
	"github.com/goliatone/go-careforms/pkg/derive"
	"github.com/goliatone/go-careforms/pkg/documents"
	"github.com/goliatone/go-careforms/pkg/messages"
	"github.com/goliatone/go-careforms/pkg/render"
	"github.com/goliatone/go-careforms/pkg/renderers/tui"
	"github.com/goliatone/go-careforms/pkg/session"
)

func interactiveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Walk through a document request with terminal prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags)
		},
	}
}

func runInteractive(cmd *cobra.Command, flags *globalFlags) error {
	sess, cfg, logger, err := flags.session(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	runner := careforms.NewTerminal(cfg.ThemeVariant,
		tui.WithLogger(logger),
		tui.WithOutput(cmd.OutOrStdout()),
	)
	err = runner.Run(cmd.Context(), sess.Controller)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}

type generateFlags struct {
	step       string
	assessment string
	candidate  string
	profile    string
	search     string
	fields     []string
	all        bool
}

func generateCmd(flags *globalFlags) *cobra.Command {
	gf := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Request one document without prompts",
		Example: `  careforms-cli generate --step reentry --candidate "John Doe" --all
  careforms-cli generate --step hra --assessment juvenile --candidate "Sofia Lee" --field juvenile_risk_level`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, gf)
		},
	}
	f := cmd.Flags()
	f.StringVar(&gf.step, "step", "reentry", "Workflow step: reentry, hra or warm-handoff")
	f.StringVar(&gf.assessment, "assessment", "", "Assessment type for hra: adult or juvenile")
	f.StringVar(&gf.candidate, "candidate", "", "Candidate name")
	f.StringVar(&gf.profile, "profile", "", "Medical id of the profile when the lookup finds several")
	f.StringVar(&gf.search, "search", "", "Only consider fields matching this text for --all")
	f.StringArrayVar(&gf.fields, "field", nil, "Field to include (repeatable)")
	f.BoolVar(&gf.all, "all", false, "Include every field (narrowed by --search)")
	return cmd
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, gf *generateFlags) error {
	step, err := parseStep(gf.step)
	if err != nil {
		return err
	}
	assessment, err := parseAssessment(gf.assessment)
	if err != nil {
		return err
	}

	sess, _, logger, err := flags.session(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	ctrl := sess.Controller
	ctrl.SetStep(ctx, step)
	ctrl.SetAssessmentType(assessment)
	ctrl.SetCandidateName(ctx, strings.TrimSpace(gf.candidate))
	if err := ctrl.LookupNow(ctx); err != nil {
		logger.Warn().Err(err).Msg("profile lookup failed, continuing with the entered name")
	}
	if status := ctrl.View().ProfileStatus; status != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), status)
	}
	if gf.profile != "" {
		if err := ctrl.SelectProfile(gf.profile); err != nil {
			return err
		}
	}

	ctrl.SetSearch(gf.search)
	if gf.all {
		ctrl.SelectAll(true)
	}
	view := ctrl.View()
	seen := make(map[string]struct{}, len(gf.fields))
	for _, id := range gf.fields {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !view.FullTemplate.HasField(id) {
			return fmt.Errorf("field %q is not part of the %s template", id, step)
		}
		if view.IsChecked(id) {
			continue
		}
		if _, err := ctrl.Toggle(id); err != nil {
			return err
		}
	}

	outcome, err := ctrl.Submit(ctx)
	if err != nil {
		var vErr *session.ValidationError
		if errors.As(err, &vErr) && vErr.Key == messages.ChooseProfile {
			w := tabwriter.NewWriter(cmd.ErrOrStderr(), 0, 4, 2, ' ', 0)
			for _, profile := range ctrl.View().Profiles {
				fmt.Fprintf(w, "  %s\t%s\n", profile.MedicalID, profile.DisplayText)
			}
			_ = w.Flush()
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, outcome.Message)
	fmt.Fprintln(out, messages.MustDefault().Render(messages.SavedTo, messages.Args{"path": outcome.Path}))
	return nil
}

func templateCmd() *cobra.Command {
	var (
		stepName   string
		assessment string
		candidate  string
		search     string
		format     string
		fields     []string
	)
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the field template for a step, assessment and candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := parseStep(stepName)
			if err != nil {
				return err
			}
			kind, err := parseAssessment(assessment)
			if err != nil {
				return err
			}

			in := derive.Input{Step: step, Assessment: kind, CandidateName: candidate}
			tpl := derive.Filter(derive.Template(catalog.MustDefault(), in), search)
			if tpl.Empty() {
				if hint := hintText(derive.HintFor(in)); hint != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), hint)
				}
			}

			registry, err := careforms.NewRenderRegistry()
			if err != nil {
				return err
			}
			out, _, err := registry.Render(cmd.Context(), format, tpl, render.RenderOptions{
				Title:     string(step),
				Candidate: strings.TrimSpace(candidate),
				Selected:  fields,
				Query:     search,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&stepName, "step", "reentry", "Workflow step: reentry, hra or warm-handoff")
	f.StringVar(&assessment, "assessment", "", "Assessment type for hra: adult or juvenile")
	f.StringVar(&candidate, "candidate", "", "Candidate name")
	f.StringVar(&search, "search", "", "Filter fields by text")
	f.StringVar(&format, "format", "text", "Output format: text, json or yaml")
	f.StringArrayVar(&fields, "field", nil, "Field to mark as checked (repeatable)")
	return cmd
}

func hintText(hint derive.Hint) string {
	msgs := messages.MustDefault()
	switch hint {
	case derive.HintChooseCandidate:
		return msgs.Text(messages.HintChooseCandidate)
	case derive.HintChooseAssessment:
		return msgs.Text(messages.HintChooseAssessment)
	case derive.HintChooseHRACandidate:
		return msgs.Text(messages.HintChooseHRA)
	default:
		return ""
	}
}

func lookupCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "List candidate profiles matching a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, _, err := flags.session(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			profiles, err := sess.Client.CandidatesByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup: %s", client.Describe(err))
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), messages.MustDefault().Text(messages.NoMatches))
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MEDICAL ID\tDISPLAY TEXT")
			for _, profile := range profiles {
				fmt.Fprintf(w, "%s\t%s\n", profile.MedicalID, profile.DisplayText)
			}
			return w.Flush()
		},
	}
}

func sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections [set]",
		Short: "List the bundled section tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.MustDefault()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				set, ok := cat.Set(args[0])
				if !ok {
					return fmt.Errorf("unknown set %q (available: %s)", args[0], strings.Join(cat.Names(), ", "))
				}
				fmt.Fprintf(out, "%s\n", set.Title)
				for i, section := range set.Sections {
					fmt.Fprintf(out, "%d. %s\n", i+1, section.Title)
					for _, field := range section.Fields {
						fmt.Fprintf(out, "   - %s\n", field)
					}
				}
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SET\tTITLE\tSECTIONS\tFIELDS\tCANDIDATES")
			for _, name := range cat.Names() {
				set, _ := cat.Set(name)
				fieldCount := 0
				for _, section := range set.Sections {
					fieldCount += len(section.Fields)
				}
				names := make([]string, len(set.Candidates))
				for i, candidate := range set.Candidates {
					names[i] = candidate.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", name, set.Title, len(set.Sections), fieldCount, strings.Join(names, ", "))
			}
			return w.Flush()
		},
	}
}

func healthCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the document service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, _, err := flags.session(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			health, err := sess.Client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health: %s", client.Describe(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", health.Status, health.Message)
			return nil
		},
	}
}

func contractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract [openapi.yaml]",
		Short: "Lint a service contract for the endpoints careforms calls",
		Long: `Load an OpenAPI document (the bundled contract when no path is given),
validate it and report every endpoint the client needs but the document does
not declare.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := contract.Raw()
			source := "bundled contract"
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				raw, source = data, args[0]
			}

			doc, err := contract.Load(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}

			violations := lintContract(doc, documents.Default())
			out := cmd.OutOrStdout()
			for _, v := range violations {
				fmt.Fprintf(out, "%s: %s\n", source, v)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d contract violation(s)", len(violations))
			}
			fmt.Fprintf(out, "%s: ok (%d paths)\n", source, len(doc.Paths()))
			return nil
		},
	}
}

func lintContract(doc *contract.Contract, kinds *documents.Registry) []string {
	required := map[string]string{
		"/health":                 "GET",
		"/get_candidates_by_name": "POST",
	}
	for _, name := range kinds.List() {
		kind, err := kinds.Get(name)
		if err != nil {
			continue
		}
		required[kind.Endpoint] = "POST"
	}

	declared := make(map[string]struct{})
	for _, path := range doc.Paths() {
		declared[path] = struct{}{}
	}

	var violations []string
	for path, method := range required {
		if _, ok := declared[path]; !ok {
			violations = append(violations, fmt.Sprintf("missing %s %s", method, path))
		}
	}
	sort.Strings(violations)
	return violations
}
